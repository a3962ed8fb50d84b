// Package client talks to the remote ad-analysis service.
package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/adlens/internal/analysis"
)

// DefaultTimeout bounds every call.
const DefaultTimeout = 30 * time.Second

// DefaultBaseURL is the public deployment of the service.
const DefaultBaseURL = "https://ad-analysis.trou.hackclub.app/api"

const maxBodyBytes = 16 << 20

// Recorder receives dispatch measurements. metrics.Recorder implements it.
type Recorder interface {
	StartDispatch(operation string)
	FinishDispatch(operation, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) StartDispatch(string) {}

func (nopRecorder) FinishDispatch(string, string, time.Duration) {}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    Recorder
}

// Client dispatches analysis requests. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	metrics    Recorder
}

func New(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	// copy so the caller's client keeps its own timeout
	clone := *hc
	clone.Timeout = timeout

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var rec Recorder = nopRecorder{}
	if opts.Metrics != nil {
		rec = opts.Metrics
	}
	return &Client{baseURL: base, httpClient: &clone, log: log.Named("client"), metrics: rec}
}

// Outcome is the normalized result of one dispatch: a raw body or an error.
type Outcome struct {
	Body []byte
	Err  *analysis.ErrorInfo
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

func Success(body []byte) Outcome { return Outcome{Body: body} }

func Failure(e *analysis.ErrorInfo) Outcome { return Outcome{Err: e} }

// Endpoint returns the path of op below the base URL.
func Endpoint(op analysis.Operation) string {
	switch op {
	case analysis.OpQC:
		return "/ads/qc"
	case analysis.OpCRMAnalysis:
		return "/ads/analysis"
	case analysis.OpCompetitorAnalyze:
		return "/competitor/analyze"
	case analysis.OpCompetitorBatch:
		return "/competitor/batch"
	case analysis.OpCompetitorCompare:
		return "/competitor/compare"
	case analysis.OpFetchAds:
		return "/fetch-ads"
	}
	return ""
}

// Dispatch sends req to its endpoint exactly once. It never retries.
func (c *Client) Dispatch(ctx context.Context, req analysis.Request) Outcome {
	op := req.Mode.Operation
	path := Endpoint(op)
	if path == "" {
		return Failure(analysis.NewError(analysis.CategoryUnknown, "no endpoint for mode "+req.Mode.ID))
	}

	body, contentType, err := encode(req)
	if err != nil {
		c.log.Warn("encode request", zap.String("operation", op.String()), zap.Error(err))
		return Failure(&analysis.ErrorInfo{Category: analysis.CategoryUnknown, Message: err.Error(), Cause: err})
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return Failure(&analysis.ErrorInfo{Category: analysis.CategoryUnknown, Message: err.Error(), Cause: err})
	}
	httpReq.Header.Set("Content-Type", contentType)
	return c.do(ctx, httpReq, op.String())
}

// Insights fetches category insights for competitor ads.
func (c *Client) Insights(ctx context.Context, category string) Outcome {
	category = strings.TrimSpace(category)
	if category == "" {
		return Failure(analysis.NewError(analysis.CategoryValidation, "category required"))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/competitor/insights/"+url.PathEscape(category), nil)
	if err != nil {
		return Failure(&analysis.ErrorInfo{Category: analysis.CategoryUnknown, Message: err.Error(), Cause: err})
	}
	return c.do(ctx, httpReq, "competitor_insights")
}

func (c *Client) do(ctx context.Context, httpReq *http.Request, operation string) Outcome {
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")
	log := c.log.With(zap.String("request_id", requestID), zap.String("operation", operation))

	c.metrics.StartDispatch(operation)
	start := time.Now()
	out := c.send(ctx, httpReq, log)
	elapsed := time.Since(start)

	label := "success"
	if out.Err != nil {
		label = out.Err.Category.String()
	}
	c.metrics.FinishDispatch(operation, label, elapsed)
	if out.Err != nil {
		log.Warn("dispatch failed", zap.String("category", label), zap.String("message", out.Err.Message), zap.Duration("elapsed", elapsed))
	} else {
		log.Info("dispatch ok", zap.Int("bytes", len(out.Body)), zap.Duration("elapsed", elapsed))
	}
	return out
}

func (c *Client) send(ctx context.Context, httpReq *http.Request, log *zap.Logger) Outcome {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Failure(noResponse(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn("unauthorized access", zap.Int("status", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failure(rejected(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Failure(noResponse(ctx, err))
	}
	return Success(data)
}

func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.Canceled) && errors.Is(err, context.Canceled)
}
