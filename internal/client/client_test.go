package client

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jask/adlens/internal/analysis"
	"github.com/jask/adlens/internal/testdata"
)

type capture struct {
	mu       sync.Mutex
	method   string
	path     string
	ctype    string
	reqID    string
	fields   map[string]string
	fileMIME map[string]string
	body     []byte
}

func recordingServer(t *testing.T, status int, reply string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{fields: map[string]string{}, fileMIME: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.method = r.Method
		c.path = r.URL.Path
		c.ctype = r.Header.Get("Content-Type")
		c.reqID = r.Header.Get("X-Request-ID")
		if strings.HasPrefix(c.ctype, "multipart/") {
			if err := r.ParseMultipartForm(32 << 20); err == nil {
				for field, files := range r.MultipartForm.File {
					c.fields[field] = files[0].Filename
					c.fileMIME[field] = files[0].Header.Get("Content-Type")
				}
			}
		} else {
			c.body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func build(t *testing.T, id string, primary, secondary *analysis.SelectedFile, params analysis.FetchParams) analysis.Request {
	t.Helper()
	mode, ok := analysis.ModeByID(id)
	require.True(t, ok, "mode %s", id)
	req, err := analysis.Build(mode, primary, secondary, params)
	require.NoError(t, err)
	return req
}

func TestEndpointForEveryMode(t *testing.T) {
	want := map[string]string{
		"qc":                 "/ads/qc",
		"crm":                "/ads/analysis",
		"competitor-single":  "/competitor/analyze",
		"competitor-batch":   "/competitor/batch",
		"competitor-compare": "/competitor/compare",
		"fetch-ads":          "/fetch-ads",
	}
	for _, m := range analysis.Modes() {
		assert.Equal(t, want[m.ID], Endpoint(m.Operation), m.ID)
	}
}

func TestDispatchQCSendsImageAndPRD(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, testdata.PassBody)
	c := New(Options{BaseURL: srv.URL + "/api/"})

	img := analysis.FileFromBytes("ad.png", testdata.PNG(4, 4))
	prd := analysis.FileFromBytes("prd.pdf", testdata.PDF(1))
	out := c.Dispatch(context.Background(), build(t, "qc", img, prd, analysis.FetchParams{}))

	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	assert.JSONEq(t, testdata.PassBody, string(out.Body))

	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/ads/qc", got.path)
	assert.Contains(t, got.ctype, "multipart/form-data")
	assert.NotEmpty(t, got.reqID)
	assert.Equal(t, map[string]string{"image": "ad.png", "prd": "prd.pdf"}, got.fields)
	assert.Equal(t, "image/png", got.fileMIME["image"])
	assert.Equal(t, "application/pdf", got.fileMIME["prd"])
}

func TestDispatchBatchUsesImagesField(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, `{"ok":true}`)
	c := New(Options{BaseURL: srv.URL})

	img := analysis.FileFromBytes("a.jpg", testdata.JPEG(4, 4))
	out := c.Dispatch(context.Background(), build(t, "competitor-batch", img, nil, analysis.FetchParams{}))

	require.True(t, out.OK())
	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, "/competitor/batch", got.path)
	assert.Equal(t, map[string]string{"images": "a.jpg"}, got.fields)
}

func TestDispatchFetchAdsSendsJSON(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, `{"ads":[]}`)
	c := New(Options{BaseURL: srv.URL})

	req := build(t, "fetch-ads", nil, nil, analysis.FetchParams{Keyword: "shoes", Platform: "meta", Limit: 5})
	out := c.Dispatch(context.Background(), req)

	require.True(t, out.OK())
	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, "/fetch-ads", got.path)
	assert.Equal(t, "application/json", got.ctype)
	var params map[string]any
	require.NoError(t, json.Unmarshal(got.body, &params))
	assert.Equal(t, "shoes", params["keyword"])
	assert.Equal(t, "meta", params["platform"])
	assert.EqualValues(t, 5, params["limit"])
}

func TestDispatchServerRejection(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "server message", status: http.StatusInternalServerError, body: `{"message":"bad input"}`, want: "bad input"},
		{name: "no message", status: http.StatusBadRequest, body: `{"error":"x"}`, want: analysis.MsgServerError},
		{name: "blank message", status: http.StatusBadRequest, body: `{"message":"  "}`, want: analysis.MsgServerError},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, want: analysis.MsgServerError},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"token expired"}`, want: "token expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := recordingServer(t, tt.status, tt.body)
			c := New(Options{BaseURL: srv.URL})
			img := analysis.FileFromBytes("ad.png", testdata.PNG(2, 2))

			out := c.Dispatch(context.Background(), build(t, "competitor-single", img, nil, analysis.FetchParams{}))

			require.False(t, out.OK())
			assert.Equal(t, analysis.CategoryServerRejected, out.Err.Category)
			assert.Equal(t, tt.want, out.Err.Message)
			assert.Nil(t, out.Body)
		})
	}
}

func TestDispatchLogsUnauthorized(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	srv, _ := recordingServer(t, http.StatusUnauthorized, `{}`)
	c := New(Options{BaseURL: srv.URL, Logger: zap.New(core)})
	img := analysis.FileFromBytes("ad.png", testdata.PNG(2, 2))

	c.Dispatch(context.Background(), build(t, "qc", img, nil, analysis.FetchParams{}))

	assert.Equal(t, 1, logs.FilterMessage("unauthorized access").Len())
}

func TestDispatchTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	img := analysis.FileFromBytes("ad.png", testdata.PNG(2, 2))

	start := time.Now()
	out := c.Dispatch(context.Background(), build(t, "qc", img, nil, analysis.FetchParams{}))

	require.False(t, out.OK())
	assert.Equal(t, analysis.CategoryNetwork, out.Err.Category)
	assert.Equal(t, analysis.MsgNoResponse, out.Err.Message)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDispatchConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := New(Options{BaseURL: "http://" + addr})
	img := analysis.FileFromBytes("ad.png", testdata.PNG(2, 2))
	out := c.Dispatch(context.Background(), build(t, "qc", img, nil, analysis.FetchParams{}))

	require.False(t, out.OK())
	assert.Equal(t, analysis.CategoryNetwork, out.Err.Category)
	assert.Equal(t, analysis.MsgNoResponse, out.Err.Message)
}

func TestDispatchCancelled(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the server only notices the dropped connection once the body is consumed
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := New(Options{BaseURL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	img := analysis.FileFromBytes("ad.png", testdata.PNG(2, 2))
	out := c.Dispatch(ctx, build(t, "qc", img, nil, analysis.FetchParams{}))

	require.False(t, out.OK())
	assert.Equal(t, analysis.CategoryUnknown, out.Err.Category)
	assert.Equal(t, analysis.MsgCancelled, out.Err.Message)
}

func TestDispatchFilenameQuoting(t *testing.T) {
	names := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		names <- p.FileName()
		_, _ = io.Copy(io.Discard, p)
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	name := "ad\t\"final\" v2.png"
	c := New(Options{BaseURL: srv.URL})
	img := analysis.FileFromBytes(name, testdata.PNG(2, 2))
	out := c.Dispatch(context.Background(), build(t, "competitor-single", img, nil, analysis.FetchParams{}))

	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	assert.Equal(t, name, <-names)
}

func TestDispatchUnreadableFileIsLocalError(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, `{}`)
	c := New(Options{BaseURL: srv.URL})

	broken := &analysis.SelectedFile{Name: "gone.png", Size: 10, MIME: "image/png", Kind: analysis.KindImage}
	out := c.Dispatch(context.Background(), build(t, "qc", broken, nil, analysis.FetchParams{}))

	require.False(t, out.OK())
	assert.Equal(t, analysis.CategoryUnknown, out.Err.Category)
	assert.Contains(t, out.Err.Message, "gone.png")
	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Empty(t, got.path, "nothing should reach the server")
}

type fakeRecorder struct {
	mu       sync.Mutex
	started  []string
	finished []string
}

func (f *fakeRecorder) StartDispatch(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, op)
}

func (f *fakeRecorder) FinishDispatch(op, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, op+":"+outcome)
}

func TestDispatchRecordsMetrics(t *testing.T) {
	ok, _ := recordingServer(t, http.StatusOK, `{}`)
	bad, _ := recordingServer(t, http.StatusBadRequest, `{}`)
	rec := &fakeRecorder{}
	img := analysis.FileFromBytes("ad.png", testdata.PNG(2, 2))

	New(Options{BaseURL: ok.URL, Metrics: rec}).Dispatch(context.Background(), build(t, "qc", img, nil, analysis.FetchParams{}))
	New(Options{BaseURL: bad.URL, Metrics: rec}).Dispatch(context.Background(), build(t, "crm", img, nil, analysis.FetchParams{}))

	assert.Equal(t, []string{"qc", "crm_analysis"}, rec.started)
	assert.Equal(t, []string{"qc:success", "crm_analysis:server_rejected"}, rec.finished)
}

func TestInsights(t *testing.T) {
	srv, got := recordingServer(t, http.StatusOK, `{"category":"shoes","insights":[]}`)
	c := New(Options{BaseURL: srv.URL + "/api"})

	out := c.Insights(context.Background(), "running shoes")

	require.True(t, out.OK())
	assert.Contains(t, string(out.Body), `"insights"`)
	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/competitor/insights/running shoes", got.path)
}

func TestInsightsRequiresCategory(t *testing.T) {
	out := New(Options{}).Insights(context.Background(), "  ")
	require.False(t, out.OK())
	assert.Equal(t, analysis.CategoryValidation, out.Err.Category)
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	shared := &http.Client{Timeout: time.Hour}
	c = New(Options{HTTPClient: shared, Timeout: time.Second})
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.Equal(t, time.Hour, shared.Timeout)
}
