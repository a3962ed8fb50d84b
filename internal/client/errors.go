package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jask/adlens/internal/analysis"
)

// rejected maps a non-2xx response. The server's message is surfaced verbatim
// when the body is JSON and carries one.
func rejected(resp *http.Response) *analysis.ErrorInfo {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Message string `json:"message"`
	}
	msg := analysis.MsgServerError
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		msg = payload.Message
	}
	return analysis.NewError(analysis.CategoryServerRejected, msg)
}

// noResponse covers a request that went out and never got an answer: timeouts,
// refused connections, resets. A caller-side cancel is reported apart.
func noResponse(ctx context.Context, err error) *analysis.ErrorInfo {
	if isCancelled(ctx, err) {
		return &analysis.ErrorInfo{Category: analysis.CategoryUnknown, Message: analysis.MsgCancelled, Cause: err}
	}
	return &analysis.ErrorInfo{Category: analysis.CategoryNetwork, Message: analysis.MsgNoResponse, Cause: err}
}
