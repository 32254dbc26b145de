// Package effectors provides the built-in effector implementations: HTTP
// transport, file writes, a bounded shell runner and log-backed substitutes
// for the desktop automations.
package effectors

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/voxflow/voxflow/pkg/protocol"
)

const httpTimeout = 30 * time.Second

// HTTPCaller implements the HTTP effector on net/http.
type HTTPCaller struct {
	client *http.Client
}

func NewHTTPCaller() *HTTPCaller {
	return &HTTPCaller{client: &http.Client{Timeout: httpTimeout}}
}

func (h *HTTPCaller) Call(ctx context.Context, req protocol.HTTPRequest) (*protocol.HTTPResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &protocol.HTTPResponse{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}

var _ protocol.HTTPCaller = (*HTTPCaller)(nil)
