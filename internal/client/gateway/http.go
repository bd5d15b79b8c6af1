package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flashdeck/flashdeck-go/internal/logging"
)

// HTTPGateway is the net/http implementation of Gateway.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	log     logging.Logger
}

// NewHTTPGateway returns a gateway that sends requests to baseURL using
// client. A nil client falls back to http.DefaultClient.
func NewHTTPGateway(baseURL string, client *http.Client, log logging.Logger) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client, log: log}
}

func (g *HTTPGateway) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, g.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	g.log.Debug(ctx, "remote call", "method", req.Method, "path", req.Path, "status", resp.StatusCode)

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
