package switchbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout bounds every exchange with the vendor API.
const requestTimeout = 30 * time.Second

// Transport performs one HTTP request/response exchange with the vendor API.
// It is stateless; headers are supplied per call by the Session.
type Transport struct {
	httpClient *http.Client
}

func NewTransport() *Transport {
	return &Transport{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// PostJSON sends payload as a JSON POST and returns the raw response body.
// Network failures come back as *TransportError, non-2xx responses as
// *StatusError; callers wrap those into their own error types.
func (t *Transport) PostJSON(ctx context.Context, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
