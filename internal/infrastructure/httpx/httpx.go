package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"swapquote-service/internal/domain"
)

const maxBodyBytes = 8 << 20

// Client performs single-attempt JSON requests and reports failures as
// domain.NetworkError or domain.APIError.
type Client struct {
	HTTP *http.Client
}

// GetJSONArray GETs url and decodes a top-level JSON array into out. A body
// that is not an array is an APIError wrapping domain.ErrInvalidPayload.
func (c *Client) GetJSONArray(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("httpx: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &domain.APIError{Status: resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransport(ctx, err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return invalidFormat(nil)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return invalidFormat(err)
	}
	return nil
}

func invalidFormat(cause error) error {
	err := domain.ErrInvalidPayload
	if cause != nil {
		err = fmt.Errorf("%w: %v", domain.ErrInvalidPayload, cause)
	}
	return &domain.APIError{Msg: "Invalid response format", Err: err}
}

func classifyTransport(ctx context.Context, err error) error {
	var ne net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &domain.NetworkError{Msg: "Request timeout", Err: err}
	}
	return &domain.NetworkError{Msg: "Failed to fetch data", Err: err}
}
