package booklysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with an optional JSON body and bearer
// token.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// call performs a request and decodes the response into target (when not
// nil) if the status matches expectedStatus.
func (c *Client) call(ctx context.Context, method, path, token string, body, target any, expectedStatus int) error {
	resp, err := c.doRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

// doAuth performs an authenticated call. When the access token is rejected
// as invalid the session refreshes once and retries.
func (s *Session) doAuth(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	err := s.client.call(ctx, method, path, s.AccessToken(), body, target, expectedStatus)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != ErrorCodeInvalidToken || s.RefreshToken() == "" {
		return err
	}

	if _, rerr := s.Refresh(ctx); rerr != nil {
		return err
	}
	return s.client.call(ctx, method, path, s.AccessToken(), body, target, expectedStatus)
}

// decodeJSON decodes a JSON response into target. Returns an *APIError if
// the status is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		if err := parseErrorResponse(resp, bodyBytes); err != nil {
			return err
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if target == nil || len(bodyBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
