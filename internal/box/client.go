package box

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iliyamo/box-connector/internal/config"
)

// APIError is any non-2xx answer from the provider. The status code is
// propagated to the webhook response as-is; Message extracts the provider's
// human-readable explanation for it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("box: provider responded %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Message returns the provider's message field with surrounding quotes
// stripped, falling back to the raw body when the payload is not the usual
// error shape.
func (e *APIError) Message() string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.Trim(strings.TrimSpace(e.Body), `"`)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsDuplicateMasterLogin detects the one creation failure the connector
// absorbs: the provider refuses a new enterprise because the administering
// login is already a master login elsewhere. The detail lives in the error's
// context_info block.
func IsDuplicateMasterLogin(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return false
	}
	var body struct {
		ContextInfo struct {
			Errors []struct {
				Reason string `json:"reason"`
				Name   string `json:"name"`
			} `json:"errors"`
		} `json:"context_info"`
	}
	if jsonErr := json.Unmarshal([]byte(apiErr.Body), &body); jsonErr != nil {
		return false
	}
	if len(body.ContextInfo.Errors) == 0 {
		return false
	}
	first := body.ContextInfo.Errors[0]
	return first.Reason == "invalid_parameter" && first.Name == "master_login"
}

// Client issues authenticated JSON calls against the provider API.
type Client struct {
	BaseURL string
	Session *Session
	HTTP    *http.Client
}

// NewClient builds a provider client bound to one request's session.
func NewClient(cfg config.Config, session *Session) *Client {
	return &Client{
		BaseURL: cfg.BoxBaseURL,
		Session: session,
		HTTP:    http.DefaultClient,
	}
}

// do performs one call and decodes the JSON response into a generic record.
// Non-2xx statuses come back as *APIError; an empty body yields a nil record.
func (c *Client) do(ctx context.Context, method, path string, payload map[string]any) (map[string]any, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("box: encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("box: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Session.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("box: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("box: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if len(data) == 0 {
		return nil, nil
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("box: decoding response: %w", err)
	}
	return rec, nil
}
