// Package oa is the low-level client for the control plane ("OA"). Every
// inbound webhook names the controller to call back into via the
// aps-controller-uri header, so a Client is built per request and carries
// that request's correlation and signing context with it.
package oa

import (
	"bytes"         // bytes rebuilds the request body on each retry
	"context"       // context bounds every outbound call
	"encoding/json" // json encodes bodies and decodes responses
	"fmt"           // fmt formats errors
	"io"            // io drains response bodies
	"net/http"      // http performs the calls
	"strings"       // strings joins URL parts
	"time"          // time sets the per-call timeout

	"github.com/iliyamo/box-connector/internal/utils" // request signing
)

// CommunicationError is returned when the control plane answers with a
// non-retryable status, or keeps answering 400 until the retry bound is
// exhausted. It carries the upstream status and body for diagnosis.
type CommunicationError struct {
	Status int
	Body   string
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("request to OA failed. OA responded with code %d\n%s", e.Status, e.Body)
}

// Client calls the control plane on behalf of one inbound webhook. It signs
// every request with the consumer key the webhook carried, forwards the
// webhook's transaction id, and retries 400 responses, which the control
// plane emits transiently while its own transaction state settles.
type Client struct {
	BaseURL        string // aps-controller-uri of the inbound request
	TransactionID  string // aps-transaction-id of the inbound request
	ConsumerKey    string // signing key echoed from the inbound request
	ConsumerSecret string // shared secret from configuration
	RetryLimit     int    // bound on 400 retries; values < 1 mean one attempt
	HTTP           *http.Client
}

// NewClient builds a control-plane client for one request context.
func NewClient(controllerURI, transactionID, consumerKey, consumerSecret string, timeout time.Duration, retryLimit int) *Client {
	return &Client{
		BaseURL:        controllerURI,
		TransactionID:  transactionID,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		RetryLimit:     retryLimit,
		HTTP:           &http.Client{Timeout: timeout},
	}
}

// GetResource fetches a single resource record by its APS identifier.
func (c *Client) GetResource(ctx context.Context, resourceID string) (map[string]any, error) {
	raw, err := c.Send(ctx, http.MethodGet, "aps/2/resources/"+resourceID, nil, "")
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("oa: resource %s: decoding response: %w", resourceID, err)
	}
	return rec, nil
}

// GetCollection runs an RQL query and returns the matching resource records.
func (c *Client) GetCollection(ctx context.Context, rql string) ([]map[string]any, error) {
	raw, err := c.Send(ctx, http.MethodGet, rql, nil, "")
	if err != nil {
		return nil, err
	}
	var recs []map[string]any
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("oa: collection %s: decoding response: %w", rql, err)
	}
	return recs, nil
}

// Send issues one call against the control plane. A non-empty impersonateAs
// is forwarded as the acting resource id, which OA uses to scope queries and
// writes to that resource's view. Only a 200 counts as success; a 400 is
// retried up to the limit with no backoff, anything else fails immediately.
func (c *Client) Send(ctx context.Context, method, path string, body any, impersonateAs string) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("oa: encoding request body: %w", err)
		}
	}

	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")

	attempts := c.RetryLimit
	if attempts < 1 {
		attempts = 1
	}

	var last *CommunicationError
	for i := 0; i < attempts; i++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("oa: building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.TransactionID != "" {
			req.Header.Set("aps-transaction-id", c.TransactionID)
		}
		if impersonateAs != "" {
			req.Header.Set("aps-resource-id", impersonateAs)
		}
		if c.ConsumerKey != "" {
			if err := utils.SignRequest(req, c.ConsumerKey, c.ConsumerSecret); err != nil {
				return nil, fmt.Errorf("oa: signing request: %w", err)
			}
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, fmt.Errorf("oa: %s %s: %w", method, url, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("oa: reading response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return data, nil
		}
		last = &CommunicationError{Status: resp.StatusCode, Body: string(data)}
		if resp.StatusCode != http.StatusBadRequest {
			return nil, last
		}
	}
	return nil, last
}
