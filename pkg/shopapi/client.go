// Package shopapi wraps the remote shop API that owns products, orders
// and authentication. The storefront is purely a presentation and state
// layer over this API; nothing here is authoritative.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kiranalabs/storefront/pkg/config"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/metrics"
)

const responseBodyReadLimit int64 = 1 << 20

var errBaseURLRequired = errors.New("shop api base url is required")

// Client is the HTTP wrapper over the shop API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.StorefrontMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics wires request counters into the client.
func WithMetrics(m *metrics.StorefrontMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the shop API client from configuration.
func NewClient(cfg config.ShopAPIConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// successEnvelope mirrors the shop API's {"data": ...} wrapper.
type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.count(endpoint, "transport_error")
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "calling shop api")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		c.count(endpoint, "read_error")
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "reading shop api response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count(endpoint, "error")
		return mapStatusError(resp.StatusCode, payload)
	}

	c.count(endpoint, "ok")

	if out == nil {
		return nil
	}

	var envelope successEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding shop api envelope")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding shop api payload")
	}
	return nil
}

// mapStatusError converts an upstream failure into a coded error, keeping
// the upstream message verbatim so the UI can surface it.
func mapStatusError(status int, payload []byte) error {
	message := fmt.Sprintf("shop api returned status %d", status)
	var envelope errorEnvelope
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}

	switch status {
	case http.StatusBadRequest:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	case http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, message)
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeConflict, message)
	case http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeStateConflict, message)
	}
	return pkgerrors.New(pkgerrors.CodeUpstream, message)
}

func (c *Client) count(endpoint, result string) {
	if c.metrics != nil {
		c.metrics.IncUpstream(endpoint, result)
	}
}
