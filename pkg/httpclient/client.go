package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Error codes for normalized API errors
const (
	CodeTimeout      = "TIMEOUT"
	CodeNetworkError = "NETWORK_ERROR"
	CodeHTTPError    = "HTTP_ERROR"
	CodeUnknown      = "UNKNOWN_ERROR"
)

// APIError is the normalized error returned for every failed request
type APIError struct {
	Message string          `json:"message"`
	Status  int             `json:"status,omitempty"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// IsTimeout reports whether err is a normalized timeout error
func IsTimeout(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeTimeout
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Client is a thin JSON REST client with normalized error reporting
type Client struct {
	baseURL        string
	defaultHeaders map[string]string
	timeout        time.Duration
	httpClient     *http.Client
}

// New creates a new client. The zero timeout defaults to 10 seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		defaultHeaders: headers,
		timeout:        timeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// RequestOptions carries optional per-request settings
type RequestOptions struct {
	Params  url.Values
	Headers map[string]string
	Timeout time.Duration
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}, opts *RequestOptions) error {
	timeout := c.timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if opts != nil && len(opts.Params) > 0 {
		reqURL += "?" + opts.Params.Encode()
	}

	var reqBody io.Reader
	if body != nil && method != http.MethodGet {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("failed to encode request body: %v", err), Code: CodeUnknown}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return &APIError{Message: err.Error(), Code: CodeUnknown}
	}

	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return normalizeTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return normalizeTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{
			Message: fmt.Sprintf("failed to decode response: %v", err),
			Status:  resp.StatusCode,
			Code:    CodeUnknown,
		}
	}

	return nil
}

// newStatusError builds a normalized error for a non-2xx response,
// lifting message/code from a JSON error body when present
func newStatusError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Message: fmt.Sprintf("request failed with status %d", status),
		Status:  status,
		Code:    CodeHTTPError,
	}

	var parsed struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
		if parsed.Code != "" {
			apiErr.Code = parsed.Code
		}
	}
	if len(body) > 0 && json.Valid(body) {
		apiErr.Data = json.RawMessage(body)
	}

	return apiErr
}

func normalizeTransportError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Message: "request timeout", Code: CodeTimeout}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &APIError{Message: "request timeout", Code: CodeTimeout}
	}
	return &APIError{Message: err.Error(), Code: CodeNetworkError}
}

// Get performs a GET request and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}, opts *RequestOptions) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out, opts)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}, opts *RequestOptions) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out, opts)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, endpoint string, body, out interface{}, opts *RequestOptions) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out, opts)
}

// Patch performs a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, endpoint string, body, out interface{}, opts *RequestOptions) error {
	return c.do(ctx, http.MethodPatch, endpoint, body, out, opts)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, endpoint string, out interface{}, opts *RequestOptions) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out, opts)
}
