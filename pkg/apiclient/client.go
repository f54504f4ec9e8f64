package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 10 << 20
)

// Observer receives one call per completed upstream request. Status is 0 when no
// response arrived.
type Observer func(method, path string, status int, duration time.Duration)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Jar        http.CookieJar
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client talks to the platform REST API. It always carries a cookie jar so the session
// cookie issued at login travels with every subsequent request.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// Options describes a single request.
type Options struct {
	Method  string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// New constructs a Client. A fresh cookie jar is created when none is supplied.
func New(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	jar := cfg.Jar
	if jar == nil {
		var err error
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	httpClient.Jar = jar

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  timeout,
		http:     httpClient,
		observer: cfg.Observer,
		logger:   logger,
	}, nil
}

// BaseURL returns the configured platform base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Jar exposes the client's cookie jar.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// Get issues a GET request, serializing params into the query string.
func Get[T any](ctx context.Context, c *Client, path string, params url.Values) (*Envelope[T], error) {
	return Request[T](ctx, c, path, Options{Method: http.MethodGet, Query: params})
}

// Post issues a POST request with an optional JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body interface{}) (*Envelope[T], error) {
	return Request[T](ctx, c, path, Options{Method: http.MethodPost, Body: body})
}

// Put issues a PUT request with an optional JSON body.
func Put[T any](ctx context.Context, c *Client, path string, body interface{}) (*Envelope[T], error) {
	return Request[T](ctx, c, path, Options{Method: http.MethodPut, Body: body})
}

// Patch issues a PATCH request with an optional JSON body.
func Patch[T any](ctx context.Context, c *Client, path string, body interface{}) (*Envelope[T], error) {
	return Request[T](ctx, c, path, Options{Method: http.MethodPatch, Body: body})
}

// Delete issues a DELETE request.
func Delete[T any](ctx context.Context, c *Client, path string) (*Envelope[T], error) {
	return Request[T](ctx, c, path, Options{Method: http.MethodDelete})
}

// Request is the routine every verb helper goes through. It applies the default headers,
// the client timeout and the error normalization.
func Request[T any](ctx context.Context, c *Client, path string, opts Options) (*Envelope[T], error) {
	raw, status, err := c.do(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	env := &Envelope[T]{
		Success:    raw.Success,
		Message:    raw.Message,
		Error:      raw.Error,
		Timestamp:  raw.Timestamp,
		StatusCode: raw.StatusCode,
	}
	if raw.hasData() {
		var data T
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			c.logger.Warn("upstream payload does not match expected shape",
				zap.String("path", path),
				zap.Int("status", status),
				zap.Error(err),
			)
			return nil, &Error{Status: status, Message: msgInvalidJSON, Err: err}
		}
		env.Data = &data
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, path string, opts Options) (rawEnvelope, int, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return rawEnvelope{}, 0, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return rawEnvelope{}, 0, &Error{Status: 0, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(ctx, err)
		c.observe(method, path, 0, time.Since(start))
		c.logger.Debug("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("reason", apiErr.Message),
		)
		return rawEnvelope{}, 0, apiErr
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(method, path, resp.StatusCode, time.Since(start))
	c.logger.Debug("upstream request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if err != nil {
		return rawEnvelope{}, resp.StatusCode, transportError(ctx, err)
	}

	var raw rawEnvelope
	if !json.Valid(payload) {
		return rawEnvelope{}, resp.StatusCode, &Error{Status: resp.StatusCode, Message: msgInvalidJSON}
	}
	decodeErr := json.Unmarshal(payload, &raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: msgFailed}
		if decodeErr == nil {
			if raw.Message != "" {
				apiErr.Message = raw.Message
			}
			if raw.Error != nil {
				apiErr.Code = raw.Error.Code
			}
		}
		return rawEnvelope{}, resp.StatusCode, apiErr
	}

	if decodeErr != nil {
		return rawEnvelope{}, resp.StatusCode, &Error{Status: resp.StatusCode, Message: msgInvalidJSON, Err: decodeErr}
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	c.observer(method, path, status, d)
}

func transportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Status: 0, Message: msgTimeout, Err: err}
	}

	message := msgNetwork
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		message = urlErr.Err.Error()
	} else if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return &Error{Status: 0, Message: message, Err: err}
}
