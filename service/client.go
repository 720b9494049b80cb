package service

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

	"cinemox-cli/model"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "http://localhost:8080/api"
	defaultUserAgent   = "cinemox-cli"
	defaultTimeout     = 12 * time.Second
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	maxBodyBytes       = 4 << 20

	fallbackMessage = "Something went wrong"
)

// ErrSessionExpired is returned on HTTP 401 to an authenticated request,
// after the unauthorized handler dropped the stored token.
var ErrSessionExpired = errors.New("Session expired. Please login again.")

// Client wraps HTTP access to the Cinemox REST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	token          func() string
	onUnauthorized func()
	maxAttempts    int
	retryBase      time.Duration
	retryCap       time.Duration
	logger         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets where the bearer token is read from before every request.
func WithToken(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithUnauthorizedHandler runs fn when the API answers 401, before
// ErrSessionExpired is returned.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithRetry(maxAttempts int, base time.Duration, cap time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
		c.retryBase = base
		c.retryCap = cap
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// APIError is returned when the API responds with a non-2xx status or with
// a success=false envelope on a read.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil || strings.TrimSpace(e.Message) == "" {
		return fallbackMessage
	}
	return e.Message
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized reports whether the request was rejected for a missing or
// expired token.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// NewClient creates a new API client. If httpClient is nil, a default client is used.
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// getData GETs path and decodes the envelope's data into out.
func (c *Client) getData(ctx context.Context, path string, out any) error {
	_, err := c.sendData(ctx, http.MethodGet, path, nil, out)
	return err
}

// sendData is getData for any method. A success=false envelope becomes an
// APIError carrying the server message; on success the message is returned.
func (c *Client) sendData(ctx context.Context, method string, path string, body any, out any) (string, error) {
	env, err := c.do(ctx, method, path, body, nil)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", &APIError{StatusCode: http.StatusOK, Status: "200 OK", Endpoint: path, Message: env.Message}
	}
	return env.Message, decodeData(path, env.Data, out)
}

func decodeData(path string, data json.RawMessage, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// do sends one logical request. Reads are retried on 429, 5xx and network
// errors; writes are sent exactly once.
func (c *Client) do(ctx context.Context, method string, path string, body any, header http.Header) (model.Envelope, error) {
	endpoint := c.baseURL + path

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return model.Envelope{}, fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}

	maxAttempts := c.maxAttempts
	if maxAttempts < 1 || method != http.MethodGet {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return model.Envelope{}, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		if c.token != nil {
			if token := strings.TrimSpace(c.token()); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		start := time.Now()
		res, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return model.Envelope{}, waitErr
				}
				continue
			}
			return model.Envelope{}, fmt.Errorf("request failed: %w", err)
		}

		raw, readErr := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes+1))
		_ = res.Body.Close()
		if readErr == nil && len(raw) > maxBodyBytes {
			readErr = fmt.Errorf("response exceeds %d bytes", maxBodyBytes)
			raw = nil
		}
		c.logger.Debug("request completed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.Int("attempt", attempt),
			zap.Duration("latency", time.Since(start)),
		)

		if res.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" {
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return model.Envelope{}, ErrSessionExpired
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Message:    parseEnvelope(raw).Message,
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return model.Envelope{}, waitErr
				}
				continue
			}
			return model.Envelope{}, apiErr
		}
		if readErr != nil {
			return model.Envelope{}, fmt.Errorf("read response from %s: %w", endpoint, readErr)
		}
		return parseEnvelope(raw), nil
	}

	return model.Envelope{}, errors.New("request failed after retries")
}

// parseEnvelope never fails: an empty or non-JSON body reads as success, and
// a JSON value that is not an envelope becomes the data of a successful one.
func parseEnvelope(raw []byte) model.Envelope {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return model.Envelope{Success: true}
	}
	if trimmed[0] != '{' {
		return model.Envelope{Success: true, Data: json.RawMessage(trimmed)}
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return model.Envelope{Success: true}
	}
	if _, ok := probe["success"]; !ok {
		env := model.Envelope{Success: true, Data: json.RawMessage(trimmed)}
		if msg, ok := probe["message"]; ok {
			_ = json.Unmarshal(msg, &env.Message)
		}
		return env
	}
	var env model.Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return model.Envelope{Success: true}
	}
	return env
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
