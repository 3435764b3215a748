package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/polkiloo/orderservice/internal/metrics"
)

const maxResponseBytes = 1 << 20

// ErrUnavailable is returned while the circuit breaker for a downstream is open.
var ErrUnavailable = gobreaker.ErrOpenState

// StatusError is a non-2xx answer from a downstream service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("downstream responded with status %d", e.StatusCode)
}

// Options tune a downstream client.
type Options struct {
	Timeout        time.Duration
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
	Transport      http.RoundTripper
}

// Client sends JSON requests to one downstream service. Each call is a single
// attempt; the breaker only short-circuits calls while the service is failing.
type Client struct {
	name       string
	baseURL    *url.URL
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// New validates baseURL and builds a client named name.
func New(name, baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s url: %w", name, err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("%s url must be absolute", name)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	var otelOpts []otelhttp.Option
	if opts.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(opts.TracerProvider))
	}

	c := &Client{
		name:    name,
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport, otelOpts...),
		},
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isSuccessful,
		IsExcluded:   isCallerGone,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("downstream breaker state changed",
				slog.String("downstream", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			opts.Metrics.BreakerState(name, int(to))
		},
	})
	return c, nil
}

// Do sends body as JSON to the base URL joined with segments and decodes a 2xx
// JSON answer into out. Segments are expected to be path escaped.
func (c *Client) Do(ctx context.Context, method, token string, body, out any, segments ...string) error {
	payload, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.roundTrip(ctx, method, token, body, segments)
		if err != nil && ctx.Err() != nil {
			return nil, &callerGoneError{err: err}
		}
		return data, err
	})
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, token string, body any, segments []string) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(segments...)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", c.name, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
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
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.DebugContext(ctx, "downstream request failed",
			slog.String("downstream", c.name),
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: extractMessage(data)}
	}
	return data, nil
}

// isSuccessful keeps client errors from tripping the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError
}

// callerGoneError marks a failure caused by the caller's own context ending.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }

func (e *callerGoneError) Unwrap() error { return e.err }

// isCallerGone keeps cancelled or expired callers out of the breaker counts.
func isCallerGone(err error) bool {
	var gone *callerGoneError
	return errors.As(err, &gone)
}

func extractMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
