// Package apiclient talks to the catalog REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerName     = "github.com/samounneang/asatec-vercel/internal/apiclient"
	defaultTimeout = 10 * time.Second
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// SiteOrigin is the public origin of the site, used to pick the API root.
	SiteOrigin string
	// UpstreamOrigin anchors the relative root when the site is not a preview host.
	UpstreamOrigin string
	PreviewHosts   []string
	Timeout        time.Duration
	HTTPClient     HTTPClient
	Logger         *zap.Logger
	// Meter records request durations; defaults to the global meter provider.
	Meter metric.Meter
}

// Client issues JSON requests against the API root.
type Client struct {
	base    *url.URL
	http    HTTPClient
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger

	duration metric.Float64Histogram
}

// New resolves the API root and builds a Client.
func New(opts Options) (*Client, error) {
	hosts := opts.PreviewHosts
	if hosts == nil {
		hosts = DefaultPreviewHosts
	}
	upstream := opts.UpstreamOrigin
	if strings.TrimSpace(upstream) == "" {
		upstream = opts.SiteOrigin
	}

	root := ResolveRoot(opts.SiteOrigin, hosts)
	base, err := absoluteRoot(root, upstream)
	if err != nil {
		if errors.Is(err, errUpstreamRequired) {
			return nil, err
		}
		return nil, fmt.Errorf("apiclient: parse API root: %w", err)
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	meter := opts.Meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(tracerName)
	}

	c := &Client{
		base:    base,
		http:    client,
		timeout: timeout,
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}
	hist, err := meter.Float64Histogram("apiclient.request.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency of catalog API round trips"),
	)
	if err != nil {
		logger.Warn("apiclient: request duration metric disabled", zap.Error(err))
	} else {
		c.duration = hist
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get issues a GET with optional query parameters and decodes into out.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, out)
}

// Request performs a single JSON round trip. Non-2xx responses yield
// *HTTPError, transport failures *NetworkError. out may be nil.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "apiclient."+strings.ToLower(method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("api.endpoint", pathOf(endpoint)),
		),
	)
	defer span.End()

	started := time.Now()
	status := "error"
	defer func() {
		c.recordDuration(ctx, method, status, time.Since(started))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newJSONRequest(ctx, method, endpoint, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("endpoint", pathOf(endpoint)),
			zap.Error(err),
		)
		return &NetworkError{Op: method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return errorFromResponse(resp, method, pathOf(endpoint))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		span.RecordError(err)
		return fmt.Errorf("apiclient: decode %s %s: %w", method, pathOf(endpoint), err)
	}
	return nil
}

func (c *Client) recordDuration(ctx context.Context, method, status string, elapsed time.Duration) {
	if c.duration == nil {
		return
	}
	c.duration.Record(context.WithoutCancel(ctx), float64(elapsed)/float64(time.Millisecond),
		metric.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.response.status", status),
		),
	)
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return nil, fmt.Errorf("apiclient: encode payload: %w", err)
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) resolve(endpoint string) string {
	path, rawQuery, _ := strings.Cut(endpoint, "?")
	resolved := c.base.JoinPath(strings.TrimPrefix(path, "/"))
	resolved.RawQuery = rawQuery
	return resolved.String()
}

func pathOf(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	return path
}

type tokenKey struct{}

// WithToken attaches the admin bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, strings.TrimSpace(token))
}

// TokenFromContext returns the bearer token attached by WithToken.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
