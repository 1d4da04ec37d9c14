package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/content"
	"github.com/samounneang/asatec-vercel/internal/forms"
	"github.com/samounneang/asatec-vercel/internal/httpserver"
	"github.com/samounneang/asatec-vercel/internal/session"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.BasePath = path
	}
}

// WithThrottle replaces the contact form throttle.
func WithThrottle(throttle *forms.Throttle) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Throttle = throttle
	}
}

// WithContentDir points the page fallback at dir.
func WithContentDir(dir string) ServerOption {
	return func(cfg *httpserver.Config) {
		source, _ := cfg.API.(content.PageSource)
		cfg.Content = content.NewLoader(source, dir, nil)
	}
}

// WithLogger routes server logs to logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// WithTrustProxy makes the server honour X-Forwarded-For.
func WithTrustProxy() ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.TrustProxy = true
	}
}

// NewServer constructs an httptest server running the full HTTP stack
// against upstream.
func NewServer(t testing.TB, upstream *Upstream, opts ...ServerOption) *httptest.Server {
	t.Helper()

	client, err := apiclient.New(apiclient.Options{
		SiteOrigin:     "https://www.asatec.example",
		UpstreamOrigin: upstream.URL,
		HTTPClient:     upstream.Client(),
	})
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	sessions, err := session.NewManager(session.Config{})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	cfg := httpserver.Config{
		Address:     ":0",
		BasePath:    "/admin",
		Environment: "test",
		API:         client,
		Sessions:    sessions,
		Caches:      session.NewCacheRegistry(sessions.IdleTimeout()),
		Content:     content.NewLoader(client, t.TempDir(), nil),
		Throttle:    forms.NewThrottle(60, 10),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("http server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client that keeps cookies and does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
