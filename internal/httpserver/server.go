package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/content"
	"github.com/samounneang/asatec-vercel/internal/forms"
	custommw "github.com/samounneang/asatec-vercel/internal/httpserver/middleware"
	"github.com/samounneang/asatec-vercel/internal/httpserver/ui"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
	"github.com/samounneang/asatec-vercel/internal/session"
	"github.com/samounneang/asatec-vercel/public"
)

const defaultRequestTimeout = 60 * time.Second

// API is the catalog client surface the server needs.
type API interface {
	ui.API
	Login(ctx context.Context, email, password string) (catalog.LoginResult, error)
}

// Config holds runtime options for the HTTP server.
type Config struct {
	Address      string
	BasePath     string
	LoginPath    string
	Environment  string
	CookieSecure bool
	// TrustProxy lets RealIP rewrite RemoteAddr from X-Forwarded-For. The
	// contact throttle keys on RemoteAddr, so leave it off unless a trusted
	// proxy overwrites the header.
	TrustProxy bool

	API      API
	Sessions custommw.SessionStore
	Caches   *session.CacheRegistry
	Content  *content.Loader
	Throttle *forms.Throttle
	Logger   *zap.Logger

	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	basePath := custommw.NormalizeBase(cfg.BasePath)
	if basePath == "/" {
		basePath = "/admin"
	}
	loginPath := resolveLoginPath(basePath, cfg.LoginPath)

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	if cfg.TrustProxy {
		router.Use(chimw.RealIP)
	}
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.Recoverer(logger))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(requestTimeout))

	router.Get("/healthz", healthz)
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	handlers := ui.NewHandlers(ui.Dependencies{
		API:      cfg.API,
		Content:  cfg.Content,
		Throttle: cfg.Throttle,
		BasePath: basePath,
		Logger:   logger,
	})
	auth := newAuthHandlers(cfg.API, basePath, loginPath, cfg.CookieSecure)

	router.Group(func(r chi.Router) {
		r.Use(custommw.Session(cfg.Sessions, cfg.Caches))
		r.Use(custommw.CSRF())
		r.Use(custommw.HTMX())
		r.Use(custommw.RequestInfoMiddleware(basePath, cfg.Environment))

		mountSiteRoutes(r, handlers)
		mountAdminRoutes(r, basePath, handlers, auth, loginPath)
		r.NotFound(handlers.NotFound)
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  durationOr(cfg.IdleTimeout, 120*time.Second),
	}, nil
}

func mountSiteRoutes(r chi.Router, h *ui.Handlers) {
	r.Get("/", h.Home)
	r.Get("/products", h.Products)
	r.Get("/products/{id}", h.ProductDetail)
	r.Get("/media", h.Media)
	r.Get("/media/{id}", h.MediaDetail)
	r.Get("/cases", h.Cases)
	r.Get("/cases/{id}", h.CaseDetail)
	r.Get("/pages/{page}", h.Page)
	r.Get("/search", h.Search)
	r.Get("/contact", h.Contact)
	r.Post("/contact", h.SubmitContact)
	r.Post("/newsletter", h.Newsletter)
}

func mountAdminRoutes(router chi.Router, base string, h *ui.Handlers, auth *authHandlers, loginPath string) {
	router.With(custommw.NoStore(), custommw.Auth(loginPath)).Get(base, h.AdminPage)

	router.Route(base, func(r chi.Router) {
		r.Use(custommw.NoStore())

		r.Get("/login", auth.LoginForm)
		r.Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(custommw.Auth(loginPath))

			r.Get("/", h.AdminPage)
			r.Get("/{page}", h.AdminPage)
			RegisterFragment(r, "/fragments/{page}", h.AdminFragment)
			r.Post("/products", h.CreateProduct)
			r.Post("/products/{id}/delete", h.DeleteProduct)
			r.Post("/contacts/{id}/delete", h.DeleteContact)
			r.Post("/contacts/mark-all-read", h.MarkAllContactsRead)
			r.Post("/actions/{action}", h.QuickAction)
			r.Post("/cache/clear", h.ClearCache)
		})
	})
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func resolveLoginPath(base string, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return strings.TrimRight(base, "/") + "/login"
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}
