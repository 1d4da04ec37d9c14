package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const htmxContextKey contextKey = "htmx.request"

// HTMXInfo is what the console reads from the HX-* request headers.
type HTMXInfo struct {
	Request        bool
	CurrentURL     string
	HistoryRestore bool
}

// HTMX records the HX-* headers on the request context.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := HTMXInfo{
				Request:        headerTrue(r, "HX-Request"),
				CurrentURL:     r.Header.Get("HX-Current-URL"),
				HistoryRestore: headerTrue(r, "HX-History-Restore-Request"),
			}
			// Fragments and documents share URLs.
			w.Header().Add("Vary", "HX-Request")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), htmxContextKey, info)))
		})
	}
}

func headerTrue(r *http.Request, name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(name)), "true")
}

// HTMXInfoFromContext returns the recorded headers, or the zero value.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	info, _ := ctx.Value(htmxContextKey).(HTMXInfo)
	return info
}

// IsHTMXRequest reports whether htmx issued the request. History restores
// need the full document, so they do not count.
func IsHTMXRequest(ctx context.Context) bool {
	info := HTMXInfoFromContext(ctx)
	return info.Request && !info.HistoryRestore
}

// RequireHTMX answers 404 to anything but htmx requests so fragment routes
// stay hidden from direct navigation.
func RequireHTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsHTMXRequest(r.Context()) {
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PushURL asks htmx to record target in the browser history.
func PushURL(w http.ResponseWriter, target string) {
	w.Header().Set("HX-Push-Url", target)
}

// Redirect sends htmx requests an HX-Redirect and everything else a 303.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
