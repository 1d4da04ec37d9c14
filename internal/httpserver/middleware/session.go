package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/platform/observability"
	"github.com/samounneang/asatec-vercel/internal/respcache"
	"github.com/samounneang/asatec-vercel/internal/session"
)

type sessionContextKey string

const (
	requestSessionKey sessionContextKey = "console.session"
	requestCacheKey   sessionContextKey = "console.cache"
)

// SessionStore abstracts the session manager for middleware integration.
type SessionStore interface {
	Load(*http.Request) (*session.Session, error)
	New() *session.Session
	Save(http.ResponseWriter, *session.Session) error
	Destroy(http.ResponseWriter)
}

// Session attaches the decoded session and its response cache to the request
// context. The cookie is written just before the response headers go out;
// destroyed sessions lose their cache.
func Session(store SessionStore, caches *session.CacheRegistry) func(http.Handler) http.Handler {
	if store == nil {
		panic("session store is required")
	}
	if caches == nil {
		panic("cache registry is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.FromContext(r.Context())

			sess, err := store.Load(r)
			if errors.Is(err, session.ErrExpired) {
				logger.Info("session expired: resetting")
				store.Destroy(w)
				sess = store.New()
			} else if err != nil || sess == nil {
				if err != nil {
					logger.Warn("session load failed", zap.Error(err))
				}
				sess = store.New()
			}

			ctx := context.WithValue(r.Context(), requestSessionKey, sess)
			ctx = context.WithValue(ctx, requestCacheKey, caches.For(sess.ID()))

			sw := &sessionWriter{ResponseWriter: w, save: func() {
				if sess.Destroyed() {
					caches.Drop(sess.ID())
				}
				if err := store.Save(w, sess); err != nil {
					logger.Warn("session save failed", zap.Error(err))
				}
			}}
			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.commit()
		})
	}
}

// SessionFromContext retrieves the session attached to this request.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(requestSessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// CacheFromContext returns the response cache of the current session, or nil.
func CacheFromContext(ctx context.Context) *respcache.Cache {
	if ctx == nil {
		return nil
	}
	cache, _ := ctx.Value(requestCacheKey).(*respcache.Cache)
	return cache
}

type sessionWriter struct {
	http.ResponseWriter
	save      func()
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	w.save()
}

func (w *sessionWriter) WriteHeader(status int) {
	w.commit()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Flush() {
	w.commit()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *sessionWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
