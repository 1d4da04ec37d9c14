package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
)

// TokenCookieName holds the API bearer token of a signed-in administrator.
const TokenCookieName = "admin_token"

// Auth requires an admin token, taken from the Authorization header or the
// admin_token cookie, and forwards it to the API client through the context.
// Requests without one are sent to loginPath.
func Auth(loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := parseBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				token = cookieToken(r)
			}
			if token == "" {
				observability.FromContext(r.Context()).Info("auth failure", zap.String("reason", "missing_token"))
				if sess, ok := SessionFromContext(r.Context()); ok {
					sess.SetAdminEmail("")
				}
				Redirect(w, r, loginPath)
				return
			}

			next.ServeHTTP(w, r.WithContext(apiclient.WithToken(r.Context(), token)))
		})
	}
}

// AdminToken returns the token a request would authenticate with.
func AdminToken(r *http.Request) string {
	if token := parseBearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return cookieToken(r)
}

func parseBearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func cookieToken(r *http.Request) string {
	c, err := r.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
