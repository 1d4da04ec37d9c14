package httpserver

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/forms"
	custommw "github.com/samounneang/asatec-vercel/internal/httpserver/middleware"
	"github.com/samounneang/asatec-vercel/internal/httpserver/ui"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
)

const (
	msgLoginInvalid   = "Invalid email or password."
	msgLoginFailed    = "Login failed. Please try again later."
	msgLoggedOut      = "You have been signed out."
	msgFormSubmission = "The form could not be submitted. Please try again."
)

var loginRules = []forms.Rule{
	{Name: "email", Required: true, Email: true},
	{Name: "password", Required: true},
}

type authHandlers struct {
	api          API
	basePath     string
	loginPath    string
	cookieSecure bool
}

func newAuthHandlers(api API, basePath, loginPath string, cookieSecure bool) *authHandlers {
	if api == nil {
		panic("auth: api is required")
	}
	return &authHandlers{
		api:          api,
		basePath:     basePath,
		loginPath:    loginPath,
		cookieSecure: cookieSecure,
	}
}

func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if custommw.AdminToken(r) != "" && !forceLogin(r) {
		http.Redirect(w, r, h.basePath, http.StatusFound)
		return
	}
	ui.RenderLogin(w, r, http.StatusOK, ui.LoginPage{
		LoginPath: h.loginPath,
		Message:   messageForQuery(r.URL.Query()),
	})
}

func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ui.RenderLogin(w, r, http.StatusBadRequest, ui.LoginPage{LoginPath: h.loginPath, Error: msgFormSubmission})
		return
	}

	values := url.Values{"email": {strings.TrimSpace(r.PostFormValue("email"))}}
	values.Set("password", r.PostFormValue("password"))
	form := forms.Form{Values: url.Values{"email": values["email"]}}

	if verr := forms.Validate(values, loginRules); verr != nil {
		form.Errors = verr.Fields
		ui.RenderLogin(w, r, http.StatusUnprocessableEntity, ui.LoginPage{LoginPath: h.loginPath, Form: form})
		return
	}

	result, err := h.api.Login(r.Context(), values.Get("email"), values.Get("password"))
	if err != nil || strings.TrimSpace(result.AccessToken) == "" {
		observability.FromContext(r.Context()).Warn("admin login failed", zap.Error(err))
		status, message := http.StatusBadGateway, msgLoginFailed
		if err == nil || apiclient.IsUnauthorized(err) {
			status, message = http.StatusUnauthorized, msgLoginInvalid
		}
		ui.RenderLogin(w, r, status, ui.LoginPage{LoginPath: h.loginPath, Error: message, Form: form})
		return
	}

	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		sess.SetAdminEmail(values.Get("email"))
	}
	h.setTokenCookie(w, result.AccessToken)
	custommw.Redirect(w, r, h.basePath)
}

func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := custommw.SessionFromContext(r.Context()); ok {
		sess.Destroy()
	}
	h.clearTokenCookie(w)
	custommw.Redirect(w, r, h.loginPath+"?status=logged_out")
}

func (h *authHandlers) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     custommw.TokenCookieName,
		Value:    token,
		Path:     h.basePath,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *authHandlers) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     custommw.TokenCookieName,
		Value:    "",
		Path:     h.basePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func messageForQuery(q url.Values) string {
	if q.Get("status") == "logged_out" {
		return msgLoggedOut
	}
	return ""
}

func forceLogin(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("force"))) {
	case "1", "true", "yes", "force":
		return true
	default:
		return false
	}
}
