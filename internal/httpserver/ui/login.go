package ui

import (
	"net/http"

	"github.com/samounneang/asatec-vercel/internal/forms"
	custommw "github.com/samounneang/asatec-vercel/internal/httpserver/middleware"
)

// LoginPage is the data of the admin sign-in form.
type LoginPage struct {
	LoginPath string
	Message   string
	Error     string
	Form      forms.Form
}

type loginPageData struct {
	LoginPage
	Environment string
	CSRFToken   string
}

// RenderLogin writes the sign-in page with status.
func RenderLogin(w http.ResponseWriter, r *http.Request, status int, page LoginPage) {
	ctx := r.Context()
	writeHTML(w, r, status, "admin_login", loginPageData{
		LoginPage:   page,
		Environment: custommw.EnvironmentFromContext(ctx),
		CSRFToken:   custommw.CSRFTokenFromContext(ctx),
	})
}
