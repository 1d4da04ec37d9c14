package ui

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
	"github.com/samounneang/asatec-vercel/internal/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = template.Must(template.New("ui").Funcs(render.Funcs()).ParseFS(templateFS, "templates/*.tmpl"))

// option is a select or filter choice.
type option struct {
	Value string
	Label string
}

func categoryOptions() []option {
	out := make([]option, 0, len(catalog.Categories()))
	for _, c := range catalog.Categories() {
		out = append(out, option{Value: strconv.Itoa(int(c)), Label: c.Label()})
	}
	return out
}

func mediaTypeOptions() []option {
	out := make([]option, 0, len(catalog.MediaTypes()))
	for _, t := range catalog.MediaTypes() {
		out = append(out, option{Value: strconv.Itoa(int(t)), Label: t.Label()})
	}
	return out
}

func contactTypeOptions() []option {
	out := make([]option, 0, len(catalog.ContactTypes()))
	for _, t := range catalog.ContactTypes() {
		out = append(out, option{Value: strconv.Itoa(int(t)), Label: t.Label()})
	}
	return out
}

// execute renders a named template into HTML for embedding in a layout.
func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// toHTML renders a component, degrading to an error block on failure.
func toHTML(ctx context.Context, component templ.Component) template.HTML {
	html, err := templ.ToGoHTML(ctx, component)
	if err != nil {
		observability.FromContext(ctx).Error("render fragment failed", zap.Error(err))
		return ""
	}
	return html
}

// writeHTML executes name with data and writes it with status.
func writeHTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, err := execute(name, data)
	if err != nil {
		observability.FromContext(r.Context()).Error("render template failed", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
