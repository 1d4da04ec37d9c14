package ui

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/content"
	"github.com/samounneang/asatec-vercel/internal/forms"
	custommw "github.com/samounneang/asatec-vercel/internal/httpserver/middleware"
	"github.com/samounneang/asatec-vercel/internal/notify"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
	"github.com/samounneang/asatec-vercel/internal/render"
	"github.com/samounneang/asatec-vercel/internal/respcache"
)

const (
	kindProducts = "products"
	kindMedia    = "media"
	kindCases    = "cases"

	kindCategories = "product-categories"
	kindMediaTypes = "media-types"

	featuredVideoLimit = 3

	msgLoadProducts = "Failed to load products"
	msgLoadMedia    = "Failed to load media"
	msgLoadCases    = "Failed to load application cases"
)

type sitePage struct {
	Title       string
	Description string
	CSRFToken   string
	Nav         []navLink
	Query       string
	Body        template.HTML
	Newsletter  template.HTML
	Toasts      template.HTML
}

type filterLink struct {
	Href   string
	Label  string
	Value  string
	Active bool
}

type contactFormData struct {
	CSRFToken    string
	Form         forms.Form
	ContactTypes []option
}

type newsletterFormData struct {
	CSRFToken string
	Form      forms.Form
}

// noticeList collects notifications raised while handling one request.
type noticeList []notify.Notification

func (l *noticeList) Notify(n notify.Notification) { *l = append(*l, n) }

// Home renders the landing page with featured products and videos.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products := h.productGrid(ctx, apiclient.Filters{"featured": "true"})
	videos := h.mediaGrid(ctx, apiclient.Filters{"type": "0", "featured": "true"}, featuredVideoLimit)

	body, err := execute("site_home", map[string]template.HTML{
		"Products": toHTML(ctx, products),
		"Videos":   toHTML(ctx, videos),
	})
	h.writeSite(w, r, http.StatusOK, sitePage{Description: "ASATEC industrial IoT products, media and application cases."}, body, err, nil)
}

// Products lists the catalog, optionally filtered by category.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	selected := strings.TrimSpace(r.URL.Query().Get("category"))
	choices := h.categoryChoices(ctx)
	filters := apiclient.Filters{}
	if hasOption(choices, selected) {
		filters["category"] = selected
	} else {
		selected = ""
	}

	links := []filterLink{{Href: "/products", Label: "All", Active: selected == ""}}
	for _, opt := range choices {
		links = append(links, filterLink{
			Href:   "/products?category=" + opt.Value,
			Label:  opt.Label,
			Value:  opt.Value,
			Active: opt.Value == selected,
		})
	}

	body, err := execute("site_products", map[string]any{
		"Filters": links,
		"Grid":    toHTML(ctx, h.productGrid(ctx, filters)),
	})
	h.writeSite(w, r, http.StatusOK, sitePage{Title: "Products"}, body, err, nil)
}

// ProductDetail renders a single product.
func (h *Handlers) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	product, err := h.api.Product(r.Context(), id)
	if err != nil {
		h.detailFailure(w, r, err, "/products", "Products", msgLoadProducts)
		return
	}
	h.writeDetail(w, r, sitePage{Title: product.Title, Description: product.Subtitle}, "/products", "Products", render.ProductDetail(product))
}

// Media lists the media library, optionally filtered by type.
func (h *Handlers) Media(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	selected := strings.TrimSpace(r.URL.Query().Get("type"))
	choices := h.mediaTypeChoices(ctx)
	filters := apiclient.Filters{}
	if hasOption(choices, selected) {
		filters["type"] = selected
	} else {
		selected = ""
	}

	links := []filterLink{{Href: "/media", Label: "All", Active: selected == ""}}
	for _, opt := range choices {
		links = append(links, filterLink{
			Href:   "/media?type=" + opt.Value,
			Label:  opt.Label,
			Value:  opt.Value,
			Active: opt.Value == selected,
		})
	}

	body, err := execute("site_media", map[string]any{
		"Filters": links,
		"Grid":    toHTML(ctx, h.mediaGrid(ctx, filters, 0)),
	})
	h.writeSite(w, r, http.StatusOK, sitePage{Title: "Media"}, body, err, nil)
}

// categoryChoices lists the product categories the API knows, falling back to
// the built-in set when the API has none to offer.
func (h *Handlers) categoryChoices(ctx context.Context) []option {
	remote, err := respcache.GetOrFetch(ctx, custommw.CacheFromContext(ctx), respcache.Key(kindCategories, nil), h.api.ProductCategories)
	if err != nil {
		observability.FromContext(ctx).Warn("load product categories failed", zap.Error(err))
	}
	if len(remote) == 0 {
		return categoryOptions()
	}
	out := make([]option, 0, len(remote))
	for _, c := range remote {
		label := strings.TrimSpace(c.Name)
		if label == "" {
			label = c.ID.Label()
		}
		out = append(out, option{Value: strconv.Itoa(int(c.ID)), Label: label})
	}
	return out
}

// mediaTypeChoices is categoryChoices for media types.
func (h *Handlers) mediaTypeChoices(ctx context.Context) []option {
	remote, err := respcache.GetOrFetch(ctx, custommw.CacheFromContext(ctx), respcache.Key(kindMediaTypes, nil), h.api.MediaTypes)
	if err != nil {
		observability.FromContext(ctx).Warn("load media types failed", zap.Error(err))
	}
	if len(remote) == 0 {
		return mediaTypeOptions()
	}
	out := make([]option, 0, len(remote))
	for _, t := range remote {
		label := strings.TrimSpace(t.Name)
		if label == "" {
			label = t.ID.Label()
		}
		out = append(out, option{Value: strconv.Itoa(int(t.ID)), Label: label})
	}
	return out
}

func hasOption(options []option, value string) bool {
	if value == "" {
		return false
	}
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// MediaDetail renders the player for one media item.
func (h *Handlers) MediaDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.api.MediaItem(r.Context(), id)
	if err != nil {
		h.detailFailure(w, r, err, "/media", "Media", msgLoadMedia)
		return
	}
	h.writeDetail(w, r, sitePage{Title: item.Title, Description: item.Description}, "/media", "Media", render.MediaPlayer(item))
}

// Cases lists the application cases.
func (h *Handlers) Cases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cache := custommw.CacheFromContext(ctx)
	filters := apiclient.Filters{}

	var grid templ.Component
	cases, err := respcache.GetOrFetch(ctx, cache, respcache.Key(kindCases, filters), func(ctx context.Context) ([]catalog.ApplicationCase, error) {
		return h.api.ApplicationCases(ctx, filters)
	})
	if err != nil {
		observability.FromContext(ctx).Warn("load cases failed", zap.Error(err))
		grid = render.ErrorBlock(msgLoadCases)
	} else {
		grid = render.CaseCards(cases)
	}

	body, err := execute("site_cases", map[string]any{"Grid": toHTML(ctx, grid)})
	h.writeSite(w, r, http.StatusOK, sitePage{Title: "Application Cases"}, body, err, nil)
}

// CaseDetail renders one application case.
func (h *Handlers) CaseDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.api.ApplicationCase(r.Context(), id)
	if err != nil {
		h.detailFailure(w, r, err, "/cases", "Application Cases", msgLoadCases)
		return
	}
	h.writeDetail(w, r, sitePage{Title: item.Title, Description: item.Industry}, "/cases", "Application Cases", render.CaseDetail(item))
}

// Page renders an editable content page.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := h.content.Page(ctx, custommw.CacheFromContext(ctx), chi.URLParam(r, "page"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			h.notFound(w, r, "The page you are looking for does not exist.")
			return
		}
		observability.FromContext(ctx).Error("load content page failed", zap.Error(err))
		body, execErr := execute("site_page", map[string]any{"Content": toHTML(ctx, render.ErrorBlock("Failed to load page"))})
		h.writeSite(w, r, http.StatusBadGateway, sitePage{}, body, execErr, nil)
		return
	}

	body, err := execute("site_page", map[string]any{"Content": toHTML(ctx, render.PageContent(page))})
	h.writeSite(w, r, http.StatusOK, sitePage{Title: page.Title, Description: page.MetaDescription}, body, err, nil)
}

// Search runs the site search for the query parameter.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var notices noticeList
	pipeline := forms.NewPipeline(forms.PipelineOptions{Notifier: &notices, Logger: observability.FromContext(ctx)})

	query := r.URL.Query().Get("query")
	filters := apiclient.Filters{"type": r.URL.Query().Get("type")}
	results, ran, err := pipeline.Search(ctx, h.api, query, filters)

	var rendered template.HTML
	switch {
	case err != nil:
		rendered = toHTML(ctx, render.ErrorBlock(forms.SearchFailureMessage))
	case ran:
		rendered = toHTML(ctx, render.SearchResults(results))
	}

	body, execErr := execute("site_search", map[string]any{"Ran": ran, "Results": rendered})
	page := sitePage{Title: "Search", Query: strings.TrimSpace(query)}
	h.writeSite(w, r, http.StatusOK, page, body, execErr, notices)
}

// Contact renders the contact page.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, forms.Form{}, nil)
}

// SubmitContact handles the contact form. htmx requests get the form back
// with out-of-band toasts; plain posts get the whole page.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	var notices noticeList
	pipeline := forms.NewPipeline(forms.PipelineOptions{
		Notifier: &notices,
		Cache:    custommw.CacheFromContext(ctx),
		Logger:   observability.FromContext(ctx),
	})
	result := pipeline.Run(ctx, forms.ContactFlow(h.api, h.throttle, clientKey(r)), r.PostForm)

	status := http.StatusOK
	if len(result.Form.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	if custommw.IsHTMXRequest(ctx) {
		h.writePartial(w, r, status, "contact_form", h.contactForm(ctx, result.Form), notices)
		return
	}
	h.renderContact(w, r, status, result.Form, notices)
}

// Newsletter handles the footer signup form.
func (h *Handlers) Newsletter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	var notices noticeList
	pipeline := forms.NewPipeline(forms.PipelineOptions{Notifier: &notices, Logger: observability.FromContext(ctx)})
	result := pipeline.Run(ctx, forms.NewsletterFlow(), r.PostForm)

	status := http.StatusOK
	if len(result.Form.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	data := newsletterFormData{CSRFToken: custommw.CSRFTokenFromContext(ctx), Form: result.Form}
	if custommw.IsHTMXRequest(ctx) {
		h.writePartial(w, r, status, "newsletter_form", data, notices)
		return
	}
	newsletter, err := execute("newsletter_form", data)
	if err != nil {
		h.writeSite(w, r, status, sitePage{}, "", err, nil)
		return
	}
	body, err := execute("site_home", map[string]template.HTML{
		"Products": toHTML(ctx, h.productGrid(ctx, apiclient.Filters{"featured": "true"})),
		"Videos":   toHTML(ctx, h.mediaGrid(ctx, apiclient.Filters{"type": "0", "featured": "true"}, featuredVideoLimit)),
	})
	h.writeSiteWithNewsletter(w, r, status, sitePage{}, body, newsletter, err, notices)
}

func (h *Handlers) renderContact(w http.ResponseWriter, r *http.Request, status int, form forms.Form, notices []notify.Notification) {
	ctx := r.Context()
	var info templ.Component
	details, err := respcache.GetOrFetch(ctx, custommw.CacheFromContext(ctx), respcache.Key("contact-info", nil), h.api.ContactInfo)
	if err != nil {
		observability.FromContext(ctx).Warn("load contact info failed", zap.Error(err))
		info = render.ErrorBlock("Failed to load contact information")
	} else {
		info = render.ContactInfo(details)
	}

	formHTML, err := execute("contact_form", h.contactForm(ctx, form))
	if err != nil {
		h.writeSite(w, r, http.StatusInternalServerError, sitePage{}, "", err, nil)
		return
	}
	body, err := execute("site_contact", map[string]template.HTML{
		"Info": toHTML(ctx, info),
		"Form": formHTML,
	})
	h.writeSite(w, r, status, sitePage{Title: "Contact Us"}, body, err, notices)
}

func (h *Handlers) contactForm(ctx context.Context, form forms.Form) contactFormData {
	return contactFormData{
		CSRFToken:    custommw.CSRFTokenFromContext(ctx),
		Form:         form,
		ContactTypes: contactTypeOptions(),
	}
}

// productGrid loads product cards through the session cache. Failures render
// the error state in place of the grid.
func (h *Handlers) productGrid(ctx context.Context, filters apiclient.Filters) templ.Component {
	cache := custommw.CacheFromContext(ctx)
	products, err := respcache.GetOrFetch(ctx, cache, respcache.Key(kindProducts, filters), func(ctx context.Context) ([]catalog.Product, error) {
		return h.api.Products(ctx, filters)
	})
	if err != nil {
		observability.FromContext(ctx).Warn("load products failed", zap.Error(err))
		return render.ErrorBlock(msgLoadProducts)
	}
	return render.ProductCards(products)
}

// mediaGrid loads video cards through the session cache; limit > 0 keeps the
// first limit items.
func (h *Handlers) mediaGrid(ctx context.Context, filters apiclient.Filters, limit int) templ.Component {
	cache := custommw.CacheFromContext(ctx)
	items, err := respcache.GetOrFetch(ctx, cache, respcache.Key(kindMedia, filters), func(ctx context.Context) ([]catalog.MediaItem, error) {
		return h.api.MediaItems(ctx, filters)
	})
	if err != nil {
		observability.FromContext(ctx).Warn("load media failed", zap.Error(err))
		return render.ErrorBlock(msgLoadMedia)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return render.VideoCards(items)
}

func (h *Handlers) writeDetail(w http.ResponseWriter, r *http.Request, page sitePage, backHref, backLabel string, component templ.Component) {
	body, err := execute("site_detail", map[string]any{
		"BackHref":  backHref,
		"BackLabel": "Back to " + backLabel,
		"Content":   toHTML(r.Context(), component),
	})
	h.writeSite(w, r, http.StatusOK, page, body, err, nil)
}

func (h *Handlers) detailFailure(w http.ResponseWriter, r *http.Request, err error, backHref, backLabel, message string) {
	if errors.Is(err, apiclient.ErrNotFound) {
		h.notFound(w, r, "We could not find what you were looking for.")
		return
	}
	observability.FromContext(r.Context()).Warn("load detail failed", zap.Error(err))
	body, execErr := execute("site_detail", map[string]any{
		"BackHref":  backHref,
		"BackLabel": "Back to " + backLabel,
		"Content":   toHTML(r.Context(), render.ErrorBlock(message)),
	})
	h.writeSite(w, r, http.StatusBadGateway, sitePage{Title: backLabel}, body, execErr, nil)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request, message string) {
	body, err := execute("site_not_found", map[string]string{"Message": message})
	h.writeSite(w, r, http.StatusNotFound, sitePage{Title: "Not Found"}, body, err, nil)
}

// NotFound renders the site 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "The page you are looking for does not exist.")
}

func (h *Handlers) writeSite(w http.ResponseWriter, r *http.Request, status int, page sitePage, body template.HTML, bodyErr error, notices []notify.Notification) {
	newsletter, err := execute("newsletter_form", newsletterFormData{CSRFToken: custommw.CSRFTokenFromContext(r.Context())})
	if bodyErr == nil {
		bodyErr = err
	}
	h.writeSiteWithNewsletter(w, r, status, page, body, newsletter, bodyErr, notices)
}

func (h *Handlers) writeSiteWithNewsletter(w http.ResponseWriter, r *http.Request, status int, page sitePage, body, newsletter template.HTML, bodyErr error, notices []notify.Notification) {
	ctx := r.Context()
	if bodyErr != nil {
		observability.FromContext(ctx).Error("render site page failed", zap.Error(bodyErr))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page.CSRFToken = custommw.CSRFTokenFromContext(ctx)
	page.Nav = buildSiteNav(r.URL.Path)
	page.Body = body
	page.Newsletter = newsletter
	page.Toasts = toHTML(ctx, render.Toasts(notices, false))
	writeHTML(w, r, status, "site_document", page)
}

// writePartial renders one form template followed by out-of-band toasts.
func (h *Handlers) writePartial(w http.ResponseWriter, r *http.Request, status int, name string, data any, notices []notify.Notification) {
	ctx := r.Context()
	partial, err := execute(name, data)
	if err != nil {
		observability.FromContext(ctx).Error("render partial failed", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == http.StatusUnprocessableEntity {
		// htmx skips swaps on 4xx by default; the form must still swap to show field errors.
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(partial))
	_, _ = w.Write([]byte(toHTML(ctx, render.Toasts(notices, true))))
}

// clientKey identifies the submitting client for throttling. RemoteAddr only
// reflects forwarded headers when the server trusts its proxy.
func clientKey(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
