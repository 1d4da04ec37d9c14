package ui

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/console"
	"github.com/samounneang/asatec-vercel/internal/forms"
	custommw "github.com/samounneang/asatec-vercel/internal/httpserver/middleware"
	"github.com/samounneang/asatec-vercel/internal/notify"
	"github.com/samounneang/asatec-vercel/internal/platform/observability"
	"github.com/samounneang/asatec-vercel/internal/render"
)

type adminNavItem struct {
	ID         console.PageID
	Title      string
	Active     bool
	Badge      bool
	BadgeCount int
}

type adminPageData struct {
	Title       string
	BaseHref    string
	CSRFToken   string
	Environment string
	AdminEmail  string
	Nav         []adminNavItem
	OOB         bool
	Snap        Snapshot
	ProductForm forms.Form
	Categories  []option
	Toasts      template.HTML
}

// PageClass returns the class list of the section for id.
func (d adminPageData) PageClass(id string) string {
	if string(d.Snap.Active) == id {
		return "admin-page active"
	}
	return "admin-page"
}

// adminRequest bundles the per-request controller, document and pipeline.
type adminRequest struct {
	doc      *Document
	ctrl     *console.Controller
	pipeline *forms.Pipeline
	form     forms.Form
}

func (h *Handlers) newAdminRequest(r *http.Request) *adminRequest {
	ctx := r.Context()
	logger := observability.FromContext(ctx)
	cache := custommw.CacheFromContext(ctx)

	doc := NewDocument()
	ctrl := console.New(console.Options{API: h.api, Cache: cache, View: doc, Logger: logger})
	pipeline := forms.NewPipeline(forms.PipelineOptions{
		Notifier:  doc,
		Refresher: ctrl,
		Cache:     cache,
		Logger:    logger,
	})
	return &adminRequest{doc: doc, ctrl: ctrl, pipeline: pipeline}
}

// AdminPage renders the full console positioned on the page named in the URL.
func (h *Handlers) AdminPage(w http.ResponseWriter, r *http.Request) {
	req := h.newAdminRequest(r)
	defer req.ctrl.Close()

	page := console.ResolveInitialPage(chi.URLParam(r, "page"))
	req.ctrl.NavigateToPage(r.Context(), page)
	if page != console.PageDashboard {
		req.ctrl.RefreshCounters(r.Context())
	}
	h.renderAdmin(w, r, req, http.StatusOK, false)
}

// AdminFragment swaps the main area for htmx navigation. Unknown pages only
// move the history entry.
func (h *Handlers) AdminFragment(w http.ResponseWriter, r *http.Request) {
	req := h.newAdminRequest(r)
	defer req.ctrl.Close()

	page := console.PageID(strings.ToLower(chi.URLParam(r, "page")))
	req.ctrl.NavigateToPage(r.Context(), page)
	custommw.PushURL(w, joinBasePath(h.basePath, req.doc.Fragment()))
	if !page.Valid() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	req.ctrl.RefreshCounters(r.Context())
	h.renderAdmin(w, r, req, http.StatusOK, true)
}

// CreateProduct submits the product form and re-renders the console.
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req := h.newAdminRequest(r)
	defer req.ctrl.Close()

	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	req.ctrl.Restore(h.currentPage(r, console.PageProducts))

	closeModal := func(_ context.Context) { req.doc.CloseModal(console.ModalProduct) }
	result := req.pipeline.Run(r.Context(), forms.ProductFlow(h.api, closeModal), r.PostForm)
	status := http.StatusOK
	if !result.Submitted {
		req.form = result.Form
		req.doc.OpenModal(console.ModalProduct)
		req.ctrl.Refresh(r.Context())
		req.ctrl.RefreshCounters(r.Context())
		if len(result.Form.Errors) > 0 && !custommw.IsHTMXRequest(r.Context()) {
			status = http.StatusUnprocessableEntity
		}
	}
	h.renderAdmin(w, r, req, status, false)
}

// DeleteProduct removes a catalog entry.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.runAction(w, r, console.PageProducts, forms.DeleteProductAction(h.api, id))
}

// DeleteContact removes a contact submission.
func (h *Handlers) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	h.runAction(w, r, console.PageContacts, forms.DeleteContactAction(h.api, id))
}

// MarkAllContactsRead marks every contact submission as read.
func (h *Handlers) MarkAllContactsRead(w http.ResponseWriter, r *http.Request) {
	h.runAction(w, r, console.PageContacts, forms.MarkAllReadAction(h.api))
}

func (h *Handlers) runAction(w http.ResponseWriter, r *http.Request, fallback console.PageID, action forms.Action) {
	req := h.newAdminRequest(r)
	defer req.ctrl.Close()

	req.ctrl.Restore(h.currentPage(r, fallback))
	if err := req.pipeline.RunAction(r.Context(), action); err != nil {
		req.ctrl.Refresh(r.Context())
		req.ctrl.RefreshCounters(r.Context())
	}
	h.renderAdmin(w, r, req, http.StatusOK, false)
}

// QuickAction runs a dashboard shortcut.
func (h *Handlers) QuickAction(w http.ResponseWriter, r *http.Request) {
	req := h.newAdminRequest(r)
	defer req.ctrl.Close()

	action := chi.URLParam(r, "action")
	current := h.currentPage(r, console.PageDashboard)
	req.ctrl.Restore(current)
	req.ctrl.HandleQuickAction(r.Context(), action)
	if req.ctrl.CurrentPage() == current {
		req.ctrl.Refresh(r.Context())
	}
	if req.ctrl.CurrentPage() != console.PageDashboard {
		req.ctrl.RefreshCounters(r.Context())
	}
	custommw.PushURL(w, joinBasePath(h.basePath, string(req.ctrl.CurrentPage())))
	h.renderAdmin(w, r, req, http.StatusOK, false)
}

// ClearCache drops the session cache and reloads the current page.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	req := h.newAdminRequest(r)
	defer req.ctrl.Close()

	cache := custommw.CacheFromContext(r.Context())
	stats := cache.Stats()
	observability.FromContext(r.Context()).Info("session cache cleared",
		zap.Uint64("hits", stats.Hits),
		zap.Uint64("misses", stats.Misses),
		zap.Int("entries", stats.Entries),
	)
	cache.Clear()
	req.ctrl.Restore(h.currentPage(r, console.PageDashboard))
	req.ctrl.Refresh(r.Context())
	req.ctrl.RefreshCounters(r.Context())
	req.doc.Notify(notify.Info("Data refreshed", notify.AdminDismiss))
	h.renderAdmin(w, r, req, http.StatusOK, false)
}

func (h *Handlers) renderAdmin(w http.ResponseWriter, r *http.Request, req *adminRequest, status int, fragment bool) {
	ctx := r.Context()
	snap, err := req.doc.Snapshot(ctx)
	if err != nil {
		observability.FromContext(ctx).Error("admin snapshot failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	email := ""
	if sess, ok := custommw.SessionFromContext(ctx); ok {
		email = sess.AdminEmail()
	}

	current := req.ctrl.CurrentPage()
	data := adminPageData{
		Title:       current.Title(),
		BaseHref:    strings.TrimRight(h.basePath, "/") + "/",
		CSRFToken:   custommw.CSRFTokenFromContext(ctx),
		Environment: custommw.EnvironmentFromContext(ctx),
		AdminEmail:  email,
		Nav:         adminNav(snap),
		OOB:         fragment,
		Snap:        snap,
		ProductForm: req.form,
		Categories:  categoryOptions(),
		Toasts:      toHTML(ctx, render.Toasts(snap.Notices, fragment)),
	}

	name := "admin_document"
	if fragment {
		name = "admin_fragment"
	}
	writeHTML(w, r, status, name, data)
}

func adminNav(snap Snapshot) []adminNavItem {
	items := make([]adminNavItem, 0, len(console.Pages))
	for _, id := range console.Pages {
		item := adminNavItem{ID: id, Title: id.Title(), Active: id == snap.Nav}
		if id == console.PageContacts {
			item.Badge = true
			item.BadgeCount = snap.Counters[console.CounterContactBadge]
		}
		items = append(items, item)
	}
	return items
}

// currentPage works out which page the browser shows from the htmx current
// URL or the referer.
func (h *Handlers) currentPage(r *http.Request, fallback console.PageID) console.PageID {
	raw := custommw.HTMXInfoFromContext(r.Context()).CurrentURL
	if raw == "" {
		raw = r.Referer()
	}
	if raw == "" {
		return fallback
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	rest, ok := strings.CutPrefix(parsed.Path, strings.TrimRight(h.basePath, "/"))
	if !ok {
		return fallback
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return console.PageDashboard
	}
	if id := console.PageID(rest); id.Valid() {
		return id
	}
	return fallback
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
