package httpserver_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/forms"
	"github.com/samounneang/asatec-vercel/internal/testutil"
)

type browser struct {
	t      *testing.T
	ts     *httptest.Server
	client *http.Client
	token  string
}

func newBrowser(t *testing.T, ts *httptest.Server) *browser {
	return &browser{t: t, ts: ts, client: testutil.NewClient(t)}
}

func (b *browser) do(method, path string, form url.Values, headers map[string]string) *http.Response {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.ts.URL+path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	return resp
}

func (b *browser) get(path string) (*http.Response, *goquery.Document) {
	b.t.Helper()

	resp := b.do(http.MethodGet, path, nil, nil)
	doc := testutil.ReadHTML(b.t, resp)
	if token := testutil.CSRFToken(doc); token != "" {
		b.token = token
	}
	return resp, doc
}

func (b *browser) post(path string, form url.Values, htmx bool) (*http.Response, *goquery.Document) {
	b.t.Helper()

	if form == nil {
		form = url.Values{}
	}
	headers := map[string]string{"X-CSRF-Token": b.token}
	if htmx {
		headers["HX-Request"] = "true"
		headers["HX-Current-URL"] = b.ts.URL + "/admin/products"
	}
	resp := b.do(http.MethodPost, path, form, headers)
	return resp, testutil.ReadHTML(b.t, resp)
}

func (b *browser) login() {
	b.t.Helper()

	b.get("/admin/login")
	resp, _ := b.post("/admin/login", url.Values{
		"email":    {testutil.AdminEmail},
		"password": {testutil.AdminPassword},
	}, false)
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, "/admin", resp.Header.Get("Location"))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.NewUpstream(t))
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestStaticAssetsServed(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.NewUpstream(t))
	resp, err := http.Get(ts.URL + "/public/static/console.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHomeRendersFeaturedContent(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream))

	resp, doc := b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, doc.Find("#productsGrid .product-card").Length())
	require.Equal(t, "Edge Gateway", strings.TrimSpace(doc.Find("#productsGrid .card-title").Text()))
	require.Equal(t, 1, doc.Find("#videosGrid .video-card").Length())
	require.Equal(t, 1, doc.Find("#newsletterForm").Length())
	require.Equal(t, 1, doc.Find("#searchForm").Length())
	require.True(t, doc.Find(`.site-nav a[href="/"]`).HasClass("active"))

	// Second visit is served from the session cache.
	b.get("/")
	require.Equal(t, 1, upstream.Calls("GET /products"))
}

func TestProductsFilterByCategory(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))

	_, doc := b.get("/products?category=1")
	cards := doc.Find("#productsGrid .product-card")
	require.Equal(t, 1, cards.Length())
	require.Equal(t, "Power Module", strings.TrimSpace(cards.Find(".card-title").Text()))
	require.Equal(t, "Power Solutions", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))

	_, doc = b.get("/products?category=banana")
	require.Equal(t, 2, doc.Find("#productsGrid .product-card").Length())
	require.Equal(t, "All", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))
}

func TestFilterLinksComeFromAPI(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	upstream.SetCategories(catalog.CategoryOption{ID: catalog.CategoryPowerSolutions, Name: "Power & Energy"})
	b := newBrowser(t, testutil.NewServer(t, upstream))

	_, doc := b.get("/products?category=1")
	require.Equal(t, 2, doc.Find(".filter-btn").Length())
	require.Equal(t, "Power & Energy", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))

	// Categories the API does not list are not accepted as filters.
	_, doc = b.get("/products?category=0")
	require.Equal(t, "All", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))
	require.Equal(t, 2, doc.Find("#productsGrid .product-card").Length())
	require.Equal(t, 1, upstream.Calls("GET /products/categories"))

	_, doc = b.get("/media?type=2")
	require.Equal(t, "Document", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))
	require.Equal(t, 1, upstream.Calls("GET /media/types"))
}

func TestFilterLinksFallBackWhenAPIFails(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	upstream.Fail("GET /products/categories", http.StatusInternalServerError)
	upstream.Fail("GET /media/types", http.StatusBadGateway)
	b := newBrowser(t, testutil.NewServer(t, upstream))

	resp, doc := b.get("/products?category=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1+len(catalog.Categories()), doc.Find(".filter-btn").Length())
	require.Equal(t, "Power Solutions", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))

	resp, doc = b.get("/media?type=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1+len(catalog.MediaTypes()), doc.Find(".filter-btn").Length())
	require.Equal(t, "Video", strings.TrimSpace(doc.Find(".filter-btn.active").Text()))
}

func TestProductsShowErrorStateWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	upstream.Fail("GET /products", http.StatusInternalServerError)
	b := newBrowser(t, testutil.NewServer(t, upstream))

	resp, doc := b.get("/products")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Failed to load products", strings.TrimSpace(doc.Find("#productsGrid .alert-error").Text()))
}

func TestDetailPages(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))

	resp, doc := b.get("/products/2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Power Module", doc.Find(".product-detail h1").Text())

	resp, doc = b.get("/media/11")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Gateway Intro", doc.Find(".media-player h1").Text())

	resp, doc = b.get("/cases/3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Smart Farm", doc.Find(".case-detail h1").Text())

	resp, doc = b.get("/products/999")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, 1, doc.Find(".not-found").Length())

	resp, _ = b.get("/products/not-a-number")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestContentPageFallsBackToLocalMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := "---\ntitle: About ASATEC\nmeta_description: Who we are\n---\n# Hello\n\n<script>alert(1)</script>Industrial IoT.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md"), []byte(page), 0o600))

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t), testutil.WithContentDir(dir)))

	resp, doc := b.get("/pages/about")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "About ASATEC · ASATEC", doc.Find("title").Text())
	require.Equal(t, 0, doc.Find(".page-body script").Length())
	require.Contains(t, doc.Find(".page-body").Text(), "Industrial IoT.")

	resp, _ = b.get("/pages/missing")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream))

	_, doc := b.get("/search?query=+")
	require.Equal(t, 0, doc.Find("#searchResults").Length())
	require.Equal(t, 0, upstream.Calls("GET /search"))

	_, doc = b.get("/search?query=gateway")
	require.Equal(t, 1, doc.Find("#searchResults").Length())
	require.Equal(t, 1, upstream.Calls("GET /search"))

	upstream.Fail("GET /search", http.StatusBadGateway)
	_, doc = b.get("/search?query=gateway")
	require.Equal(t, "Search failed. Please try again.", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
}

func TestContactFormValidationSkipsUpstream(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream))
	b.get("/contact")

	resp, doc := b.post("/contact", url.Values{
		"firstName": {"Grace"},
		"email":     {"not-an-email"},
		"message":   {"Hello"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, upstream.Calls("POST /contact"))
	require.Equal(t, "Please enter a valid email address", strings.TrimSpace(doc.Find("#contactForm #email ~ .form-error").Text()))
	require.Equal(t, "This field is required", strings.TrimSpace(doc.Find("#contactForm #lastName ~ .form-error").Text()))
	value, _ := doc.Find("#contactForm #firstName").Attr("value")
	require.Equal(t, "Grace", value)
}

func TestContactFormSubmits(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream))
	b.get("/contact")

	resp, doc := b.post("/contact", url.Values{
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"email":     {"grace@example.com"},
		"subject":   {"Pricing"},
		"message":   {"Please send a quote."},
		"type":      {"42"},
	}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	toasts := doc.Find("#toasts")
	oob, _ := toasts.Attr("hx-swap-oob")
	require.Equal(t, "true", oob)
	require.Equal(t, "Thank you for your message! We will get back to you soon.", strings.TrimSpace(toasts.Find(".toast-message").Text()))
	value, _ := doc.Find("#contactForm #firstName").Attr("value")
	require.Empty(t, value)

	contacts := upstream.ContactsSnapshot()
	require.Len(t, contacts, 2)
	require.Equal(t, "Hopper", contacts[1].LastName)
	require.Equal(t, "General", contacts[1].Type.Label())
}

func TestContactThrottleIgnoresForwardedForByDefault(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		opts     []testutil.ServerOption
		accepted int
	}{
		{name: "untrusted proxy", accepted: 1},
		{name: "trusted proxy", opts: []testutil.ServerOption{testutil.WithTrustProxy()}, accepted: 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			upstream := testutil.NewUpstream(t)
			opts := append([]testutil.ServerOption{testutil.WithThrottle(forms.NewThrottle(1, 1))}, tc.opts...)
			b := newBrowser(t, testutil.NewServer(t, upstream, opts...))
			b.get("/contact")

			var last *goquery.Document
			for _, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
				resp := b.do(http.MethodPost, "/contact", url.Values{
					"firstName": {"Grace"},
					"lastName":  {"Hopper"},
					"email":     {"grace@example.com"},
					"message":   {"Please send a quote."},
				}, map[string]string{
					"X-CSRF-Token":    b.token,
					"HX-Request":      "true",
					"X-Forwarded-For": forwarded,
				})
				require.Equal(t, http.StatusOK, resp.StatusCode)
				last = testutil.ReadHTML(t, resp)
			}

			require.Equal(t, tc.accepted, upstream.Calls("POST /contact"))
			if tc.accepted == 1 {
				require.Contains(t, last.Find("#toasts .toast-message").Text(), "Too many messages sent.")
			}
		})
	}
}

func TestContactFormFailurePreservesInput(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	upstream.Fail("POST /contact", http.StatusInternalServerError)
	b := newBrowser(t, testutil.NewServer(t, upstream))
	b.get("/contact")

	_, doc := b.post("/contact", url.Values{
		"firstName": {"Grace"},
		"lastName":  {"Hopper"},
		"email":     {"grace@example.com"},
		"subject":   {"Pricing"},
		"message":   {"Please send a quote."},
	}, true)
	require.Equal(t, "There was an error submitting your message. Please try again.", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	value, _ := doc.Find("#contactForm #subject").Attr("value")
	require.Equal(t, "Pricing", value)
}

func TestUnsafeRequestsNeedCSRFToken(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.get("/contact")

	resp := b.do(http.MethodPost, "/newsletter", url.Values{"email": {"a@example.com"}}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNewsletter(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.get("/")

	_, doc := b.post("/newsletter", url.Values{"email": {"reader@example.com"}}, true)
	require.Equal(t, "Successfully subscribed to our newsletter!", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	require.Equal(t, 1, doc.Find("#newsletterForm").Length())
}

func TestAdminRedirectsWithoutToken(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))

	resp := b.do(http.MethodGet, "/admin", nil, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin/login", resp.Header.Get("Location"))

	resp = b.do(http.MethodGet, "/admin/products", nil, map[string]string{"HX-Request": "true"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "/admin/login", resp.Header.Get("HX-Redirect"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.get("/admin/login")

	resp, doc := b.post("/admin/login", url.Values{"email": {testutil.AdminEmail}, "password": {"wrong"}}, false)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "Invalid email or password.", strings.TrimSpace(doc.Find(".alert-error").Text()))
	value, _ := doc.Find("#email").Attr("value")
	require.Equal(t, testutil.AdminEmail, value)

	resp, doc = b.post("/admin/login", url.Values{"email": {"nope"}}, false)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, 2, doc.Find(".field-error").Length())
}

func TestDashboardAfterLogin(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.login()

	resp, doc := b.get("/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.True(t, doc.Find("section#dashboard").HasClass("active"))
	require.True(t, doc.Find(`.menu-item[data-page="dashboard"]`).HasClass("active"))
	require.Equal(t, "2", doc.Find("#productCount").Text())
	require.Equal(t, "1", doc.Find("#applicationCount").Text())
	require.Equal(t, "2", doc.Find("#mediaCount").Text())
	require.Equal(t, "1", doc.Find("#contactCount").Text())
	require.Equal(t, "1", doc.Find("#contactBadge").Text())
	require.Equal(t, 5, doc.Find("#activityList .activity-item").Length())
	require.Equal(t, testutil.AdminEmail, doc.Find(".admin-user").Text())
	base, _ := doc.Find("base").Attr("href")
	require.Equal(t, "/admin/", base)
}

func TestAdminDirectPageLoadsList(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.login()

	_, doc := b.get("/admin/users")
	require.True(t, doc.Find("section#users").HasClass("active"))
	require.Equal(t, 1, doc.Find("#usersTable tr[data-user-id]").Length())
	require.Equal(t, "1", doc.Find("#contactBadge").Text())

	_, doc = b.get("/admin/unknown")
	require.True(t, doc.Find("section#dashboard").HasClass("active"))
}

func TestAdminFragments(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.login()

	resp := b.do(http.MethodGet, "/admin/fragments/products", nil, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = b.do(http.MethodGet, "/admin/fragments/products", nil, map[string]string{"HX-Request": "true"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/admin/products", resp.Header.Get("HX-Push-Url"))
	doc := testutil.ReadHTML(t, resp)
	require.True(t, doc.Find("section#products").HasClass("active"))
	require.Equal(t, 2, doc.Find("#productsTable tr[data-product-id]").Length())
	oob, _ := doc.Find("#adminNav").Attr("hx-swap-oob")
	require.Equal(t, "true", oob)
	require.True(t, doc.Find(`.menu-item[data-page="products"]`).HasClass("active"))

	resp = b.do(http.MethodGet, "/admin/fragments/reports", nil, map[string]string{"HX-Request": "true"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "/admin/reports", resp.Header.Get("HX-Push-Url"))
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream))
	b.login()
	b.get("/admin/products")

	_, doc := b.post("/admin/products", url.Values{"title": {"Sensor Hub"}}, true)
	require.True(t, doc.Find("#productModal").HasClass("active"))
	require.Equal(t, "This field is required", strings.TrimSpace(doc.Find("#productModal #description ~ .field-error").Text()))
	value, _ := doc.Find("#productModal #title").Attr("value")
	require.Equal(t, "Sensor Hub", value)
	require.Equal(t, 0, upstream.Calls("POST /admin/products"))

	_, doc = b.post("/admin/products", url.Values{
		"title":       {"Sensor Hub"},
		"description": {"Eight channel sensor hub"},
		"category":    {"2"},
		"isFeatured":  {"on"},
	}, true)
	require.False(t, doc.Find("#productModal").HasClass("active"))
	require.Equal(t, "Product added successfully!", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	require.Equal(t, 3, doc.Find("#productsTable tr[data-product-id]").Length())
	require.True(t, doc.Find("section#products").HasClass("active"))

	products := upstream.ProductsSnapshot()
	require.Len(t, products, 3)
	require.True(t, products[2].IsFeatured)
	require.True(t, products[2].IsActive)
}

func TestCreateProductFailureKeepsModalOpen(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	upstream.Fail("POST /admin/products", http.StatusInternalServerError)
	b := newBrowser(t, testutil.NewServer(t, upstream))
	b.login()
	b.get("/admin/products")

	_, doc := b.post("/admin/products", url.Values{
		"title":       {"Sensor Hub"},
		"description": {"Eight channel sensor hub"},
		"category":    {"2"},
	}, true)
	require.True(t, doc.Find("#productModal").HasClass("active"))
	require.Equal(t, "Failed to save product. Please try again.", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	selected, _ := doc.Find(`#productModal #category option[selected]`).Attr("value")
	require.Equal(t, "2", selected)
}

func TestDeleteContactAndMarkAllRead(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream))
	b.login()
	b.get("/admin/contacts")

	_, doc := b.post("/admin/contacts/mark-all-read", nil, true)
	require.Equal(t, "All contacts marked as read!", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	require.Equal(t, "0", doc.Find("#contactBadge").Text())

	_, doc = b.post("/admin/contacts/7/delete", nil, true)
	require.Equal(t, "Contact deleted successfully!", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	require.Empty(t, upstream.ContactsSnapshot())

	_, doc = b.post("/admin/contacts/7/delete", nil, true)
	require.Equal(t, "Failed to delete contact.", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
}

func TestQuickActions(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.login()
	b.get("/admin")

	resp, doc := b.post("/admin/actions/add-product", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, doc.Find("#productModal").HasClass("active"))

	resp, doc = b.post("/admin/actions/view-contacts", nil, true)
	require.Equal(t, "/admin/contacts", resp.Header.Get("HX-Push-Url"))
	require.True(t, doc.Find("section#contacts").HasClass("active"))
	require.Equal(t, 1, doc.Find("#contactsTable tr[data-contact-id]").Length())
}

func TestClearCacheRefetchesAndLogsStats(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	upstream := testutil.NewUpstream(t)
	b := newBrowser(t, testutil.NewServer(t, upstream, testutil.WithLogger(zap.New(core))))
	b.login()
	b.get("/admin/products")
	b.get("/admin/products")
	require.Equal(t, 1, upstream.Calls("GET /admin/products"))

	resp, doc := b.post("/admin/cache/clear", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Data refreshed", strings.TrimSpace(doc.Find("#toasts .toast-message").Text()))
	require.Equal(t, 2, upstream.Calls("GET /admin/products"))

	cleared := logs.FilterMessage("session cache cleared").All()
	require.Len(t, cleared, 1)
	fields := cleared[0].ContextMap()
	require.Positive(t, fields["hits"])
	require.Positive(t, fields["entries"])
}

func TestLogout(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, testutil.NewServer(t, testutil.NewUpstream(t)))
	b.login()
	b.get("/admin")

	resp, _ := b.post("/admin/logout", nil, false)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin/login?status=logged_out", resp.Header.Get("Location"))

	resp = b.do(http.MethodGet, "/admin", nil, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, doc := b.get("/admin/login?status=logged_out")
	require.Equal(t, "You have been signed out.", strings.TrimSpace(doc.Find(".alert-info").Text()))
}
