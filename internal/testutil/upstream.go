package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samounneang/asatec-vercel/internal/catalog"
)

const (
	// AdminEmail and AdminPassword are the credentials the upstream accepts.
	AdminEmail    = "admin@asatec.example"
	AdminPassword = "secret"
	// AdminToken is the bearer token issued for them.
	AdminToken = "test-token"
)

// Upstream is an in-memory catalog API. Tests seed its slices and inspect
// Calls and Contacts after driving the server.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	Products []catalog.Product
	Contacts []catalog.Contact
	Cases    []catalog.ApplicationCase
	Media    []catalog.MediaItem
	Pages    map[string]catalog.PageContent
	Info     catalog.ContactInfo
	Hits     []catalog.SearchResult
	User     catalog.User

	Categories []catalog.CategoryOption
	MediaTypes []catalog.MediaTypeOption

	failures map[string]int
	calls    map[string]int
	nextID   int64
}

// NewUpstream starts the fake API with a small seeded catalog.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()

	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	u := &Upstream{
		Products: []catalog.Product{
			{ID: 1, Title: "Edge Gateway", Description: "LTE gateway", Category: catalog.CategoryIoTModules, IsFeatured: true, IsActive: true, CreatedAt: catalog.At(created)},
			{ID: 2, Title: "Power Module", Description: "DIN rail supply", Category: catalog.CategoryPowerSolutions, IsActive: true, CreatedAt: catalog.At(created.Add(time.Hour))},
		},
		Contacts: []catalog.Contact{
			{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Subject: "Quote", Status: catalog.ContactStatusNew, CreatedAt: catalog.At(created)},
		},
		Cases: []catalog.ApplicationCase{
			{ID: 3, Title: "Smart Farm", Industry: "Agriculture", IsActive: true, CreatedAt: catalog.At(created)},
		},
		Media: []catalog.MediaItem{
			{ID: 11, Title: "Gateway Intro", Type: catalog.MediaTypeVideo, IsFeatured: true, ViewCount: 1200, CreatedAt: catalog.At(created)},
			{ID: 12, Title: "Wiring Diagram", Type: catalog.MediaTypeDocument, CreatedAt: catalog.At(created)},
		},
		Pages: map[string]catalog.PageContent{},
		Info:  catalog.ContactInfo{Address: "1 Harbour Road", Phone: "+1 555 0100", Email: "sales@asatec.example"},
		User:  catalog.User{ID: 1, Email: AdminEmail, FirstName: "Site", LastName: "Admin", Role: "admin", IsActive: true, CreatedAt: catalog.At(created)},

		failures: map[string]int{},
		calls:    map[string]int{},
		nextID:   100,
	}
	for _, c := range catalog.Categories() {
		u.Categories = append(u.Categories, catalog.CategoryOption{ID: c, Name: c.Label()})
	}
	for _, m := range catalog.MediaTypes() {
		u.MediaTypes = append(u.MediaTypes, catalog.MediaTypeOption{ID: m, Name: m.Label()})
	}

	u.Server = httptest.NewServer(u.routes())
	t.Cleanup(u.Close)
	return u
}

// Fail makes every request matching "METHOD /path" answer with status.
func (u *Upstream) Fail(route string, status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failures[route] = status
}

// SetCategories replaces the category list served by /products/categories.
func (u *Upstream) SetCategories(categories ...catalog.CategoryOption) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Categories = categories
}

// Calls returns how often "METHOD /path" was requested.
func (u *Upstream) Calls(route string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[route]
}

// ContactsSnapshot returns a copy of the stored contacts.
func (u *Upstream) ContactsSnapshot() []catalog.Contact {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]catalog.Contact(nil), u.Contacts...)
}

// ProductsSnapshot returns a copy of the stored products.
func (u *Upstream) ProductsSnapshot() []catalog.Product {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]catalog.Product(nil), u.Products...)
}

func (u *Upstream) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(u.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", u.listProducts)
		r.Get("/products/categories", u.listCategories)
		r.Get("/products/{id}", u.getProduct)
		r.Get("/media", u.listMedia)
		r.Get("/media/types", u.listMediaTypes)
		r.Get("/media/{id}", u.getMedia)
		r.Get("/cases", u.listCases)
		r.Get("/cases/{id}", u.getCase)
		r.Get("/content/{page}", u.getPage)
		r.Get("/search", u.search)
		r.Get("/contact/info", u.contactInfo)
		r.Post("/contact", u.submitContact)
		r.Post("/auth/login", u.login)
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, catalog.HealthStatus{Status: "healthy", Timestamp: catalog.At(time.Now().UTC())})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireToken)
			r.Get("/auth/me", u.me)
			r.Get("/admin/products", u.listAllProducts)
			r.Post("/admin/products", u.createProduct)
			r.Delete("/admin/products/{id}", u.deleteProduct)
			r.Get("/admin/contacts", u.listContacts)
			r.Delete("/contact/{id}", u.deleteContact)
			r.Post("/contact/mark-all-read", u.markAllRead)
		})
	})
	return r
}

func (u *Upstream) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
		u.mu.Lock()
		u.calls[route]++
		status := u.failures[route]
		u.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+AdminToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (u *Upstream) listProducts(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	q := r.URL.Query()
	out := []catalog.Product{}
	for _, p := range u.Products {
		if !p.IsActive {
			continue
		}
		if q.Get("featured") == "true" && !p.IsFeatured {
			continue
		}
		if c := q.Get("category"); c != "" && c != strconv.Itoa(int(p.Category)) {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (u *Upstream) listCategories(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]catalog.CategoryOption{}, u.Categories...))
}

func (u *Upstream) listMediaTypes(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]catalog.MediaTypeOption{}, u.MediaTypes...))
}

func (u *Upstream) listAllProducts(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]catalog.Product{}, u.Products...))
}

func (u *Upstream) getProduct(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := pathID(r)
	for _, p := range u.Products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Product not found"})
}

func (u *Upstream) createProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextID++
	product := catalog.Product{
		ID:          u.nextID,
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Category:    input.Category,
		ModelNumber: input.ModelNumber,
		IsFeatured:  input.IsFeatured,
		IsActive:    input.IsActive,
		CreatedAt:   catalog.At(time.Now().UTC()),
	}
	u.Products = append(u.Products, product)
	writeJSON(w, http.StatusCreated, product)
}

func (u *Upstream) deleteProduct(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := pathID(r)
	for i, p := range u.Products {
		if p.ID == id {
			u.Products = append(u.Products[:i], u.Products[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Product not found"})
}

func (u *Upstream) listMedia(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	q := r.URL.Query()
	out := []catalog.MediaItem{}
	for _, m := range u.Media {
		if t := q.Get("type"); t != "" && t != strconv.Itoa(int(m.Type)) {
			continue
		}
		if q.Get("featured") == "true" && !m.IsFeatured {
			continue
		}
		out = append(out, m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (u *Upstream) getMedia(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := pathID(r)
	for _, m := range u.Media {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Media item not found"})
}

func (u *Upstream) listCases(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]catalog.ApplicationCase{}, u.Cases...))
}

func (u *Upstream) getCase(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := pathID(r)
	for _, c := range u.Cases {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Application case not found"})
}

func (u *Upstream) getPage(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	page, ok := u.Pages[chi.URLParam(r, "page")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Page not found"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (u *Upstream) search(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, catalog.SearchResults{Query: r.URL.Query().Get("query"), Results: append([]catalog.SearchResult{}, u.Hits...)})
}

func (u *Upstream) contactInfo(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, u.Info)
}

func (u *Upstream) submitContact(w http.ResponseWriter, r *http.Request) {
	var submission catalog.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextID++
	contact := catalog.Contact{
		ID:        u.nextID,
		FirstName: submission.FirstName,
		LastName:  submission.LastName,
		Company:   submission.Company,
		Email:     submission.Email,
		Phone:     submission.Phone,
		Subject:   submission.Subject,
		Message:   submission.Message,
		Type:      submission.Type,
		CreatedAt: catalog.At(time.Now().UTC()),
	}
	u.Contacts = append(u.Contacts, contact)
	writeJSON(w, http.StatusCreated, contact)
}

func (u *Upstream) listContacts(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]catalog.Contact{}, u.Contacts...))
}

func (u *Upstream) deleteContact(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := pathID(r)
	for i, c := range u.Contacts {
		if c.ID == id {
			u.Contacts = append(u.Contacts[:i], u.Contacts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Contact not found"})
}

func (u *Upstream) markAllRead(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.Contacts {
		u.Contacts[i].Status = catalog.ContactStatusInProgress
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All contacts marked as read"})
}

func (u *Upstream) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if creds.Email != AdminEmail || creds.Password != AdminPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		return
	}
	writeJSON(w, http.StatusOK, catalog.LoginResult{AccessToken: AdminToken, TokenType: "bearer"})
}

func (u *Upstream) me(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	writeJSON(w, http.StatusOK, u.User)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
