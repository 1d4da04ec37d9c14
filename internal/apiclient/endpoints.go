package apiclient

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/samounneang/asatec-vercel/internal/catalog"
)

// Filters are the query parameters accepted by list endpoints.
type Filters map[string]string

// Values converts non-blank filters into query parameters.
func (f Filters) Values() url.Values {
	if len(f) == 0 {
		return nil
	}
	values := url.Values{}
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := strings.TrimSpace(f[key]); value != "" {
			values.Set(key, value)
		}
	}
	return values
}

// Products lists public catalog entries.
func (c *Client) Products(ctx context.Context, filters Filters) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.Get(ctx, "/products", filters.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, id int64) (catalog.Product, error) {
	var out catalog.Product
	err := c.Get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

// ProductCategories lists the categories known to the API.
func (c *Client) ProductCategories(ctx context.Context) ([]catalog.CategoryOption, error) {
	var out []catalog.CategoryOption
	if err := c.Get(ctx, "/products/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MediaItems lists media library entries.
func (c *Client) MediaItems(ctx context.Context, filters Filters) ([]catalog.MediaItem, error) {
	var out []catalog.MediaItem
	if err := c.Get(ctx, "/media", filters.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MediaItem fetches a single media entry.
func (c *Client) MediaItem(ctx context.Context, id int64) (catalog.MediaItem, error) {
	var out catalog.MediaItem
	err := c.Get(ctx, "/media/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

// MediaTypes lists the media types known to the API.
func (c *Client) MediaTypes(ctx context.Context) ([]catalog.MediaTypeOption, error) {
	var out []catalog.MediaTypeOption
	if err := c.Get(ctx, "/media/types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitContact posts a public contact form submission.
func (c *Client) SubmitContact(ctx context.Context, submission catalog.ContactSubmission) (catalog.Contact, error) {
	var out catalog.Contact
	err := c.Post(ctx, "/contact", submission, &out)
	return out, err
}

// ContactInfo fetches the company contact block.
func (c *Client) ContactInfo(ctx context.Context) (catalog.ContactInfo, error) {
	var out catalog.ContactInfo
	err := c.Get(ctx, "/contact/info", nil, &out)
	return out, err
}

// DeleteContact removes a contact submission.
func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.Delete(ctx, "/contact/"+strconv.FormatInt(id, 10), nil)
}

// MarkAllContactsRead moves every new submission out of the New status.
func (c *Client) MarkAllContactsRead(ctx context.Context) error {
	return c.Post(ctx, "/contact/mark-all-read", nil, nil)
}

// ApplicationCases lists application stories.
func (c *Client) ApplicationCases(ctx context.Context, filters Filters) ([]catalog.ApplicationCase, error) {
	var out []catalog.ApplicationCase
	if err := c.Get(ctx, "/cases", filters.Values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplicationCase fetches a single application story.
func (c *Client) ApplicationCase(ctx context.Context, id int64) (catalog.ApplicationCase, error) {
	var out catalog.ApplicationCase
	err := c.Get(ctx, "/cases/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

// PageContent fetches an editable content page by name.
func (c *Client) PageContent(ctx context.Context, page string) (catalog.PageContent, error) {
	var out catalog.PageContent
	err := c.Get(ctx, "/content/"+url.PathEscape(page), nil, &out)
	return out, err
}

// Search runs a catalog-wide query.
func (c *Client) Search(ctx context.Context, query string, filters Filters) (catalog.SearchResults, error) {
	params := filters.Values()
	if params == nil {
		params = url.Values{}
	}
	params.Set("query", query)

	var out catalog.SearchResults
	if err := c.Get(ctx, "/search", params, &out); err != nil {
		return catalog.SearchResults{}, err
	}
	if out.Query == "" {
		out.Query = query
	}
	return out, nil
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (catalog.LoginResult, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out catalog.LoginResult
	err := c.Post(ctx, "/auth/login", payload, &out)
	return out, err
}

// CurrentUser returns the administrator owning the bearer token.
func (c *Client) CurrentUser(ctx context.Context) (catalog.User, error) {
	var out catalog.User
	err := c.Get(ctx, "/auth/me", nil, &out)
	return out, err
}

// Health calls the API health endpoint.
func (c *Client) Health(ctx context.Context) (catalog.HealthStatus, error) {
	var out catalog.HealthStatus
	err := c.Get(ctx, "/health", nil, &out)
	return out, err
}

// AdminProducts lists every product, inactive ones included.
func (c *Client) AdminProducts(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	if err := c.Get(ctx, "/admin/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct adds a catalog entry.
func (c *Client) CreateProduct(ctx context.Context, input catalog.ProductInput) (catalog.Product, error) {
	var out catalog.Product
	err := c.Post(ctx, "/admin/products", input, &out)
	return out, err
}

// DeleteProduct removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.Delete(ctx, "/admin/products/"+strconv.FormatInt(id, 10), nil)
}

// AdminContacts lists every contact submission.
func (c *Client) AdminContacts(ctx context.Context) ([]catalog.Contact, error) {
	var out []catalog.Contact
	if err := c.Get(ctx, "/admin/contacts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
