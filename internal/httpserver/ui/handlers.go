package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/console"
	"github.com/samounneang/asatec-vercel/internal/content"
	"github.com/samounneang/asatec-vercel/internal/forms"
)

// API is everything the handlers read from or write to the catalog API.
type API interface {
	console.API
	forms.ProductCreator
	forms.ProductDeleter
	forms.ContactAdmin
	forms.ContactSubmitter
	forms.Searcher

	Products(ctx context.Context, filters apiclient.Filters) ([]catalog.Product, error)
	Product(ctx context.Context, id int64) (catalog.Product, error)
	ProductCategories(ctx context.Context) ([]catalog.CategoryOption, error)
	MediaTypes(ctx context.Context) ([]catalog.MediaTypeOption, error)
	MediaItem(ctx context.Context, id int64) (catalog.MediaItem, error)
	ApplicationCase(ctx context.Context, id int64) (catalog.ApplicationCase, error)
	ContactInfo(ctx context.Context) (catalog.ContactInfo, error)
}

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	API      API
	Content  *content.Loader
	Throttle *forms.Throttle
	BasePath string
	Logger   *zap.Logger
}

// Handlers exposes HTTP handlers for the public site and the admin console.
type Handlers struct {
	api      API
	content  *content.Loader
	throttle *forms.Throttle
	basePath string
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	if deps.API == nil {
		panic("ui: api is required")
	}
	loader := deps.Content
	if loader == nil {
		loader = content.NewLoader(nil, "", deps.Logger)
	}
	basePath := deps.BasePath
	if basePath == "" {
		basePath = "/admin"
	}
	return &Handlers{
		api:      deps.API,
		content:  loader,
		throttle: deps.Throttle,
		basePath: basePath,
	}
}
