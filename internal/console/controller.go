package console

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/respcache"
)

// API is the subset of the catalog client the console reads from.
type API interface {
	AdminProducts(ctx context.Context) ([]catalog.Product, error)
	AdminContacts(ctx context.Context) ([]catalog.Contact, error)
	ApplicationCases(ctx context.Context, filters apiclient.Filters) ([]catalog.ApplicationCase, error)
	MediaItems(ctx context.Context, filters apiclient.Filters) ([]catalog.MediaItem, error)
	CurrentUser(ctx context.Context) (catalog.User, error)
}

type loader func(ctx context.Context, c *Controller, generation uint64)

// Controller owns the current page and dispatches page changes to loaders.
// Each navigation cancels the previous load and bumps a generation counter;
// results of stale generations never reach the view.
type Controller struct {
	api    API
	cache  *respcache.Cache
	view   View
	logger *zap.Logger

	mu         sync.Mutex
	current    PageID
	generation uint64
	cancel     context.CancelFunc
	loaders    map[PageID]loader
}

// Options configures a Controller.
type Options struct {
	API    API
	Cache  *respcache.Cache
	View   View
	Logger *zap.Logger
}

// New builds a controller positioned on the dashboard.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:     opts.API,
		cache:   opts.Cache,
		view:    opts.View,
		logger:  logger,
		current: PageDashboard,
		loaders: defaultLoaders(),
	}
}

// CurrentPage returns the page recorded by the last navigation.
func (c *Controller) CurrentPage() PageID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NavigateToPage switches the active page and runs its loader. An id naming
// no page in the view leaves the view untouched apart from the fragment, but
// still becomes the current page.
func (c *Controller) NavigateToPage(ctx context.Context, id PageID) {
	c.mu.Lock()
	loadCtx, generation := c.beginLocked(ctx)
	c.current = id
	if c.view.HasPage(id) {
		c.view.DeactivatePages()
		c.view.ActivatePage(id)
		c.view.HighlightNav(id)
	}
	c.view.SetFragment(string(id))
	run := c.loaders[id]
	c.mu.Unlock()

	if run != nil {
		run(loadCtx, c, generation)
	}
}

// Restore positions the controller on id without loading anything. Requests
// that act on a page the browser already shows use it before a write so the
// follow-up Refresh reloads the right list.
func (c *Controller) Restore(id PageID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = id
	if c.view.HasPage(id) {
		c.view.DeactivatePages()
		c.view.ActivatePage(id)
		c.view.HighlightNav(id)
	}
	c.view.SetFragment(string(id))
}

// Refresh re-runs the loader of the current page.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	loadCtx, generation := c.beginLocked(ctx)
	run := c.loaders[c.current]
	c.mu.Unlock()

	if run != nil {
		run(loadCtx, c, generation)
	}
}

// RefreshCounters reloads the dashboard counters without changing page. It
// shares the current generation, so a later navigation discards its results.
func (c *Controller) RefreshCounters(ctx context.Context) {
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	loadDashboard(ctx, c, generation)
}

// HandleQuickAction maps dashboard shortcuts onto controller operations.
// Unknown actions are ignored.
func (c *Controller) HandleQuickAction(ctx context.Context, action string) {
	switch action {
	case ActionAddProduct:
		c.apply(0, func(v View) { v.OpenModal(ModalProduct) })
	case ActionAddMedia:
		c.NavigateToPage(ctx, PageMedia)
	case ActionViewContacts:
		c.NavigateToPage(ctx, PageContacts)
	}
}

// Close cancels any load still in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
}

func (c *Controller) beginLocked(ctx context.Context) (context.Context, uint64) {
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return loadCtx, c.generation
}

// apply runs fn against the view unless generation is stale. Generation 0
// always applies.
func (c *Controller) apply(generation uint64, fn func(View)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != 0 && generation != c.generation {
		return false
	}
	fn(c.view)
	return true
}

func (c *Controller) stale(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation != c.generation
}
