package console

import (
	"context"
	"errors"
	"sort"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/render"
	"github.com/samounneang/asatec-vercel/internal/respcache"
)

// Cache kinds used for admin reads.
const (
	KindAdminProducts = "admin-products"
	KindAdminContacts = "admin-contacts"
	KindCases         = "cases"
	KindMedia         = "media"
	KindCurrentUser   = "auth-me"
)

const recentActivityLimit = 5

func defaultLoaders() map[PageID]loader {
	return map[PageID]loader{
		PageDashboard:    loadDashboard,
		PageProducts:     listLoader(TargetProducts, "Failed to load products", fetchProducts, render.ProductRows),
		PageContacts:     listLoader(TargetContacts, "Failed to load contacts", fetchContacts, render.ContactRows),
		PageApplications: listLoader(TargetApplications, "Failed to load application cases", fetchCases, render.CaseRows),
		PageMedia:        listLoader(TargetMedia, "Failed to load media", fetchMedia, render.MediaRows),
		PageUsers:        listLoader(TargetUsers, "Failed to load users", fetchUsers, render.UserRows),
	}
}

func listLoader[T any](target, failure string, fetch func(context.Context, *Controller) ([]T, error), fragment func([]T) templ.Component) loader {
	return func(ctx context.Context, c *Controller, generation uint64) {
		c.apply(generation, func(v View) { v.ShowLoading(target) })

		items, err := fetch(ctx, c)
		if err != nil {
			if c.stale(generation) || errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Warn("admin list load failed", zap.String("target", target), zap.Error(err))
			c.apply(generation, func(v View) { v.ShowError(target, failure) })
			return
		}
		c.apply(generation, func(v View) { v.RenderList(target, fragment(items)) })
	}
}

func fetchProducts(ctx context.Context, c *Controller) ([]catalog.Product, error) {
	return respcache.GetOrFetch(ctx, c.cache, respcache.Key(KindAdminProducts, nil), c.api.AdminProducts)
}

func fetchContacts(ctx context.Context, c *Controller) ([]catalog.Contact, error) {
	return respcache.GetOrFetch(ctx, c.cache, respcache.Key(KindAdminContacts, nil), c.api.AdminContacts)
}

func fetchCases(ctx context.Context, c *Controller) ([]catalog.ApplicationCase, error) {
	return respcache.GetOrFetch(ctx, c.cache, respcache.Key(KindCases, nil), func(ctx context.Context) ([]catalog.ApplicationCase, error) {
		return c.api.ApplicationCases(ctx, nil)
	})
}

func fetchMedia(ctx context.Context, c *Controller) ([]catalog.MediaItem, error) {
	return respcache.GetOrFetch(ctx, c.cache, respcache.Key(KindMedia, nil), func(ctx context.Context) ([]catalog.MediaItem, error) {
		return c.api.MediaItems(ctx, nil)
	})
}

func fetchUsers(ctx context.Context, c *Controller) ([]catalog.User, error) {
	user, err := respcache.GetOrFetch(ctx, c.cache, respcache.Key(KindCurrentUser, nil), c.api.CurrentUser)
	if err != nil {
		return nil, err
	}
	return []catalog.User{user}, nil
}

// loadDashboard fetches every collection in parallel, then sets the counters
// and the recent activity list in one view update.
func loadDashboard(ctx context.Context, c *Controller, generation uint64) {
	var (
		products []catalog.Product
		contacts []catalog.Contact
		cases    []catalog.ApplicationCase
		media    []catalog.MediaItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = fetchProducts(gctx, c)
		return err
	})
	g.Go(func() (err error) {
		contacts, err = fetchContacts(gctx, c)
		return err
	})
	g.Go(func() (err error) {
		cases, err = fetchCases(gctx, c)
		return err
	})
	g.Go(func() (err error) {
		media, err = fetchMedia(gctx, c)
		return err
	})

	if err := g.Wait(); err != nil {
		if c.stale(generation) || errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("dashboard load failed", zap.Error(err))
		c.apply(generation, func(v View) { v.ShowError(TargetActivity, "Failed to load dashboard data") })
		return
	}

	unread := countNew(contacts)
	activity := recentActivity(products, contacts, cases, media, recentActivityLimit)
	c.apply(generation, func(v View) {
		v.SetCounter(CounterProducts, len(products))
		v.SetCounter(CounterApplications, len(cases))
		v.SetCounter(CounterMedia, len(media))
		v.SetCounter(CounterContacts, unread)
		v.SetCounter(CounterContactBadge, unread)
		v.RenderList(TargetActivity, render.ActivityList(activity))
	})
}

func countNew(contacts []catalog.Contact) int {
	n := 0
	for _, contact := range contacts {
		if contact.Status == catalog.ContactStatusNew {
			n++
		}
	}
	return n
}

// recentActivity merges the newest records of every collection, newest first.
// Records without a timestamp are skipped.
func recentActivity(products []catalog.Product, contacts []catalog.Contact, cases []catalog.ApplicationCase, media []catalog.MediaItem, limit int) []catalog.Activity {
	var items []catalog.Activity
	for _, p := range products {
		if !p.CreatedAt.IsZero() {
			items = append(items, catalog.Activity{Icon: "product", Text: `New product "` + p.Title + `" added`, At: p.CreatedAt.Time})
		}
	}
	for _, ct := range contacts {
		if !ct.CreatedAt.IsZero() {
			items = append(items, catalog.Activity{Icon: "contact", Text: "New contact form submission from " + ct.FullName(), At: ct.CreatedAt.Time})
		}
	}
	for _, cs := range cases {
		if !cs.CreatedAt.IsZero() {
			items = append(items, catalog.Activity{Icon: "case", Text: `Application case "` + cs.Title + `" published`, At: cs.CreatedAt.Time})
		}
	}
	for _, m := range media {
		if !m.CreatedAt.IsZero() {
			items = append(items, catalog.Activity{Icon: "media", Text: m.Type.Label() + ` "` + m.Title + `" uploaded`, At: m.CreatedAt.Time})
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].At.After(items[j].At) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
