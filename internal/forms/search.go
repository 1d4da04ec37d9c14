package forms

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/notify"
)

// Searcher runs site searches.
type Searcher interface {
	Search(ctx context.Context, query string, filters apiclient.Filters) (catalog.SearchResults, error)
}

// SearchFailureMessage is shown when the search endpoint fails.
const SearchFailureMessage = "Search failed. Please try again."

// Search runs query. A blank query is a no-op and returns ok=false without
// calling the API.
func (p *Pipeline) Search(ctx context.Context, api Searcher, query string, filters apiclient.Filters) (catalog.SearchResults, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return catalog.SearchResults{}, false, nil
	}
	results, err := api.Search(ctx, query, filters)
	if err != nil {
		p.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		p.notify(notify.Error(SearchFailureMessage, notify.SiteDismiss))
		return catalog.SearchResults{Query: query}, true, err
	}
	return results, true, nil
}
