// Package render turns catalog records into HTML fragments. Every renderer is
// a pure function of its input and escapes record content.
package render

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/notify"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("render").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl"))

// Funcs exposes the formatting helpers to other template sets.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":        FormatDate,
		"longDate":    FormatLongDate,
		"relative":    Relative,
		"views":       FormatViews,
		"dash":        Dash,
		"placeholder": PlaceholderImage,
		"searchURL":   SearchResultURL,
	}
}

func fragment(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

// ProductRows renders the admin products table body.
func ProductRows(products []catalog.Product) templ.Component {
	return fragment("product_rows", products)
}

// ContactRows renders the admin contacts table body.
func ContactRows(contacts []catalog.Contact) templ.Component {
	return fragment("contact_rows", contacts)
}

// CaseRows renders the admin application cases table body.
func CaseRows(cases []catalog.ApplicationCase) templ.Component {
	return fragment("case_rows", cases)
}

// MediaRows renders the admin media table body.
func MediaRows(items []catalog.MediaItem) templ.Component {
	return fragment("media_rows", items)
}

// UserRows renders the admin users table body.
func UserRows(users []catalog.User) templ.Component {
	return fragment("user_rows", users)
}

// ActivityList renders the dashboard's recent activity.
func ActivityList(items []catalog.Activity) templ.Component {
	return fragment("activity_list", items)
}

// LoadingRow is the placeholder shown in a table body while it loads.
func LoadingRow() templ.Component {
	return fragment("loading_row", nil)
}

// ErrorRow replaces a table body when its load failed.
func ErrorRow(message string) templ.Component {
	return fragment("error_row", message)
}

// LoadingBlock is the placeholder shown in a card grid while it loads.
func LoadingBlock() templ.Component {
	return fragment("loading_block", nil)
}

// ErrorBlock replaces a card grid when its load failed.
func ErrorBlock(message string) templ.Component {
	return fragment("error_block", message)
}

// ProductCards renders the public product grid.
func ProductCards(products []catalog.Product) templ.Component {
	return fragment("product_cards", products)
}

// ProductDetail renders a single product page body.
func ProductDetail(product catalog.Product) templ.Component {
	return fragment("product_detail", product)
}

// VideoCards renders the public media grid.
func VideoCards(items []catalog.MediaItem) templ.Component {
	return fragment("video_cards", items)
}

// MediaPlayer renders the detail view of a media item.
func MediaPlayer(item catalog.MediaItem) templ.Component {
	return fragment("media_player", item)
}

// CaseCards renders the public application case grid.
func CaseCards(cases []catalog.ApplicationCase) templ.Component {
	return fragment("case_cards", cases)
}

// CaseDetail renders a single application case.
func CaseDetail(item catalog.ApplicationCase) templ.Component {
	return fragment("case_detail", item)
}

// SearchResults renders the hits for a query.
func SearchResults(results catalog.SearchResults) templ.Component {
	return fragment("search_results", results)
}

// ContactInfo renders the company contact block.
func ContactInfo(info catalog.ContactInfo) templ.Component {
	return fragment("contact_info", info)
}

// Toast renders a single notification.
func Toast(n notify.Notification) templ.Component {
	return fragment("toast", n)
}

// Toasts renders the notification stack. With oob set it is marked for an
// htmx out-of-band swap.
func Toasts(items []notify.Notification, oob bool) templ.Component {
	return fragment("toasts", struct {
		Items []notify.Notification
		OOB   bool
	}{Items: items, OOB: oob})
}
