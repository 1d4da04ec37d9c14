// Package console drives the admin console: which page is active, what each
// page loads and how results reach the view.
package console

import "strings"

// PageID names an admin page.
type PageID string

const (
	PageDashboard    PageID = "dashboard"
	PageProducts     PageID = "products"
	PageContacts     PageID = "contacts"
	PageApplications PageID = "applications"
	PageMedia        PageID = "media"
	PageUsers        PageID = "users"
)

// Pages lists the admin pages in menu order.
var Pages = []PageID{
	PageDashboard,
	PageProducts,
	PageContacts,
	PageApplications,
	PageMedia,
	PageUsers,
}

var pageTitles = map[PageID]string{
	PageDashboard:    "Dashboard",
	PageProducts:     "Products",
	PageContacts:     "Contacts",
	PageApplications: "Applications",
	PageMedia:        "Media Library",
	PageUsers:        "Users",
}

// Valid reports whether id names a known page.
func (id PageID) Valid() bool {
	_, ok := pageTitles[id]
	return ok
}

// Title is the heading shown for the page.
func (id PageID) Title() string {
	if title, ok := pageTitles[id]; ok {
		return title
	}
	return "Admin"
}

// ResolveInitialPage maps a URL fragment or path segment to a page,
// defaulting to the dashboard.
func ResolveInitialPage(fragment string) PageID {
	id := PageID(strings.ToLower(strings.Trim(strings.TrimSpace(fragment), "#/")))
	if id.Valid() {
		return id
	}
	return PageDashboard
}

// Element ids shared between loaders and the admin markup.
const (
	TargetProducts     = "productsTable"
	TargetContacts     = "contactsTable"
	TargetApplications = "applicationsTable"
	TargetMedia        = "mediaTable"
	TargetUsers        = "usersTable"
	TargetActivity     = "activityList"

	CounterProducts     = "productCount"
	CounterApplications = "applicationCount"
	CounterMedia        = "mediaCount"
	CounterContacts     = "contactCount"
	CounterContactBadge = "contactBadge"

	ModalProduct = "productModal"
)

// Quick actions exposed on the dashboard.
const (
	ActionAddProduct   = "add-product"
	ActionAddMedia     = "add-media"
	ActionViewContacts = "view-contacts"
)
