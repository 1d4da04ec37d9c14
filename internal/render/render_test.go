package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/notify"
)

func renderDoc(t *testing.T, component templ.Component, wrap string) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	html := buf.String()
	if wrap != "" {
		html = "<" + wrap + ">" + html + "</" + wrap + ">"
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + html + "</body></html>"))
	require.NoError(t, err)
	return doc
}

func tableBody(t *testing.T, component templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + buf.String() + "</tbody></table>"))
	require.NoError(t, err)
	return doc
}

func TestEmptyStates(t *testing.T) {
	tables := map[string]templ.Component{
		"No products found":            ProductRows(nil),
		"No contact submissions found": ContactRows([]catalog.Contact{}),
		"No application cases found":   CaseRows(nil),
		"No media items found":         MediaRows(nil),
		"No users found":               UserRows(nil),
	}
	for want, component := range tables {
		doc := tableBody(t, component)
		cell := doc.Find("tbody tr td")
		require.Equal(t, 1, cell.Length(), want)
		require.Equal(t, "7", cell.AttrOr("colspan", ""), want)
		require.Equal(t, want, strings.TrimSpace(cell.Text()))
	}

	grids := map[string]templ.Component{
		"No products found.":          ProductCards(nil),
		"No media items found.":       VideoCards(nil),
		"No application cases found.": CaseCards(nil),
		"No recent activity":          ActivityList(nil),
	}
	for want, component := range grids {
		doc := renderDoc(t, component, "div")
		require.Equal(t, want, strings.TrimSpace(doc.Find("p").First().Text()))
	}
}

func TestProductRowsEscapeContentAndLabelCategories(t *testing.T) {
	products := []catalog.Product{
		{ID: 1, Title: `<script>alert("x")</script>`, Category: catalog.CategoryAutomotive, IsFeatured: true, IsActive: true},
		{ID: 2, Title: "Mystery", Category: catalog.Category(42), ModelNumber: "AS-200"},
	}

	var buf bytes.Buffer
	require.NoError(t, ProductRows(products).Render(context.Background(), &buf))
	require.NotContains(t, buf.String(), "<script>")
	require.Contains(t, buf.String(), "&lt;script&gt;")

	doc := tableBody(t, ProductRows(products))
	rows := doc.Find("tr")
	require.Equal(t, 2, rows.Length())

	first := rows.Eq(0)
	require.Equal(t, "Automotive", strings.TrimSpace(first.Find("td").Eq(2).Text()))
	require.Equal(t, "-", strings.TrimSpace(first.Find("td").Eq(3).Text()))
	require.Equal(t, "Featured", strings.TrimSpace(first.Find(".status-badge.featured").Text()))
	require.Equal(t, "Active", strings.TrimSpace(first.Find(".status-badge.active").Text()))
	require.Equal(t, "products/1/delete", first.Find("button.delete").AttrOr("hx-post", ""))
	require.Equal(t, "https://via.placeholder.com/48", first.Find("img").AttrOr("src", ""))

	second := rows.Eq(1)
	require.Equal(t, catalog.UnknownLabel, strings.TrimSpace(second.Find("td").Eq(2).Text()))
	require.Equal(t, "AS-200", strings.TrimSpace(second.Find("td").Eq(3).Text()))
	require.Equal(t, "Inactive", strings.TrimSpace(second.Find(".status-badge.inactive").Text()))
}

func TestContactRows(t *testing.T) {
	created := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	contacts := []catalog.Contact{{
		ID:        9,
		FirstName: "Grace",
		LastName:  "Hopper",
		Company:   "Navy",
		Email:     "grace@example.com",
		Subject:   "Modules",
		Type:      catalog.ContactTypeTechnical,
		Status:    catalog.ContactStatusClosed,
		CreatedAt: catalog.At(created),
	}, {
		ID:     10,
		Status: catalog.ContactStatus(9),
		Type:   catalog.ContactType(-1),
	}}

	doc := tableBody(t, ContactRows(contacts))
	first := doc.Find("tr").Eq(0)
	require.Equal(t, "Grace Hopper", strings.TrimSpace(first.Find(".font-weight-medium").Text()))
	require.Equal(t, "mailto:grace@example.com", first.Find("a").AttrOr("href", ""))
	require.Equal(t, "Technical", strings.TrimSpace(first.Find("td").Eq(3).Text()))
	require.Equal(t, "Closed", strings.TrimSpace(first.Find(".status-badge.inactive").Text()))
	require.Equal(t, "Mar 9, 2024, 02:05 PM", strings.TrimSpace(first.Find("td").Eq(5).Text()))

	second := doc.Find("tr").Eq(1)
	require.Equal(t, "Unknown", strings.TrimSpace(second.Find("td").Eq(3).Text()))
	status := second.Find("td").Eq(4).Find(".status-badge")
	require.Equal(t, "Unknown", strings.TrimSpace(status.Text()))
	require.Equal(t, "status-badge", strings.TrimSpace(status.AttrOr("class", "")))
	require.Equal(t, "-", strings.TrimSpace(second.Find("td").Eq(5).Text()))
}

func TestVideoCardsFormatViews(t *testing.T) {
	doc := renderDoc(t, VideoCards([]catalog.MediaItem{{ID: 3, Title: "Factory tour", Duration: "3:45", ViewCount: 1234567}}), "div")
	card := doc.Find(".video-card")
	require.Equal(t, 1, card.Length())
	require.Equal(t, "3", card.AttrOr("data-media-id", ""))
	require.Equal(t, "/media/3", card.Find("a.video-thumbnail").AttrOr("href", ""))
	require.Equal(t, "1,234,567 views", strings.TrimSpace(card.Find(".video-meta span").Eq(1).Text()))
}

func TestMediaPlayerWithoutSource(t *testing.T) {
	doc := renderDoc(t, MediaPlayer(catalog.MediaItem{ID: 1, Title: "Soon"}), "")
	require.Zero(t, doc.Find("video").Length())
	require.Equal(t, 1, doc.Find(".alert-warning").Length())
}

func TestPageContentSanitizesMarkdown(t *testing.T) {
	page := catalog.PageContent{
		PageName: "about",
		Title:    "About ASATEC",
		Content:  "## Mission\n\nWe build **modules**.\n\n<script>alert(1)</script>\n\n[site](https://asatec.example)",
	}
	body := string(ContentHTML(page))
	require.Contains(t, body, "<h2")
	require.Contains(t, body, "<strong>modules</strong>")
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, `rel="nofollow"`)

	doc := renderDoc(t, PageContent(page), "")
	require.Equal(t, "About ASATEC", doc.Find("article h1").Text())
	require.Equal(t, "Mission", doc.Find(".page-body h2").Text())
}

func TestPageContentHTMLFormat(t *testing.T) {
	body := string(ContentHTML(catalog.PageContent{Format: "html", Content: `<p onclick="x()">Hi</p>`}))
	require.Equal(t, "<p>Hi</p>", body)
}

func TestSearchResultsLinks(t *testing.T) {
	doc := renderDoc(t, SearchResults(catalog.SearchResults{
		Query: "gps",
		Results: []catalog.SearchResult{
			{Kind: "product", ID: 4, Title: "GPS Tracker"},
			{Kind: "media", ID: 8, Title: "GPS demo", URL: "/media/8?autoplay=1"},
		},
	}), "")
	links := doc.Find(".search-hit a")
	require.Equal(t, 2, links.Length())
	require.Equal(t, "/products/4", links.Eq(0).AttrOr("href", ""))
	require.Equal(t, "/media/8?autoplay=1", links.Eq(1).AttrOr("href", ""))

	empty := renderDoc(t, SearchResults(catalog.SearchResults{Query: "zzz"}), "")
	require.Contains(t, empty.Find(".empty-state").Text(), "zzz")
}

func TestToastCarriesDismissDelay(t *testing.T) {
	n := notify.Error("Something went wrong", notify.AdminDismiss)
	doc := renderDoc(t, Toast(n), "")
	toast := doc.Find(".toast")
	require.True(t, toast.HasClass("alert-error"))
	require.Equal(t, "4000", toast.AttrOr("data-dismiss-after", ""))
	require.Equal(t, "Something went wrong", strings.TrimSpace(toast.Find(".toast-message").Text()))
}

func TestToastsOutOfBandFlag(t *testing.T) {
	items := []notify.Notification{notify.Success("Saved", notify.SiteDismiss)}

	inline := renderDoc(t, Toasts(items, false), "")
	require.Equal(t, 1, inline.Find("#toasts .toast").Length())
	_, oob := inline.Find("#toasts").Attr("hx-swap-oob")
	require.False(t, oob)

	swapped := renderDoc(t, Toasts(nil, true), "")
	require.Equal(t, "true", swapped.Find("#toasts").AttrOr("hx-swap-oob", ""))
	require.Zero(t, swapped.Find(".toast").Length())
}

func TestRelative(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	require.Equal(t, "just now", Relative(fixed.Add(-10*time.Second)))
	require.Equal(t, "1 minute ago", Relative(fixed.Add(-time.Minute)))
	require.Equal(t, "2 hours ago", Relative(fixed.Add(-2*time.Hour)))
	require.Equal(t, "3 days ago", Relative(fixed.Add(-72*time.Hour)))
	require.Equal(t, "May 1, 2025", Relative(fixed.AddDate(0, -1, 0)))
	require.Empty(t, Relative(time.Time{}))
}
