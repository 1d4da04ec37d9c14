package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/samounneang/asatec-vercel/internal/catalog"
)

const (
	adminDateLayout = "Jan 2, 2006, 03:04 PM"
	longDateLayout  = "January 2, 2006"
)

var (
	numberPrinter = message.NewPrinter(language.English)
	now           = time.Now
)

// FormatDate renders timestamps in the admin table layout.
func FormatDate(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(adminDateLayout)
}

// FormatLongDate renders timestamps for public pages.
func FormatLongDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(longDateLayout)
}

// Relative returns a coarse "time ago" string.
func Relative(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	diff := now().Sub(ts)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return ts.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatViews adds thousands separators to a view count.
func FormatViews(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// Dash substitutes "-" for blank values.
func Dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// PlaceholderImage falls back to a square placeholder for missing images.
func PlaceholderImage(src string, size int) string {
	if strings.TrimSpace(src) != "" {
		return src
	}
	return "https://via.placeholder.com/" + strconv.Itoa(size)
}

// SearchResultURL links a search hit to its public page.
func SearchResultURL(hit catalog.SearchResult) string {
	if hit.URL != "" {
		return hit.URL
	}
	id := strconv.FormatInt(hit.ID, 10)
	switch strings.ToLower(hit.Kind) {
	case "product", "products":
		return "/products/" + id
	case "media", "video":
		return "/media/" + id
	case "case", "cases", "application":
		return "/cases/" + id
	case "page", "content":
		return "/pages/" + strings.ToLower(strings.ReplaceAll(hit.Title, " ", "-"))
	default:
		return "/search"
	}
}
