package ui

import "strings"

// navLink is a rendered public navigation entry.
type navLink struct {
	Href   string
	Label  string
	Active bool
}

var siteNav = []struct {
	Path  string
	Label string
}{
	{Path: "/", Label: "Home"},
	{Path: "/products", Label: "Products"},
	{Path: "/media", Label: "Media"},
	{Path: "/cases", Label: "Applications"},
	{Path: "/pages/about", Label: "About"},
	{Path: "/contact", Label: "Contact"},
}

// buildSiteNav marks the entry matching currentPath as active.
func buildSiteNav(currentPath string) []navLink {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]navLink, 0, len(siteNav))
	for _, it := range siteNav {
		items = append(items, navLink{Href: it.Path, Label: it.Label, Active: isActive(it.Path, currentPath)})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

func joinBasePath(basePath, suffix string) string {
	base := strings.TrimSpace(basePath)
	if base == "" {
		base = "/admin"
	}
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	if base == "/" {
		return suffix
	}
	return strings.TrimRight(base, "/") + suffix
}
