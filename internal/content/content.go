// Package content resolves editable site pages, preferring the API and
// falling back to markdown files shipped with the binary's content directory.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/samounneang/asatec-vercel/internal/apiclient"
	"github.com/samounneang/asatec-vercel/internal/catalog"
	"github.com/samounneang/asatec-vercel/internal/respcache"
)

// KindPage is the cache kind used for content pages.
const KindPage = "content"

const defaultDir = "content/pages"

// ErrNotFound is returned when neither the API nor the local directory has
// the page.
var ErrNotFound = errors.New("content: page not found")

// PageSource fetches pages from the API.
type PageSource interface {
	PageContent(ctx context.Context, page string) (catalog.PageContent, error)
}

// Loader resolves content pages.
type Loader struct {
	source PageSource
	dir    string
	logger *zap.Logger
}

// NewLoader builds a Loader. A nil source reads local files only.
func NewLoader(source PageSource, dir string, logger *zap.Logger) *Loader {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, dir: dir, logger: logger}
}

// Dir returns the fallback directory.
func (l *Loader) Dir() string { return l.dir }

type frontMatter struct {
	Title           string `yaml:"title"`
	Format          string `yaml:"format"`
	MetaDescription string `yaml:"meta_description"`
	Published       *bool  `yaml:"published"`
	UpdatedAt       string `yaml:"updated_at"`
}

// Page returns the named page. Reads go through cache, which may be nil.
// The API wins when it answers; a 404 or transport failure falls back to
// <dir>/<name>.md. Pages flagged unpublished are reported as not found; a
// missing flag counts as published.
func (l *Loader) Page(ctx context.Context, cache *respcache.Cache, name string) (catalog.PageContent, error) {
	slug := sanitizeSlug(name)
	if slug == "" {
		return catalog.PageContent{}, ErrNotFound
	}

	key := respcache.Key(KindPage, map[string]string{"page": slug})
	page, err := respcache.GetOrFetch(ctx, cache, key, func(ctx context.Context) (catalog.PageContent, error) {
		return l.fetch(ctx, slug)
	})
	if err != nil {
		return catalog.PageContent{}, err
	}
	if !page.Published() {
		return catalog.PageContent{}, ErrNotFound
	}
	return page, nil
}

func (l *Loader) fetch(ctx context.Context, slug string) (catalog.PageContent, error) {
	if l.source != nil {
		page, err := l.source.PageContent(ctx, slug)
		if err == nil {
			if page.PageName == "" {
				page.PageName = slug
			}
			return page, nil
		}
		var netErr *apiclient.NetworkError
		if !errors.Is(err, apiclient.ErrNotFound) && !errors.As(err, &netErr) {
			return catalog.PageContent{}, err
		}
		if netErr != nil {
			l.logger.Warn("content api unreachable, using local page", zap.String("page", slug), zap.Error(err))
		}
	}
	return readMarkdown(l.dir, slug)
}

func readMarkdown(dir, slug string) (catalog.PageContent, error) {
	file := filepath.Join(dir, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return catalog.PageContent{}, ErrNotFound
		}
		return catalog.PageContent{}, fmt.Errorf("content: read %s: %w", file, err)
	}

	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return catalog.PageContent{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}

	page := catalog.PageContent{
		PageName:        slug,
		Title:           strings.TrimSpace(front.Title),
		Content:         body,
		Format:          strings.TrimSpace(front.Format),
		MetaDescription: strings.TrimSpace(front.MetaDescription),
		IsPublished:     front.Published,
		UpdatedAt:       catalog.At(parseDate(front.UpdatedAt)),
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = catalog.At(info.ModTime())
		}
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

// sanitizeSlug lowercases name and rejects anything that could escape the
// content directory.
func sanitizeSlug(name string) string {
	slug := strings.Trim(strings.TrimSpace(strings.ToLower(name)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}
