// Package catalog defines the records served by the catalog API and the closed
// enumerations used to label them.
package catalog

import (
	"strings"
	"time"
)

// Product is a catalog entry.
type Product struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle,omitempty"`
	Description    string    `json:"description,omitempty"`
	TechnicalSpecs string    `json:"technicalSpecs,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Category       Category  `json:"category"`
	ModelNumber    string    `json:"modelNumber,omitempty"`
	IsFeatured     bool      `json:"isFeatured"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	Description    string   `json:"description"`
	TechnicalSpecs string   `json:"technicalSpecs"`
	ImageURL       string   `json:"imageUrl"`
	Category       Category `json:"category"`
	ModelNumber    string   `json:"modelNumber"`
	IsFeatured     bool     `json:"isFeatured"`
	IsActive       bool     `json:"isActive"`
}

// CategoryOption is an entry of the category listing endpoint.
type CategoryOption struct {
	ID   Category `json:"id"`
	Name string   `json:"name"`
}

// Contact is a submission received through the public contact form.
type Contact struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Company   string        `json:"company,omitempty"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message,omitempty"`
	Type      ContactType   `json:"type"`
	Status    ContactStatus `json:"status"`
	CreatedAt Timestamp     `json:"createdAt"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ContactSubmission is the payload posted by the public contact form.
type ContactSubmission struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Company   string      `json:"company,omitempty"`
	Subject   string      `json:"subject"`
	Message   string      `json:"message"`
	Type      ContactType `json:"type"`
}

// ContactInfo is the company contact block.
type ContactInfo struct {
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	BusinessHours string `json:"businessHours"`
}

// MediaItem is an entry of the media library.
type MediaItem struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	URL          string    `json:"url,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	ViewCount    int64     `json:"viewCount"`
	Type         MediaType `json:"type"`
	IsFeatured   bool      `json:"isFeatured"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// MediaTypeOption is an entry of the media type listing endpoint.
type MediaTypeOption struct {
	ID   MediaType `json:"id"`
	Name string    `json:"name"`
}

// ApplicationCase is a customer application story.
type ApplicationCase struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsFeatured  bool      `json:"isFeatured"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// PageContent is an editable content page.
type PageContent struct {
	PageName        string    `json:"pageName"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Format          string    `json:"format,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty"`
	IsPublished     *bool     `json:"isPublished,omitempty"`
	UpdatedAt       Timestamp `json:"updatedAt"`
}

// Published reports whether the page may be shown. A missing flag means
// published; the API only serves published pages.
func (p PageContent) Published() bool {
	return p.IsPublished == nil || *p.IsPublished
}

// IsMarkdown reports whether the body should go through the markdown renderer.
func (p PageContent) IsMarkdown() bool {
	switch strings.ToLower(strings.TrimSpace(p.Format)) {
	case "html":
		return false
	default:
		return true
	}
}

// User is an administrator account as returned by /auth/me.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
}

// DisplayName prefers the full name and falls back to the email.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}

// LoginResult carries the bearer token issued by /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HealthStatus is the payload of /health.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp Timestamp `json:"timestamp"`
}

// Activity is a row of the dashboard's recent activity list.
type Activity struct {
	Icon string
	Text string
	At   time.Time
}
