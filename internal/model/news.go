package model

import "time"

// Article is a news post shown on the public site.
type Article struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished reports whether the article is visible to the public.
func (a *Article) IsPublished() bool {
	return a.PublishedAt != nil && !a.PublishedAt.After(time.Now())
}

// ArticleListOptions carries pagination for listing news articles.
type ArticleListOptions struct {
	// PublishedOnly hides drafts and scheduled posts; public endpoints set it.
	PublishedOnly bool
	Limit         int
	Offset        int
}
