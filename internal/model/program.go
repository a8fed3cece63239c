package model

import "time"

// Program is a certification program in the public catalog.
type Program struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Level         string    `json:"level"` // "foundation" | "advanced" | "master"
	PriceCents    int64     `json:"price_cents"`
	Currency      string    `json:"currency"`
	DurationWeeks int       `json:"duration_weeks"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgramListOptions carries filter and pagination parameters for the catalog.
type ProgramListOptions struct {
	// Level filters by program level; empty returns all levels.
	Level string
	// PublishedOnly hides drafts; public endpoints always set it.
	PublishedOnly bool
	Limit         int
	Offset        int
}
