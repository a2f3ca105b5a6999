package models

import (
	"time"
)

// Link maps a short code to its destination. Links are insert-only: the
// short code is unique and never changes once created.
type Link struct {
	ID          int64     `json:"id" db:"id"`
	ShortCode   string    `json:"short_code" db:"short_code"`
	OriginalURL string    `json:"original_url" db:"original_url"`
	Created     time.Time `json:"created_at" db:"created_at"`
}

// LinkWithCount is the dashboard listing row. ClickCount is derived from
// the visits table, never stored on the link itself.
type LinkWithCount struct {
	Link
	ClickCount int `json:"clickCount" db:"click_count"`
}
