package models

import (
	"time"
)

// Download is an append-only audit record of a file download. One row
// per attempt, never updated, no dedup.
type Download struct {
	ID           int64     `json:"id" db:"id"`
	ArticleID    int64     `json:"article_id" db:"article_id"`
	IPAddress    string    `json:"ip_address" db:"ip_address"`
	DownloadedAt time.Time `json:"downloaded_at" db:"downloaded_at"`

	// ArticleTitle is populated by dashboard queries, not stored
	ArticleTitle string `json:"article_title,omitempty" db:"-"`
}
