package models

import (
	"time"
)

// Article represents a blog article
type Article struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Content     string    `json:"content" db:"content"`
	Excerpt     string    `json:"excerpt" db:"excerpt"`
	ImagePath   string    `json:"image_path,omitempty" db:"image_path"`
	FilePath    string    `json:"file_path,omitempty" db:"file_path"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// CommentCount is populated by list queries, not stored
	CommentCount int `json:"comment_count" db:"-"`

	// DownloadCount is populated for staff views, not stored
	DownloadCount int `json:"download_count,omitempty" db:"-"`
}

// HasFile reports whether the article has a downloadable attachment
func (a *Article) HasFile() bool {
	return a.FilePath != ""
}

// MaxTitleLen and MaxExcerptLen bound form input
const (
	MaxTitleLen   = 200
	MaxExcerptLen = 500
)
