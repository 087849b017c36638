package models

import (
	"time"
)

// Comment represents a reader comment on an article. New comments are
// always created unapproved and stay hidden from public views until a
// staff user approves them.
type Comment struct {
	ID          int64     `json:"id" db:"id"`
	ArticleID   int64     `json:"article_id" db:"article_id"`
	AuthorName  string    `json:"author_name" db:"author_name"`
	AuthorEmail string    `json:"author_email" db:"author_email"`
	Content     string    `json:"content" db:"content"`
	IsApproved  bool      `json:"is_approved" db:"is_approved"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Replies is populated by detail queries, not stored
	Replies []*CommentReply `json:"replies,omitempty" db:"-"`
}

// CommentReply represents a staff reply attached to a comment
type CommentReply struct {
	ID         int64     `json:"id" db:"id"`
	CommentID  int64     `json:"comment_id" db:"comment_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// MaxAuthorNameLen bounds comment and reply author names
const MaxAuthorNameLen = 100
