package models

import (
	"time"
)

// ContactMessage represents a message sent through the public contact
// form. IsRead flips to true exactly once, on first staff view.
type ContactMessage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MinMessageLen is the minimum contact message length after trimming
// whitespace
const MinMessageLen = 10

// MaxSubjectLen bounds the contact subject field
const MaxSubjectLen = 200
