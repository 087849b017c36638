package repository

import (
	"context"
	"database/sql"

	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/models"
)

// contactRepo is the concrete implementation of ContactRepository
type contactRepo struct {
	db *database.DB
}

// NewContactRepo creates a new contact message repository
func NewContactRepo(db *database.DB) ContactRepository {
	return &contactRepo{db: db}
}

// Create inserts a new contact message and fills in the generated ID
func (r *contactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, now())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		msg.Name, msg.Email, msg.Subject, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// GetByID retrieves a contact message by ID
func (r *contactRepo) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages WHERE id = $1
	`
	var m models.ContactMessage
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListAll returns all contact messages, newest first
func (r *contactRepo) ListAll(ctx context.Context) ([]*models.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// CountUnread returns the number of unread messages
func (r *contactRepo) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE",
	).Scan(&count)
	return count, err
}

// MarkRead flips is_read to true. The predicate keeps the flip
// one-way: a read message never becomes unread again.
func (r *contactRepo) MarkRead(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE contact_messages SET is_read = TRUE WHERE id = $1 AND is_read = FALSE", id)
	return err
}

// Delete removes a contact message
func (r *contactRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = $1", id)
	return err
}
