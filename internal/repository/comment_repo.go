package repository

import (
	"context"
	"database/sql"

	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and fills in the generated ID
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (article_id, author_name, author_email, content, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		comment.ArticleID, comment.AuthorName, comment.AuthorEmail,
		comment.Content, comment.IsApproved,
	).Scan(&comment.ID, &comment.CreatedAt)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT id, article_id, author_name, author_email, content, is_approved, created_at
		FROM comments WHERE id = $1
	`
	var c models.Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.ArticleID, &c.AuthorName, &c.AuthorEmail,
		&c.Content, &c.IsApproved, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApprovedByArticle returns approved comments for an article,
// oldest first
func (r *commentRepo) ListApprovedByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, article_id, author_name, author_email, content, is_approved, created_at
		FROM comments
		WHERE article_id = $1 AND is_approved = TRUE
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, articleID)
}

// ListPending returns all unapproved comments for the staff dashboard
func (r *commentRepo) ListPending(ctx context.Context) ([]*models.Comment, error) {
	query := `
		SELECT id, article_id, author_name, author_email, content, is_approved, created_at
		FROM comments
		WHERE is_approved = FALSE
		ORDER BY created_at ASC
	`
	return r.list(ctx, query)
}

// Approve marks a comment approved. Approving an already-approved
// comment is a no-op.
func (r *commentRepo) Approve(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE comments SET is_approved = TRUE WHERE id = $1", id)
	return err
}

// CreateReply inserts a staff reply and fills in the generated ID
func (r *commentRepo) CreateReply(ctx context.Context, reply *models.CommentReply) error {
	query := `
		INSERT INTO comment_replies (comment_id, author_name, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		reply.CommentID, reply.AuthorName, reply.Content,
	).Scan(&reply.ID, &reply.CreatedAt)
}

// ListRepliesByComment returns replies for a comment, oldest first
func (r *commentRepo) ListRepliesByComment(ctx context.Context, commentID int64) ([]*models.CommentReply, error) {
	query := `
		SELECT id, comment_id, author_name, content, created_at
		FROM comment_replies
		WHERE comment_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var replies []*models.CommentReply
	for rows.Next() {
		var reply models.CommentReply
		if err := rows.Scan(
			&reply.ID, &reply.CommentID, &reply.AuthorName, &reply.Content, &reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		replies = append(replies, &reply)
	}
	return replies, rows.Err()
}

func (r *commentRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.ArticleID, &c.AuthorName, &c.AuthorEmail,
			&c.Content, &c.IsApproved, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
