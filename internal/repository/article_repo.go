package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article and fills in the generated ID
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (title, slug, content, excerpt, image_path, file_path, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		article.Title, article.Slug, article.Content, article.Excerpt,
		nullable(article.ImagePath), nullable(article.FilePath), article.IsPublished,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

// Update rewrites the full article field set and bumps updated_at
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET title = $2, slug = $3, content = $4, excerpt = $5,
		    image_path = $6, file_path = $7, is_published = $8, updated_at = $9
		WHERE id = $1
	`
	article.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
		nullable(article.ImagePath), nullable(article.FilePath), article.IsPublished,
		article.UpdatedAt,
	)
	return err
}

// Delete removes an article; comments, replies and downloads cascade
// at the schema level
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	return err
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := articleSelect + " WHERE id = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := articleSelect + " WHERE slug = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// SlugExists checks slug uniqueness, ignoring the article being edited
func (r *articleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)",
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// ListPublished returns a page of published articles, newest first,
// each annotated with its comment count
func (r *articleRepo) ListPublished(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	query := `
		SELECT a.id, a.title, a.slug, a.content, a.excerpt, a.image_path, a.file_path,
		       a.is_published, a.created_at, a.updated_at, COUNT(c.id)
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.id AND c.is_approved = TRUE
		WHERE a.is_published = TRUE
		GROUP BY a.id
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var a models.Article
		var imagePath, filePath sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &imagePath, &filePath,
			&a.IsPublished, &a.CreatedAt, &a.UpdatedAt, &a.CommentCount,
		); err != nil {
			return nil, err
		}
		a.ImagePath = imagePath.String
		a.FilePath = filePath.String
		articles = append(articles, &a)
	}
	return articles, rows.Err()
}

// CountPublished returns the number of published articles
func (r *articleRepo) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM articles WHERE is_published = TRUE",
	).Scan(&count)
	return count, err
}

// ListAll returns every article, newest first, for the staff dashboard
func (r *articleRepo) ListAll(ctx context.Context) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, articleSelect+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

const articleSelect = `
	SELECT id, title, slug, content, excerpt, image_path, file_path, is_published, created_at, updated_at
	FROM articles`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var imagePath, filePath sql.NullString
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &imagePath, &filePath,
		&a.IsPublished, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ImagePath = imagePath.String
	a.FilePath = filePath.String
	return &a, nil
}

func (r *articleRepo) scanOne(row *sql.Row) (*models.Article, error) {
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// nullable maps empty strings to SQL NULL for optional path columns
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
