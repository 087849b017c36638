package repository

import (
	"context"

	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/models"
)

// downloadRepo is the concrete implementation of DownloadRepository
type downloadRepo struct {
	db *database.DB
}

// NewDownloadRepo creates a new download repository
func NewDownloadRepo(db *database.DB) DownloadRepository {
	return &downloadRepo{db: db}
}

// Create appends a download audit row
func (r *downloadRepo) Create(ctx context.Context, download *models.Download) error {
	query := `
		INSERT INTO downloads (article_id, ip_address, downloaded_at)
		VALUES ($1, $2, now())
		RETURNING id, downloaded_at
	`
	return r.db.QueryRowContext(ctx, query,
		download.ArticleID, download.IPAddress,
	).Scan(&download.ID, &download.DownloadedAt)
}

// ListRecent returns the most recent downloads with their article
// titles for the staff dashboard
func (r *downloadRepo) ListRecent(ctx context.Context, limit int) ([]*models.Download, error) {
	query := `
		SELECT d.id, d.article_id, d.ip_address, d.downloaded_at, a.title
		FROM downloads d
		JOIN articles a ON a.id = d.article_id
		ORDER BY d.downloaded_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		var d models.Download
		if err := rows.Scan(
			&d.ID, &d.ArticleID, &d.IPAddress, &d.DownloadedAt, &d.ArticleTitle,
		); err != nil {
			return nil, err
		}
		downloads = append(downloads, &d)
	}
	return downloads, rows.Err()
}

// CountByArticle returns the number of downloads for an article
func (r *downloadRepo) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM downloads WHERE article_id = $1", articleID,
	).Scan(&count)
	return count, err
}
