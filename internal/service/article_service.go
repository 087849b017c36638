package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/repository"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(repos *repository.Repositories, log zerolog.Logger) ArticleService {
	return &articleService{
		repos: repos,
		log:   log.With().Str("service", "article").Logger(),
	}
}

// Home returns the latest published articles for the home page
func (s *articleService) Home(ctx context.Context) ([]*models.Article, error) {
	return s.repos.Article.ListPublished(ctx, HomeArticleCount, 0)
}

// List returns one page of published articles, newest first. Pages
// are 1-based; out-of-range pages clamp to the valid range.
func (s *articleService) List(ctx context.Context, page int) (*ArticlePage, error) {
	total, err := s.repos.Article.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	totalPages := (total + ArticlesPerPage - 1) / ArticlesPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	articles, err := s.repos.Article.ListPublished(ctx, ArticlesPerPage, (page-1)*ArticlesPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	return &ArticlePage{
		Articles:   articles,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// GetPublishedBySlug builds the public detail context. Unpublished
// and unknown slugs are indistinguishable: both yield ErrNotFound.
func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*ArticleDetail, error) {
	article, err := s.repos.Article.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil || !article.IsPublished {
		return nil, ErrNotFound
	}

	comments, err := s.repos.Comment.ListApprovedByArticle(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	for _, comment := range comments {
		replies, err := s.repos.Comment.ListRepliesByComment(ctx, comment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list replies: %w", err)
		}
		comment.Replies = replies
	}

	return &ArticleDetail{Article: article, Comments: comments}, nil
}

// RecordDownload checks the download preconditions and appends the
// audit row. The row is written before any bytes are streamed; a
// failed transfer still counts as an attempt.
func (s *articleService) RecordDownload(ctx context.Context, articleID int64, ip string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil || !article.IsPublished {
		return nil, ErrNotFound
	}
	if !article.HasFile() {
		return article, ErrNoFile
	}

	download := &models.Download{ArticleID: article.ID, IPAddress: ip}
	if err := s.repos.Download.Create(ctx, download); err != nil {
		return nil, fmt.Errorf("failed to record download: %w", err)
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Str("ip", ip).
		Msg("Download recorded")

	return article, nil
}

// Dashboard assembles the staff dashboard: every article, pending
// comments and the most recent downloads
func (s *articleService) Dashboard(ctx context.Context) (*DashboardData, error) {
	articles, err := s.repos.Article.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	pending, err := s.repos.Comment.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending comments: %w", err)
	}

	downloads, err := s.repos.Download.ListRecent(ctx, DashboardDownloads)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}

	for _, article := range articles {
		count, err := s.repos.Download.CountByArticle(ctx, article.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count downloads: %w", err)
		}
		article.DownloadCount = count
	}

	return &DashboardData{
		Articles:        articles,
		PendingComments: pending,
		RecentDownloads: downloads,
	}, nil
}

// Get retrieves any article by ID for staff edit and delete views
func (s *articleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// Create persists a new article after checking slug uniqueness
func (s *articleService) Create(ctx context.Context, article *models.Article) error {
	taken, err := s.repos.Article.SlugExists(ctx, article.Slug, 0)
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return ErrSlugTaken
	}

	if err := s.repos.Article.Create(ctx, article); err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	s.log.Info().Int64("article_id", article.ID).Str("slug", article.Slug).Msg("Article created")
	return nil
}

// Update persists edits to an existing article
func (s *articleService) Update(ctx context.Context, article *models.Article) error {
	taken, err := s.repos.Article.SlugExists(ctx, article.Slug, article.ID)
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return ErrSlugTaken
	}

	if err := s.repos.Article.Update(ctx, article); err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	s.log.Info().Int64("article_id", article.ID).Str("slug", article.Slug).Msg("Article updated")
	return nil
}

// Delete removes an article. Its comments, replies and downloads go
// with it via the schema cascade.
func (s *articleService) Delete(ctx context.Context, id int64) error {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil {
		return ErrNotFound
	}

	if err := s.repos.Article.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	s.log.Info().Int64("article_id", id).Str("slug", article.Slug).Msg("Article deleted")
	return nil
}
