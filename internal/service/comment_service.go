package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/repository"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(repos *repository.Repositories, log zerolog.Logger) CommentService {
	return &commentService{
		repos: repos,
		log:   log.With().Str("service", "comment").Logger(),
	}
}

// Submit persists a new comment against a published article. The
// approval flag is forced to false no matter what was submitted; the
// comment stays invisible until staff approve it. Returns the parent
// article so the handler can redirect to its detail page.
func (s *commentService) Submit(ctx context.Context, articleID int64, form *models.CommentForm) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil || !article.IsPublished {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		ArticleID:   article.ID,
		AuthorName:  form.AuthorName,
		AuthorEmail: form.AuthorEmail,
		Content:     form.Content,
		IsApproved:  false,
	}
	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("article_id", article.ID).
		Msg("Comment submitted, awaiting approval")

	return article, nil
}

// Approve makes a comment publicly visible. Approving an already-
// approved comment is a no-op.
func (s *commentService) Approve(ctx context.Context, commentID int64) error {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return ErrNotFound
	}

	if err := s.repos.Comment.Approve(ctx, commentID); err != nil {
		return fmt.Errorf("failed to approve comment: %w", err)
	}

	s.log.Info().Int64("comment_id", commentID).Msg("Comment approved")
	return nil
}

// Reply attaches a staff reply to a comment, stamping the acting
// principal's name as the author
func (s *commentService) Reply(ctx context.Context, commentID int64, authorName, content string) error {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return ErrNotFound
	}

	reply := &models.CommentReply{
		CommentID:  comment.ID,
		AuthorName: authorName,
		Content:    content,
	}
	if err := s.repos.Comment.CreateReply(ctx, reply); err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}

	s.log.Info().
		Int64("reply_id", reply.ID).
		Int64("comment_id", comment.ID).
		Str("author", authorName).
		Msg("Reply posted")

	return nil
}
