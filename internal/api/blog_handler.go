package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/service"
	"github.com/personal-blog-cms/internal/validation"
)

// BlogHandler serves the public blog pages
type BlogHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "blog").Logger(),
	}
}

// Home handles GET /
func (h *BlogHandler) Home(c *gin.Context) {
	articles, err := h.services.Article.Home(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load home articles")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{"Articles": articles})
}

// ListArticles handles GET /articles
func (h *BlogHandler) ListArticles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.services.Article.List(c.Request.Context(), page)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list articles")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "article_list.html", gin.H{
		"Articles":   result.Articles,
		"Page":       result.Page,
		"TotalPages": result.TotalPages,
		"HasNext":    result.HasNext,
		"HasPrev":    result.HasPrev,
	})
}

// ArticleDetail handles GET /article/:slug
func (h *BlogHandler) ArticleDetail(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := h.services.Article.GetPublishedBySlug(c.Request.Context(), slug)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("slug", slug).Msg("Failed to load article")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "article_detail.html", gin.H{
		"Article":  detail.Article,
		"Comments": detail.Comments,
	})
}

// DownloadFile handles GET /article/:slug/download, where the param
// is the numeric article id. The audit row is written before the
// bytes are streamed.
func (h *BlogHandler) DownloadFile(c *gin.Context) {
	articleID, err := strconv.ParseInt(c.Param("slug"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	article, err := h.services.Article.RecordDownload(c.Request.Context(), articleID, resolveClientIP(c))
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if errors.Is(err, service.ErrNoFile) {
		setFlash(c, "error", "No file is available for download.")
		c.Redirect(http.StatusFound, "/article/"+article.Slug)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("article_id", articleID).Msg("Failed to record download")
		serverError(c)
		return
	}

	path := filepath.Join(h.cfg.Upload.Dir, article.FilePath)
	c.FileAttachment(path, filepath.Base(article.FilePath))
}

// AddComment handles POST /article/:slug/comment, where the param is
// the numeric article id. Success and failure both redirect back to
// the article detail page; the submission is never re-displayed
// pre-filled.
func (h *BlogHandler) AddComment(c *gin.Context) {
	articleID, err := strconv.ParseInt(c.Param("slug"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	var form models.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn().Err(err).Msg("Failed to bind comment form")
	}

	if errs := validation.ValidateComment(&form); len(errs) > 0 {
		article, err := h.services.Article.Get(c.Request.Context(), articleID)
		if errors.Is(err, service.ErrNotFound) || (err == nil && !article.IsPublished) {
			notFound(c)
			return
		}
		if err != nil {
			h.log.Error().Err(err).Int64("article_id", articleID).Msg("Failed to load article")
			serverError(c)
			return
		}
		setFlash(c, "error", fmt.Sprintf("Could not add your comment: %s.", errs[0].Message))
		c.Redirect(http.StatusFound, "/article/"+article.Slug)
		return
	}

	article, err := h.services.Comment.Submit(c.Request.Context(), articleID, &form)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("article_id", articleID).Msg("Failed to submit comment")
		serverError(c)
		return
	}

	setFlash(c, "success", "Your comment has been added and will be visible after approval.")
	c.Redirect(http.StatusFound, "/article/"+article.Slug)
}
