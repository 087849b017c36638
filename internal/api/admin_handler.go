package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/service"
	"github.com/personal-blog-cms/internal/validation"
)

// AdminHandler serves the staff dashboard and article/comment
// moderation views
type AdminHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Dashboard handles GET /admin-dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	data, err := h.services.Article.Dashboard(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load dashboard")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{
		"Articles":        data.Articles,
		"PendingComments": data.PendingComments,
		"RecentDownloads": data.RecentDownloads,
	})
}

// ArticleCreateForm handles GET /dashboard/article/create
func (h *AdminHandler) ArticleCreateForm(c *gin.Context) {
	render(c, http.StatusOK, "article_form.html", gin.H{"Form": &models.ArticleForm{}})
}

// ArticleCreate handles POST /dashboard/article/create
func (h *AdminHandler) ArticleCreate(c *gin.Context) {
	form := bindArticleForm(c)

	if errs := validation.ValidateArticle(form); len(errs) > 0 {
		render(c, http.StatusOK, "article_form.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	article := &models.Article{
		Title:       form.Title,
		Slug:        form.Slug,
		Content:     form.Content,
		Excerpt:     form.Excerpt,
		IsPublished: form.IsPublished,
	}
	if !h.applyUploads(c, article, form) {
		return
	}

	err := h.services.Article.Create(c.Request.Context(), article)
	if errors.Is(err, service.ErrSlugTaken) {
		errs := validation.Errors{{Field: "slug", Message: "slug is already in use"}}
		render(c, http.StatusOK, "article_form.html", gin.H{"Form": form, "Errors": errs})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create article")
		serverError(c)
		return
	}

	setFlash(c, "success", "Article created.")
	c.Redirect(http.StatusFound, "/admin-dashboard")
}

// ArticleEditForm handles GET /dashboard/article/:id/edit
func (h *AdminHandler) ArticleEditForm(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}
	form := &models.ArticleForm{
		Title:       article.Title,
		Slug:        article.Slug,
		Content:     article.Content,
		Excerpt:     article.Excerpt,
		IsPublished: article.IsPublished,
	}
	render(c, http.StatusOK, "article_form.html", gin.H{"Form": form, "Article": article})
}

// ArticleEdit handles POST /dashboard/article/:id/edit. Uploads
// replace the stored paths only when a new file is supplied.
func (h *AdminHandler) ArticleEdit(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}

	form := bindArticleForm(c)
	if errs := validation.ValidateArticle(form); len(errs) > 0 {
		render(c, http.StatusOK, "article_form.html", gin.H{"Form": form, "Article": article, "Errors": errs})
		return
	}

	article.Title = form.Title
	article.Slug = form.Slug
	article.Content = form.Content
	article.Excerpt = form.Excerpt
	article.IsPublished = form.IsPublished
	if !h.applyUploads(c, article, form) {
		return
	}

	err := h.services.Article.Update(c.Request.Context(), article)
	if errors.Is(err, service.ErrSlugTaken) {
		errs := validation.Errors{{Field: "slug", Message: "slug is already in use"}}
		render(c, http.StatusOK, "article_form.html", gin.H{"Form": form, "Article": article, "Errors": errs})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("article_id", article.ID).Msg("Failed to update article")
		serverError(c)
		return
	}

	setFlash(c, "success", "Article updated.")
	c.Redirect(http.StatusFound, "/admin-dashboard")
}

// ArticleDeleteConfirm handles GET /dashboard/article/:id/delete
func (h *AdminHandler) ArticleDeleteConfirm(c *gin.Context) {
	article, ok := h.loadArticle(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "article_confirm_delete.html", gin.H{"Article": article})
}

// ArticleDelete handles POST /dashboard/article/:id/delete. Deletion
// cascades to the article's comments, replies and downloads.
func (h *AdminHandler) ArticleDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	err = h.services.Article.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("article_id", id).Msg("Failed to delete article")
		serverError(c)
		return
	}

	setFlash(c, "success", "Article deleted.")
	c.Redirect(http.StatusFound, "/admin-dashboard")
}

// AddReply handles POST /dashboard/comment/:id/reply. The reply
// author is the acting staff principal.
func (h *AdminHandler) AddReply(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	var form models.ReplyForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn().Err(err).Msg("Failed to bind reply form")
	}

	if errs := validation.ValidateReply(&form); len(errs) > 0 {
		setFlash(c, "error", "Could not add the reply: "+errs[0].Message+".")
		c.Redirect(http.StatusFound, "/admin-dashboard")
		return
	}

	user := currentUser(c)
	err = h.services.Comment.Reply(c.Request.Context(), commentID, user.Username, form.Content)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("comment_id", commentID).Msg("Failed to add reply")
		serverError(c)
		return
	}

	setFlash(c, "success", "Reply added.")
	c.Redirect(http.StatusFound, "/admin-dashboard")
}

// ApproveComment handles POST /dashboard/comment/:id/approve.
// Approving twice is a no-op.
func (h *AdminHandler) ApproveComment(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	err = h.services.Comment.Approve(c.Request.Context(), commentID)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("comment_id", commentID).Msg("Failed to approve comment")
		serverError(c)
		return
	}

	setFlash(c, "success", "Comment approved.")
	c.Redirect(http.StatusFound, "/admin-dashboard")
}

// loadArticle resolves the :id param for staff article views,
// rendering 404 or 500 itself when it fails
func (h *AdminHandler) loadArticle(c *gin.Context) (*models.Article, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return nil, false
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		h.log.Error().Err(err).Int64("article_id", id).Msg("Failed to load article")
		serverError(c)
		return nil, false
	}
	return article, true
}

// bindArticleForm reads the article form fields. The checkbox needs
// manual handling: browsers send "on" or omit the field entirely.
func bindArticleForm(c *gin.Context) *models.ArticleForm {
	published := c.PostForm("is_published")
	return &models.ArticleForm{
		Title:       c.PostForm("title"),
		Slug:        c.PostForm("slug"),
		Content:     c.PostForm("content"),
		Excerpt:     c.PostForm("excerpt"),
		IsPublished: published == "on" || published == "true",
	}
}

// applyUploads stores the optional image and file parts and fills the
// article's path fields. Returns false after rendering an error
// response.
func (h *AdminHandler) applyUploads(c *gin.Context, article *models.Article, form *models.ArticleForm) bool {
	if image, err := c.FormFile("image"); err == nil {
		path, err := h.saveUpload(c, image, filepath.Join("articles", "images"))
		if err != nil {
			h.renderUploadError(c, article, form, "image", err)
			return false
		}
		article.ImagePath = path
	}
	if file, err := c.FormFile("file"); err == nil {
		path, err := h.saveUpload(c, file, filepath.Join("articles", "files"))
		if err != nil {
			h.renderUploadError(c, article, form, "file", err)
			return false
		}
		article.FilePath = path
	}
	return true
}

func (h *AdminHandler) renderUploadError(c *gin.Context, article *models.Article, form *models.ArticleForm, field string, err error) {
	h.log.Error().Err(err).Str("field", field).Msg("Failed to store upload")
	errs := validation.Errors{{Field: field, Message: "could not store the uploaded file"}}
	data := gin.H{"Form": form, "Errors": errs}
	if article.ID != 0 {
		data["Article"] = article
	}
	render(c, http.StatusOK, "article_form.html", data)
}

// saveUpload writes an uploaded part under the upload dir with a
// short unique prefix and returns the stored path relative to the
// upload dir
func (h *AdminHandler) saveUpload(c *gin.Context, header *multipart.FileHeader, subdir string) (string, error) {
	if header.Size > h.cfg.Upload.MaxUploadSize {
		return "", fmt.Errorf("file too large, max size is %d MB", h.cfg.Upload.MaxUploadSize/(1024*1024))
	}

	dir := filepath.Join(h.cfg.Upload.Dir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s", uuid.New().String()[:8], filepath.Base(header.Filename))
	relPath := filepath.Join(subdir, filename)

	if err := c.SaveUploadedFile(header, filepath.Join(h.cfg.Upload.Dir, relPath)); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return relPath, nil
}
