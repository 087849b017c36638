package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/service"
	"github.com/personal-blog-cms/internal/validation"
)

// ContactHandler serves the public contact form and the staff message
// views
type ContactHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(services *service.Services, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		services: services,
		log:      log.With().Str("handler", "contact").Logger(),
	}
}

// Form handles GET /contact
func (h *ContactHandler) Form(c *gin.Context) {
	render(c, http.StatusOK, "contact.html", gin.H{"Form": &models.ContactForm{}})
}

// Submit handles POST /contact. Field violations redisplay the form
// with inline errors; a stored message survives even when the
// notification email fails.
func (h *ContactHandler) Submit(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn().Err(err).Msg("Failed to bind contact form")
	}

	if errs := validation.ValidateContact(&form); len(errs) > 0 {
		render(c, http.StatusOK, "contact.html", gin.H{"Form": &form, "Errors": errs})
		return
	}

	if err := h.services.Contact.Submit(c.Request.Context(), &form); err != nil {
		h.log.Error().Err(err).Msg("Failed to store contact message")
		serverError(c)
		return
	}

	setFlash(c, "success", "Your message has been sent. I will reply as soon as possible.")
	c.Redirect(http.StatusFound, "/contact")
}

// Messages handles GET /dashboard/contact (staff-only)
func (h *ContactHandler) Messages(c *gin.Context) {
	messages, unread, err := h.services.Contact.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list contact messages")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "contact_messages.html", gin.H{
		"Messages":    messages,
		"UnreadCount": unread,
	})
}

// MessageDetail handles GET /dashboard/contact/:id (staff-only).
// Opening a message marks it read, once.
func (h *ContactHandler) MessageDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	msg, err := h.services.Contact.View(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("message_id", id).Msg("Failed to load contact message")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "contact_message_detail.html", gin.H{"Message": msg})
}

// MessageDeleteConfirm handles GET /dashboard/contact/:id/delete
// (staff-only)
func (h *ContactHandler) MessageDeleteConfirm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	msg, err := h.services.Contact.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("message_id", id).Msg("Failed to load contact message")
		serverError(c)
		return
	}
	render(c, http.StatusOK, "contact_message_confirm_delete.html", gin.H{"Message": msg})
}

// MessageDelete handles POST /dashboard/contact/:id/delete
// (staff-only)
func (h *ContactHandler) MessageDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return
	}

	err = h.services.Contact.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("message_id", id).Msg("Failed to delete contact message")
		serverError(c)
		return
	}

	setFlash(c, "success", "Message deleted.")
	c.Redirect(http.StatusFound, "/dashboard/contact")
}
