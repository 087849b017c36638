package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/service"
	"github.com/personal-blog-cms/internal/validation"
)

// AuthHandler serves the staff login and logout views
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// LoginForm handles GET /accounts/login. Already-authenticated
// visitors go straight to the dashboard.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/admin-dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"Next": c.Query("next")})
}

// Login handles POST /accounts/login
func (h *AuthHandler) Login(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/admin-dashboard")
		return
	}

	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Warn().Err(err).Msg("Failed to bind login form")
	}

	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}

	if errs := validation.ValidateLogin(&form); len(errs) > 0 {
		render(c, http.StatusOK, "login.html", gin.H{"Next": next, "Errors": errs})
		return
	}

	session, err := h.services.Auth.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		render(c, http.StatusOK, "login.html", gin.H{
			"Next":       next,
			"LoginError": "Invalid username or password.",
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Login failed")
		serverError(c)
		return
	}

	c.SetCookie(
		h.cfg.Session.CookieName,
		session.Token,
		int(h.cfg.Session.TTL.Seconds()),
		"/",
		"",
		h.cfg.Session.Secure,
		true,
	)
	c.Redirect(http.StatusFound, sanitizeNext(next))
}

// Logout handles GET /accounts/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Session.CookieName)
	if err == nil && token != "" {
		if err := h.services.Auth.Logout(c.Request.Context(), token); err != nil {
			h.log.Error().Err(err).Msg("Failed to tear down session")
		}
	}
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)

	setFlash(c, "success", "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}
