package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/service"
)

// principalKey is the gin context key holding the authenticated staff
// user, when present
const principalKey = "principal"

// principalMiddleware resolves the session cookie to a staff user and
// attaches it to the request context. It never rejects: public pages
// run with a nil principal.
func principalMiddleware(services *service.Services, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err == nil && token != "" {
			user, err := services.Auth.Principal(c.Request.Context(), token)
			if err != nil {
				log.Error().Err(err).Msg("Failed to resolve session")
			} else if user != nil {
				c.Set(principalKey, user)
			}
		}
		c.Next()
	}
}

// requireStaff gates staff-only routes. Unauthenticated requests are
// redirected to the login view with the originally requested path
// preserved for the post-login redirect.
func requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(principalKey); !ok {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/accounts/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated staff user, or nil
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(principalKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// sanitizeNext restricts a post-login redirect target to same-site
// absolute paths. Anything else falls back to the dashboard.
func sanitizeNext(next string) string {
	if next == "" {
		return "/admin-dashboard"
	}
	if decoded, err := url.QueryUnescape(next); err == nil {
		next = decoded
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/admin-dashboard"
	}
	return next
}
