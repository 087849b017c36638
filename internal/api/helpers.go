package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flash is a one-time notice surfaced on the next rendered page
type Flash struct {
	Level   string // "success" or "error"
	Message string
}

const flashCookie = "flash"

// setFlash stores a one-shot notice in a short-lived cookie
func setFlash(c *gin.Context, level, message string) {
	c.SetCookie(flashCookie, level+"|"+message, 300, "/", "", false, true)
}

// takeFlash consumes the pending flash notice, if any
func takeFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	level, message, found := strings.Cut(value, "|")
	if !found {
		return &Flash{Level: "success", Message: value}
	}
	return &Flash{Level: level, Message: message}
}

// render writes an HTML response with the flash notice and the
// authenticated principal injected into the template data
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = takeFlash(c)
	}
	data["Principal"] = currentUser(c)
	c.HTML(status, name, data)
}

// notFound renders the 404 page
func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{})
}

// serverError renders the 500 page
func serverError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "error.html", gin.H{})
}

// resolveClientIP prefers the first X-Forwarded-For entry and falls
// back to the direct connection address
func resolveClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if parts := strings.Split(xff, ","); len(parts) > 0 {
			candidate := strings.TrimSpace(parts[0])
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}
	return c.ClientIP()
}
