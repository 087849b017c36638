package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(principalMiddleware(services, cfg.Session.CookieName, log))

	router.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})
	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)
	router.Static("/uploads", cfg.Upload.Dir)

	// Handlers
	blog := NewBlogHandler(services, cfg, log)
	contact := NewContactHandler(services, log)
	auth := NewAuthHandler(services, cfg, log)
	admin := NewAdminHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)

	// Public pages
	router.GET("/", blog.Home)
	router.GET("/articles", blog.ListArticles)
	// The :slug segment carries the article slug on the detail route
	// and the numeric article id on the download and comment routes;
	// gin allows only one param name per position.
	router.GET("/article/:slug", blog.ArticleDetail)
	router.GET("/article/:slug/download", blog.DownloadFile)
	router.POST("/article/:slug/comment", blog.AddComment)
	router.GET("/contact", contact.Form)
	router.POST("/contact", contact.Submit)

	// Authentication
	router.GET("/accounts/login", auth.LoginForm)
	router.POST("/accounts/login", auth.Login)
	router.GET("/accounts/logout", auth.Logout)

	// Staff-only dashboard
	staff := router.Group("/", requireStaff())
	{
		staff.GET("/admin-dashboard", admin.Dashboard)
		staff.GET("/dashboard/article/create", admin.ArticleCreateForm)
		staff.POST("/dashboard/article/create", admin.ArticleCreate)
		staff.GET("/dashboard/article/:id/edit", admin.ArticleEditForm)
		staff.POST("/dashboard/article/:id/edit", admin.ArticleEdit)
		staff.GET("/dashboard/article/:id/delete", admin.ArticleDeleteConfirm)
		staff.POST("/dashboard/article/:id/delete", admin.ArticleDelete)
		staff.POST("/dashboard/comment/:id/reply", admin.AddReply)
		staff.POST("/dashboard/comment/:id/approve", admin.ApproveComment)
		staff.GET("/dashboard/contact", contact.Messages)
		staff.GET("/dashboard/contact/:id", contact.MessageDetail)
		staff.GET("/dashboard/contact/:id/delete", contact.MessageDeleteConfirm)
		staff.POST("/dashboard/contact/:id/delete", contact.MessageDelete)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "personal-blog-cms",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.String(http.StatusInternalServerError, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}
