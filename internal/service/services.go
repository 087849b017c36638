package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/mail"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/repository"
)

// Sentinel errors translated by handlers into HTTP outcomes
var (
	// ErrNotFound covers unresolvable identifiers and state-predicate
	// failures such as "must be published"
	ErrNotFound = errors.New("not found")

	// ErrNoFile means the article exists but has no downloadable
	// attachment
	ErrNoFile = errors.New("article has no downloadable file")

	// ErrSlugTaken means another article already owns the slug
	ErrSlugTaken = errors.New("slug already in use")

	// ErrInvalidCredentials covers unknown users, wrong passwords and
	// non-staff principals alike
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Listing sizes fixed by the public site design
const (
	HomeArticleCount   = 3
	ArticlesPerPage    = 6
	DashboardDownloads = 10
)

// ArticlePage is one page of the public article list
type ArticlePage struct {
	Articles   []*models.Article
	Page       int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// ArticleDetail is the public detail view context: the article plus
// its approved comments with nested replies
type ArticleDetail struct {
	Article  *models.Article
	Comments []*models.Comment
}

// DashboardData is the staff dashboard context
type DashboardData struct {
	Articles        []*models.Article
	PendingComments []*models.Comment
	RecentDownloads []*models.Download
}

// ArticleService covers public reads, the download audit and staff
// article administration
type ArticleService interface {
	Home(ctx context.Context) ([]*models.Article, error)
	List(ctx context.Context, page int) (*ArticlePage, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*ArticleDetail, error)
	RecordDownload(ctx context.Context, articleID int64, ip string) (*models.Article, error)
	Dashboard(ctx context.Context) (*DashboardData, error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
}

// CommentService covers public submission and staff moderation
type CommentService interface {
	Submit(ctx context.Context, articleID int64, form *models.CommentForm) (*models.Article, error)
	Approve(ctx context.Context, commentID int64) error
	Reply(ctx context.Context, commentID int64, authorName, content string) error
}

// ContactService covers public intake and staff moderation of contact
// messages
type ContactService interface {
	Submit(ctx context.Context, form *models.ContactForm) error
	List(ctx context.Context) ([]*models.ContactMessage, int, error)
	View(ctx context.Context, id int64) (*models.ContactMessage, error)
	Get(ctx context.Context, id int64) (*models.ContactMessage, error)
	Delete(ctx context.Context, id int64) error
}

// AuthService covers the staff login session lifecycle
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	Principal(ctx context.Context, token string) (*models.User, error)
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Comment CommentService
	Contact ContactService
	Auth    AuthService
}

// NewServices creates all services with their dependencies
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger, notifier mail.Notifier) *Services {
	return &Services{
		Article: NewArticleService(repos, log),
		Comment: NewCommentService(repos, log),
		Contact: NewContactService(repos, notifier, log),
		Auth:    NewAuthService(repos, cfg.Session.TTL, log),
	}
}
