package repository

import (
	"context"

	"github.com/personal-blog-cms/internal/database"
	"github.com/personal-blog-cms/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Article, error)
	CountPublished(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
}

// CommentRepository defines the interface for comment and reply data
// operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListApprovedByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
	ListPending(ctx context.Context) ([]*models.Comment, error)
	Approve(ctx context.Context, id int64) error
	CreateReply(ctx context.Context, reply *models.CommentReply) error
	ListRepliesByComment(ctx context.Context, commentID int64) ([]*models.CommentReply, error)
}

// DownloadRepository defines the interface for download audit records
type DownloadRepository interface {
	Create(ctx context.Context, download *models.Download) error
	ListRecent(ctx context.Context, limit int) ([]*models.Download, error)
	CountByArticle(ctx context.Context, articleID int64) (int, error)
}

// ContactRepository defines the interface for contact messages
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	ListAll(ctx context.Context) ([]*models.ContactMessage, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines the interface for staff principals and their
// sessions
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Comment  CommentRepository
	Download DownloadRepository
	Contact  ContactRepository
	User     UserRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(db),
		Comment:  NewCommentRepo(db),
		Download: NewDownloadRepo(db),
		Contact:  NewContactRepo(db),
		User:     NewUserRepo(db),
	}
}
