package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/personal-blog-cms/internal/mocks"
	"github.com/personal-blog-cms/internal/models"
)

func TestMockArticleRepository_PublishedListing(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	older := &models.Article{Title: "Older", Slug: "older", Content: "c", Excerpt: "e", IsPublished: true}
	m.Article.Create(ctx, older)
	older.CreatedAt = time.Now().Add(-time.Hour)

	newer := &models.Article{Title: "Newer", Slug: "newer", Content: "c", Excerpt: "e", IsPublished: true}
	m.Article.Create(ctx, newer)

	draft := &models.Article{Title: "Draft", Slug: "draft", Content: "c", Excerpt: "e"}
	m.Article.Create(ctx, draft)

	published, err := m.Article.ListPublished(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published, got %d", len(published))
	}
	if published[0].Slug != "newer" {
		t.Errorf("expected newest first, got %q", published[0].Slug)
	}

	count, _ := m.Article.CountPublished(ctx)
	if count != 2 {
		t.Errorf("expected 2 published, counted %d", count)
	}

	all, _ := m.Article.ListAll(ctx)
	if len(all) != 3 {
		t.Errorf("expected drafts in ListAll, got %d rows", len(all))
	}
}

func TestMockArticleRepository_CommentCount(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	article := &models.Article{Title: "T", Slug: "t", Content: "c", Excerpt: "e", IsPublished: true}
	m.Article.Create(ctx, article)

	m.Comment.Create(ctx, &models.Comment{ArticleID: article.ID, AuthorName: "A", AuthorEmail: "a@b.co", Content: "x", IsApproved: true})
	m.Comment.Create(ctx, &models.Comment{ArticleID: article.ID, AuthorName: "B", AuthorEmail: "b@b.co", Content: "y"})

	published, _ := m.Article.ListPublished(ctx, 10, 0)
	if published[0].CommentCount != 1 {
		t.Errorf("expected approved-only count of 1, got %d", published[0].CommentCount)
	}
}

func TestMockArticleRepository_DeleteCascades(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	article := &models.Article{Title: "T", Slug: "t", Content: "c", Excerpt: "e"}
	m.Article.Create(ctx, article)

	comment := &models.Comment{ArticleID: article.ID, AuthorName: "A", AuthorEmail: "a@b.co", Content: "x"}
	m.Comment.Create(ctx, comment)
	m.Comment.CreateReply(ctx, &models.CommentReply{CommentID: comment.ID, AuthorName: "admin", Content: "r"})
	m.Download.Create(ctx, &models.Download{ArticleID: article.ID, IPAddress: "192.0.2.1"})

	if err := m.Article.Delete(ctx, article.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(m.Comment.Comments) != 0 || len(m.Comment.Replies) != 0 || len(m.Download.Downloads) != 0 {
		t.Errorf("cascade incomplete: %d comments, %d replies, %d downloads",
			len(m.Comment.Comments), len(m.Comment.Replies), len(m.Download.Downloads))
	}
}

func TestMockArticleRepository_SlugExists(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	article := &models.Article{Title: "T", Slug: "taken", Content: "c", Excerpt: "e"}
	m.Article.Create(ctx, article)

	if exists, _ := m.Article.SlugExists(ctx, "taken", 0); !exists {
		t.Error("expected slug to exist")
	}
	if exists, _ := m.Article.SlugExists(ctx, "taken", article.ID); exists {
		t.Error("excluded id must not count as a conflict")
	}
	if exists, _ := m.Article.SlugExists(ctx, "free", 0); exists {
		t.Error("unknown slug reported as taken")
	}
}

func TestMockCommentRepository_ApproveIsIdempotent(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	comment := &models.Comment{ArticleID: 1, AuthorName: "A", AuthorEmail: "a@b.co", Content: "x"}
	m.Comment.Create(ctx, comment)

	for i := 0; i < 2; i++ {
		if err := m.Comment.Approve(ctx, comment.ID); err != nil {
			t.Fatalf("Approve round %d failed: %v", i+1, err)
		}
	}
	if !m.Comment.Comments[comment.ID].IsApproved {
		t.Error("comment not approved")
	}

	pending, _ := m.Comment.ListPending(ctx)
	if len(pending) != 0 {
		t.Errorf("approved comment still pending, %d rows", len(pending))
	}
}

func TestMockContactRepository_MarkReadOnlyWhenUnread(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	msg := &models.ContactMessage{Name: "N", Email: "n@e.co", Subject: "S", Message: "M"}
	m.Contact.Create(ctx, msg)

	if unread, _ := m.Contact.CountUnread(ctx); unread != 1 {
		t.Fatalf("expected 1 unread, got %d", unread)
	}

	m.Contact.MarkRead(ctx, msg.ID)
	if unread, _ := m.Contact.CountUnread(ctx); unread != 0 {
		t.Errorf("expected 0 unread after MarkRead, got %d", unread)
	}
}

func TestMockUserRepository_SessionExpiry(t *testing.T) {
	_, m := mocks.NewMockRepositories()
	ctx := context.Background()

	user := &models.User{Username: "admin", PasswordHash: "hash", IsStaff: true}
	m.User.Create(ctx, user)

	live := &models.Session{Token: "live", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	stale := &models.Session{Token: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	m.User.CreateSession(ctx, live)
	m.User.CreateSession(ctx, stale)

	if s, _ := m.User.GetSession(ctx, "live"); s == nil {
		t.Error("live session not found")
	}
	if s, _ := m.User.GetSession(ctx, "stale"); s != nil {
		t.Error("expired session still resolvable")
	}

	removed, err := m.User.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if len(m.User.Sessions) != 1 {
		t.Errorf("expected 1 session left, got %d", len(m.User.Sessions))
	}
}
