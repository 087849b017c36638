package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/personal-blog-cms/internal/api"
	"github.com/personal-blog-cms/internal/config"
	"github.com/personal-blog-cms/internal/mail"
	"github.com/personal-blog-cms/internal/mocks"
	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/service"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockRepos, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos, m := mocks.NewMockRepositories()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:          "8080",
			TemplatesGlob: "../../web/templates/*.html",
		},
		Session: config.SessionConfig{
			CookieName: "session_id",
			TTL:        time.Hour,
		},
		Upload: config.UploadConfig{
			Dir:           t.TempDir(),
			MaxUploadSize: 10 * 1024 * 1024,
		},
	}

	log := zerolog.Nop()
	services := service.NewServices(repos, cfg, log, mail.New(cfg.SMTP, log))
	router := api.NewRouter(services, cfg, log)

	return router, m, cfg
}

func seedPublishedArticle(t *testing.T, m *mocks.MockRepos, slug, filePath string) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:       "Title " + slug,
		Slug:        slug,
		Content:     "Body",
		Excerpt:     "Excerpt",
		FilePath:    filePath,
		IsPublished: true,
	}
	if err := m.Article.Create(context.Background(), article); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return article
}

func seedStaff(t *testing.T, m *mocks.MockRepos, username, password string) {
	t.Helper()
	hash, err := service.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: hash, IsStaff: true}
	if err := m.User.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// login performs a form login and returns the session cookie
func login(t *testing.T, router *gin.Engine, username, password string) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest("POST", "/accounts/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("login returned %d, body: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set on login")
	return nil
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestHomePage(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedPublishedArticle(t, m, "welcome", "")

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Title welcome") {
		t.Error("home page missing seeded article title")
	}
}

func TestArticleDetail(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedPublishedArticle(t, m, "visible", "")
	m.Article.Create(context.Background(), &models.Article{
		Title: "Secret", Slug: "hidden", Content: "c", Excerpt: "e",
	})

	req := httptest.NewRequest("GET", "/article/visible", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("published detail returned %d", w.Code)
	}

	// Drafts are indistinguishable from missing articles
	for _, path := range []string{"/article/hidden", "/article/no-such"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s returned %d, want 404", path, w.Code)
		}
	}
}

func TestStaffRoutesRequireLogin(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/admin-dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/accounts/login?next=") {
		t.Errorf("unexpected redirect target %q", loc)
	}
	if !strings.Contains(loc, url.QueryEscape("/admin-dashboard")) {
		t.Errorf("next parameter missing original target: %q", loc)
	}
}

func TestLoginFlow(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")

	cookie := login(t, router, "admin", "hunter22")

	req := httptest.NewRequest("GET", "/admin-dashboard", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("dashboard with session returned %d", w.Code)
	}
}

func TestDashboardShowsDownloadCounts(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")
	article := seedPublishedArticle(t, m, "counted", "file.bin")
	for i := 0; i < 7; i++ {
		m.Download.Create(context.Background(), &models.Download{ArticleID: article.ID, IPAddress: "192.0.2.5"})
	}

	cookie := login(t, router, "admin", "hunter22")

	req := httptest.NewRequest("GET", "/admin-dashboard", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<td>7</td>") {
		t.Error("per-article download count missing from dashboard")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest("POST", "/accounts/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password") {
		t.Error("error notice missing from login page")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			t.Error("session cookie set on failed login")
		}
	}
}

func TestLoginNextRedirect(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")

	tests := []struct {
		next string
		want string
	}{
		{"/dashboard/contact", "/dashboard/contact"},
		{"https://evil.example/phish", "/admin-dashboard"},
		{"//evil.example", "/admin-dashboard"},
		{"", "/admin-dashboard"},
	}

	for _, tt := range tests {
		form := url.Values{"username": {"admin"}, "password": {"hunter22"}, "next": {tt.next}}
		req := httptest.NewRequest("POST", "/accounts/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("next=%q: expected 302, got %d", tt.next, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != tt.want {
			t.Errorf("next=%q: redirected to %q, want %q", tt.next, loc, tt.want)
		}
	}
}

func TestLogout(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")
	cookie := login(t, router, "admin", "hunter22")

	req := httptest.NewRequest("GET", "/accounts/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}

	// The session is gone server-side
	req = httptest.NewRequest("GET", "/admin-dashboard", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Errorf("stale session still admitted, got %d", w.Code)
	}
}

func TestAddComment(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	article := seedPublishedArticle(t, m, "commented", "")

	form := url.Values{
		"author_name":  {"Alice"},
		"author_email": {"alice@example.com"},
		"content":      {"Great read"},
	}
	req := httptest.NewRequest("POST", "/article/1/comment", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/article/commented" {
		t.Errorf("redirected to %q", loc)
	}

	if len(m.Comment.Comments) != 1 {
		t.Fatalf("expected 1 stored comment, got %d", len(m.Comment.Comments))
	}
	for _, c := range m.Comment.Comments {
		if c.IsApproved {
			t.Error("comment stored pre-approved")
		}
		if c.ArticleID != article.ID {
			t.Errorf("comment attached to article %d", c.ArticleID)
		}
	}
}

func TestAddCommentInvalid(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedPublishedArticle(t, m, "strict", "")

	form := url.Values{
		"author_name":  {"Alice"},
		"author_email": {"not-an-email"},
		"content":      {"Hello"},
	}
	req := httptest.NewRequest("POST", "/article/1/comment", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/article/strict" {
		t.Errorf("redirected to %q", loc)
	}
	if len(m.Comment.Comments) != 0 {
		t.Errorf("invalid comment was stored, %d rows", len(m.Comment.Comments))
	}

	// Rejection is flagged through the flash cookie
	flashed := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "flash" && strings.Contains(c.Value, "error") {
			flashed = true
		}
	}
	if !flashed {
		t.Error("no error flash set on rejected comment")
	}
}

func TestDownloadFile(t *testing.T) {
	router, m, cfg := setupTestRouter(t)
	article := seedPublishedArticle(t, m, "dl", "report.txt")
	if err := os.WriteFile(filepath.Join(cfg.Upload.Dir, "report.txt"), []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/article/1/download", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition %q not an attachment", cd)
	}
	if w.Body.String() != "payload" {
		t.Errorf("unexpected body %q", w.Body.String())
	}

	if count, _ := m.Download.CountByArticle(context.Background(), article.ID); count != 1 {
		t.Fatalf("expected 1 audit row, got %d", count)
	}
	for _, d := range m.Download.Downloads {
		if d.IPAddress != "203.0.113.9" {
			t.Errorf("audit row has IP %q, want first forwarded address", d.IPAddress)
		}
	}
}

func TestDownloadWithoutFile(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedPublishedArticle(t, m, "bare", "")

	req := httptest.NewRequest("GET", "/article/1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/article/bare" {
		t.Errorf("redirected to %q", loc)
	}
	if len(m.Download.Downloads) != 0 {
		t.Errorf("audit row written for no-file attempt")
	}
}

func TestDownloadMissingArticle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/article/42/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestContactSubmit(t *testing.T) {
	router, m, _ := setupTestRouter(t)

	form := url.Values{
		"name":    {"Bob"},
		"email":   {"bob@example.com"},
		"subject": {"Hi"},
		"message": {"A perfectly fine message."},
	}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/contact" {
		t.Errorf("redirected to %q", loc)
	}
	if len(m.Contact.Messages) != 1 {
		t.Errorf("expected 1 stored message, got %d", len(m.Contact.Messages))
	}
}

func TestContactSubmitInvalid(t *testing.T) {
	router, m, _ := setupTestRouter(t)

	form := url.Values{
		"name":    {"Bob"},
		"email":   {"bob@example.com"},
		"subject": {"Hi"},
		"message": {"too short"},
	}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "message must contain at least") {
		t.Error("field error missing from re-rendered form")
	}
	if !strings.Contains(body, "bob@example.com") {
		t.Error("submitted values not preserved in re-rendered form")
	}
	if len(m.Contact.Messages) != 0 {
		t.Errorf("invalid message was stored")
	}
}

func TestApproveComment(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")
	article := seedPublishedArticle(t, m, "mod", "")
	comment := &models.Comment{ArticleID: article.ID, AuthorName: "A", AuthorEmail: "a@b.co", Content: "hi"}
	m.Comment.Create(context.Background(), comment)

	cookie := login(t, router, "admin", "hunter22")

	req := httptest.NewRequest("POST", "/dashboard/comment/1/approve", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin-dashboard" {
		t.Errorf("redirected to %q", loc)
	}
	if !m.Comment.Comments[comment.ID].IsApproved {
		t.Error("comment not approved")
	}
}

func TestReplyToComment(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")
	article := seedPublishedArticle(t, m, "replied", "")
	comment := &models.Comment{ArticleID: article.ID, AuthorName: "A", AuthorEmail: "a@b.co", Content: "hi"}
	m.Comment.Create(context.Background(), comment)

	cookie := login(t, router, "admin", "hunter22")

	form := url.Values{"content": {"Appreciate it"}}
	req := httptest.NewRequest("POST", "/dashboard/comment/1/reply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin-dashboard" {
		t.Errorf("redirected to %q", loc)
	}

	replies, _ := m.Comment.ListRepliesByComment(context.Background(), comment.ID)
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	if replies[0].AuthorName != "admin" {
		t.Errorf("reply attributed to %q", replies[0].AuthorName)
	}
}

func TestArticleCreateAndDelete(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")
	cookie := login(t, router, "admin", "hunter22")

	form := url.Values{
		"title":        {"Brand New"},
		"slug":         {"brand-new"},
		"content":      {"Body text"},
		"excerpt":      {"Teaser"},
		"is_published": {"on"},
	}
	req := httptest.NewRequest("POST", "/dashboard/article/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}
	article, _ := m.Article.GetBySlug(context.Background(), "brand-new")
	if article == nil {
		t.Fatal("article not stored")
	}
	if !article.IsPublished {
		t.Error("checkbox value not honored")
	}

	// Duplicate slug re-renders the form with an inline error
	req = httptest.NewRequest("POST", "/dashboard/article/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate create returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "slug") {
		t.Error("slug conflict not surfaced")
	}

	req = httptest.NewRequest("POST", "/dashboard/article/1/delete", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("delete returned %d", w.Code)
	}
	if len(m.Article.Articles) != 0 {
		t.Errorf("article survived delete")
	}
}

func TestContactMessageReadFlow(t *testing.T) {
	router, m, _ := setupTestRouter(t)
	seedStaff(t, m, "admin", "hunter22")
	msg := &models.ContactMessage{Name: "Dan", Email: "d@e.co", Subject: "Subj", Message: "Body"}
	m.Contact.Create(context.Background(), msg)

	cookie := login(t, router, "admin", "hunter22")

	req := httptest.NewRequest("GET", "/dashboard/contact/1", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("detail returned %d", w.Code)
	}
	if !m.Contact.Messages[msg.ID].IsRead {
		t.Error("message not marked read after viewing")
	}
	if m.Contact.MarkReadCalls != 1 {
		t.Errorf("MarkRead called %d times", m.Contact.MarkReadCalls)
	}
}
