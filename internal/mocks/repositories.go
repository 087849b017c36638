package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/personal-blog-cms/internal/models"
)

// Map-backed repository mocks used by service and handler tests. Each
// mock mirrors the SQL behavior of its real counterpart, including
// the schema-level cascade on article deletion.

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	Articles map[int64]*models.Article
	NextID   int64
	Err      error

	// Cascade targets, wired by NewMockRepositories
	Comments  *MockCommentRepository
	Downloads *MockDownloadRepository
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[int64]*models.Article), NextID: 1}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.Err != nil {
		return m.Err
	}
	article.ID = m.NextID
	m.NextID++
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now
	m.Articles[article.ID] = article
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.Err != nil {
		return m.Err
	}
	article.UpdatedAt = time.Now()
	m.Articles[article.ID] = article
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Articles, id)
	if m.Comments != nil {
		for cid, c := range m.Comments.Comments {
			if c.ArticleID == id {
				for rid, r := range m.Comments.Replies {
					if r.CommentID == cid {
						delete(m.Comments.Replies, rid)
					}
				}
				delete(m.Comments.Comments, cid)
			}
		}
	}
	if m.Downloads != nil {
		for did, d := range m.Downloads.Downloads {
			if d.ArticleID == id {
				delete(m.Downloads.Downloads, did)
			}
		}
	}
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Articles[id], nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.Articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	for _, a := range m.Articles {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	published := m.publishedSorted()
	if offset >= len(published) {
		return nil, nil
	}
	end := offset + limit
	if end > len(published) {
		end = len(published)
	}
	page := published[offset:end]
	if m.Comments != nil {
		for _, a := range page {
			count := 0
			for _, c := range m.Comments.Comments {
				if c.ArticleID == a.ID && c.IsApproved {
					count++
				}
			}
			a.CommentCount = count
		}
	}
	return page, nil
}

func (m *MockArticleRepository) CountPublished(ctx context.Context) (int, error) {
	return len(m.publishedSorted()), nil
}

func (m *MockArticleRepository) ListAll(ctx context.Context) ([]*models.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	all := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (m *MockArticleRepository) publishedSorted() []*models.Article {
	var published []*models.Article
	for _, a := range m.Articles {
		if a.IsPublished {
			published = append(published, a)
		}
	}
	sort.Slice(published, func(i, j int) bool {
		return published[i].CreatedAt.After(published[j].CreatedAt)
	})
	return published
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[int64]*models.Comment
	Replies     map[int64]*models.CommentReply
	NextID      int64
	NextReplyID int64
	Err         error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments:    make(map[int64]*models.Comment),
		Replies:     make(map[int64]*models.CommentReply),
		NextID:      1,
		NextReplyID: 1,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.Err != nil {
		return m.Err
	}
	comment.ID = m.NextID
	m.NextID++
	comment.CreatedAt = time.Now()
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Comments[id], nil
}

func (m *MockCommentRepository) ListApprovedByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	var approved []*models.Comment
	for _, c := range m.Comments {
		if c.ArticleID == articleID && c.IsApproved {
			approved = append(approved, c)
		}
	}
	sort.Slice(approved, func(i, j int) bool { return approved[i].ID < approved[j].ID })
	return approved, nil
}

func (m *MockCommentRepository) ListPending(ctx context.Context) ([]*models.Comment, error) {
	var pending []*models.Comment
	for _, c := range m.Comments {
		if !c.IsApproved {
			pending = append(pending, c)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (m *MockCommentRepository) Approve(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	if c, ok := m.Comments[id]; ok {
		c.IsApproved = true
	}
	return nil
}

func (m *MockCommentRepository) CreateReply(ctx context.Context, reply *models.CommentReply) error {
	if m.Err != nil {
		return m.Err
	}
	reply.ID = m.NextReplyID
	m.NextReplyID++
	reply.CreatedAt = time.Now()
	m.Replies[reply.ID] = reply
	return nil
}

func (m *MockCommentRepository) ListRepliesByComment(ctx context.Context, commentID int64) ([]*models.CommentReply, error) {
	var replies []*models.CommentReply
	for _, r := range m.Replies {
		if r.CommentID == commentID {
			replies = append(replies, r)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies, nil
}

// MockDownloadRepository is a mock implementation of DownloadRepository
type MockDownloadRepository struct {
	Downloads map[int64]*models.Download
	NextID    int64
	Err       error
}

func NewMockDownloadRepository() *MockDownloadRepository {
	return &MockDownloadRepository{Downloads: make(map[int64]*models.Download), NextID: 1}
}

func (m *MockDownloadRepository) Create(ctx context.Context, download *models.Download) error {
	if m.Err != nil {
		return m.Err
	}
	download.ID = m.NextID
	m.NextID++
	download.DownloadedAt = time.Now()
	m.Downloads[download.ID] = download
	return nil
}

func (m *MockDownloadRepository) ListRecent(ctx context.Context, limit int) ([]*models.Download, error) {
	all := make([]*models.Download, 0, len(m.Downloads))
	for _, d := range m.Downloads {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockDownloadRepository) CountByArticle(ctx context.Context, articleID int64) (int, error) {
	count := 0
	for _, d := range m.Downloads {
		if d.ArticleID == articleID {
			count++
		}
	}
	return count, nil
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	Messages map[int64]*models.ContactMessage
	NextID   int64
	Err      error

	// MarkReadCalls counts MarkRead invocations for read-once tests
	MarkReadCalls int
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{Messages: make(map[int64]*models.ContactMessage), NextID: 1}
}

func (m *MockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if m.Err != nil {
		return m.Err
	}
	msg.ID = m.NextID
	m.NextID++
	msg.CreatedAt = time.Now()
	msg.IsRead = false
	m.Messages[msg.ID] = msg
	return nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if msg, ok := m.Messages[id]; ok {
		copied := *msg
		return &copied, nil
	}
	return nil, nil
}

func (m *MockContactRepository) ListAll(ctx context.Context) ([]*models.ContactMessage, error) {
	all := make([]*models.ContactMessage, 0, len(m.Messages))
	for _, msg := range m.Messages {
		all = append(all, msg)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, nil
}

func (m *MockContactRepository) CountUnread(ctx context.Context) (int, error) {
	count := 0
	for _, msg := range m.Messages {
		if !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockContactRepository) MarkRead(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	m.MarkReadCalls++
	if msg, ok := m.Messages[id]; ok && !msg.IsRead {
		msg.IsRead = true
	}
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id int64) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Messages, id)
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users    map[int64]*models.User
	Sessions map[string]*models.Session
	NextID   int64
	Err      error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:    make(map[int64]*models.User),
		Sessions: make(map[string]*models.Session),
		NextID:   1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.Err != nil {
		return m.Err
	}
	user.ID = m.NextID
	m.NextID++
	user.CreatedAt = time.Now()
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sessions[session.Token] = session
	return nil
}

func (m *MockUserRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.Sessions[token]
	if !ok || s.Expired() {
		return nil, nil
	}
	return s, nil
}

func (m *MockUserRepository) DeleteSession(ctx context.Context, token string) error {
	delete(m.Sessions, token)
	return nil
}

func (m *MockUserRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	var removed int64
	for token, s := range m.Sessions {
		if s.Expired() {
			delete(m.Sessions, token)
			removed++
		}
	}
	return removed, nil
}
