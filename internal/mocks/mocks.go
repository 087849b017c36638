package mocks

import (
	"github.com/personal-blog-cms/internal/repository"
)

// MockRepos bundles the concrete mocks alongside the interface set so
// tests can reach mock internals while wiring services normally.
type MockRepos struct {
	Article  *MockArticleRepository
	Comment  *MockCommentRepository
	Download *MockDownloadRepository
	Contact  *MockContactRepository
	User     *MockUserRepository
}

// NewMockRepositories creates the full mock set with article cascade
// wiring in place
func NewMockRepositories() (*repository.Repositories, *MockRepos) {
	articles := NewMockArticleRepository()
	comments := NewMockCommentRepository()
	downloads := NewMockDownloadRepository()
	contacts := NewMockContactRepository()
	users := NewMockUserRepository()

	articles.Comments = comments
	articles.Downloads = downloads

	repos := &repository.Repositories{
		Article:  articles,
		Comment:  comments,
		Download: downloads,
		Contact:  contacts,
		User:     users,
	}
	return repos, &MockRepos{
		Article:  articles,
		Comment:  comments,
		Download: downloads,
		Contact:  contacts,
		User:     users,
	}
}
