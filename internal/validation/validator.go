package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/personal-blog-cms/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// FieldError represents a single field-level validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the set of field errors produced by validating one form
type Errors []FieldError

// Has reports whether the given field failed validation
func (e Errors) Has(field string) bool {
	return e.Get(field) != ""
}

// Get returns the first error message for the given field, or ""
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// ValidateComment checks the public comment submission form. All
// fields are required and the email must be well-formed.
func ValidateComment(f *models.CommentForm) Errors {
	var errs Errors

	if strings.TrimSpace(f.AuthorName) == "" {
		errs = append(errs, FieldError{Field: "author_name", Message: "name is required"})
	} else if len(f.AuthorName) > models.MaxAuthorNameLen {
		errs = append(errs, FieldError{Field: "author_name", Message: fmt.Sprintf("name must be at most %d characters", models.MaxAuthorNameLen)})
	}

	errs = append(errs, validateEmail("author_email", f.AuthorEmail)...)

	if strings.TrimSpace(f.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "comment is required"})
	}

	return errs
}

// ValidateReply checks the staff reply form
func ValidateReply(f *models.ReplyForm) Errors {
	var errs Errors
	if strings.TrimSpace(f.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "reply is required"})
	}
	return errs
}

// ValidateContact checks the public contact form. Email is mandatory
// and the message must be at least MinMessageLen characters after
// trimming whitespace.
func ValidateContact(f *models.ContactForm) Errors {
	var errs Errors

	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(f.Name) > models.MaxAuthorNameLen {
		errs = append(errs, FieldError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", models.MaxAuthorNameLen)})
	}

	errs = append(errs, validateEmail("email", f.Email)...)

	if strings.TrimSpace(f.Subject) == "" {
		errs = append(errs, FieldError{Field: "subject", Message: "subject is required"})
	} else if len(f.Subject) > models.MaxSubjectLen {
		errs = append(errs, FieldError{Field: "subject", Message: fmt.Sprintf("subject must be at most %d characters", models.MaxSubjectLen)})
	}

	if trimmed := strings.TrimSpace(f.Message); trimmed == "" {
		errs = append(errs, FieldError{Field: "message", Message: "message is required"})
	} else if len(trimmed) < models.MinMessageLen {
		errs = append(errs, FieldError{Field: "message", Message: fmt.Sprintf("message must contain at least %d characters", models.MinMessageLen)})
	}

	return errs
}

// ValidateArticle checks the staff article form
func ValidateArticle(f *models.ArticleForm) Errors {
	var errs Errors

	if strings.TrimSpace(f.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(f.Title) > models.MaxTitleLen {
		errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("title must be at most %d characters", models.MaxTitleLen)})
	}

	if f.Slug == "" {
		errs = append(errs, FieldError{Field: "slug", Message: "slug is required"})
	} else if !slugRegex.MatchString(f.Slug) {
		errs = append(errs, FieldError{Field: "slug", Message: "slug must be kebab-case (lowercase letters, numbers, hyphens)"})
	}

	if strings.TrimSpace(f.Content) == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}

	if strings.TrimSpace(f.Excerpt) == "" {
		errs = append(errs, FieldError{Field: "excerpt", Message: "excerpt is required"})
	} else if len(f.Excerpt) > models.MaxExcerptLen {
		errs = append(errs, FieldError{Field: "excerpt", Message: fmt.Sprintf("excerpt must be at most %d characters", models.MaxExcerptLen)})
	}

	return errs
}

// ValidateLogin checks the login form
func ValidateLogin(f *models.LoginForm) Errors {
	var errs Errors
	if strings.TrimSpace(f.Username) == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if f.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func validateEmail(field, email string) Errors {
	if email == "" {
		return Errors{{Field: field, Message: "email is required"}}
	}
	if !emailRegex.MatchString(email) {
		return Errors{{Field: field, Message: "invalid email format"}}
	}
	return nil
}
