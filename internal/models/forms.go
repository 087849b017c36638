package models

// Form payloads bound from HTML form submissions. Field constraints
// are enforced by the validation package.

// CommentForm is the public comment submission payload
type CommentForm struct {
	AuthorName  string `form:"author_name"`
	AuthorEmail string `form:"author_email"`
	Content     string `form:"content"`
}

// ReplyForm is the staff reply payload
type ReplyForm struct {
	Content string `form:"content"`
}

// ContactForm is the public contact submission payload
type ContactForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Subject string `form:"subject"`
	Message string `form:"message"`
}

// ArticleForm is the staff article create/edit payload. Image and
// file uploads travel separately as multipart parts; the handler
// stores them and fills the *Path fields.
type ArticleForm struct {
	Title       string `form:"title"`
	Slug        string `form:"slug"`
	Content     string `form:"content"`
	Excerpt     string `form:"excerpt"`
	IsPublished bool   `form:"is_published"`
}

// LoginForm is the credential payload for the login view
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
