package forms

import "strings"

// CommentForm is the submission schema for adding a comment to a post.
type CommentForm struct {
	Text string `form:"text" validate:"required,max=100"`
}

// Validate normalizes and validates the form.
func (f *CommentForm) Validate() FieldErrors {
	f.Text = strings.TrimSpace(f.Text)
	return check(f)
}
