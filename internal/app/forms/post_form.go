package forms

import "strings"

// PostForm is the submission schema for creating and editing posts.
// Text is mandatory; group and image are optional. The image file itself
// travels separately as a multipart upload.
type PostForm struct {
	Text    string `form:"text" validate:"required"`
	GroupID *int64 `form:"group" validate:"omitempty,min=1"`
}

// Validate normalizes and validates the form, returning field errors to
// re-render the template with. A nil/empty result means the form is valid.
func (f *PostForm) Validate() FieldErrors {
	f.Text = strings.TrimSpace(f.Text)
	return check(f)
}

// HasGroup reports whether the form currently selects the given group.
// Templates use it to mark the selected option when re-rendering.
func (f *PostForm) HasGroup(id int64) bool {
	return f.GroupID != nil && *f.GroupID == id
}
