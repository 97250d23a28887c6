package forms

import "strings"

// SignupForm is the submission schema for registering a local account.
type SignupForm struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=6,max=128"`
}

// Validate normalizes and validates the form.
func (f *SignupForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(strings.ToLower(f.Email))
	return check(f)
}

// LoginForm is the submission schema for signing in.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Validate normalizes and validates the form.
func (f *LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}
