package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostFormValidate(t *testing.T) {
	t.Run("text is required", func(t *testing.T) {
		form := &PostForm{Text: ""}
		errs := form.Validate()
		assert.True(t, errs.Has("text"))
	})

	t.Run("whitespace-only text is rejected", func(t *testing.T) {
		form := &PostForm{Text: "   \n\t  "}
		errs := form.Validate()
		assert.True(t, errs.Has("text"))
	})

	t.Run("text is trimmed", func(t *testing.T) {
		form := &PostForm{Text: "  hello world  "}
		errs := form.Validate()
		assert.Empty(t, errs)
		assert.Equal(t, "hello world", form.Text)
	})

	t.Run("group is optional", func(t *testing.T) {
		form := &PostForm{Text: "hello"}
		assert.Empty(t, form.Validate())
	})
}

func TestPostFormHasGroup(t *testing.T) {
	groupID := int64(3)
	form := &PostForm{Text: "x", GroupID: &groupID}
	assert.True(t, form.HasGroup(3))
	assert.False(t, form.HasGroup(4))
	assert.False(t, (&PostForm{}).HasGroup(3))
}

func TestCommentFormValidate(t *testing.T) {
	t.Run("valid at the length limit", func(t *testing.T) {
		form := &CommentForm{Text: strings.Repeat("a", 100)}
		assert.Empty(t, form.Validate())
	})

	t.Run("rejected one over the limit", func(t *testing.T) {
		form := &CommentForm{Text: strings.Repeat("a", 101)}
		errs := form.Validate()
		assert.True(t, errs.Has("text"))
	})

	t.Run("empty rejected", func(t *testing.T) {
		form := &CommentForm{Text: ""}
		assert.True(t, form.Validate().Has("text"))
	})
}

func TestSignupFormValidate(t *testing.T) {
	valid := func() *SignupForm {
		return &SignupForm{Username: "leo.tolstoy", Email: "leo@example.com", Password: "war-and-peace"}
	}

	t.Run("valid form passes", func(t *testing.T) {
		assert.Empty(t, valid().Validate())
	})

	t.Run("bad email rejected", func(t *testing.T) {
		form := valid()
		form.Email = "not-an-email"
		assert.True(t, form.Validate().Has("email"))
	})

	t.Run("short password rejected", func(t *testing.T) {
		form := valid()
		form.Password = "abc"
		assert.True(t, form.Validate().Has("password"))
	})

	t.Run("username with illegal characters rejected", func(t *testing.T) {
		form := valid()
		form.Username = "has spaces"
		assert.True(t, form.Validate().Has("username"))
	})

	t.Run("username may contain dots dashes underscores", func(t *testing.T) {
		form := valid()
		form.Username = "a.b-c_d9"
		assert.Empty(t, form.Validate())
	})
}

func TestLoginFormValidate(t *testing.T) {
	form := &LoginForm{}
	errs := form.Validate()
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("password"))

	form = &LoginForm{Username: "leo", Password: "secret"}
	assert.Empty(t, form.Validate())
}
