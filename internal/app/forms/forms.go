package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Struct tags drive all rules;
// error keys use the form tag so they line up with template field names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Usernames appear in URL paths, so only URL-safe characters pass.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// FieldErrors maps a lowercased field name to the message shown next to it
// when the form is re-rendered. An empty map means the form passed.
type FieldErrors map[string]string

// Has reports whether the named field carries an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Get returns the message for the named field, or "".
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// check runs struct validation and converts the result into FieldErrors.
func check(form interface{}) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	fieldErrors := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrors["form"] = "invalid submission"
		return fieldErrors
	}

	for _, fe := range verrs {
		fieldErrors[strings.ToLower(fe.Field())] = message(fe)
	}
	return fieldErrors
}

// message renders a human-readable error for a single failed rule.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Only letters, digits, dots, hyphens and underscores are allowed."
	default:
		return "Invalid value."
	}
}
