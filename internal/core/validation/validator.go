// Package validation runs the client-side form rules before any request
// reaches the backend and turns failures into apperror.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"storefront-gateway/internal/core/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	// FieldRequiredMessage is shown for a missing required field.
	FieldRequiredMessage = "This field is required."
	// EmailRuleMessage is shown for a malformed email.
	EmailRuleMessage = "Invalid email address."
	// PasswordRuleMessage is shown for a weak password.
	PasswordRuleMessage = "Password must contain at least one letter, one digit and be at least 8 characters long."
	// PasswordConfirmationMessage is shown when the confirmation differs.
	PasswordConfirmationMessage = "Password confirmation does not match."
)

var emailRule = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("storefront_email", func(fl validator.FieldLevel) bool {
		return emailRule.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("storefront_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return v
}

// IsStrongPassword reports whether p has an ASCII letter, a digit and 8 to 256
// characters. Underscore is the one symbol the rule does not accept.
func IsStrongPassword(p string) bool {
	n := len([]rune(p))
	if n < 8 || n > 256 {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range p {
		switch {
		case r <= unicode.MaxASCII && unicode.IsLetter(r):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '_':
			return false
		}
	}
	return hasLetter && hasDigit
}

// Struct validates s and returns an *apperror.ValidationError listing every failing field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return &apperror.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return FieldRequiredMessage
	case "storefront_email", "email":
		return EmailRuleMessage
	case "storefront_password":
		return PasswordRuleMessage
	case "eqfield":
		return PasswordConfirmationMessage
	case "oneof":
		return "Must be one of: " + fe.Param() + "."
	case "gt", "gte", "min":
		return "Must be at least " + fe.Param() + "."
	case "lte", "max":
		return "Must be at most " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}
