// Package validation holds the declarative field rules for inbound
// DTOs. Services treat it as an external collaborator: they hand a DTO
// in and get field-level errors back.
package validation

import (
	"encoding/json"
	"net/http"
	"unicode"

	"artisan-market/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// password: at least one upper, lower, digit and special character.
	// Length is a separate min= tag so the message stays specific.
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, lower, digit, special bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			default:
				special = true
			}
		}
		return upper && lower && digit && special
	})
}

// Struct validates v against its struct tags. A violation comes back as
// an apperr validation error carrying per-field messages.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return apperr.Validation("validation failed", FieldErrors(err))
}

// DecodeAndValidate decodes a JSON request body into v and validates it.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
	}
	return Struct(v)
}

// FieldErrors converts validator errors into field/message pairs.
func FieldErrors(err error) []apperr.FieldError {
	var fields []apperr.FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range verrs {
			fields = append(fields, apperr.FieldError{
				Field:   e.Field(),
				Message: messageFor(e),
			})
		}
	}
	return fields
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Must be at least " + e.Param() + " characters"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "password":
		return "Must contain an uppercase letter, a lowercase letter, a digit and a special character"
	case "uuid":
		return "Must be a valid id"
	default:
		return "Invalid value"
	}
}
