// Package validate wraps struct validation and turns field failures into
// the human-readable messages surfaced by the API.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var instance = newValidator()

// newValidator builds the shared validator with custom rules registered.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(time.Now())
	})
	return v
}

// Errors carries the field-level messages of a failed validation.
type Errors struct {
	Messages []string // One message per failed field, in declaration order.
}

// Error implements the error interface.
func (e *Errors) Error() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.Messages, ", ")
}

// Struct validates a tagged struct and returns *Errors on field failures.
func Struct(s any) error {
	errValidate := instance.Struct(s)
	if errValidate == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(errValidate, &fieldErrs) {
		return errValidate
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return &Errors{Messages: messages}
}

// message renders a single field error as user-facing text.
func message(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "future":
		return label + " must be in the future"
	case "oneof":
		return label + " must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		if fe.Field() == "Phone" {
			return "Invalid phone number"
		}
		if fe.Kind() == reflect.String {
			return label + " must be at least " + fe.Param() + " characters"
		}
		return label + " must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return label + " must be at most " + fe.Param() + " characters"
		}
		return label + " must be at most " + fe.Param()
	}
	return label + " is invalid"
}

// fieldLabel converts a CamelCase field name into a readable label.
func fieldLabel(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
