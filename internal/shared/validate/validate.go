// Package validate maps raw request payloads to validated structures.
// A failed validation reports every violated constraint, not just the first.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name, matching the wire format.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error enumerates all violated constraints of one payload.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Struct validates a payload by its `validate` tags. On failure it returns
// an *Error listing every violated field.
func Struct(payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(violations))}
	for _, violation := range violations {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldName(violation),
			Rule:    violation.Tag(),
			Message: messageFor(violation),
		})
	}
	return out
}

// Field validates a single value against a tag expression, attributing
// failures to the given field name.
func Field(name string, value any, tag string) error {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}
	out := &Error{}
	for _, violation := range violations {
		out.Fields = append(out.Fields, FieldError{
			Field:   name,
			Rule:    violation.Tag(),
			Message: fmt.Sprintf("%s failed rule %q", name, violation.Tag()),
		})
	}
	return out
}

// Join merges validation errors so callers can accumulate violations from
// multiple checks into one response. Non-validation errors pass through.
func Join(errs ...error) error {
	merged := &Error{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *Error
		if !errors.As(err, &verr) {
			return err
		}
		merged.Fields = append(merged.Fields, verr.Fields...)
	}
	if len(merged.Fields) == 0 {
		return nil
	}
	return merged
}

func fieldName(violation validator.FieldError) string {
	// Strip the struct name prefix from the namespace.
	ns := violation.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	return ns
}

func messageFor(violation validator.FieldError) string {
	field := fieldName(violation)
	switch violation.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, violation.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", field, violation.Param())
	case "uuid4", "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, violation.Param())
	default:
		return fmt.Sprintf("%s failed rule %q", field, violation.Tag())
	}
}
