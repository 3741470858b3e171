// Package validation checks request bodies and records against their
// validate:"..." tags and reports failures as a single typed error.
//
// Storage backends also return *Error when the database rejects a write for a
// constraint (NOT NULL, UNIQUE), so callers have exactly one type to match on
// for "the client sent something unacceptable".
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Failure reasons reported in FieldError.Reason.
const (
	ReasonRequired  = "required"
	ReasonDuplicate = "duplicate"
	ReasonInvalid   = "invalid"
)

// FieldError describes one field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

// Error is returned whenever a write would violate a schema constraint.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		switch f.Reason {
		case ReasonRequired:
			msgs = append(msgs, fmt.Sprintf("field %s is required", f.Field))
		case ReasonDuplicate:
			msgs = append(msgs, fmt.Sprintf("field %s must be unique", f.Field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", f.Field))
		}
	}
	return strings.Join(msgs, ", ")
}

// Duplicate reports whether the error came from a unique constraint.
func (e *Error) Duplicate() bool {
	for _, f := range e.Fields {
		if f.Reason == ReasonDuplicate {
			return true
		}
	}
	return false
}

// Required builds an *Error for a missing field.
func Required(field string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Reason: ReasonRequired}}}
}

// Duplicate builds an *Error for a unique-constraint violation on field.
func Duplicate(field string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Reason: ReasonDuplicate}}}
}

// Invalid builds an *Error for a value of the wrong shape or type.
func Invalid(field string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Reason: ReasonInvalid}}}
}

var (
	once     sync.Once
	validate *validator.Validate
)

// instance returns the shared validator; it is safe for concurrent use.
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their JSON name ("name", not "Name") so messages
		// match what the client sent.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
		// int32 bounds integers to what an INT column holds.
		if err := validate.RegisterValidation("int32", fitsInt32); err != nil {
			panic(err)
		}
	})
	return validate
}

func fitsInt32(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := fl.Field().Int()
		return n >= math.MinInt32 && n <= math.MaxInt32
	}
	return false
}

// Struct validates v and returns nil or an *Error listing every failing field.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation.Struct: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		reason := ReasonInvalid
		if fe.ActualTag() == "required" {
			reason = ReasonRequired
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Reason: reason})
	}
	return out
}
