// Package request decodes and validates incoming request data.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/school-api/internal/validation"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

var (
	// ErrEmptyBody is returned by DecodeJSON when the body has no content.
	ErrEmptyBody = errors.New("request body is empty")
	// ErrTooLarge is returned by DecodeJSON when the body exceeds the size cap.
	ErrTooLarge = errors.New("request body is too large")
)

// DecodeJSON decodes the body into v and validates it.
//
// The body must hold exactly one JSON value. DecodeJSON returns ErrEmptyBody,
// ErrTooLarge, a *validation.Error (bad JSON, trailing data, a field of the
// wrong type, or a failed validate:"..." rule), or nil.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err == nil {
		// Anything but whitespace after the value is rejected.
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			err = extra
			if err == nil {
				err = errors.New("trailing data")
			}
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return ErrTooLarge
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Invalid(typeErr.Field)
	}
	if err != nil {
		return validation.Invalid("body")
	}

	return validation.Struct(v)
}

// PathID parses the {id} path segment. ok is false when it is not an
// integer, in which case no record can have it.
func PathID(r *http.Request) (id int64, ok bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsClientError reports whether an error from DecodeJSON was caused by what
// the client sent, as opposed to a programming or server fault.
func IsClientError(err error) bool {
	var verr *validation.Error
	return errors.Is(err, ErrEmptyBody) || errors.Is(err, ErrTooLarge) || errors.As(err, &verr)
}

// Status is the response status for a client error from DecodeJSON.
func Status(err error) int {
	if errors.Is(err, ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
