// Package response provides helpers shared by the HTTP handlers: JSON
// replies for machine endpoints and form validation with per-field
// messages for the HTML pages.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope for JSON replies.
//
//	{ "status": "error", "error": "students backend unreachable" }
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data as JSON with the given HTTP status code.
// Header() → WriteHeader() → body, in that order.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// validate is shared: validator caches struct metadata per type.
// Field names come from the form:"..." tag so messages and the template
// lookups use the same keys as the HTML inputs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

// Validate checks v's validate:"..." tags. It returns nil when v is valid.
func Validate(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return FieldErrors{"": err.Error()}
	}

	return ValidationError(validateErrs)
}

// requiredMessages are the prompts for empty required fields.
var requiredMessages = map[string]string{
	"name":     "Please input the student name!",
	"email":    "Please input the student email!",
	"age":      "Please input the student age!",
	"username": "Please input your username!",
	"password": "Please input your password!",
}

// ValidationError converts validator field errors into one message per
// field. The first failing rule of a field wins.
func ValidationError(errs validator.ValidationErrors) FieldErrors {
	out := make(FieldErrors, len(errs))

	for _, e := range errs {
		field := e.Field()
		if _, seen := out[field]; seen {
			continue
		}

		switch e.ActualTag() {
		case "required":
			msg, ok := requiredMessages[field]
			if !ok {
				msg = fmt.Sprintf("field %s is required", field)
			}
			out[field] = msg
		case "number", "numeric":
			out[field] = fmt.Sprintf("field %s must be a number", field)
		case "email":
			out[field] = fmt.Sprintf("field %s must be a valid email address", field)
		default:
			out[field] = fmt.Sprintf("field %s is invalid", field)
		}
	}

	return out
}
