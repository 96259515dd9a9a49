package api

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrNotAuthenticated is matched by errors.Is for a 401 response and for
// calls attempted without a session. Callers redirect to login on it.
var ErrNotAuthenticated = errors.New("not authenticated")

// Error is a non-2xx response. Message is what the user should see.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}

	return nil
}

// ValidationError lists the fields that failed client-side checks. It is
// returned before any request is sent.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			fields = append(fields, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}

	return NewValidationError(fields...)
}
