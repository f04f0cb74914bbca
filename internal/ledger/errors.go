package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches every *NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing target record.
type NotFoundError struct {
	Target string // asset, transfer, disposal
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.Target == "" {
		return "record not found"
	}
	return strings.ToUpper(e.Target[:1]) + e.Target[1:] + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Message string
	// Fields maps wire field names to the failed rule.
	Fields map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func missingField(field string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("missing required field: %s", field),
		Fields:  map[string]string{field: "required"},
	}
}

func invalidField(field, rule string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("invalid field %s: %s", field, rule),
		Fields:  map[string]string{field: rule},
	}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
