package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound covers records that are absent and records owned by someone
// else. Lookups filter by id and owner together so the two cases look the same.
var ErrNotFound = errors.New("not found")

// ValidationError reports invalid input, field by field where possible.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, ", "))
}

func invalid(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func invalidField(field, reason string) error {
	return &ValidationError{Message: "Invalid " + field, Fields: map[string]string{field: reason}}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// lookupErr maps gorm's not-found error onto ErrNotFound.
func lookupErr(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
