package template

import (
	"errors"
	"fmt"
)

// ErrInvalidTemplate is matched by every *TemplateError.
var ErrInvalidTemplate = errors.New("invalid template")

// TemplateError reports where a template violates the document structure.
type TemplateError struct {
	// Path is a JSON path such as $.content[2].table.
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("template: %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying decode error, if any.
func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidTemplate.
func (e *TemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

func newTemplateError(path, reason string, err error) *TemplateError {
	return &TemplateError{Path: path, Reason: reason, Err: err}
}
