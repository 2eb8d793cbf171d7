package pages

import (
	"errors"
	"fmt"
)

var (
	ErrNameRequired      = errors.New("pages: name is required")
	ErrSectionIDRequired = errors.New("pages: section reference requires a section id")
	ErrRepositoryMissing = errors.New("pages: repository not configured")
)

// PageNotFoundError reports a missing page definition.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page definition %q not found", e.Key)
}

// IsNotFound reports whether err is a PageNotFoundError.
func IsNotFound(err error) bool {
	var target *PageNotFoundError
	return errors.As(err, &target)
}
