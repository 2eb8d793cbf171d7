package sections

import (
	"errors"
	"fmt"
)

var (
	ErrKeyRequired       = errors.New("sections: section id is required")
	ErrRepositoryMissing = errors.New("sections: repository not configured")
)

// SectionNotFoundError reports a missing section definition.
type SectionNotFoundError struct {
	Key string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section definition %q not found", e.Key)
}

// IsNotFound reports whether err is a SectionNotFoundError.
func IsNotFound(err error) bool {
	var target *SectionNotFoundError
	return errors.As(err, &target)
}
