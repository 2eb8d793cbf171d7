package compose

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrPageNotFound          = errors.New("page does not exist")
	ErrInvalidSectionQuery   = errors.New("invalid section query")
	ErrSectionFilterRequired = errors.New("section filter required")
	ErrBackendFailure        = errors.New("backend failure")
)

const (
	CodePageNotFound          = "PAGE_NOT_FOUND"
	CodeInvalidSectionQuery   = "INVALID_SECTION_QUERY"
	CodeSectionFilterRequired = "SECTION_FILTER_REQUIRED"
	CodeBackendFailure        = "BACKEND_FAILURE"
)

func pageNotFoundError(key string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s", ErrPageNotFound, key), goerrors.CategoryNotFound, "page does not exist").
		WithTextCode(CodePageNotFound)
}

func invalidSectionQueryError(sectionID string, cause error) error {
	return goerrors.Wrap(fmt.Errorf("%w: section %s: %v", ErrInvalidSectionQuery, sectionID, cause), goerrors.CategoryBadInput,
		fmt.Sprintf("section %s has an invalid query", sectionID)).
		WithTextCode(CodeInvalidSectionQuery)
}

func sectionFilterRequiredError(sectionID string) error {
	return goerrors.Wrap(fmt.Errorf("%w: section %s", ErrSectionFilterRequired, sectionID), goerrors.CategoryBadInput,
		fmt.Sprintf("section %s requires section filters", sectionID)).
		WithTextCode(CodeSectionFilterRequired)
}

func backendFailureError(sectionID string, cause error) error {
	if goerrors.IsWrapped(cause) {
		return cause
	}
	message := "backend call failed"
	if errors.Is(cause, context.DeadlineExceeded) {
		message = "backend call timed out"
	}
	if sectionID != "" {
		message = fmt.Sprintf("section %s: %s", sectionID, message)
	}
	return goerrors.Wrap(fmt.Errorf("%w: %v", ErrBackendFailure, cause), goerrors.CategoryExternal, message).
		WithTextCode(CodeBackendFailure)
}

// TextCode returns the composition error code carried by err, if any.
func TextCode(err error) string {
	var target *goerrors.Error
	if errors.As(err, &target) && target != nil {
		return target.TextCode
	}
	return ""
}

// IsClientError reports whether err was caused by the request rather than a backend.
func IsClientError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryNotFound) || goerrors.IsCategory(err, goerrors.CategoryBadInput)
}
