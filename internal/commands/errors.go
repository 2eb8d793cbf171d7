package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation = "COMPOSER_COMMAND_INVALID"
	TextCodeCanceled   = "COMPOSER_COMMAND_CANCELED"
	TextCodeTimeout    = "COMPOSER_COMMAND_TIMEOUT"
	TextCodeContext    = "COMPOSER_COMMAND_CONTEXT"
	TextCodeFailed     = "COMPOSER_COMMAND_FAILED"
)

// InvalidInput tags err as a validation failure so transports can report it
// as a client error. Already categorised errors pass through.
func InvalidInput(err error, message string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(TextCodeValidation)
}

func wrapValidationError(err error) error {
	return InvalidInput(err, "command validation failed")
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
			WithTextCode(TextCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command deadline exceeded").
			WithTextCode(TextCodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(TextCodeContext)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(TextCodeFailed)
}
