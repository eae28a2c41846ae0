package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	validationFailedCode = "COMMAND_VALIDATION_FAILED"
	contextCanceledCode  = "COMMAND_CONTEXT_CANCELED"
	contextTimeoutCode   = "COMMAND_CONTEXT_TIMEOUT"
	contextErrorCode     = "COMMAND_CONTEXT_ERROR"
	executeFailedCode    = "COMMAND_EXECUTION_FAILED"
)

func tag(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

// WrapValidationError tags a message validation failure.
func WrapValidationError(err error) error {
	return tag(err, goerrors.CategoryValidation, "command validation failed", validationFailedCode)
}

// WrapContextError tags cancellation and deadline errors.
func WrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return tag(err, goerrors.CategoryCommand, "command execution cancelled", contextCanceledCode)
	case errors.Is(err, context.DeadlineExceeded):
		return tag(err, goerrors.CategoryCommand, "command execution deadline exceeded", contextTimeoutCode)
	default:
		return tag(err, goerrors.CategoryCommand, "command context error", contextErrorCode)
	}
}

// WrapExecuteError tags a failure returned by the wrapped function.
func WrapExecuteError(err error) error {
	return tag(err, goerrors.CategoryCommand, "command execution failed", executeFailedCode)
}
