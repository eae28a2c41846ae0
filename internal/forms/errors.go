package forms

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-catalog/internal/entities"
)

const (
	validationFailedCode = "FORM_VALIDATION_FAILED"
	conflictCode         = "FORM_CONFLICT"
	transportFailedCode  = "FORM_TRANSPORT_FAILED"
	unsettledCode        = "FORM_MEDIA_UNSETTLED"
)

var (
	// ErrUnknownField reports a localized field the kind does not declare.
	ErrUnknownField = errors.New("forms: unknown text field")
	// ErrUnknownSlot reports a media slot the kind does not declare.
	ErrUnknownSlot = errors.New("forms: unknown media slot")
	// ErrInvalidID reports an id that is not a backend object id.
	ErrInvalidID = errors.New("forms: invalid entity id")
)

// TransportError reports that a backend call did not complete. The cause
// is kept as returned by the ContentAPI.
type TransportError struct {
	Op   string
	Kind entities.Kind
	ID   string
	Err  error
}

func (e *TransportError) Error() string {
	target := string(e.Kind)
	if e.ID != "" {
		target += "/" + e.ID
	}
	return fmt.Sprintf("forms: %s %s: %v", e.Op, target, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}

// wrapFieldErrors tags blocking field errors. Conflicts win the text code
// so callers can tell publish problems apart from plain input errors.
func wrapFieldErrors(errs entities.FieldErrors) error {
	if len(errs) == 0 {
		return nil
	}
	if errs.HasConflict() {
		return goerrors.Wrap(errs, goerrors.CategoryValidation, "form has publish conflicts").
			WithTextCode(conflictCode)
	}
	return goerrors.Wrap(errs, goerrors.CategoryValidation, "form validation failed").
		WithTextCode(validationFailedCode)
}

func wrapUnsettled(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "media is still being processed").
		WithTextCode(unsettledCode)
}

func wrapTransport(err *TransportError) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "content api call failed").
		WithTextCode(transportFailedCode)
}
