package media

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("media: validation failed")
	// ErrSlotUnsettled reports a preview still being generated for the current selection.
	ErrSlotUnsettled = errors.New("media: slot has a pending transition")
	// ErrNoPendingFile reports a preview request on a slot without a local file.
	ErrNoPendingFile = errors.New("media: slot has no pending file")
	// ErrNotAwaitingURL reports CommitURL without an open URL input.
	ErrNotAwaitingURL = errors.New("media: url input is not open")
	// ErrIndexOutOfRange reports a gallery index outside the collection.
	ErrIndexOutOfRange = errors.New("media: index out of range")
	// ErrFileTooLarge is returned by ReadFile when the source exceeds its limit.
	ErrFileTooLarge = errors.New("media: file exceeds read limit")
)

// Reason classifies a ValidationError.
type Reason string

const (
	ReasonType  Reason = "type"
	ReasonSize  Reason = "size"
	ReasonURL   Reason = "url"
	ReasonCount Reason = "count"
)

// ValidationError is a local, recoverable, slot-scoped rejection. The slot
// keeps its previous state whenever one is returned.
type ValidationError struct {
	Slot    string
	Reason  Reason
	Message string
	Limit   int64
	Actual  int64
}

func (e *ValidationError) Error() string {
	if e.Slot == "" {
		return fmt.Sprintf("media: %s: %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("media: slot %s: %s: %s", e.Slot, e.Reason, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) && verr != nil {
		return verr, true
	}
	return nil, false
}
