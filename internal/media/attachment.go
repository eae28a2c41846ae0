package media

import (
	"context"
	"sync"
)

// State is the ingestion state of a single-slot attachment.
type State uint8

const (
	StateEmpty State = iota
	StateRemoteURL
	StatePendingFile
	// StateAwaitingURL is the transient mode where a URL input is open but not committed.
	StateAwaitingURL
)

func (s State) String() string {
	switch s {
	case StateRemoteURL:
		return "has_remote_url"
	case StatePendingFile:
		return "has_pending_file"
	case StateAwaitingURL:
		return "awaiting_url_input"
	default:
		return "empty"
	}
}

// Attachment drives one media slot through file/URL selection. It is safe
// to generate previews from another goroutine; every selection bumps a
// generation counter so late preview results for an older selection are
// dropped.
type Attachment struct {
	mu sync.Mutex

	binding  Binding
	slot     Slot
	original Slot

	awaiting bool
	urlInput string
	urlErr   error

	preview    string
	generation uint64
	inflight   int
}

// NewAttachment seeds an attachment with the slot loaded from the backend.
func NewAttachment(binding Binding, original Slot) *Attachment {
	a := &Attachment{binding: binding}
	a.reset(original)
	return a
}

// Binding returns the slot definition.
func (a *Attachment) Binding() Binding {
	return a.binding
}

// State reports the current ingestion state.
func (a *Attachment) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

func (a *Attachment) stateLocked() State {
	if a.awaiting {
		return StateAwaitingURL
	}
	switch a.slot.Kind() {
	case SlotRemote:
		return StateRemoteURL
	case SlotPending:
		return StatePendingFile
	default:
		return StateEmpty
	}
}

// Slot returns the committed slot value.
func (a *Attachment) Slot() Slot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slot
}

// Original returns the slot value the attachment was seeded with.
func (a *Attachment) Original() Slot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.original
}

// Dirty reports whether the committed slot differs from the original.
func (a *Attachment) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.slot.Equal(a.original)
}

// SelectFile replaces any previous asset with file once it passes the
// policy. On rejection the state is left untouched.
func (a *Attachment) SelectFile(file File) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.binding.Policy.CheckFile(a.binding.Slot, file); err != nil {
		return err
	}
	a.slot = PendingSlot(file)
	a.awaiting = false
	a.urlInput = ""
	a.urlErr = nil
	a.bumpLocked()
	return nil
}

// OpenURLInput switches to StateAwaitingURL keeping the committed slot.
func (a *Attachment) OpenURLInput() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.awaiting {
		a.awaiting = true
		a.urlInput = ""
		a.urlErr = nil
	}
}

// EnterURL records the typed URL, opening the input if needed.
func (a *Attachment) EnterURL(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.awaiting = true
	a.urlInput = text
	a.urlErr = nil
}

// URLInput returns the uncommitted URL text and the last commit error.
func (a *Attachment) URLInput() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.urlInput, a.urlErr
}

// CommitURL validates the typed URL and, on success, replaces any pending
// file with it. On failure the attachment stays in StateAwaitingURL.
func (a *Attachment) CommitURL() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.awaiting {
		return ErrNotAwaitingURL
	}
	normalized, err := ValidateURL(a.binding.Slot, a.urlInput)
	if err != nil {
		a.urlErr = err
		return err
	}
	a.slot = RemoteSlot(normalized)
	a.awaiting = false
	a.urlInput = ""
	a.urlErr = nil
	a.bumpLocked()
	return nil
}

// CancelURLInput closes the URL input and returns to the committed state.
func (a *Attachment) CancelURLInput() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.awaiting = false
	a.urlInput = ""
	a.urlErr = nil
}

// Remove clears the slot from any state.
func (a *Attachment) Remove() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slot = EmptySlot()
	a.awaiting = false
	a.urlInput = ""
	a.urlErr = nil
	a.bumpLocked()
}

// Promote replaces the pending file with its uploaded URL. It reports
// false when the selection changed since pending was captured.
func (a *Attachment) Promote(pending Slot, rawURL string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !pending.IsPending() || !a.slot.Equal(pending) {
		return false, nil
	}
	normalized, err := ValidateURL(a.binding.Slot, rawURL)
	if err != nil {
		return false, err
	}
	a.slot = RemoteSlot(normalized)
	a.bumpLocked()
	return true, nil
}

// Reset reseeds the attachment, typically after a successful submission.
func (a *Attachment) Reset(original Slot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset(original)
}

func (a *Attachment) reset(original Slot) {
	if original.IsPending() {
		original = EmptySlot()
	}
	a.original = original
	a.slot = original
	a.awaiting = false
	a.urlInput = ""
	a.urlErr = nil
	a.bumpLocked()
}

// Preview returns a renderable source: the URL for remote slots, the
// rendered preview or an inline data URI for pending files, "" otherwise.
func (a *Attachment) Preview() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.slot.Kind() {
	case SlotRemote:
		return a.slot.url
	case SlotPending:
		if a.preview != "" {
			return a.preview
		}
		return DataURI(a.slot.file)
	default:
		return ""
	}
}

// GeneratePreview renders a preview for the pending file. The lock is not
// held while rendering; when the selection changed in the meantime the
// result is discarded and applied is false.
func (a *Attachment) GeneratePreview(ctx context.Context, renderer PreviewRenderer) (applied bool, err error) {
	if renderer == nil {
		renderer = DataURIRenderer{}
	}
	a.mu.Lock()
	file, ok := a.slot.File()
	if !ok {
		a.mu.Unlock()
		return false, ErrNoPendingFile
	}
	generation := a.generation
	a.inflight++
	a.mu.Unlock()

	preview, renderErr := renderer.RenderPreview(ctx, file)

	a.mu.Lock()
	defer a.mu.Unlock()
	if generation != a.generation {
		return false, nil
	}
	a.inflight--
	if renderErr != nil {
		return false, renderErr
	}
	a.preview = preview
	return true, nil
}

// Settled reports whether no preview generation is in flight for the
// current selection.
func (a *Attachment) Settled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inflight == 0
}

// Snapshot captures the settled state for submission.
func (a *Attachment) Snapshot() (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight > 0 {
		return Snapshot{}, ErrSlotUnsettled
	}
	snap := Snapshot{Binding: a.binding}
	if !a.slot.IsEmpty() {
		snap.Items = []Slot{a.slot}
	}
	if a.original.IsRemote() {
		snap.Original = []Slot{a.original}
	}
	return snap, nil
}

func (a *Attachment) bumpLocked() {
	a.generation++
	a.inflight = 0
	a.preview = ""
}
