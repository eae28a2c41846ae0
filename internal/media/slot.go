package media

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
)

// SlotKind tags the variant held by a Slot.
type SlotKind uint8

const (
	SlotEmpty SlotKind = iota
	SlotRemote
	SlotPending
)

func (k SlotKind) String() string {
	switch k {
	case SlotRemote:
		return "remote_url"
	case SlotPending:
		return "pending_file"
	default:
		return "empty"
	}
}

// Slot holds no asset, a remote URL, or a pending local file. Fields are
// unexported so the variants cannot coexist.
type Slot struct {
	kind SlotKind
	url  string
	file File
}

// EmptySlot returns a slot without an asset.
func EmptySlot() Slot { return Slot{} }

// RemoteSlot returns a slot pointing at an already persisted or typed URL.
// A blank URL yields an empty slot.
func RemoteSlot(rawURL string) Slot {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Slot{}
	}
	return Slot{kind: SlotRemote, url: trimmed}
}

// PendingSlot returns a slot holding a freshly chosen file.
func PendingSlot(file File) Slot {
	return Slot{kind: SlotPending, file: file.clone()}
}

func (s Slot) Kind() SlotKind  { return s.kind }
func (s Slot) IsEmpty() bool   { return s.kind == SlotEmpty }
func (s Slot) IsRemote() bool  { return s.kind == SlotRemote }
func (s Slot) IsPending() bool { return s.kind == SlotPending }

// URL returns the remote URL when the slot holds one.
func (s Slot) URL() (string, bool) {
	if s.kind != SlotRemote {
		return "", false
	}
	return s.url, true
}

// File returns the pending file when the slot holds one.
func (s Slot) File() (File, bool) {
	if s.kind != SlotPending {
		return File{}, false
	}
	return s.file.clone(), true
}

// Equal compares variants and payloads.
func (s Slot) Equal(other Slot) bool {
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case SlotRemote:
		return s.url == other.url
	case SlotPending:
		return s.file.Name == other.file.Name &&
			s.file.MimeType == other.file.MimeType &&
			bytes.Equal(s.file.Data, other.file.Data)
	default:
		return true
	}
}

var errURLNotAbsolute = errors.New("must be an absolute http(s) URL")

// ValidateURL trims raw and checks it is an absolute http or https URL with a host.
func ValidateURL(slot, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	invalid := &ValidationError{Slot: slot, Reason: ReasonURL, Message: errURLNotAbsolute.Error()}
	if trimmed == "" {
		invalid.Message = "url is required"
		return "", invalid
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", invalid
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", invalid
	}
	if parsed.Host == "" || strings.ContainsAny(trimmed, " \t\n") {
		return "", invalid
	}
	return trimmed, nil
}
