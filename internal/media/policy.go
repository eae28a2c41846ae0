package media

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxImageBytes caps image uploads at 5 MiB.
	DefaultMaxImageBytes int64 = 5 * 1024 * 1024
	// DefaultMaxVideoBytes caps video uploads at 100 MiB.
	DefaultMaxVideoBytes int64 = 100 * 1024 * 1024
	// DefaultMaxGalleryFiles caps gallery slots.
	DefaultMaxGalleryFiles = 10
)

// Policy constrains what a slot accepts.
type Policy struct {
	AllowedPrefixes []string `json:"allowed_prefixes"`
	MaxSizeBytes    int64    `json:"max_size_bytes"`
	// MaxFiles only applies to gallery slots; zero means one item.
	MaxFiles int `json:"max_files,omitempty"`
}

// ImagePolicy accepts image/* up to DefaultMaxImageBytes.
func ImagePolicy() Policy {
	return Policy{AllowedPrefixes: []string{"image/"}, MaxSizeBytes: DefaultMaxImageBytes, MaxFiles: 1}
}

// VideoPolicy accepts video/* up to DefaultMaxVideoBytes.
func VideoPolicy() Policy {
	return Policy{AllowedPrefixes: []string{"video/"}, MaxSizeBytes: DefaultMaxVideoBytes, MaxFiles: 1}
}

// GalleryPolicy accepts up to maxFiles images.
func GalleryPolicy(maxFiles int) Policy {
	policy := ImagePolicy()
	policy.MaxFiles = maxFiles
	return policy
}

// Clone copies the prefix list.
func (p Policy) Clone() Policy {
	p.AllowedPrefixes = append([]string(nil), p.AllowedPrefixes...)
	return p
}

// Limit returns the effective item cap.
func (p Policy) Limit() int {
	if p.MaxFiles <= 0 {
		return 1
	}
	return p.MaxFiles
}

// Accepts reports whether mimeType starts with an allowed prefix. An empty
// allow-list accepts everything.
func (p Policy) Accepts(mimeType string) bool {
	if len(p.AllowedPrefixes) == 0 {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if normalized == "" {
		return false
	}
	for _, prefix := range p.AllowedPrefixes {
		if strings.HasPrefix(normalized, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// CheckFile validates type and size for slot.
func (p Policy) CheckFile(slot string, file File) error {
	if !p.Accepts(file.MimeType) {
		return &ValidationError{
			Slot:    slot,
			Reason:  ReasonType,
			Message: fmt.Sprintf("file type %q is not allowed", file.MimeType),
		}
	}
	if p.MaxSizeBytes > 0 && file.Size > p.MaxSizeBytes {
		return &ValidationError{
			Slot:    slot,
			Reason:  ReasonSize,
			Message: fmt.Sprintf("file is %d bytes, limit is %d", file.Size, p.MaxSizeBytes),
			Limit:   p.MaxSizeBytes,
			Actual:  file.Size,
		}
	}
	return nil
}

// CheckCount enforces the all-or-nothing gallery cap.
func (p Policy) CheckCount(slot string, current, incoming int) error {
	limit := p.Limit()
	if current+incoming > limit {
		return &ValidationError{
			Slot:    slot,
			Reason:  ReasonCount,
			Message: fmt.Sprintf("at most %d files allowed, have %d, adding %d", limit, current, incoming),
			Limit:   int64(limit),
			Actual:  int64(current + incoming),
		}
	}
	return nil
}
