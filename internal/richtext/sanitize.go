package richtext

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-catalog/internal/locale"
)

// Sanitizer cleans editor HTML before it is submitted.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer uses bluemonday's UGC policy: formatting, links and images
// survive while scripts, styles and event handlers are stripped.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Sanitizer{policy: policy}
}

// Sanitize cleans one HTML fragment. Editors emit "<p><br></p>" for an
// empty document; fragments with no text and no media collapse to "".
func (s *Sanitizer) Sanitize(html string) string {
	if s == nil || s.policy == nil {
		return html
	}
	cleaned := strings.TrimSpace(s.policy.Sanitize(html))
	if Blank(cleaned) {
		return ""
	}
	return cleaned
}

// SanitizeText cleans every language of text and returns a new value.
func (s *Sanitizer) SanitizeText(text locale.Text) locale.Text {
	out := text.Clone()
	for _, lang := range locale.Languages() {
		out[lang] = s.Sanitize(out[lang])
	}
	return out
}

var textOnly = bluemonday.StrictPolicy()

// Blank reports whether html renders no text and embeds no image or video.
func Blank(html string) bool {
	lowered := strings.ToLower(html)
	if strings.Contains(lowered, "<img") || strings.Contains(lowered, "<video") || strings.Contains(lowered, "<iframe") {
		return false
	}
	plain := textOnly.Sanitize(html)
	plain = strings.ReplaceAll(plain, "&nbsp;", " ")
	plain = strings.ReplaceAll(plain, "&#160;", " ")
	return strings.TrimSpace(plain) == ""
}
