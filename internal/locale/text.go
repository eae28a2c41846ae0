package locale

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Lang identifies one of the catalog languages.
type Lang string

const (
	Georgian Lang = "ka"
	English  Lang = "en"
	Russian  Lang = "ru"
)

// Primary is the language every complete text must carry.
const Primary = Georgian

// ErrUnsupportedLang reports a language outside the catalog set.
var ErrUnsupportedLang = errors.New("locale: unsupported language")

var fallbackOrder = [...]Lang{Georgian, English, Russian}

// Languages returns the supported languages in fallback order.
func Languages() []Lang {
	return append([]Lang(nil), fallbackOrder[:]...)
}

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	for _, candidate := range fallbackOrder {
		if l == candidate {
			return true
		}
	}
	return false
}

func (l Lang) String() string { return string(l) }

// ParseLang normalizes a BCP-47 tag (ka-GE, EN, ru_RU) to a supported base language.
func ParseLang(raw string) (Lang, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if trimmed == "" {
		return "", ErrUnsupportedLang
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", errors.Join(ErrUnsupportedLang, err)
	}
	base, _ := tag.Base()
	lang := Lang(base.String())
	if !lang.Valid() {
		return "", ErrUnsupportedLang
	}
	return lang, nil
}

// Text is a per-language string record. Absent languages read as empty and
// clearing a language stores "" instead of deleting the key.
type Text map[Lang]string

// NewText builds a text with every supported language present.
func NewText(ka, en, ru string) Text {
	return Text{Georgian: ka, English: en, Russian: ru}
}

// Get returns the stored value for lang, or "" when absent.
func (t Text) Get(lang Lang) string {
	if t == nil {
		return ""
	}
	return t[lang]
}

// Set stores value for lang. Unsupported languages are rejected.
func (t Text) Set(lang Lang, value string) error {
	if !lang.Valid() {
		return ErrUnsupportedLang
	}
	t[lang] = value
	return nil
}

// Clear empties lang without removing it from the record.
func (t Text) Clear(lang Lang) error {
	return t.Set(lang, "")
}

// Clone returns a normalized copy with every supported language present.
func (t Text) Clone() Text {
	out := make(Text, len(fallbackOrder))
	for _, lang := range fallbackOrder {
		out[lang] = t.Get(lang)
	}
	return out
}

// IsZero reports whether every language is blank.
func (t Text) IsZero() bool {
	for _, lang := range fallbackOrder {
		if strings.TrimSpace(t.Get(lang)) != "" {
			return false
		}
	}
	return true
}

// Equal compares two texts language by language, treating absent as "".
func (t Text) Equal(other Text) bool {
	for _, lang := range fallbackOrder {
		if t.Get(lang) != other.Get(lang) {
			return false
		}
	}
	return true
}

// MarshalJSON always emits {"ka":..,"en":..,"ru":..} in that order.
func (t Text) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, lang := range fallbackOrder {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(string(lang))
		value, err := json.Marshal(t.Get(lang))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the canonical object or a bare string, which is
// stored as the primary language.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = NewText("", "", "")
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*t = NewText(single, "", "")
		return nil
	}
	raw := map[string]string{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := NewText("", "", "")
	for key, value := range raw {
		if lang := Lang(key); lang.Valid() {
			out[lang] = value
		}
	}
	*t = out
	return nil
}
