package locale

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Resolve returns text[requested] when non-empty, otherwise the first
// non-empty value in ka, en, ru order. A nil text resolves to "".
func Resolve(text Text, requested Lang) string {
	if text == nil {
		return ""
	}
	if value := text[requested]; value != "" {
		return value
	}
	for _, lang := range fallbackOrder {
		if lang == requested {
			continue
		}
		if value := text[lang]; value != "" {
			return value
		}
	}
	return ""
}

// Complete reports whether the primary language is present.
func Complete(text Text) bool {
	return strings.TrimSpace(text.Get(Primary)) != ""
}

// Requirement lists the languages a field must carry. The zero value
// requires the primary language only.
type Requirement struct {
	Languages []Lang
}

// PrimaryOnly is the base completeness rule.
var PrimaryOnly = Requirement{Languages: []Lang{Primary}}

// Langs returns the effective language list.
func (r Requirement) Langs() []Lang {
	if len(r.Languages) == 0 {
		return []Lang{Primary}
	}
	return r.Languages
}

// Missing lists required languages that are blank in text.
func (r Requirement) Missing(text Text) []Lang {
	var missing []Lang
	for _, lang := range r.Langs() {
		if strings.TrimSpace(text.Get(lang)) == "" {
			missing = append(missing, lang)
		}
	}
	return missing
}

// Satisfied reports whether every required language is present.
func (r Requirement) Satisfied(text Text) bool {
	return len(r.Missing(text)) == 0
}

// Required returns an ozzo-validation rule enforcing req on a Text value.
func Required(req Requirement) validation.Rule {
	return requiredRule{req: req}
}

type requiredRule struct {
	req Requirement
}

func (r requiredRule) Validate(value any) error {
	var text Text
	switch v := value.(type) {
	case Text:
		text = v
	case *Text:
		if v != nil {
			text = *v
		}
	case nil:
	default:
		return validation.NewError("catalog.locale.invalid_type", "must be a localized text")
	}
	missing := r.req.Missing(text)
	if len(missing) == 0 {
		return nil
	}
	codes := make([]string, len(missing))
	for idx, lang := range missing {
		codes[idx] = lang.String()
	}
	return validation.NewError("catalog.locale.required", "missing translations: "+strings.Join(codes, ", ")).
		SetParams(map[string]any{"languages": codes})
}
