package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-catalog/internal/locale"
)

// ErrInvalidDocument reports a backend response that is not a JSON object.
var ErrInvalidDocument = errors.New("entities: invalid document")

// Decode reads a backend entity document. Parent references may arrive as
// plain ids or as populated objects; the latter are kept as ParentSnapshots
// and only their id is used as the reference.
func Decode(kind Kind, raw []byte) (Entity, error) {
	spec, err := Spec(kind)
	if err != nil {
		return Entity{}, err
	}
	if !gjson.ValidBytes(raw) {
		return Entity{}, ErrInvalidDocument
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Entity{}, fmt.Errorf("%w: expected object", ErrInvalidDocument)
	}
	// Single-record endpoints wrap the entity as {"data": {...}}.
	if data := doc.Get("data"); data.IsObject() && !doc.Get("_id").Exists() && !doc.Get("id").Exists() {
		doc = data
	}

	e := New(kind)
	e.ID = firstString(doc, "_id", "id")
	e.Name = decodeText(doc.Get(spec.NameField))
	if e.Name.IsZero() && spec.NameField != "name" {
		e.Name = decodeText(doc.Get("name"))
	}
	e.Description = decodeText(doc.Get("description"))
	if spec.HasBody {
		e.Body = decodeText(doc.Get("content"))
	}

	e.Parents = map[string]ParentSnapshot{}
	for _, ref := range spec.Parents {
		id, snapshot, ok := decodeParent(doc.Get(ref.Field))
		switch ref.Field {
		case FieldCategoryID:
			e.CategoryID = id
		case FieldSubCategoryID:
			e.SubCategoryID = id
		case FieldSetID:
			e.SetID = id
		}
		if ok {
			e.Parents[ref.Field] = snapshot
		}
	}
	if len(e.Parents) == 0 {
		e.Parents = nil
	}

	if v := doc.Get("isActive"); v.Exists() {
		e.IsActive = v.Bool()
	}
	e.IsPublished = doc.Get("isPublished").Bool()
	e.SortOrder = int(doc.Get("sortOrder").Int())

	if spec.HasTags {
		doc.Get("tags").ForEach(func(_, tag gjson.Result) bool {
			if value := strings.TrimSpace(tag.String()); value != "" {
				e.Tags = append(e.Tags, value)
			}
			return true
		})
	}
	if spec.HasPrices {
		doc.Get("prices").ForEach(func(_, price gjson.Result) bool {
			e.Prices = append(e.Prices, Price{
				Months: int(price.Get("months").Int()),
				Amount: price.Get("price").Float(),
			})
			return true
		})
	}
	if spec.HasExercise {
		e.Exercise = &ExerciseDetails{
			Duration:    int(doc.Get("duration").Int()),
			Difficulty:  Difficulty(strings.ToLower(doc.Get("difficulty").String())),
			Repetitions: int(doc.Get("repetitions").Int()),
			Sets:        int(doc.Get("sets").Int()),
			RestTime:    int(doc.Get("restTime").Int()),
		}
	}
	if spec.HasInstructor {
		details := &InstructorDetails{Email: doc.Get("email").String()}
		doc.Get("socials").ForEach(func(_, link gjson.Result) bool {
			details.Social = append(details.Social, SocialLink{
				Network: link.Get("network").String(),
				URL:     link.Get("url").String(),
			})
			return true
		})
		e.Instructor = details
	}

	for _, binding := range spec.Bindings {
		_, urlField := binding.Fields()
		urls := decodeURLs(doc.Get(urlField))
		if len(urls) == 0 {
			urls = decodeURLs(doc.Get(binding.Slot))
		}
		if len(urls) > 0 {
			e.Media[binding.Slot] = urls
		}
	}
	return e, nil
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, path := range paths {
		if value := doc.Get(path); value.Exists() && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func decodeText(value gjson.Result) locale.Text {
	text := locale.NewText("", "", "")
	switch {
	case value.IsObject():
		for _, lang := range locale.Languages() {
			text[lang] = value.Get(lang.String()).String()
		}
	case value.Type == gjson.String:
		text[locale.Primary] = value.String()
	}
	return text
}

func decodeParent(value gjson.Result) (string, ParentSnapshot, bool) {
	if !value.IsObject() {
		return value.String(), ParentSnapshot{}, false
	}
	snapshot := ParentSnapshot{
		ID:   firstString(value, "_id", "id"),
		Name: decodeText(value.Get("name")),
	}
	return snapshot.ID, snapshot, true
}

func decodeURLs(value gjson.Result) []string {
	var urls []string
	switch {
	case value.IsArray():
		value.ForEach(func(_, item gjson.Result) bool {
			if u := strings.TrimSpace(item.String()); u != "" {
				urls = append(urls, u)
			}
			return true
		})
	case value.Type == gjson.String:
		if u := strings.TrimSpace(value.String()); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
