package entities

import (
	"maps"
	"slices"

	"github.com/goliatone/go-catalog/internal/locale"
)

// Difficulty grades an exercise.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted difficulty values.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ExerciseDetails carries the exercise-only fields. Durations are seconds.
type ExerciseDetails struct {
	Duration    int        `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	Repetitions int        `json:"repetitions"`
	Sets        int        `json:"sets"`
	RestTime    int        `json:"restTime"`
}

// Price is a subscription price for a period in months.
type Price struct {
	Months int     `json:"months"`
	Amount float64 `json:"price"`
}

// SocialLink is one instructor profile link.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// InstructorDetails carries the instructor-only fields.
type InstructorDetails struct {
	Email  string       `json:"email"`
	Social []SocialLink `json:"socials"`
}

// ParentSnapshot is a denormalized parent embedded in a backend response.
// It is display data only; the id fields on Entity are authoritative.
type ParentSnapshot struct {
	ID   string
	Name locale.Text
}

// Entity is a catalog record as edited by a form.
type Entity struct {
	Kind Kind
	// ID is empty for drafts not yet created.
	ID          string
	Name        locale.Text
	Description locale.Text
	Body        locale.Text

	CategoryID    string
	SubCategoryID string
	SetID         string

	IsActive    bool
	IsPublished bool
	SortOrder   int

	Tags       []string
	Prices     []Price
	Exercise   *ExerciseDetails
	Instructor *InstructorDetails

	// Media holds persisted URLs per slot name.
	Media map[string][]string
	// Parents holds denormalized parents keyed by reference field.
	Parents map[string]ParentSnapshot
}

// New returns an empty draft for kind with every localized field present.
func New(kind Kind) Entity {
	e := Entity{
		Kind:        kind,
		Name:        locale.NewText("", "", ""),
		Description: locale.NewText("", "", ""),
		Body:        locale.NewText("", "", ""),
		IsActive:    true,
		Media:       map[string][]string{},
	}
	if kind == KindExercise {
		e.Exercise = &ExerciseDetails{Difficulty: DifficultyEasy}
	}
	if kind == KindInstructor {
		e.Instructor = &InstructorDetails{}
	}
	return e
}

// Clone returns a deep copy.
func (e Entity) Clone() Entity {
	out := e
	out.Name = e.Name.Clone()
	out.Description = e.Description.Clone()
	out.Body = e.Body.Clone()
	out.Tags = slices.Clone(e.Tags)
	out.Prices = slices.Clone(e.Prices)
	if e.Exercise != nil {
		details := *e.Exercise
		out.Exercise = &details
	}
	if e.Instructor != nil {
		details := *e.Instructor
		details.Social = slices.Clone(e.Instructor.Social)
		out.Instructor = &details
	}
	if e.Media != nil {
		out.Media = make(map[string][]string, len(e.Media))
		for slot, urls := range e.Media {
			out.Media[slot] = slices.Clone(urls)
		}
	}
	if e.Parents != nil {
		out.Parents = maps.Clone(e.Parents)
	}
	return out
}

// MediaURLs returns the persisted URLs for slot.
func (e Entity) MediaURLs(slot string) []string {
	return slices.Clone(e.Media[slot])
}

// ParentID returns the reference stored under a parent wire name.
func (e Entity) ParentID(field string) string {
	switch field {
	case FieldCategoryID:
		return e.CategoryID
	case FieldSubCategoryID:
		return e.SubCategoryID
	case FieldSetID:
		return e.SetID
	default:
		return ""
	}
}

// DisplayName resolves the name for lang with the catalog fallback order.
func (e Entity) DisplayName(lang locale.Lang) string {
	return locale.Resolve(e.Name, lang)
}
