package entities

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
)

// Class separates recoverable field problems from publish conflicts.
type Class string

const (
	ClassValidation Class = "validation"
	ClassConflict   Class = "conflict"
)

// FieldError is a problem attributable to one wire field or media slot.
type FieldError struct {
	Field   string         `json:"field"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Class   Class          `json:"class"`
	Params  map[string]any `json:"params,omitempty"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors is an ordered list of field problems.
type FieldErrors []FieldError

func (errs FieldErrors) Error() string {
	parts := make([]string, len(errs))
	for idx, err := range errs {
		parts[idx] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Err returns errs as an error, or nil when empty.
func (errs FieldErrors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// HasConflict reports whether any entry is a conflict.
func (errs FieldErrors) HasConflict() bool {
	return slices.ContainsFunc(errs, func(e FieldError) bool { return e.Class == ClassConflict })
}

// Conflicts returns the conflict entries.
func (errs FieldErrors) Conflicts() FieldErrors {
	return errs.filter(func(e FieldError) bool { return e.Class == ClassConflict })
}

// Validation returns the validation entries.
func (errs FieldErrors) Validation() FieldErrors {
	return errs.filter(func(e FieldError) bool { return e.Class == ClassValidation })
}

// For returns the entries for field.
func (errs FieldErrors) For(field string) FieldErrors {
	return errs.filter(func(e FieldError) bool { return e.Field == field })
}

func (errs FieldErrors) filter(keep func(FieldError) bool) FieldErrors {
	var out FieldErrors
	for _, err := range errs {
		if keep(err) {
			out = append(out, err)
		}
	}
	return out
}

// AsFieldErrors unwraps FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var errs FieldErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// ValidateForCreate checks a new draft. slots carries the live media state;
// when nil the persisted URLs on draft are used.
func ValidateForCreate(draft Entity, slots []media.Snapshot) FieldErrors {
	return validate(draft, slots, nil)
}

// ValidateForUpdate checks an edited draft against the loaded original.
// Fields the draft leaves equal to the original were accepted by the
// backend already and are not re-checked.
func ValidateForUpdate(draft Entity, slots []media.Snapshot, original Entity) FieldErrors {
	return validate(draft, slots, &original)
}

func validate(draft Entity, slots []media.Snapshot, original *Entity) FieldErrors {
	spec, err := Spec(draft.Kind)
	if err != nil {
		return FieldErrors{{Field: "kind", Code: "catalog.kind.unknown", Message: err.Error(), Class: ClassValidation}}
	}
	if slots == nil {
		slots = Snapshots(spec, draft)
	}
	updating := original != nil
	errs := validation.Errors{}

	if updating {
		errs["id"] = validation.Validate(draft.ID,
			validation.Required.ErrorObject(validation.NewError("catalog.id.required", "id is required for updates")),
			ObjectID,
		)
	}

	if !updating || !draft.Name.Equal(original.Name) {
		errs[spec.NameField] = validation.Validate(draft.Name, locale.Required(spec.NameRequirement))
	}

	for _, ref := range spec.Parents {
		id := draft.ParentID(ref.Field)
		if updating && id == original.ParentID(ref.Field) {
			continue
		}
		rules := []validation.Rule{ObjectID}
		if ref.Required {
			rules = append([]validation.Rule{
				validation.Required.ErrorObject(validation.NewError("catalog.parent.required", ref.Field+" is required")),
			}, rules...)
		}
		errs[ref.Field] = validation.Validate(id, rules...)
	}
	if draft.SubCategoryID != "" && strings.TrimSpace(draft.CategoryID) == "" && errs[FieldCategoryID] == nil {
		errs[FieldCategoryID] = validation.NewError("catalog.parent.category_required", "categoryId is required when subCategoryId is set")
	}

	if !updating || draft.SortOrder != original.SortOrder {
		errs["sortOrder"] = validation.Validate(draft.SortOrder, nonNegative("sortOrder"))
	}

	if spec.HasExercise && (!updating || !sameExercise(draft.Exercise, original.Exercise)) {
		validateExercise(errs, draft.Exercise)
	}
	if spec.HasPrices && (!updating || !slices.Equal(draft.Prices, original.Prices)) {
		errs["prices"] = validatePrices(draft.Prices)
	}
	if spec.HasTags && (!updating || !slices.Equal(draft.Tags, original.Tags)) {
		errs["tags"] = validateTags(draft.Tags)
	}
	if spec.HasInstructor {
		var before *InstructorDetails
		if updating {
			before = original.Instructor
		}
		validateInstructor(errs, draft.Instructor, before, updating)
	}

	out := collect(errs, fieldOrder(spec))
	if draft.IsPublished {
		out = append(out, publishConflicts(spec, draft, slots, out)...)
	}
	return out
}

func nonNegative(field string) validation.Rule {
	return validation.Min(0).ErrorObject(validation.NewError("catalog."+field+".negative", field+" must be zero or positive"))
}

func validateExercise(errs validation.Errors, details *ExerciseDetails) {
	if details == nil {
		errs["difficulty"] = validation.NewError("catalog.exercise.required", "exercise details are required")
		return
	}
	difficulties := make([]any, 0, 3)
	for _, d := range Difficulties() {
		difficulties = append(difficulties, d)
	}
	errs["difficulty"] = validation.Validate(details.Difficulty,
		validation.Required.ErrorObject(validation.NewError("catalog.difficulty.required", "difficulty is required")),
		validation.In(difficulties...).ErrorObject(validation.NewError("catalog.difficulty.invalid", "difficulty must be easy, medium or hard")),
	)
	errs["duration"] = validation.Validate(details.Duration, nonNegative("duration"))
	errs["repetitions"] = validation.Validate(details.Repetitions, nonNegative("repetitions"))
	errs["sets"] = validation.Validate(details.Sets, nonNegative("sets"))
	errs["restTime"] = validation.Validate(details.RestTime, nonNegative("restTime"))
}

func validatePrices(prices []Price) error {
	for idx, price := range prices {
		if price.Months <= 0 {
			return validation.NewError("catalog.prices.months_invalid", fmt.Sprintf("prices[%d] months must be positive", idx)).
				SetParams(map[string]any{"index": idx})
		}
		if price.Amount < 0 {
			return validation.NewError("catalog.prices.amount_invalid", fmt.Sprintf("prices[%d] price must be zero or positive", idx)).
				SetParams(map[string]any{"index": idx})
		}
	}
	return nil
}

func validateTags(tags []string) error {
	seen := make(map[string]struct{}, len(tags))
	for idx, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			return validation.NewError("catalog.tags.blank", fmt.Sprintf("tags[%d] is blank", idx)).
				SetParams(map[string]any{"index": idx})
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			return validation.NewError("catalog.tags.duplicate", fmt.Sprintf("tag %q is listed twice", trimmed)).
				SetParams(map[string]any{"index": idx})
		}
		seen[key] = struct{}{}
	}
	return nil
}

var emailFormat = is.EmailFormat.ErrorObject(validation.NewError("catalog.email.invalid", "must be a valid email address"))

func sameExercise(a, b *ExerciseDetails) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// validateInstructor checks email and socials separately; on update each
// one is skipped while it still matches original.
func validateInstructor(errs validation.Errors, details, original *InstructorDetails, updating bool) {
	if details == nil {
		details = &InstructorDetails{}
	}
	if original == nil {
		original = &InstructorDetails{}
	}
	if !updating || details.Email != original.Email {
		errs["email"] = validation.Validate(details.Email,
			validation.Required.ErrorObject(validation.NewError("catalog.email.required", "email is required")),
			emailFormat,
		)
	}
	if updating && slices.Equal(details.Social, original.Social) {
		return
	}
	for idx, link := range details.Social {
		if _, err := media.ValidateURL("socials", link.URL); err != nil {
			errs["socials"] = validation.NewError("catalog.socials.url_invalid", fmt.Sprintf("socials[%d] must be an absolute http(s) URL", idx)).
				SetParams(map[string]any{"index": idx})
			return
		}
	}
}

func publishConflicts(spec KindSpec, draft Entity, slots []media.Snapshot, existing FieldErrors) FieldErrors {
	var out FieldErrors
	if len(existing.For(spec.NameField)) == 0 && !spec.NameRequirement.Satisfied(draft.Name) {
		out = append(out, FieldError{
			Field:   spec.NameField,
			Code:    "catalog.publish.name_incomplete",
			Message: "a complete name is required to publish",
			Class:   ClassConflict,
		})
	}
	if len(spec.Publishable()) == 0 {
		return out
	}
	var remote, pending bool
	for _, snap := range slots {
		if !snap.Binding.Publishable {
			continue
		}
		remote = remote || snap.HasRemote()
		pending = pending || snap.HasPending()
	}
	if remote {
		return out
	}
	conflict := FieldError{
		Field:   spec.PrimarySlot,
		Code:    "catalog.publish.asset_required",
		Message: "an uploaded image or video is required to publish",
		Class:   ClassConflict,
	}
	if pending {
		conflict.Code = "catalog.publish.asset_pending"
		conflict.Message = "media must finish uploading before publishing"
	}
	return append(out, conflict)
}

// Snapshots builds settled media snapshots from the persisted URLs on e.
func Snapshots(spec KindSpec, e Entity) []media.Snapshot {
	out := make([]media.Snapshot, 0, len(spec.Bindings))
	for _, binding := range spec.Bindings {
		var items []media.Slot
		for _, u := range e.Media[binding.Slot] {
			if slot := media.RemoteSlot(u); !slot.IsEmpty() {
				items = append(items, slot)
			}
		}
		out = append(out, media.Snapshot{Binding: binding, Items: items, Original: slices.Clone(items)})
	}
	return out
}

func fieldOrder(spec KindSpec) []string {
	order := []string{"id", spec.NameField, "description", "content"}
	for _, ref := range spec.Parents {
		order = append(order, ref.Field)
	}
	order = append(order, "sortOrder", "difficulty", "duration", "repetitions", "sets", "restTime", "prices", "tags", "email", "socials")
	return order
}

func collect(errs validation.Errors, order []string) FieldErrors {
	var out FieldErrors
	seen := map[string]bool{}
	add := func(field string) {
		err := errs[field]
		seen[field] = true
		if err == nil {
			return
		}
		out = append(out, toFieldError(field, err))
	}
	for _, field := range order {
		if !seen[field] {
			add(field)
		}
	}
	rest := make([]string, 0, len(errs))
	for field := range errs {
		if !seen[field] {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)
	for _, field := range rest {
		add(field)
	}
	return out
}

func toFieldError(field string, err error) FieldError {
	fe := FieldError{Field: field, Code: "catalog.invalid", Message: err.Error(), Class: ClassValidation}
	var verr validation.Error
	if errors.As(err, &verr) {
		fe.Code = verr.Code()
		fe.Message = verr.Error()
		if params := verr.Params(); len(params) > 0 {
			fe.Params = params
		}
	}
	return fe
}
