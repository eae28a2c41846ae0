package entities

import (
	"github.com/goliatone/go-catalog/internal/submission"
)

// Fields lists the scalar wire fields of draft in the order the backend
// documents them. Media slots are not included; they travel as snapshots.
// original is nil for creates; on updates a parent reference removed from
// the draft is sent as "" so the backend clears it.
func Fields(spec KindSpec, draft Entity, original *Entity) []submission.Field {
	fields := []submission.Field{
		submission.Localized(spec.NameField, draft.Name),
		submission.Localized("description", draft.Description),
	}
	if spec.HasBody {
		fields = append(fields, submission.Localized("content", draft.Body))
	}
	for _, ref := range spec.Parents {
		id := draft.ParentID(ref.Field)
		if id == "" && original != nil && original.ParentID(ref.Field) != "" {
			fields = append(fields, submission.String(ref.Field, ""))
			continue
		}
		fields = append(fields, submission.OptionalString(ref.Field, id))
	}
	fields = append(fields,
		submission.Bool("isActive", draft.IsActive),
		submission.Bool("isPublished", draft.IsPublished),
		submission.Int("sortOrder", int64(draft.SortOrder)),
	)
	if spec.HasExercise {
		details := ExerciseDetails{}
		if draft.Exercise != nil {
			details = *draft.Exercise
		}
		fields = append(fields,
			submission.Int("duration", int64(details.Duration)),
			submission.String("difficulty", string(details.Difficulty)),
			submission.Int("repetitions", int64(details.Repetitions)),
			submission.Int("sets", int64(details.Sets)),
			submission.Int("restTime", int64(details.RestTime)),
		)
	}
	if spec.HasTags {
		fields = append(fields, submission.Array("tags", draft.Tags))
	}
	if spec.HasPrices {
		fields = append(fields, submission.Array("prices", draft.Prices))
	}
	if spec.HasInstructor {
		details := InstructorDetails{}
		if draft.Instructor != nil {
			details = *draft.Instructor
		}
		fields = append(fields,
			submission.String("email", details.Email),
			submission.Array("socials", details.Social),
		)
	}
	return fields
}
