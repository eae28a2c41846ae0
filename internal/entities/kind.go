package entities

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
)

// Kind names a catalog content type.
type Kind string

const (
	KindCategory    Kind = "category"
	KindSubCategory Kind = "subcategory"
	KindSet         Kind = "set"
	KindExercise    Kind = "exercise"
	KindBlog        Kind = "blog"
	KindArticle     Kind = "article"
	KindCourse      Kind = "course"
	KindInstructor  Kind = "instructor"
)

// ErrUnknownKind reports a kind without a registered spec.
var ErrUnknownKind = errors.New("entities: unknown kind")

// Parent wire names.
const (
	FieldCategoryID    = "categoryId"
	FieldSubCategoryID = "subCategoryId"
	FieldSetID         = "setId"
)

// ParentRef declares a reference the kind carries by id.
type ParentRef struct {
	Field    string
	Required bool
}

// KindSpec describes the wire shape and rules of one kind.
type KindSpec struct {
	Kind Kind
	// NameField is the wire name of the localized title ("name" or "title").
	NameField string
	// NameRequirement lists the languages the title must carry.
	NameRequirement locale.Requirement
	Parents         []ParentRef
	Bindings        media.BindingSet
	// PrimarySlot receives the publish conflict when no asset is uploaded.
	PrimarySlot string

	HasBody       bool
	HasTags       bool
	HasPrices     bool
	HasExercise   bool
	HasInstructor bool
}

// Parent returns the reference declared for field.
func (s KindSpec) Parent(field string) (ParentRef, bool) {
	for _, ref := range s.Parents {
		if ref.Field == field {
			return ref, true
		}
	}
	return ParentRef{}, false
}

// Publishable returns the bindings that can satisfy the publish asset rule.
func (s KindSpec) Publishable() media.BindingSet {
	var out media.BindingSet
	for _, binding := range s.Bindings {
		if binding.Publishable {
			out = append(out, binding)
		}
	}
	return out
}

func imageSlot() media.Binding {
	return media.Binding{Slot: "image", FileField: "image", URLField: "imageUrl", Policy: media.ImagePolicy(), Publishable: true}
}

func videoSlot() media.Binding {
	return media.Binding{Slot: "video", FileField: "videoFile", URLField: "videoUrl", Policy: media.VideoPolicy(), Publishable: true}
}

func thumbnailSlot() media.Binding {
	return media.Binding{Slot: "thumbnail", FileField: "thumbnailFile", URLField: "thumbnailUrl", Policy: media.ImagePolicy(), Publishable: true}
}

func gallerySlot() media.Binding {
	return media.Binding{
		Slot:      "gallery",
		FileField: "galleryImages",
		URLField:  "galleryUrls",
		Gallery:   true,
		Policy:    media.GalleryPolicy(media.DefaultMaxGalleryFiles),
	}
}

var registry = map[Kind]KindSpec{
	KindCategory: {
		Kind:        KindCategory,
		NameField:   "name",
		Bindings:    media.BindingSet{imageSlot()},
		PrimarySlot: "image",
	},
	KindSubCategory: {
		Kind:        KindSubCategory,
		NameField:   "name",
		Parents:     []ParentRef{{Field: FieldCategoryID, Required: true}},
		Bindings:    media.BindingSet{imageSlot()},
		PrimarySlot: "image",
	},
	KindSet: {
		Kind:      KindSet,
		NameField: "name",
		Parents: []ParentRef{
			{Field: FieldCategoryID, Required: true},
			{Field: FieldSubCategoryID},
		},
		Bindings:    media.BindingSet{imageSlot()},
		PrimarySlot: "image",
		HasPrices:   true,
	},
	KindExercise: {
		Kind:      KindExercise,
		NameField: "name",
		Parents: []ParentRef{
			{Field: FieldCategoryID, Required: true},
			{Field: FieldSubCategoryID},
			{Field: FieldSetID, Required: true},
		},
		Bindings:    media.BindingSet{imageSlot(), videoSlot(), thumbnailSlot()},
		PrimarySlot: "video",
		HasExercise: true,
	},
	KindBlog: {
		Kind:            KindBlog,
		NameField:       "title",
		NameRequirement: locale.Requirement{Languages: []locale.Lang{locale.English, locale.Russian}},
		Bindings:        media.BindingSet{imageSlot()},
		PrimarySlot:     "image",
		HasBody:         true,
		HasTags:         true,
	},
	KindArticle: {
		Kind:        KindArticle,
		NameField:   "title",
		Bindings:    media.BindingSet{imageSlot()},
		PrimarySlot: "image",
		HasBody:     true,
		HasTags:     true,
	},
	KindCourse: {
		Kind:        KindCourse,
		NameField:   "title",
		Bindings:    media.BindingSet{imageSlot(), gallerySlot()},
		PrimarySlot: "image",
		HasBody:     true,
		HasPrices:   true,
	},
	KindInstructor: {
		Kind:          KindInstructor,
		NameField:     "name",
		Bindings:      media.BindingSet{imageSlot()},
		PrimarySlot:   "image",
		HasInstructor: true,
	},
}

// Spec returns the registered spec for kind. Bindings are copied so callers
// can tune policies without touching the registry.
func Spec(kind Kind) (KindSpec, error) {
	spec, ok := registry[kind]
	if !ok {
		return KindSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	spec.Bindings = media.CloneBindingSet(spec.Bindings)
	spec.Parents = append([]ParentRef(nil), spec.Parents...)
	return spec, nil
}

// Kinds lists the registered kinds, catalog hierarchy first.
func Kinds() []Kind {
	return []Kind{
		KindCategory, KindSubCategory, KindSet, KindExercise,
		KindBlog, KindArticle, KindCourse, KindInstructor,
	}
}
