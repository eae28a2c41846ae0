package forms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/richtext"
	"github.com/goliatone/go-catalog/internal/submission"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Limits overrides the default media policies of every binding. Zero
// values keep the kind defaults.
type Limits struct {
	MaxImageBytes   int64
	MaxVideoBytes   int64
	MaxGalleryFiles int
}

// Option customises a form.
type Option func(*Form)

// WithLogger sets the base logger; the form adds its id and kind fields.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithBuilder replaces the default submission builder.
func WithBuilder(builder *submission.Builder) Option {
	return func(f *Form) {
		if builder != nil {
			f.builder = builder
		}
	}
}

// WithSanitizer replaces the rich-text sanitizer applied to bodies.
func WithSanitizer(sanitizer *richtext.Sanitizer) Option {
	return func(f *Form) {
		if sanitizer != nil {
			f.sanitizer = sanitizer
		}
	}
}

// WithPreviewRenderer sets the renderer used by GeneratePreviews.
func WithPreviewRenderer(renderer media.PreviewRenderer) Option {
	return func(f *Form) {
		if renderer != nil {
			f.renderer = renderer
		}
	}
}

// WithLimits applies configured media limits.
func WithLimits(limits Limits) Option {
	return func(f *Form) {
		f.limits = limits
	}
}

// Form holds one entity draft, its loaded original and one attachment per
// media slot. A form has a single owner; only preview generation may run
// on other goroutines.
type Form struct {
	id       string
	spec     entities.KindSpec
	original entities.Entity
	draft    entities.Entity
	creating bool

	attachments map[string]*media.Attachment
	collections map[string]*media.Collection

	builder   *submission.Builder
	sanitizer *richtext.Sanitizer
	renderer  media.PreviewRenderer
	limits    Limits
	logger    interfaces.Logger
}

// New starts a create form for kind.
func New(kind entities.Kind, opts ...Option) (*Form, error) {
	return newForm(entities.New(kind), true, opts...)
}

// Edit starts an update form seeded from a loaded entity.
func Edit(original entities.Entity, opts ...Option) (*Form, error) {
	if !entities.ValidObjectID(original.ID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, original.ID)
	}
	return newForm(original, false, opts...)
}

// Load fetches an entity and starts an update form for it. The id is
// checked before it reaches the api.
func Load(ctx context.Context, api ContentAPI, kind entities.Kind, id string, opts ...Option) (*Form, error) {
	if !entities.ValidObjectID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	loaded, err := api.FetchEntity(ctx, kind, id)
	if err != nil {
		return nil, wrapTransport(&TransportError{Op: "fetch", Kind: kind, ID: id, Err: err})
	}
	if loaded.Kind == "" {
		loaded.Kind = kind
	}
	if loaded.ID == "" {
		loaded.ID = id
	}
	return Edit(loaded, opts...)
}

func newForm(original entities.Entity, creating bool, opts ...Option) (*Form, error) {
	spec, err := entities.Spec(original.Kind)
	if err != nil {
		return nil, err
	}
	f := &Form{
		id:        uuid.NewString(),
		spec:      spec,
		creating:  creating,
		builder:   submission.NewBuilder(),
		sanitizer: richtext.NewSanitizer(),
		renderer:  media.DataURIRenderer{},
		logger:    logging.FormsLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.spec.Bindings = applyLimits(f.spec.Bindings, f.limits)
	f.logger = logging.WithFormContext(f.logger, f.id, string(spec.Kind), original.ID)

	f.attachments = map[string]*media.Attachment{}
	f.collections = map[string]*media.Collection{}
	for _, binding := range f.spec.Bindings {
		if binding.Gallery {
			f.collections[binding.Slot] = media.NewCollection(binding, nil)
			continue
		}
		f.attachments[binding.Slot] = media.NewAttachment(binding, media.EmptySlot())
	}
	f.rebase(original)
	return f, nil
}

func applyLimits(bindings media.BindingSet, limits Limits) media.BindingSet {
	for idx := range bindings {
		policy := &bindings[idx].Policy
		switch {
		case bindings[idx].Gallery:
			if limits.MaxGalleryFiles > 0 {
				policy.MaxFiles = limits.MaxGalleryFiles
			}
			if limits.MaxImageBytes > 0 {
				policy.MaxSizeBytes = limits.MaxImageBytes
			}
		case policy.Accepts("video/mp4"):
			if limits.MaxVideoBytes > 0 {
				policy.MaxSizeBytes = limits.MaxVideoBytes
			}
		default:
			if limits.MaxImageBytes > 0 {
				policy.MaxSizeBytes = limits.MaxImageBytes
			}
		}
	}
	return bindings
}

// rebase makes loaded the new original and resets draft and media to it.
func (f *Form) rebase(loaded entities.Entity) {
	f.original = loaded.Clone()
	f.draft = loaded.Clone()
	if f.draft.Media == nil {
		f.draft.Media = map[string][]string{}
	}
	for slot, att := range f.attachments {
		original := media.EmptySlot()
		if urls := loaded.Media[slot]; len(urls) > 0 {
			original = media.RemoteSlot(urls[0])
		}
		att.Reset(original)
	}
	for slot, coll := range f.collections {
		var originals []media.Slot
		for _, u := range loaded.Media[slot] {
			originals = append(originals, media.RemoteSlot(u))
		}
		coll.Reset(originals)
	}
}

// ID is the form session id used in log entries.
func (f *Form) ID() string { return f.id }

// Kind returns the entity kind being edited.
func (f *Form) Kind() entities.Kind { return f.spec.Kind }

// Spec returns the kind spec with configured limits applied.
func (f *Form) Spec() entities.KindSpec { return f.spec }

// Creating reports whether submitting creates a new entity.
func (f *Form) Creating() bool { return f.creating }

// Draft returns a copy of the edited entity.
func (f *Form) Draft() entities.Entity { return f.draft.Clone() }

// Original returns a copy of the entity the form was seeded with.
func (f *Form) Original() entities.Entity { return f.original.Clone() }

// Update applies fn to a copy of the draft and keeps the result. Identity
// and media are owned by the form and restored after fn runs.
func (f *Form) Update(fn func(*entities.Entity)) {
	if fn == nil {
		return
	}
	next := f.draft.Clone()
	fn(&next)
	next.Kind = f.draft.Kind
	next.ID = f.draft.ID
	next.Media = f.draft.Media
	next.Parents = f.draft.Parents
	f.draft = next
}

func (f *Form) textField(field string) (*locale.Text, error) {
	switch strings.TrimSpace(field) {
	case f.spec.NameField, "name":
		return &f.draft.Name, nil
	case "description":
		return &f.draft.Description, nil
	case "content":
		if f.spec.HasBody {
			return &f.draft.Body, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// SetText stores value for lang on a localized field (name or title,
// description, content).
func (f *Form) SetText(field string, lang locale.Lang, value string) error {
	text, err := f.textField(field)
	if err != nil {
		return err
	}
	if *text == nil {
		*text = locale.NewText("", "", "")
	}
	return text.Set(lang, value)
}

// ClearText empties lang on a localized field, keeping the key.
func (f *Form) ClearText(field string, lang locale.Lang) error {
	text, err := f.textField(field)
	if err != nil {
		return err
	}
	if *text == nil {
		*text = locale.NewText("", "", "")
	}
	return text.Clear(lang)
}

// Text resolves a localized field for display.
func (f *Form) Text(field string, lang locale.Lang) (string, error) {
	text, err := f.textField(field)
	if err != nil {
		return "", err
	}
	return locale.Resolve(*text, lang), nil
}

// Attachment returns the single-item slot named slot.
func (f *Form) Attachment(slot string) (*media.Attachment, error) {
	if att, ok := f.attachments[slot]; ok {
		return att, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
}

// Collection returns the gallery slot named slot.
func (f *Form) Collection(slot string) (*media.Collection, error) {
	if coll, ok := f.collections[slot]; ok {
		return coll, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
}

// Dirty reports whether the draft or any slot differs from the original.
func (f *Form) Dirty() bool {
	snaps, err := f.Snapshots()
	if err != nil {
		return true
	}
	for _, snap := range snaps {
		if snap.HasPending() || snap.RemoteChanged() {
			return true
		}
	}
	return !sameFields(f.spec, f.original, f.draft)
}

// Settled reports whether every slot can be snapshotted.
func (f *Form) Settled() bool {
	for _, binding := range f.spec.Bindings {
		if att, ok := f.attachments[binding.Slot]; ok && !att.Settled() {
			return false
		}
		if coll, ok := f.collections[binding.Slot]; ok && !coll.Settled() {
			return false
		}
	}
	return true
}

// Snapshots captures every slot in binding order. It fails with
// media.ErrSlotUnsettled while a preview is being generated.
func (f *Form) Snapshots() ([]media.Snapshot, error) {
	out := make([]media.Snapshot, 0, len(f.spec.Bindings))
	for _, binding := range f.spec.Bindings {
		var (
			snap media.Snapshot
			err  error
		)
		if coll, ok := f.collections[binding.Slot]; ok {
			snap, err = coll.Snapshot()
		} else {
			snap, err = f.attachments[binding.Slot].Snapshot()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", binding.Slot, err)
		}
		out = append(out, snap)
	}
	return out, nil
}

// GeneratePreviews renders previews for every pending file, gallery items
// included. Items removed or promoted while the loop runs are skipped.
func (f *Form) GeneratePreviews(ctx context.Context) error {
	for _, binding := range f.spec.Bindings {
		if coll, ok := f.collections[binding.Slot]; ok {
			for idx, item := range coll.Items() {
				if !item.IsPending() {
					continue
				}
				_, err := coll.GeneratePreview(ctx, idx, f.renderer)
				if errors.Is(err, media.ErrNoPendingFile) || errors.Is(err, media.ErrIndexOutOfRange) {
					continue
				}
				if err != nil {
					f.logger.Warn("forms.preview.failed", "slot", binding.Slot, "index", idx, "error", err)
					return err
				}
			}
			continue
		}
		att, ok := f.attachments[binding.Slot]
		if !ok || !att.Slot().IsPending() {
			continue
		}
		if _, err := att.GeneratePreview(ctx, f.renderer); err != nil {
			f.logger.Warn("forms.preview.failed", "slot", binding.Slot, "error", err)
			return err
		}
	}
	return nil
}

// Validate runs the create or update rules against the current draft and
// media state.
func (f *Form) Validate() (entities.FieldErrors, error) {
	snaps, err := f.Snapshots()
	if err != nil {
		return nil, wrapUnsettled(err)
	}
	return f.validate(snaps), nil
}

func (f *Form) validate(snaps []media.Snapshot) entities.FieldErrors {
	if f.creating {
		return entities.ValidateForCreate(f.draft, snaps)
	}
	return entities.ValidateForUpdate(f.draft, snaps, f.original)
}

// Payload validates the form and builds the outbound body without sending it.
func (f *Form) Payload() (submission.Payload, error) {
	snaps, err := f.Snapshots()
	if err != nil {
		return submission.Payload{}, wrapUnsettled(err)
	}
	if errs := f.validate(snaps); len(errs) > 0 {
		return submission.Payload{}, wrapFieldErrors(errs)
	}
	return f.build(snaps)
}

func (f *Form) build(snaps []media.Snapshot) (submission.Payload, error) {
	draft := f.draft.Clone()
	if f.spec.HasBody {
		draft.Body = f.sanitizer.SanitizeText(draft.Body)
	}
	var original *entities.Entity
	if !f.creating {
		original = &f.original
	}
	return f.builder.Build(entities.Fields(f.spec, draft, original), snaps)
}

// Reset discards every edit.
func (f *Form) Reset() {
	f.rebase(f.original)
}

// sameFields compares the scalar wire encoding of two entities.
func sameFields(spec entities.KindSpec, a, b entities.Entity) bool {
	left, errA := submission.NewBuilder().Build(entities.Fields(spec, a, nil), nil)
	right, errB := submission.NewBuilder().Build(entities.Fields(spec, b, nil), nil)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(left.Body, right.Body)
}
