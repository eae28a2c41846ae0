package catalog

import (
	"context"

	formscmd "github.com/goliatone/go-catalog/internal/commands/forms"
	"github.com/goliatone/go-catalog/internal/di"
	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/forms"
	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/submission"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// Kind names a catalog entity type.
type Kind = entities.Kind

// Entity exports the decoded catalog record.
type Entity = entities.Entity

// KindSpec exports the per-kind field and media layout.
type KindSpec = entities.KindSpec

// FieldError exports a single field rejection.
type FieldError = entities.FieldError

// FieldErrors exports the ordered rejection list returned by validation.
type FieldErrors = entities.FieldErrors

// Text exports the ka/en/ru localized string record.
type Text = locale.Text

// Lang exports the supported language codes.
type Lang = locale.Lang

// Form exports the editing session for one entity.
type Form = forms.Form

// ContentAPI exports the backend contract forms load from and submit to.
type ContentAPI = forms.ContentAPI

// UploadResult exports the stored location of an uploaded file.
type UploadResult = forms.UploadResult

// File exports a locally selected media file.
type File = media.File

// Payload exports an encoded submission body.
type Payload = submission.Payload

// Option customises module wiring.
type Option = di.Option

const (
	KindCategory    = entities.KindCategory
	KindSubCategory = entities.KindSubCategory
	KindSet         = entities.KindSet
	KindExercise    = entities.KindExercise
	KindBlog        = entities.KindBlog
	KindArticle     = entities.KindArticle
	KindCourse      = entities.KindCourse
	KindInstructor  = entities.KindInstructor
)

const (
	Georgian = locale.Georgian
	English  = locale.English
	Russian  = locale.Russian
)

var (
	WithContentAPI      = di.WithContentAPI
	WithLoggerProvider  = di.WithLoggerProvider
	WithPreviewRenderer = di.WithPreviewRenderer
	WithBuilder         = di.WithBuilder
)

var (
	// ErrFormNotFound reports a form id with no open session.
	ErrFormNotFound = formscmd.ErrFormNotFound
	// ErrContentAPIRequired reports an operation that needs the backend
	// before WithContentAPI was supplied.
	ErrContentAPIRequired = di.ErrContentAPIRequired
	// ErrInvalidID reports a malformed entity id.
	ErrInvalidID = forms.ErrInvalidID
)

// NewText builds a localized string from its three translations.
func NewText(ka, en, ru string) Text { return locale.NewText(ka, en, ru) }

// Resolve returns the text in lang, falling back through ka, en and ru.
func Resolve(text Text, lang Lang) string { return locale.Resolve(text, lang) }

// DecodeEntity decodes a backend document of the given kind.
func DecodeEntity(kind Kind, raw []byte) (Entity, error) { return entities.Decode(kind, raw) }

// Module represents the top level catalog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a catalog module using the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Logger returns the root module logger.
func (m *Module) Logger() interfaces.Logger {
	return m.container.Logger()
}

// NewForm opens a create session for kind.
func (m *Module) NewForm(kind Kind) (*Form, error) {
	form, err := forms.New(kind, m.container.FormOptions()...)
	if err != nil {
		return nil, err
	}
	m.container.Registry().Add(form)
	return form, nil
}

// EditForm opens an update session seeded from an already loaded entity.
func (m *Module) EditForm(original Entity) (*Form, error) {
	form, err := forms.Edit(original, m.container.FormOptions()...)
	if err != nil {
		return nil, err
	}
	m.container.Registry().Add(form)
	return form, nil
}

// LoadForm fetches an entity through the content api and opens an update
// session for it.
func (m *Module) LoadForm(ctx context.Context, kind Kind, id string) (*Form, error) {
	api := m.container.ContentAPI()
	if api == nil {
		return nil, ErrContentAPIRequired
	}
	form, err := forms.Load(ctx, api, kind, id, m.container.FormOptions()...)
	if err != nil {
		return nil, err
	}
	m.container.Registry().Add(form)
	return form, nil
}

// Form returns an open session by id.
func (m *Module) Form(id string) (*Form, bool) {
	return m.container.Registry().Form(id)
}

// CloseForm ends a session and reports whether it was open.
func (m *Module) CloseForm(id string) bool {
	return m.container.Registry().Close(id)
}

// Submit runs the submit command for an open session.
func (m *Module) Submit(ctx context.Context, formID string) error {
	return m.container.SubmitHandler().Execute(ctx, formscmd.SubmitFormCommand{FormID: formID})
}

// UploadPending runs the upload command for an open session.
func (m *Module) UploadPending(ctx context.Context, formID string) error {
	return m.container.UploadHandler().Execute(ctx, formscmd.UploadPendingCommand{FormID: formID})
}

// RegisterCommands subscribes the form commands to the go-command dispatcher.
func (m *Module) RegisterCommands() error {
	return m.container.RegisterCommands()
}

// Close releases dispatcher subscriptions.
func (m *Module) Close() {
	m.container.Close()
}
