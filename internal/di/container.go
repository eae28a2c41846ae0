package di

import (
	"context"
	"errors"

	"github.com/goliatone/go-catalog/internal/commands"
	formscmd "github.com/goliatone/go-catalog/internal/commands/forms"
	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/forms"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/logging/gologger"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/richtext"
	"github.com/goliatone/go-catalog/internal/runtimeconfig"
	"github.com/goliatone/go-catalog/internal/submission"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrContentAPIRequired reports a call that needs the content api before one
// was configured.
var ErrContentAPIRequired = errors.New("catalog di: content api is required")

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	api       forms.ContentAPI
	renderer  media.PreviewRenderer
	builder   *submission.Builder
	sanitizer *richtext.Sanitizer
	registry  *forms.Registry

	submitHandler *commands.Handler[formscmd.SubmitFormCommand]
	uploadHandler *commands.Handler[formscmd.UploadPendingCommand]
	unsubscribe   func()
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithContentAPI sets the backend client forms load from and submit to.
func WithContentAPI(api forms.ContentAPI) Option {
	return func(c *Container) {
		if api != nil {
			c.api = api
		}
	}
}

// WithPreviewRenderer replaces the thumbnail renderer used for previews.
func WithPreviewRenderer(renderer media.PreviewRenderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithBuilder replaces the submission builder shared by every form.
func WithBuilder(builder *submission.Builder) Option {
	return func(c *Container) {
		if builder != nil {
			c.builder = builder
		}
	}
}

// NewContainer validates cfg and wires the module.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "catalog")

	if c.renderer == nil {
		c.renderer = media.NewThumbnailRenderer()
	}
	if c.builder == nil {
		c.builder = submission.NewBuilder(
			submission.WithLogger(logging.SubmissionLogger(c.loggerProvider)),
			submission.WithSchemaValidation(cfg.Submission.ValidateSchema),
		)
	}
	c.sanitizer = richtext.NewSanitizer()
	c.registry = forms.NewRegistry()
	c.configureCommands()

	if cfg.Features.Commands && cfg.Commands.AutoRegisterDispatcher {
		if err := c.RegisterCommands(); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("catalog.configured",
		"default_locale", cfg.DefaultLocale,
		"schema_validation", cfg.Submission.ValidateSchema,
		"commands", cfg.Features.Commands,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	}
	if runtimeconfig.NormalizeProvider(c.Config.Logging.Provider) == "console" {
		logCfg.Format = "console"
	}
	provider, err := gologger.NewProvider(logCfg)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCommands() {
	cfg := c.commandConfig()
	c.submitHandler = formscmd.NewSubmitHandler(cfg)
	c.uploadHandler = formscmd.NewUploadPendingHandler(cfg)
}

func (c *Container) commandConfig() formscmd.Config {
	return formscmd.Config{
		Store:   c.registry,
		API:     c.api,
		Logger:  commands.CommandLogger(c.loggerProvider, "forms"),
		Timeout: c.Config.Commands.Timeout,
		OnSaved: func(_ context.Context, form *forms.Form, saved entities.Entity) {
			logging.WithFormContext(c.logger, form.ID(), string(saved.Kind), saved.ID).Info("catalog.entity.saved")
		},
	}
}

// RegisterCommands subscribes the form command handlers to the go-command
// dispatcher. Calling it twice is a no-op.
func (c *Container) RegisterCommands() error {
	if c.api == nil {
		return ErrContentAPIRequired
	}
	if c.unsubscribe != nil {
		return nil
	}
	c.unsubscribe = formscmd.Register(c.commandConfig())
	return nil
}

// Close removes dispatcher subscriptions made by RegisterCommands.
func (c *Container) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// FormOptions returns the options every form opened through the container
// gets.
func (c *Container) FormOptions() []forms.Option {
	return []forms.Option{
		forms.WithLogger(logging.FormsLogger(c.loggerProvider)),
		forms.WithBuilder(c.builder),
		forms.WithSanitizer(c.sanitizer),
		forms.WithPreviewRenderer(c.renderer),
		forms.WithLimits(forms.Limits{
			MaxImageBytes:   c.Config.Media.MaxImageBytes,
			MaxVideoBytes:   c.Config.Media.MaxVideoBytes,
			MaxGalleryFiles: c.Config.Media.MaxGalleryFiles,
		}),
	}
}

// LoggerProvider returns the configured provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Logger returns the root module logger.
func (c *Container) Logger() interfaces.Logger { return c.logger }

// ContentAPI returns the configured backend client.
func (c *Container) ContentAPI() forms.ContentAPI { return c.api }

// Builder returns the shared submission builder.
func (c *Container) Builder() *submission.Builder { return c.builder }

// Sanitizer returns the shared rich-text sanitizer.
func (c *Container) Sanitizer() *richtext.Sanitizer { return c.sanitizer }

// Registry returns the open form sessions.
func (c *Container) Registry() *forms.Registry { return c.registry }

// SubmitHandler returns the handler behind SubmitFormCommand.
func (c *Container) SubmitHandler() *commands.Handler[formscmd.SubmitFormCommand] {
	return c.submitHandler
}

// UploadHandler returns the handler behind UploadPendingCommand.
func (c *Container) UploadHandler() *commands.Handler[formscmd.UploadPendingCommand] {
	return c.uploadHandler
}
