package formscmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-catalog/internal/commands"
	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/forms"
	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

// ErrFormNotFound reports a form id with no open session.
var ErrFormNotFound = errors.New("formscmd: form not found")

// ErrContentAPIRequired reports handlers built without a content api.
var ErrContentAPIRequired = errors.New("formscmd: content api is required")

// FormStore resolves open form sessions by id.
type FormStore interface {
	Form(id string) (*forms.Form, bool)
}

// Config wires the handlers to their collaborators.
type Config struct {
	Store   FormStore
	API     forms.ContentAPI
	Logger  interfaces.Logger
	Timeout time.Duration
	// OnSaved runs after a successful submit with the saved entity.
	OnSaved func(ctx context.Context, form *forms.Form, saved entities.Entity)
}

func (c Config) lookup(id string) (*forms.Form, error) {
	if c.API == nil {
		return nil, ErrContentAPIRequired
	}
	if c.Store == nil {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	form, ok := c.Store.Form(id)
	if !ok || form == nil {
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	return form, nil
}

// NewSubmitHandler builds the handler for SubmitFormCommand.
func NewSubmitHandler(cfg Config) *commands.Handler[SubmitFormCommand] {
	logger := logging.Ensure(cfg.Logger)
	return commands.NewHandler(func(ctx context.Context, msg SubmitFormCommand) error {
		form, err := cfg.lookup(msg.FormID)
		if err != nil {
			return err
		}
		saved, err := form.Submit(ctx, cfg.API)
		if err != nil {
			return err
		}
		if cfg.OnSaved != nil {
			cfg.OnSaved(ctx, form, saved)
		}
		return nil
	},
		commands.WithLogger[SubmitFormCommand](logger),
		commands.WithOperation[SubmitFormCommand]("forms.submit"),
		commands.WithTimeout[SubmitFormCommand](timeoutOrDefault(cfg.Timeout)),
		commands.WithTelemetry(commands.DefaultTelemetry[SubmitFormCommand](logger)),
	)
}

// NewUploadPendingHandler builds the handler for UploadPendingCommand.
func NewUploadPendingHandler(cfg Config) *commands.Handler[UploadPendingCommand] {
	logger := logging.Ensure(cfg.Logger)
	return commands.NewHandler(func(ctx context.Context, msg UploadPendingCommand) error {
		form, err := cfg.lookup(msg.FormID)
		if err != nil {
			return err
		}
		count, err := form.UploadPending(ctx, cfg.API)
		logger.Debug("forms.command.uploaded", "form_id", msg.FormID, "files", count)
		return err
	},
		commands.WithLogger[UploadPendingCommand](logger),
		commands.WithOperation[UploadPendingCommand]("forms.upload_pending"),
		commands.WithTimeout[UploadPendingCommand](timeoutOrDefault(cfg.Timeout)),
		commands.WithTelemetry(commands.DefaultTelemetry[UploadPendingCommand](logger)),
	)
}

// Register subscribes both handlers to the go-command dispatcher and returns
// a function that removes them again.
func Register(cfg Config) (unsubscribe func()) {
	submit := dispatcher.SubscribeCommand(NewSubmitHandler(cfg))
	upload := dispatcher.SubscribeCommand(NewUploadPendingHandler(cfg))
	return func() {
		submit.Unsubscribe()
		upload.Unsubscribe()
	}
}

func timeoutOrDefault(timeout time.Duration) time.Duration {
	if timeout == 0 {
		return commands.DefaultTimeout
	}
	return timeout
}
