package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	rootModule       = "catalog"
	formsModule      = "catalog.forms"
	submissionModule = "catalog.submission"
)

const (
	fieldFormID   = "form_id"
	fieldKind     = "entity_kind"
	fieldEntityID = "entity_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FormsLogger returns the logger namespace reserved for form sessions.
func FormsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formsModule)
}

// SubmissionLogger returns the logger namespace reserved for payload encoding.
func SubmissionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, submissionModule)
}

// WithFormContext enriches logger with the form session id, entity kind and
// entity id. Empty values are ignored.
func WithFormContext(logger interfaces.Logger, formID, kind, entityID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(formID); trimmed != "" {
		fields[fieldFormID] = trimmed
	}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldKind] = trimmed
	}
	if trimmed := strings.TrimSpace(entityID); trimmed != "" {
		fields[fieldEntityID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
