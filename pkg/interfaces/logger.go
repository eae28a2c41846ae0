package interfaces

import "context"

// Logger is the leveled logging contract every catalog package writes to.
// Its method set matches github.com/goliatone/go-logger so a go-logger
// instance can be passed through the gologger adapter unchanged.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns the logger for a module name such as
// "catalog.media".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent fields
// (form id, entity kind) on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
