package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/logging/gologger"
)

var (
	ErrDefaultLocaleInvalid       = errors.New("catalog config: default locale is not supported")
	ErrLocaleInvalid              = errors.New("catalog config: locale is not supported")
	ErrDefaultLocaleNotListed     = errors.New("catalog config: default locale must be listed in locales")
	ErrMediaLimitInvalid          = errors.New("catalog config: media limits must be zero or positive")
	ErrCommandsTimeoutInvalid     = errors.New("catalog config: command timeout must be zero or positive")
	ErrCommandsDispatcherRequired = errors.New("catalog config: dispatcher auto-registration requires the commands feature")
	ErrLoggingProviderRequired    = errors.New("catalog config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("catalog config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("catalog config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("catalog config: logging format is invalid")
)

// Config aggregates feature flags and limits for the catalog module.
type Config struct {
	DefaultLocale string
	Locales       []string
	Media         MediaConfig
	Submission    SubmissionConfig
	Features      Features
	Commands      CommandsConfig
	Logging       LoggingConfig
}

// MediaConfig bounds what a form accepts before anything is uploaded.
// Zero keeps the per-slot default.
type MediaConfig struct {
	MaxImageBytes   int64
	MaxVideoBytes   int64
	MaxGalleryFiles int
}

// SubmissionConfig controls payload encoding checks.
type SubmissionConfig struct {
	// ValidateSchema checks every JSON body against the submission schema
	// before it is handed to the content api.
	ValidateSchema bool
}

// Features toggles module functionality.
type Features struct {
	Commands bool
	Logger   bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	AutoRegisterDispatcher bool
	Timeout                time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used when the host passes nothing.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: string(locale.Primary),
		Locales:       []string{"ka", "en", "ru"},
		Media: MediaConfig{
			MaxImageBytes:   5 << 20,
			MaxVideoBytes:   200 << 20,
			MaxGalleryFiles: 10,
		},
		Submission: SubmissionConfig{},
		Features:   Features{},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	def, err := locale.ParseLang(cfg.DefaultLocale)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrDefaultLocaleInvalid, cfg.DefaultLocale)
	}
	if len(cfg.Locales) > 0 {
		listed := false
		for _, raw := range cfg.Locales {
			lang, err := locale.ParseLang(raw)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrLocaleInvalid, raw)
			}
			if lang == def {
				listed = true
			}
		}
		if !listed {
			return fmt.Errorf("%w: %s", ErrDefaultLocaleNotListed, def)
		}
	}
	if cfg.Media.MaxImageBytes < 0 {
		return fmt.Errorf("%w: image bytes", ErrMediaLimitInvalid)
	}
	if cfg.Media.MaxVideoBytes < 0 {
		return fmt.Errorf("%w: video bytes", ErrMediaLimitInvalid)
	}
	if cfg.Media.MaxGalleryFiles < 0 {
		return fmt.Errorf("%w: gallery files", ErrMediaLimitInvalid)
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandsTimeoutInvalid
	}
	if cfg.Commands.AutoRegisterDispatcher && !cfg.Features.Commands {
		return ErrCommandsDispatcherRequired
	}
	if cfg.Features.Logger {
		provider := NormalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !gologger.SupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !gologger.SupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeProvider lower-cases and trims a logging provider name.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}
