package catalog

import "github.com/goliatone/go-catalog/internal/runtimeconfig"

var (
	ErrDefaultLocaleInvalid       = runtimeconfig.ErrDefaultLocaleInvalid
	ErrLocaleInvalid              = runtimeconfig.ErrLocaleInvalid
	ErrDefaultLocaleNotListed     = runtimeconfig.ErrDefaultLocaleNotListed
	ErrMediaLimitInvalid          = runtimeconfig.ErrMediaLimitInvalid
	ErrCommandsTimeoutInvalid     = runtimeconfig.ErrCommandsTimeoutInvalid
	ErrCommandsDispatcherRequired = runtimeconfig.ErrCommandsDispatcherRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	MediaConfig      = runtimeconfig.MediaConfig
	SubmissionConfig = runtimeconfig.SubmissionConfig
	Features         = runtimeconfig.Features
	CommandsConfig   = runtimeconfig.CommandsConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the module defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
