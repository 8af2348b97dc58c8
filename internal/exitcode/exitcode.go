// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found,
	// duplicate title).
	UserError = 1

	// AuthError indicates missing or rejected credentials.
	AuthError = 2

	// ConfigError indicates an unreadable or invalid configuration. It
	// shares its value with AuthError.
	ConfigError = 2

	// BackendError indicates a backend, network or timeout error.
	BackendError = 3
)
