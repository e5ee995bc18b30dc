package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/genqa/pkg/runner"
)

// Exit codes for genqa.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitEntriesFound indicates extraction found error messages and
	// --fail-on-found was set.
	ExitEntriesFound = 1

	// ExitDegradedRun indicates some documents were missing or
	// unparsable and --strict was set.
	ExitDegradedRun = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors that carry an exit code without being logged as
// failures.
var (
	// ErrEntriesFound signals extracted error messages under
	// --fail-on-found.
	ErrEntriesFound = errors.New("error messages found")

	// ErrDegradedRun signals unavailable documents under --strict.
	ErrDegradedRun = errors.New("documents missing or unparsable")
)

// Tagging errors that route a failure to its documented exit code.
// Unlike the signal errors above, these are real failures and get
// logged.
var (
	// ErrConfig tags configuration loading failures (exit 65).
	ErrConfig = errors.New("load configuration")

	// ErrUsage tags command-line usage mistakes (exit 64).
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the extract exit code from the batch
// result and the strictness flags.
func ExitCodeFromResult(result *runner.Result, failOnFound, strict bool) int {
	if result == nil {
		return ExitSuccess
	}
	if failOnFound && result.Stats.EntriesTotal > 0 {
		return ExitEntriesFound
	}
	if strict && result.Stats.DocumentsUnavailable > 0 {
		return ExitDegradedRun
	}
	return ExitSuccess
}

// ExitCodeForError maps a command error to a process exit code.
func ExitCodeForError(err error) int {
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrEntriesFound):
		return ExitEntriesFound
	case errors.Is(err, ErrDegradedRun):
		return ExitDegradedRun
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSignalError reports whether err is an exit-code signal rather than a
// real failure worth logging.
func IsSignalError(err error) bool {
	return errors.Is(err, ErrEntriesFound) || errors.Is(err, ErrDegradedRun)
}
