package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout or
	// the report file).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// BlankBetween inserts a blank line between consecutive document
	// blocks.
	BlankBetween bool

	// ShowSummary appends an aggregate one-line summary after all
	// document blocks (text format only).
	ShowSummary bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		Format:       FormatText,
		Color:        "auto",
		BlankBetween: true,
		ShowSummary:  false,
	}
}
