// Package reporter renders batch extraction results: one block per
// document, groups in deterministic context order, entries in
// discovery order.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/genqa/pkg/runner"
)

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
)

// Reporter formats and writes extraction results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of messages written and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// cleanMessage strips carriage returns so report lines stay single-line
// on every platform the generation tool ran on.
func cleanMessage(msg string) string {
	out := make([]byte, 0, len(msg))
	for i := 0; i < len(msg); i++ {
		if msg[i] == '\r' {
			continue
		}
		out = append(out, msg[i])
	}
	return string(out)
}
