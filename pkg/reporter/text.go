package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/genqa/internal/ui/pretty"
	"github.com/yaklabco/genqa/pkg/runner"
)

// TextReporter renders the established grouped-error block format:
//
//	PATH: <records.json path>
//	attempt=<int-or-None> round=<int-or-None>
//	errorType=<type>
//	message=<text>
//	<blank line>
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Documents) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No documents to report."))
		}
		return 0, nil
	}

	var total int
	for i, doc := range result.Documents {
		// Header per document, even when the document yielded nothing:
		// an empty block under its path is the "no data" signal.
		fmt.Fprintf(r.bw, "%s %s\n", r.styles.DocHeader.Render("PATH:"), doc.Path)

		for _, group := range doc.Sink.Groups() {
			fmt.Fprintln(r.bw, r.styles.GroupLine.Render(group.Context.String()))
			for _, e := range group.Entries {
				fmt.Fprintf(r.bw, "errorType=%s\n", e.Type)
				fmt.Fprintf(r.bw, "message=%s\n\n", cleanMessage(e.Message))
				total++
			}
		}

		if r.opts.BlankBetween && i != len(result.Documents)-1 {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw, r.styles.SummaryTitle.Render(fmt.Sprintf(
			"%d messages in %d groups across %d documents",
			result.Stats.EntriesTotal, result.Stats.GroupsTotal, result.Stats.DocumentsTotal,
		)))
	}

	return total, nil
}
