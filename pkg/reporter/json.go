package reporter

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/yaklabco/genqa/pkg/extract"
	"github.com/yaklabco/genqa/pkg/runner"
)

// JSONReporter renders results as a machine-readable JSON array, one
// element per document.
type JSONReporter struct {
	opts Options
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts}
}

// jsonEntry mirrors the text format's errorType/message lines.
type jsonEntry struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

// jsonGroup is one (attempt, round) block; unknown values are null.
type jsonGroup struct {
	Attempt *int64      `json:"attempt"`
	Round   *int64      `json:"round"`
	Entries []jsonEntry `json:"entries"`
}

// jsonDocument is one report document's extraction output.
type jsonDocument struct {
	Path      string      `json:"path"`
	ClassName string      `json:"class_name,omitempty"`
	Error     string      `json:"error,omitempty"`
	Groups    []jsonGroup `json:"groups"`
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	docs := make([]jsonDocument, 0)
	total := 0

	if result != nil {
		for _, doc := range result.Documents {
			jd := jsonDocument{
				Path:      doc.Path,
				ClassName: doc.ClassName,
				Groups:    make([]jsonGroup, 0),
			}
			if doc.Err != nil {
				jd.Error = doc.Err.Error()
			}
			for _, group := range doc.Sink.Groups() {
				jg := jsonGroup{
					Attempt: optIntPtr(group.Context.Attempt),
					Round:   optIntPtr(group.Context.Round),
					Entries: make([]jsonEntry, 0, len(group.Entries)),
				}
				for _, e := range group.Entries {
					jg.Entries = append(jg.Entries, jsonEntry{
						ErrorType: e.Type,
						Message:   cleanMessage(e.Message),
					})
					total++
				}
				jd.Groups = append(jd.Groups, jg)
			}
			docs = append(docs, jd)
		}
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if _, err := r.opts.Writer.Write(data); err != nil {
		return 0, fmt.Errorf("write result: %w", err)
	}
	return total, nil
}

// optIntPtr converts an OptInt to a nullable pointer for JSON output.
func optIntPtr(o extract.OptInt) *int64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
