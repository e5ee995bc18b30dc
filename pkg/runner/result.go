package runner

import "github.com/yaklabco/genqa/pkg/extract"

// DocumentOutcome is the extraction result for one manifest entry.
type DocumentOutcome struct {
	// Path is the full report path (entry path + records filename).
	Path string

	// ClassName carries the manifest's class column, when present.
	ClassName string

	// Sink holds the grouped entries extracted from this document.
	// It is empty (never nil) when the document was missing or
	// unparsable.
	Sink *extract.GroupedSink

	// Err records why the document yielded no data, if it did not
	// load. The batch still succeeds; the error is informational.
	Err error
}

// Stats captures aggregate information about a batch run.
type Stats struct {
	// DocumentsTotal is the number of manifest entries processed.
	DocumentsTotal int

	// DocumentsLoaded is the number of documents that parsed.
	DocumentsLoaded int

	// DocumentsUnavailable is the number of documents that were
	// missing or unparsable and degraded to empty output.
	DocumentsUnavailable int

	// DocumentsWithEntries is the number of documents that produced
	// at least one extracted entry.
	DocumentsWithEntries int

	// EntriesTotal is the total number of extracted entries.
	EntriesTotal int

	// GroupsTotal is the total number of (attempt, round) groups.
	GroupsTotal int
}

// Result is the overall batch result. Documents appear in manifest
// order regardless of worker completion order.
type Result struct {
	Documents []DocumentOutcome
	Stats     Stats
}

// accumulate updates the result with one document outcome.
func (r *Result) accumulate(outcome DocumentOutcome) {
	r.Documents = append(r.Documents, outcome)
	r.Stats.DocumentsTotal++

	if outcome.Err != nil {
		r.Stats.DocumentsUnavailable++
		return
	}
	r.Stats.DocumentsLoaded++

	if n := outcome.Sink.Len(); n > 0 {
		r.Stats.DocumentsWithEntries++
		r.Stats.EntriesTotal += n
		r.Stats.GroupsTotal += outcome.Sink.GroupCount()
	}
}
