// Package runner provides multi-document extraction orchestration.
package runner

import "github.com/yaklabco/genqa/pkg/manifest"

// DefaultRecordsName is the report file expected inside each run
// directory listed in a manifest.
const DefaultRecordsName = "records.json"

// Options controls a batch extraction run.
type Options struct {
	// Entries are the manifest rows to process, in manifest order.
	Entries []manifest.Entry

	// RecordsName is the report filename joined onto each entry path.
	// Defaults to DefaultRecordsName.
	RecordsName string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int
}

// effectiveRecordsName returns the report filename, defaulting if empty.
func (o Options) effectiveRecordsName() string {
	if o.RecordsName == "" {
		return DefaultRecordsName
	}
	return o.RecordsName
}
