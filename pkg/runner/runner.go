package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/yaklabco/genqa/internal/logging"
	"github.com/yaklabco/genqa/pkg/document"
	"github.com/yaklabco/genqa/pkg/extract"
)

// Run processes every manifest entry: load <path>/<records name>, walk
// it once with the extraction engine, and collect the grouped entries.
//
// Each document's traversal is self-contained, so entries are
// processed concurrently by a worker pool; outcomes are reassembled in
// manifest order so output is deterministic. A missing or unparsable
// document degrades to an empty outcome and never fails the batch.
func Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		Documents: make([]DocumentOutcome, 0, len(opts.Entries)),
	}
	if len(opts.Entries) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(opts.Entries) {
		jobs = len(opts.Entries)
	}

	recordsName := opts.effectiveRecordsName()

	type indexed struct {
		idx     int
		outcome DocumentOutcome
	}

	workCh := make(chan int)
	outCh := make(chan indexed)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				entry := opts.Entries[idx]
				outcome := processEntry(ctx, entry.Path, entry.ClassName, recordsName)

				select {
				case <-ctx.Done():
					return
				case outCh <- indexed{idx: idx, outcome: outcome}:
				}
			}
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for i := range opts.Entries {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers may complete out of order; index the outcomes and
	// rebuild in manifest order.
	outcomes := make(map[int]DocumentOutcome, len(opts.Entries))
	for out := range outCh {
		outcomes[out.idx] = out.outcome
	}

	for i := range opts.Entries {
		if outcome, ok := outcomes[i]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

// processEntry extracts one document. Load failures are downgraded to
// an empty sink: the input is adversarial generation output and "no
// data" is an expected shape.
func processEntry(ctx context.Context, base, className, recordsName string) DocumentOutcome {
	logger := logging.FromContext(ctx)
	path := filepath.Join(base, recordsName)

	outcome := DocumentOutcome{
		Path:      path,
		ClassName: className,
		Sink:      extract.NewGroupedSink(),
	}

	root, err := document.Load(path)
	if err != nil {
		logger.Warn("no data for document", logging.FieldPath, path, logging.FieldError, err)
		outcome.Err = err
		return outcome
	}

	extract.CollectInto(root, outcome.Sink)
	return outcome
}
