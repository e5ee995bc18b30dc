package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/genqa/internal/logging"
	"github.com/yaklabco/genqa/pkg/config"
	"github.com/yaklabco/genqa/pkg/manifest"
	"github.com/yaklabco/genqa/pkg/reporter"
	"github.com/yaklabco/genqa/pkg/runner"
)

type extractFlags struct {
	manifestPath string
	format       string
	output       string
	failOnFound  bool
	strict       bool
	noSummary    bool
}

func newExtractCommand() *cobra.Command {
	var cfg config.Config
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract [run-dirs...]",
		Short: "Extract per-attempt error messages from generation records",
		Long:  extractLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.manifestPath, "manifest", "m", "",
		"CSV manifest of run directories (path, class_name columns)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json")
	cmd.Flags().StringVarP(&flags.output, "out", "o", "", "write report to file instead of stdout")
	cmd.Flags().StringVar(&cfg.RecordsName, "records-name", "",
		"record file name inside each run directory")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.failOnFound, "fail-on-found", false,
		"exit non-zero when any error message is extracted")
	cmd.Flags().BoolVar(&flags.strict, "strict", false,
		"exit non-zero when any document is missing or unparsable")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the aggregate summary line")

	return cmd
}

const extractLongDescription = `Extract error messages from generation record files.

Each run directory is expected to contain a records.json document. The
extractor walks the document, tracks the (attempt, round) context across
nesting, and prints one block per document with the grouped messages.

Examples:
  genqa extract run1/method1/attempt4          # Single run directory
  genqa extract -m attempts.csv                # Manifest of run directories
  genqa extract -m attempts.csv --format json  # JSON for further tooling
  genqa extract -m attempts.csv -o errors.txt  # Write to file`

func runExtract(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *extractFlags) error {
	logger := logging.Default()

	if flags.format != "" {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	// Only a flag the user actually passed may override file or env
	// settings; the pointer keeps "false" distinguishable from "unset".
	if cmd.Flags().Changed("no-summary") {
		cliCfg.ShowSummary = config.Bool(!flags.noSummary)
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	entries, err := collectEntries(flags.manifestPath, args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: nothing to extract: pass run directories or --manifest", ErrUsage)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	logger.Debug("starting extraction",
		logging.FieldDocuments, len(entries),
		logging.FieldJobs, cfg.Jobs,
	)

	result, err := runner.Run(ctx, runner.Options{
		Entries:     entries,
		RecordsName: cfg.RecordsName,
		Jobs:        cfg.Jobs,
	})
	if err != nil {
		return fmt.Errorf("extraction run: %w", err)
	}

	writer, closeWriter, err := outputWriter(cmd, flags.output)
	if err != nil {
		return err
	}
	defer closeWriter()

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       writer,
		Format:       format,
		Color:        colorMode(cmd),
		BlankBetween: true,
		ShowSummary:  cfg.SummaryEnabled(),
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("extraction finished",
		logging.FieldDocuments, result.Stats.DocumentsTotal,
		logging.FieldEntries, result.Stats.EntriesTotal,
		logging.FieldGroups, result.Stats.GroupsTotal,
	)

	switch ExitCodeFromResult(result, flags.failOnFound, flags.strict) {
	case ExitEntriesFound:
		return ErrEntriesFound
	case ExitDegradedRun:
		return ErrDegradedRun
	}
	return nil
}

// collectEntries merges manifest rows with positional run directories,
// manifest first.
func collectEntries(manifestPath string, args []string) ([]manifest.Entry, error) {
	var entries []manifest.Entry
	if manifestPath != "" {
		read, err := manifest.Read(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		entries = read
	}
	for _, arg := range args {
		entries = append(entries, manifest.Entry{Path: arg})
	}
	return entries, nil
}

// outputWriter resolves the report destination. The returned close
// function is a no-op for stdout.
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
