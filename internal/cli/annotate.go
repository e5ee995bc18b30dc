package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/genqa/internal/logging"
	"github.com/yaklabco/genqa/pkg/annotate"
	"github.com/yaklabco/genqa/pkg/config"
)

type annotateFlags struct {
	runsRoot string
	output   string
}

func newAnnotateCommand() *cobra.Command {
	var cfg config.Config
	flags := &annotateFlags{}

	cmd := &cobra.Command{
		Use:   "annotate CSV",
		Short: "Annotate a quality-summary CSV with per-run counters",
		Long:  annotateLongDescription,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.runsRoot, "runs", ".", "directory holding the run backup folders")
	cmd.Flags().StringVarP(&flags.output, "out", "o", "",
		"output path (default: <input>.with_counts.csv)")
	cmd.Flags().StringVar(&cfg.TestsDir, "tests-dir", "",
		"generated-test folder name inside each run")

	return cmd
}

const annotateLongDescription = `Annotate a quality-summary CSV with counters from run backups.

Each CSV row maps to a run backup folder, by lexical sort order when the
counts line up and by timestamp otherwise. Rows gain generated-test
method and file counts, prompt and token totals, and class/method counts
from the run's history metadata; machine-specific path columns are
dropped.

Examples:
  genqa annotate quality_summary.csv --runs ~/backups
  genqa annotate quality_summary.csv -o annotated.csv`

func runAnnotate(cmd *cobra.Command, inPath string, cliCfg *config.Config, flags *annotateFlags) error {
	logger := logging.Default()

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	outPath := flags.output
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, ".csv") + ".with_counts.csv"
	}

	report, err := annotate.AnnotateCSV(inPath, outPath, annotate.Options{
		RunsRoot:     flags.runsRoot,
		TestsDirName: cfg.TestsDir,
	})
	if err != nil {
		return fmt.Errorf("annotate CSV: %w", err)
	}

	if report.SortedOrderMapping {
		logger.Debug("mapped rows to run folders by sorted order", "rows", report.Rows)
	}
	for _, m := range report.Mappings {
		logger.Debug("row mapping", "timestamp", m.Timestamp, "folder", m.Folder)
	}

	logger.Info("wrote annotated CSV",
		logging.FieldOutput, outPath,
		"rows", report.Rows,
		"max_prompt_tokens", report.MaxPromptTokens,
		"max_response_tokens", report.MaxResponseTokens,
		"max_public_methods", report.MaxPublicMethods,
		"total_public_methods", report.TotalPublicMethods,
	)
	return nil
}
