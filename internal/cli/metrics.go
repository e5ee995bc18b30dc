package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/genqa/internal/logging"
	"github.com/yaklabco/genqa/pkg/config"
	"github.com/yaklabco/genqa/pkg/fsutil"
	"github.com/yaklabco/genqa/pkg/metrics"
)

type metricsFlags struct {
	root        string
	flakyInput  string
	targetClass string
	output      string
	noCSV       bool
}

func newMetricsCommand() *cobra.Command {
	var cfg config.Config
	flags := &metricsFlags{}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Collect PIT, JaCoCo, and flaky-test metrics",
		Long:  metricsLongDescription,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetrics(cmd, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", ".", "project root for report auto-detection")
	cmd.Flags().StringVar(&cfg.Metrics.Pit, "pit", "", "path to PIT mutations.xml")
	cmd.Flags().StringVar(&cfg.Metrics.Jacoco, "jacoco", "", "path to JaCoCo CSV or XML report")
	cmd.Flags().StringVar(&flags.flakyInput, "idflakies", "",
		"path to a flaky-detection report or directory")
	cmd.Flags().StringVar(&flags.targetClass, "target-class", "",
		"scope metrics to one class (simple or fully qualified name)")
	cmd.Flags().StringVarP(&flags.output, "out", "o", "", "write JSON summary to file instead of stdout")
	cmd.Flags().StringVar(&cfg.Metrics.CSV, "csv", "", "path for the appended one-row CSV summary")
	cmd.Flags().BoolVar(&flags.noCSV, "no-csv", false, "skip the CSV summary row")

	return cmd
}

const metricsLongDescription = `Collect test-quality metrics from locally generated reports.

Reads the PIT mutations XML, a JaCoCo CSV or XML coverage report, and any
flaky-test detection output found under the project root, then prints a
JSON summary. Missing reports appear as null sections. Each invocation
also appends a one-row summary to a CSV for spreadsheet tracking.

Examples:
  genqa metrics                                  # Auto-detect under .
  genqa metrics --root ~/projects/commons-cli
  genqa metrics --pit reports/mutations.xml --target-class HelpFormatter
  genqa metrics -o summary.json --csv runs.csv`

func runMetrics(cmd *cobra.Command, cliCfg *config.Config, flags *metricsFlags) error {
	logger := logging.Default()

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	summary, err := metrics.Collect(metrics.CollectOptions{
		Root:        flags.root,
		PitPath:     cfg.Metrics.Pit,
		JacocoPath:  cfg.Metrics.Jacoco,
		FlakyInput:  flags.flakyInput,
		TargetClass: flags.targetClass,
	})
	if err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}

	data, err := summary.JSON()
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := fsutil.WriteAtomic(flags.output, data, 0); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		logger.Info("wrote summary", logging.FieldOutput, flags.output)
	} else {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if flags.noCSV {
		return nil
	}

	csvPath := cfg.Metrics.CSV
	if csvPath == "" {
		csvPath = metrics.DefaultCSVPath(summary.ProjectRoot)
	}
	if err := metrics.WriteCSVSummary(summary, csvPath); err != nil {
		if errors.Is(err, metrics.ErrUnderDetectionDir) {
			logger.Warn("skipping CSV summary under detection-tool directory",
				logging.FieldCSV, csvPath)
			return nil
		}
		return fmt.Errorf("append CSV summary: %w", err)
	}
	logger.Info("appended CSV summary", logging.FieldCSV, csvPath)

	return nil
}
