package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yaklabco/genqa/internal/logging"
	"github.com/yaklabco/genqa/pkg/config"
	"github.com/yaklabco/genqa/pkg/discover"
	"github.com/yaklabco/genqa/pkg/manifest"
)

type discoverFlags struct {
	output string
	asJSON bool
	asCSV  bool
}

func newDiscoverCommand() *cobra.Command {
	var cfg config.Config
	flags := &discoverFlags{}

	cmd := &cobra.Command{
		Use:   "discover ROOT",
		Short: "Find exhausted-retry attempt folders in run backups",
		Long:  discoverLongDescription,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().IntVar(&cfg.Attempt, "attempt", 0, "attempt number to look for (default 4)")
	cmd.Flags().BoolVarP(&flags.asJSON, "json", "j", false, "output JSON")
	cmd.Flags().BoolVarP(&flags.asCSV, "csv", "c", false, "output a CSV manifest (path, class_name)")
	cmd.Flags().StringVarP(&flags.output, "out", "o", "",
		"write CSV manifest to file (implies --csv)")

	return cmd
}

const discoverLongDescription = `Search run backup folders for attempt directories.

Each immediate child of ROOT is treated as one generation run. Within a
run, history* trees are searched for class*/method* folders containing
the requested attempt folder, resolving class names through the run's
classMapping.json. The CSV output is a manifest consumable by
"genqa extract --manifest".

Examples:
  genqa discover ~/backups                     # Human-readable listing
  genqa discover ~/backups -c -o attempts.csv  # Manifest for extraction
  genqa discover ~/backups --attempt 2 -j      # JSON, different attempt`

func runDiscover(cmd *cobra.Command, root string, cfg *config.Config, flags *discoverFlags) error {
	logger := logging.Default()

	merged, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	attempts, err := discover.FindAttempts(root, merged.Attempt)
	if err != nil {
		return fmt.Errorf("discover attempts: %w", err)
	}

	logger.Debug("discovery finished",
		logging.FieldRoot, root,
		logging.FieldAttempt, merged.Attempt,
		logging.FieldRuns, len(attempts),
	)

	if flags.output != "" {
		if err := manifest.Write(flags.output, discover.ToManifest(attempts)); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		logger.Info("wrote manifest",
			logging.FieldManifest, flags.output,
			logging.FieldDocuments, len(attempts),
		)
		return nil
	}

	out := cmd.OutOrStdout()

	if flags.asCSV {
		if err := manifest.WriteTo(out, discover.ToManifest(attempts)); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		return nil
	}

	if flags.asJSON {
		data, err := json.MarshalIndent(attempts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal attempts: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(attempts) == 0 {
		fmt.Fprintln(out, "No directories containing matching attempt folders found.")
		return nil
	}
	for _, a := range attempts {
		fmt.Fprintf(out, "%s  (run: %s package: %s history: %s class: %s (%s) method: %s)\n",
			a.AttemptDir, a.Run, a.Package, a.History, a.ClassDir, a.ClassName, a.MethodDir)
	}
	return nil
}
