package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/genqa/pkg/config"
)

// envVarPrefix is the prefix for all genqa environment variables.
const envVarPrefix = "GENQA_"

// LoadFromEnv applies environment variable overrides to the
// configuration. Variables are prefixed with GENQA_ (e.g. GENQA_FORMAT).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	if v := os.Getenv(envVarPrefix + "FORMAT"); v != "" {
		cfg.Format = config.OutputFormat(v)
	}
	if v := os.Getenv(envVarPrefix + "RECORDS_NAME"); v != "" {
		cfg.RecordsName = v
	}
	if v := os.Getenv(envVarPrefix + "TESTS_DIR"); v != "" {
		cfg.TestsDir = v
	}
	if v := os.Getenv(envVarPrefix + "PIT"); v != "" {
		cfg.Metrics.Pit = v
	}
	if v := os.Getenv(envVarPrefix + "JACOCO"); v != "" {
		cfg.Metrics.Jacoco = v
	}
	if v := os.Getenv(envVarPrefix + "CSV"); v != "" {
		cfg.Metrics.CSV = v
	}

	if v := os.Getenv(envVarPrefix + "JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %sJOBS: %q", envVarPrefix, v)
		}
		cfg.Jobs = n
	}
	if v := os.Getenv(envVarPrefix + "ATTEMPT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %sATTEMPT: %q", envVarPrefix, v)
		}
		cfg.Attempt = n
	}
	if v := os.Getenv(envVarPrefix + "SHOW_SUMMARY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean for %sSHOW_SUMMARY: %q (expected true/false/1/0)", envVarPrefix, v)
		}
		cfg.ShowSummary = config.Bool(b)
	}

	return nil
}

// ListEnvVars returns the supported environment variables with their
// descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GENQA_FORMAT":       "Report output format: text or json",
		"GENQA_JOBS":         "Number of parallel workers (0 = auto)",
		"GENQA_RECORDS_NAME": "Record file name inside attempt folders",
		"GENQA_ATTEMPT":      "Attempt number probed during discovery",
		"GENQA_TESTS_DIR":    "Generated-test folder name inside run backups",
		"GENQA_SHOW_SUMMARY": "Append an aggregate summary line: true or false",
		"GENQA_PIT":          "Path to the PIT mutations.xml report",
		"GENQA_JACOCO":       "Path to the JaCoCo CSV or XML report",
		"GENQA_CSV":          "Path for the appended quality-summary CSV",
	}
}
