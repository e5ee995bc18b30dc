package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/genqa/pkg/config"
)

// LoadOptions configures configuration loading.
type LoadOptions struct {
	// WorkingDir is the directory to start project config discovery from.
	WorkingDir string

	// ExplicitPath is a config file given via --config. When set it
	// replaces project config discovery; a missing file is an error.
	ExplicitPath string

	// CLIConfig carries flag-provided values. Non-zero fields override
	// everything else.
	CLIConfig *config.Config
}

// LoadResult is the outcome of configuration loading.
type LoadResult struct {
	// Config is the fully merged configuration.
	Config *config.Config

	// LoadedFrom lists the config files that contributed, lowest
	// precedence first.
	LoadedFrom []string

	// Warnings are non-fatal issues encountered while loading.
	Warnings []string
}

// Load builds the effective configuration: defaults, then system, user,
// and project (or explicit) config files, then environment variables,
// then CLI flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{Config: config.NewConfig()}

	paths, err := DiscoverPaths(ctx, opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("discover config paths: %w", err)
	}

	files := []string{paths.System, paths.User}
	if opts.ExplicitPath != "" {
		if !fileExists(opts.ExplicitPath) {
			return nil, fmt.Errorf("config file not found: %s", opts.ExplicitPath)
		}
		files = append(files, opts.ExplicitPath)
	} else {
		files = append(files, paths.Project)
	}

	for _, path := range files {
		if path == "" {
			continue
		}
		fileCfg, err := loadFile(path)
		if err != nil {
			if path == opts.ExplicitPath {
				return nil, err
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping config %s: %v", path, err))
			continue
		}
		merge(result.Config, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, path)
	}

	if err := LoadFromEnv(result.Config); err != nil {
		return nil, err
	}

	if opts.CLIConfig != nil {
		merge(result.Config, opts.CLIConfig)
	}

	if err := result.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return result, nil
}

func loadFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// merge copies the non-zero fields of src onto dst. Zero values mean
// "not set" at every layer, so a config file cannot reset a default to
// zero; that keeps the merge rules uniform across files, env, and flags.
// Booleans carry set-ness through a pointer so a later layer can still
// turn an option off.
func merge(dst, src *config.Config) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Jobs != 0 {
		dst.Jobs = src.Jobs
	}
	if src.RecordsName != "" {
		dst.RecordsName = src.RecordsName
	}
	if src.Attempt != 0 {
		dst.Attempt = src.Attempt
	}
	if src.TestsDir != "" {
		dst.TestsDir = src.TestsDir
	}
	if src.ShowSummary != nil {
		dst.ShowSummary = config.Bool(*src.ShowSummary)
	}
	if src.Metrics.Pit != "" {
		dst.Metrics.Pit = src.Metrics.Pit
	}
	if src.Metrics.Jacoco != "" {
		dst.Metrics.Jacoco = src.Metrics.Jacoco
	}
	if src.Metrics.CSV != "" {
		dst.Metrics.CSV = src.Metrics.CSV
	}
}
