// Package cli implements the command-line interface for shardpack.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/idxops/shardpack/internal/logctx"
	"github.com/idxops/shardpack/pkg/humanfmt"
	"github.com/idxops/shardpack/pkg/logging"
	"github.com/idxops/shardpack/pkg/mergerun"
	"github.com/idxops/shardpack/pkg/policy"
	"github.com/idxops/shardpack/pkg/report"
	"github.com/idxops/shardpack/pkg/shard"
)

// Environment variables overriding the policy defaults. CLI flags take
// priority over these.
const (
	EnvMaxRepoSize     = "SHARDPACK_MAX_REPO_SIZE"
	EnvMaxCompoundSize = "SHARDPACK_MAX_COMPOUND_SIZE"
	EnvMinAge          = "SHARDPACK_MIN_AGE"
	EnvMergeCmd        = "SHARDPACK_MERGE_CMD"
)

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: shardpack <command> [options]\ncommands: run, plan, status")
	}

	switch args[0] {
	case "run":
		return runMerge("run", args[1:], false)
	case "plan":
		return runMerge("plan", args[1:], true)
	case "status":
		return runStatus(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func runMerge(name string, args []string, planOnly bool) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	indexDir := fs.String("index", "/data/index", "directory for search index shards")
	mergeCmd := fs.String("merge-cmd", "", "external merge command (default "+mergerun.DefaultCommand+")")
	maxRepoSize := fs.String("max-repo-size", "", "largest repo group to merge, e.g. 100MiB")
	maxCompoundSize := fs.String("max-compound-size", "", "compound shard size cap, e.g. 2GiB")
	minAge := fs.String("min-age", "", "minimum idle time before a repo is merged, e.g. 24h")
	noDiskCheck := fs.Bool("no-disk-check", false, "disable the free disk space guard")
	debug := fs.Bool("debug", false, "enable debug logging")
	pretty := fs.Bool("pretty", false, "human-friendly console logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logging.Init(*debug, *pretty)
	log := logging.L()

	cfg, err := resolveConfig(*maxRepoSize, *maxCompoundSize, *minAge)
	if err != nil {
		return err
	}

	info, err := os.Stat(*indexDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("index dir %s does not exist", *indexDir)
	}

	groups, err := shard.Scan(*indexDir)
	if err != nil {
		return err
	}

	candidates, ignored := policy.Partition(groups, time.Now(), cfg)
	compounds := policy.Pack(candidates, cfg)

	log.Info().
		Str("index_dir", *indexDir).
		Int("repos", len(groups)).
		Int("candidates", len(candidates)).
		Int("ignored", len(ignored)).
		Msg("scanned index dir")
	report.LogPlan(*log, compounds, ignored)

	if planOnly {
		return nil
	}

	command := *mergeCmd
	if command == "" {
		command = os.Getenv(EnvMergeCmd)
	}

	ex := &mergerun.Executor{
		IndexDir:  *indexDir,
		Merger:    mergerun.CommandMerger{Command: command},
		DiskCheck: !*noDiskCheck,
	}

	ctx := logctx.WithLogger(context.Background(), *log)
	outcomes, execErr := ex.ExecuteAll(ctx, compounds)
	report.LogOutcomes(*log, outcomes)
	return execErr
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	indexDir := fs.String("index", "/data/index", "directory for search index shards")
	debug := fs.Bool("debug", false, "enable debug logging")
	pretty := fs.Bool("pretty", false, "human-friendly console logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logging.Init(*debug, *pretty)
	log := logging.L()

	scratch := filepath.Join(*indexDir, mergerun.ScratchDirName)
	records, err := mergerun.ReadRecords(scratch)
	if err != nil {
		return err
	}

	var succeeded, failed int
	for _, r := range records {
		log.Info().
			Time("at", r.Timestamp).
			Str("status", string(r.Status)).
			Int("inputs", r.Inputs).
			Str("record", r.PathsFile).
			Msg("recorded merge")
		if r.Status == mergerun.StatusSuccess {
			succeeded++
		} else {
			failed++
		}
	}

	archived := 0
	if entries, err := os.ReadDir(filepath.Join(scratch, mergerun.BackupDirName)); err == nil {
		archived = len(entries)
	}

	log.Info().
		Int("runs", len(records)).
		Int("succeeded", succeeded).
		Int("failed", failed).
		Int("archived_files", archived).
		Msg("scratch area status")
	return nil
}

// resolveConfig builds the policy thresholds. For each threshold the CLI
// flag takes priority, then the environment variable, then the default.
func resolveConfig(maxRepoSize, maxCompoundSize, minAge string) (policy.Config, error) {
	cfg := policy.DefaultConfig()

	size, err := resolveSize(maxRepoSize, "--max-repo-size", EnvMaxRepoSize, cfg.MaxRepoSize)
	if err != nil {
		return policy.Config{}, err
	}
	cfg.MaxRepoSize = size

	size, err = resolveSize(maxCompoundSize, "--max-compound-size", EnvMaxCompoundSize, cfg.MaxCompoundSize)
	if err != nil {
		return policy.Config{}, err
	}
	cfg.MaxCompoundSize = size

	age, err := resolveAge(minAge, cfg.MinAge)
	if err != nil {
		return policy.Config{}, err
	}
	cfg.MinAge = age

	return cfg, nil
}

func resolveSize(cliVal, flagName, envVar string, def int64) (int64, error) {
	if cliVal != "" {
		n, err := humanfmt.ParseSize(cliVal)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", flagName, err)
		}
		return n, nil
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		n, err := humanfmt.ParseSize(envVal)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", envVar, err)
		}
		return n, nil
	}
	return def, nil
}

func resolveAge(cliVal string, def time.Duration) (time.Duration, error) {
	if cliVal != "" {
		d, err := time.ParseDuration(cliVal)
		if err != nil {
			return 0, fmt.Errorf("invalid --min-age: %w", err)
		}
		return d, nil
	}
	if envVal := os.Getenv(EnvMinAge); envVal != "" {
		d, err := time.ParseDuration(envVal)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", EnvMinAge, err)
		}
		return d, nil
	}
	return def, nil
}
