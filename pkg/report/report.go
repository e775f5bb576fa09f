// Package report emits plan and outcome summaries. It is purely
// observational and has no effect on the run.
package report

import (
	"github.com/idxops/shardpack/pkg/humanfmt"
	"github.com/idxops/shardpack/pkg/mergerun"
	"github.com/idxops/shardpack/pkg/policy"
	"github.com/idxops/shardpack/pkg/shard"
	"github.com/rs/zerolog"
)

// Summary aggregates plan totals for packed versus ignored groups.
type Summary struct {
	Compounds     int
	CompoundBytes int64
	CompoundFiles int
	IgnoredGroups int
	IgnoredBytes  int64
	IgnoredFiles  int
}

// Build computes the summary for a packing result.
func Build(compounds []policy.Compound, ignored []shard.RepoGroup) Summary {
	s := Summary{
		Compounds:     len(compounds),
		IgnoredGroups: len(ignored),
	}
	for _, c := range compounds {
		s.CompoundBytes += c.SizeBytes
		s.CompoundFiles += len(c.Paths)
	}
	for _, g := range ignored {
		s.IgnoredBytes += g.SizeBytes
		s.IgnoredFiles += len(g.Paths)
	}
	return s
}

// LogPlan writes per-compound lines and the aggregate totals.
func LogPlan(log zerolog.Logger, compounds []policy.Compound, ignored []shard.RepoGroup) Summary {
	for i, c := range compounds {
		log.Info().
			Int("compound", i).
			Int64("size_bytes", c.SizeBytes).
			Str("size", humanfmt.Bytes(c.SizeBytes)).
			Int("repos", c.Groups).
			Int("files", len(c.Paths)).
			Msg("planned compound shard")
	}

	s := Build(compounds, ignored)
	log.Info().
		Int("compounds", s.Compounds).
		Int64("total_bytes", s.CompoundBytes).
		Str("total", humanfmt.Bytes(s.CompoundBytes)).
		Int("files", s.CompoundFiles).
		Msg("total compound size")
	log.Info().
		Int("groups", s.IgnoredGroups).
		Int64("total_bytes", s.IgnoredBytes).
		Str("total", humanfmt.Bytes(s.IgnoredBytes)).
		Int("files", s.IgnoredFiles).
		Msg("total non-compound size")
	return s
}

// LogOutcomes summarizes the terminal states of an executed run.
func LogOutcomes(log zerolog.Logger, outcomes []mergerun.Outcome) {
	var succeeded, failed, skipped int
	for _, out := range outcomes {
		switch out.Status {
		case mergerun.StatusSuccess:
			succeeded++
		case mergerun.StatusFailed:
			failed++
		case mergerun.StatusSkipped:
			skipped++
		}
	}
	log.Info().
		Int("succeeded", succeeded).
		Int("failed", failed).
		Int("skipped", skipped).
		Int("total", len(outcomes)).
		Msg("merge run complete")
}
