// Package policy implements the merge policy: partitioning repository
// groups into merge candidates and bin-packing candidates into
// size-bounded compounds.
//
// The package is pure; it performs no I/O. Executing the resulting
// compounds is the job of pkg/mergerun.
package policy

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/idxops/shardpack/pkg/shard"
)

// Default thresholds. Repositories above DefaultMaxRepoSize are already
// large enough that merging them buys little; repositories touched less
// than DefaultMinAge ago are likely still being reindexed and would be
// orphaned inside a compound shard right after merging.
const (
	DefaultMaxRepoSize     = 100 * 1024 * 1024
	DefaultMaxCompoundSize = 2 * 1024 * 1024 * 1024
	DefaultMinAge          = 24 * time.Hour
)

// Config holds the policy thresholds. The zero value is usable: Validate
// replaces zero fields with the defaults above.
type Config struct {
	// MaxRepoSize is the largest repository group (summed index shard
	// bytes) still considered for merging.
	MaxRepoSize int64

	// MaxCompoundSize caps the aggregate size of a compound. A single
	// candidate bigger than the cap still forms its own compound, since
	// a repository group is never split.
	MaxCompoundSize int64

	// MinAge is how long a repository group must have been idle (by its
	// oldest file modification time) before it is merged.
	MinAge time.Duration
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MaxRepoSize:     DefaultMaxRepoSize,
		MaxCompoundSize: DefaultMaxCompoundSize,
		MinAge:          DefaultMinAge,
	}
}

// Validate replaces zero or negative fields with their defaults.
func (c *Config) Validate() {
	if c.MaxRepoSize <= 0 {
		c.MaxRepoSize = DefaultMaxRepoSize
	}
	if c.MaxCompoundSize <= 0 {
		c.MaxCompoundSize = DefaultMaxCompoundSize
	}
	if c.MinAge <= 0 {
		c.MinAge = DefaultMinAge
	}
}

// Compound is an ordered batch of repository groups merged in one
// operation.
type Compound struct {
	// SizeBytes is the summed index shard size of all member groups.
	SizeBytes int64

	// Groups is the number of repository groups in the compound.
	Groups int

	// Paths holds every member file, group order preserved and within
	// each group discovery order preserved.
	Paths []string
}

// Partition splits groups into merge candidates and ignored groups. A
// group is a candidate iff its size is at most cfg.MaxRepoSize and its
// oldest file was modified at least cfg.MinAge before now.
//
// Both returned slices are sorted by (OldestModTime, SizeBytes), repo
// key as the final tiebreak. This sort is the only source of ordering
// determinism; callers must not rely on the enumeration order of the
// input.
func Partition(groups []shard.RepoGroup, now time.Time, cfg Config) (candidates, ignored []shard.RepoGroup) {
	cfg.Validate()
	cutoff := now.Add(-cfg.MinAge)
	for _, g := range groups {
		if g.SizeBytes <= cfg.MaxRepoSize && !g.OldestModTime.After(cutoff) {
			candidates = append(candidates, g)
		} else {
			ignored = append(ignored, g)
		}
	}
	sortGroups(candidates)
	sortGroups(ignored)
	return candidates, ignored
}

func sortGroups(gs []shard.RepoGroup) {
	slices.SortFunc(gs, func(a, b shard.RepoGroup) int {
		if c := a.OldestModTime.Compare(b.OldestModTime); c != 0 {
			return c
		}
		if c := cmp.Compare(a.SizeBytes, b.SizeBytes); c != 0 {
			return c
		}
		return strings.Compare(a.Repo, b.Repo)
	})
}

// Pack greedily bins the sorted candidates into compounds. It walks the
// candidates in order, growing the open compound until adding the next
// group would exceed cfg.MaxCompoundSize, then starts a new one. No
// group is dropped and no group is split across compounds.
func Pack(candidates []shard.RepoGroup, cfg Config) []Compound {
	cfg.Validate()

	var compounds []Compound
	for _, g := range candidates {
		if len(compounds) > 0 {
			cur := &compounds[len(compounds)-1]
			if cur.SizeBytes+g.SizeBytes <= cfg.MaxCompoundSize {
				cur.SizeBytes += g.SizeBytes
				cur.Groups++
				cur.Paths = append(cur.Paths, g.Paths...)
				continue
			}
		}
		compounds = append(compounds, Compound{
			SizeBytes: g.SizeBytes,
			Groups:    1,
			Paths:     slices.Clone(g.Paths),
		})
	}
	return compounds
}
