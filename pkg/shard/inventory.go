// Package shard implements the shard inventory: scanning an index
// directory and grouping shard files by owning repository.
//
// A repository's shards share a filename prefix up to the version marker,
// e.g. "myrepo_v16.00000.zoekt" and "myrepo_v16.00000.zoekt.meta" both
// belong to repository "myrepo". The inventory is ephemeral; it is
// recomputed from filesystem state on every run.
package shard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// VersionMarker is the token embedded in every shard filename. The
// substring before the first occurrence of the marker identifies the
// owning repository. Files without the marker are not shards and are
// skipped.
const VersionMarker = "_v16"

// IndexExt is the extension of index shards. Index shards contribute
// their byte size to the group total. Files with any other extension
// (shard metadata and the like) are auxiliary: they count as zero bytes
// but must move together with their index shard.
const IndexExt = ".zoekt"

// File is a single shard or auxiliary file on disk.
type File struct {
	Path      string
	SizeBytes int64 // 0 for auxiliary files
	ModTime   time.Time
}

// RepoGroup is the set of shard and auxiliary files belonging to one
// repository. A group is never empty.
type RepoGroup struct {
	// Repo is the filename prefix before the version marker. It is the
	// sole grouping key: two repositories whose names collide before the
	// marker end up in the same group.
	Repo string

	// SizeBytes is the summed size of the group's index shards.
	SizeBytes int64

	// OldestModTime is the earliest modification time across all files
	// in the group.
	OldestModTime time.Time

	// Paths holds every file in the group, in discovery order.
	Paths []string
}

// Scan enumerates dir (non-recursively) and aggregates shard files into
// repository groups. Directories and files without the version marker
// are skipped. An empty directory yields an empty slice.
func Scan(dir string) ([]RepoGroup, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read index dir: %w", err)
	}

	groups := make(map[string]*RepoGroup)
	var order []string // first-seen repo order

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		i := strings.Index(name, VersionMarker)
		if i < 0 {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}

		f := File{
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
		}
		if IsIndexFile(name) {
			f.SizeBytes = info.Size()
		}

		repo := name[:i]
		g, ok := groups[repo]
		if !ok {
			g = &RepoGroup{Repo: repo, OldestModTime: f.ModTime}
			groups[repo] = g
			order = append(order, repo)
		}
		g.SizeBytes += f.SizeBytes
		if f.ModTime.Before(g.OldestModTime) {
			g.OldestModTime = f.ModTime
		}
		g.Paths = append(g.Paths, f.Path)
	}

	out := make([]RepoGroup, 0, len(order))
	for _, repo := range order {
		out = append(out, *groups[repo])
	}
	return out, nil
}

// IsIndexFile reports whether path names an index shard (as opposed to
// an auxiliary file).
func IsIndexFile(path string) bool {
	return filepath.Ext(path) == IndexExt
}
