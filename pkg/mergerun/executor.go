package mergerun

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/idxops/shardpack/internal/logctx"
	"github.com/idxops/shardpack/pkg/diskfree"
	"github.com/idxops/shardpack/pkg/fileutil"
	"github.com/idxops/shardpack/pkg/humanfmt"
	"github.com/idxops/shardpack/pkg/logging"
	"github.com/idxops/shardpack/pkg/policy"
	"github.com/idxops/shardpack/pkg/shard"
)

// Scratch area layout under the index directory.
const (
	ScratchDirName = ".scratch"
	BackupDirName  = "bak"
)

// Executor drives compounds through the merge state machine: invoke the
// merge command, persist an outcome record, and on success archive the
// original inputs into the backup directory.
//
// Compounds are processed sequentially. A failed merge is recorded and
// the run continues; filesystem errors abort the run.
type Executor struct {
	// IndexDir is the directory holding the shard files.
	IndexDir string

	// Merger performs the external merge operation.
	Merger Merger

	// DiskCheck enables the free-space guard: a compound is skipped when
	// the index filesystem has less available space than the compound's
	// size. Merge output lands next to its inputs, so a merge needs
	// roughly the compound's size in free space.
	DiskCheck bool

	// Now returns the wall clock used for outcome timestamps. Nil means
	// time.Now.
	Now func() time.Time

	// availableBytes overrides the disk probe in tests. Nil means
	// diskfree.Available.
	availableBytes func(path string) diskfree.Result
}

// ScratchDir returns the scratch area path for the executor's index
// directory.
func (e *Executor) ScratchDir() string {
	return filepath.Join(e.IndexDir, ScratchDirName)
}

// BackupDir returns the archive directory for merged inputs.
func (e *Executor) BackupDir() string {
	return filepath.Join(e.ScratchDir(), BackupDirName)
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Executor) available(path string) diskfree.Result {
	if e.availableBytes != nil {
		return e.availableBytes(path)
	}
	return diskfree.Available(path)
}

// ExecuteAll runs every compound in order. It returns the outcomes of
// all processed compounds; on a fatal error the returned slice holds the
// outcomes completed before the error.
func (e *Executor) ExecuteAll(ctx context.Context, compounds []policy.Compound) ([]Outcome, error) {
	log := logctx.FromContext(ctx)
	pt := logging.NewProgressTracker(int64(len(compounds)))

	outcomes := make([]Outcome, 0, len(compounds))
	for i, c := range compounds {
		cctx := logctx.WithInt(ctx, "compound", i)

		out, err := e.Execute(cctx, c)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)

		switch out.Status {
		case StatusSuccess:
			pt.RecordSuccess()
		case StatusFailed:
			pt.RecordFailure()
		case StatusSkipped:
			pt.RecordSkip()
		}
		pt.LogEvent(log, "compound processed")
	}
	return outcomes, nil
}

// Execute runs a single compound to a terminal state.
func (e *Executor) Execute(ctx context.Context, c policy.Compound) (Outcome, error) {
	log := logctx.FromContext(ctx)

	if e.DiskCheck {
		if free := e.available(e.IndexDir); free.Reliable && free.AvailableBytes < uint64(c.SizeBytes) {
			log.Warn().
				Uint64("available_bytes", free.AvailableBytes).
				Int64("compound_bytes", c.SizeBytes).
				Msg("skipping compound: not enough free disk space")
			return Outcome{Timestamp: e.now(), Status: StatusSkipped, InputPaths: c.Paths}, nil
		}
	}

	// Only index shards go to the merger; auxiliary files ride along in
	// the archive step.
	indexPaths := make([]string, 0, len(c.Paths))
	for _, p := range c.Paths {
		if shard.IsIndexFile(p) {
			indexPaths = append(indexPaths, p)
		}
	}

	log.Info().
		Int("shards", len(indexPaths)).
		Int("files", len(c.Paths)).
		Str("size", humanfmt.Bytes(c.SizeBytes)).
		Msg("merging compound")

	start := e.now()
	ok, output, err := e.Merger.Merge(ctx, indexPaths)
	if err != nil {
		return Outcome{}, err
	}

	status := StatusFailed
	if ok {
		status = StatusSuccess
	}

	out := Outcome{
		Timestamp:  e.now(),
		Status:     status,
		InputPaths: c.Paths,
		Output:     output,
	}
	if err := e.writeOutcome(&out); err != nil {
		return Outcome{}, err
	}

	if !ok {
		log.Error().
			Str("log_file", out.LogFile).
			Msg("merge failed, originals left in place")
		return out, nil
	}

	if err := e.archive(c.Paths); err != nil {
		return Outcome{}, err
	}

	log.Info().
		Str("log_file", out.LogFile).
		Str("throughput", humanfmt.Throughput(c.SizeBytes, e.now().Sub(start))).
		Msg("merge succeeded, originals archived")
	return out, nil
}

// writeOutcome persists the outcome's paths and log records in the
// scratch area, filling in PathsFile and LogFile.
func (e *Executor) writeOutcome(out *Outcome) error {
	scratch := e.ScratchDir()
	if err := fileutil.EnsureDir(scratch); err != nil {
		return err
	}

	base := outcomeBase(out.Timestamp, out.Status)
	out.PathsFile = filepath.Join(scratch, base+".paths")
	out.LogFile = filepath.Join(scratch, base+".log")

	var buf bytes.Buffer
	for _, p := range out.InputPaths {
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(out.PathsFile, buf.Bytes()); err != nil {
		return fmt.Errorf("write outcome paths: %w", err)
	}
	if err := fileutil.WriteFileAtomic(out.LogFile, out.Output); err != nil {
		return fmt.Errorf("write outcome log: %w", err)
	}
	return nil
}

// archive moves every input file into the backup directory. Moves are
// not transactional across files: an error part-way leaves earlier files
// archived.
func (e *Executor) archive(paths []string) error {
	bak := e.BackupDir()
	if err := fileutil.EnsureDir(bak); err != nil {
		return err
	}
	for _, p := range paths {
		if err := fileutil.MoveIntoDir(p, bak); err != nil {
			return fmt.Errorf("archive %s: %w", p, err)
		}
	}
	return nil
}
