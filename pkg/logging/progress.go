package logging

import (
	"sync/atomic"
	"time"

	"github.com/idxops/shardpack/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// ProgressTracker tracks merge progress across a run's compounds.
// It is safe for concurrent use.
type ProgressTracker struct {
	total     int64
	succeeded atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
	startTime time.Time
}

// NewProgressTracker creates a tracker for total compounds.
func NewProgressTracker(total int64) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// RecordSuccess records a successfully merged compound.
func (pt *ProgressTracker) RecordSuccess() {
	pt.succeeded.Add(1)
}

// RecordFailure records a compound whose merge command failed.
func (pt *ProgressTracker) RecordFailure() {
	pt.failed.Add(1)
}

// RecordSkip records a compound that was not attempted.
func (pt *ProgressTracker) RecordSkip() {
	pt.skipped.Add(1)
}

// Progress returns current counts.
func (pt *ProgressTracker) Progress() (succeeded, failed, skipped, total int64) {
	return pt.succeeded.Load(), pt.failed.Load(), pt.skipped.Load(), pt.total
}

// Done returns how many compounds have reached a terminal state.
func (pt *ProgressTracker) Done() int64 {
	return pt.succeeded.Load() + pt.failed.Load() + pt.skipped.Load()
}

// Elapsed returns time since tracking started.
func (pt *ProgressTracker) Elapsed() time.Duration {
	return time.Since(pt.startTime)
}

// LogEvent emits a progress event with done/total counts, percentage,
// and elapsed time. In pretty mode human-readable companions are added.
func (pt *ProgressTracker) LogEvent(log zerolog.Logger, msg string) {
	succeeded, failed, skipped, total := pt.Progress()
	done := succeeded + failed + skipped
	elapsed := pt.Elapsed()

	e := log.Info().
		Int64("done", done).
		Int64("total", total).
		Int64("succeeded", succeeded).
		Int64("failed", failed).
		Int64("skipped", skipped).
		Int64("elapsed_ms", elapsed.Milliseconds())

	if total > 0 {
		e = e.Float64("progress_pct", float64(done)*100.0/float64(total))
	}
	if IsPrettyMode() {
		e = e.Str("elapsed_h", humanfmt.Duration(elapsed))
	}

	e.Msg(msg)
}
