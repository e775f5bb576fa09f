package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestProgressTrackerCounts(t *testing.T) {
	pt := NewProgressTracker(4)

	pt.RecordSuccess()
	pt.RecordSuccess()
	pt.RecordFailure()
	pt.RecordSkip()

	succeeded, failed, skipped, total := pt.Progress()
	if succeeded != 2 || failed != 1 || skipped != 1 || total != 4 {
		t.Errorf("Progress() = %d, %d, %d, %d", succeeded, failed, skipped, total)
	}
	if pt.Done() != 4 {
		t.Errorf("Done() = %d, want 4", pt.Done())
	}
}

func TestProgressTrackerLogEvent(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	pt := NewProgressTracker(2)
	pt.RecordSuccess()
	pt.LogEvent(log, "compound processed")

	out := buf.String()
	for _, want := range []string{`"done":1`, `"total":2`, `"succeeded":1`, `"progress_pct":50`, "compound processed"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in: %s", want, out)
		}
	}
}

func TestProgressTrackerZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	pt := NewProgressTracker(0)
	// Must not emit a percentage (or divide by zero) for an empty run.
	pt.LogEvent(zerolog.New(&buf), "empty run")
	if strings.Contains(buf.String(), "progress_pct") {
		t.Errorf("unexpected progress_pct in: %s", buf.String())
	}
}
