package mergerun

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status is the terminal state of one compound execution.
type Status string

const (
	// StatusSuccess means the merge command exited zero and the inputs
	// were archived.
	StatusSuccess Status = "success"

	// StatusFailed means the merge command exited non-zero; the inputs
	// were left in place.
	StatusFailed Status = "failed"

	// StatusSkipped means the merge was not attempted (e.g. low disk
	// space); nothing was written or moved.
	StatusSkipped Status = "skipped"
)

// Outcome records the result of executing one compound. It is written
// to the scratch area once and never mutated.
type Outcome struct {
	Timestamp  time.Time
	Status     Status
	InputPaths []string
	Output     []byte // combined stdout/stderr of the merge command

	// PathsFile and LogFile name the durable records in the scratch
	// area. Both are empty for skipped compounds.
	PathsFile string
	LogFile   string
}

// Record is a parsed scratch-area outcome record.
type Record struct {
	Timestamp time.Time
	Status    Status
	PathsFile string
	Inputs    int
}

// outcomeBase returns the shared base name of an outcome's record files,
// "<unixTimestamp>-<status>".
func outcomeBase(ts time.Time, status Status) string {
	return fmt.Sprintf("%d-%s", ts.Unix(), status)
}

// parseOutcomeName parses a ".paths" record filename produced by
// outcomeBase.
func parseOutcomeName(name string) (time.Time, Status, bool) {
	base, found := strings.CutSuffix(name, ".paths")
	if !found {
		return time.Time{}, "", false
	}
	tsStr, statusStr, found := strings.Cut(base, "-")
	if !found {
		return time.Time{}, "", false
	}
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return time.Time{}, "", false
	}
	switch Status(statusStr) {
	case StatusSuccess, StatusFailed:
		return time.Unix(ts, 0), Status(statusStr), true
	}
	return time.Time{}, "", false
}

// ReadRecords parses the outcome records in scratchDir, sorted by the
// lexical order of their filenames. A missing scratch directory yields
// an empty slice: no merge has ever run.
func ReadRecords(scratchDir string) ([]Record, error) {
	entries, err := os.ReadDir(scratchDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scratch dir: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, status, ok := parseOutcomeName(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(scratchDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read record %s: %w", entry.Name(), err)
		}
		records = append(records, Record{
			Timestamp: ts,
			Status:    status,
			PathsFile: path,
			Inputs:    countLines(data),
		})
	}
	return records, nil
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
