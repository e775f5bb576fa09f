// Package mergerun executes compound merges. It invokes the external
// merge command, records a durable outcome per compound in the scratch
// area, and archives merged inputs on success.
package mergerun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand is the external merge command. It accepts a single "-"
// argument meaning "read shard paths from standard input" and writes the
// merged compound shard into the index directory itself.
const DefaultCommand = "zoekt-merge-index"

// Merger is the external merge capability. Merge feeds the given index
// shard paths to the merge operation and reports whether it succeeded,
// together with the operation's combined output. A non-nil error means
// the operation could not be run at all, as opposed to running and
// failing.
type Merger interface {
	Merge(ctx context.Context, paths []string) (ok bool, output []byte, err error)
}

// CommandMerger runs an external merge process. The process receives one
// path per line on standard input; success is signaled by a zero exit
// status. Stdout and stderr are captured together.
type CommandMerger struct {
	// Command overrides DefaultCommand when non-empty.
	Command string
}

// Merge implements Merger by spawning the merge command. The call blocks
// until the process exits.
func (m CommandMerger) Merge(ctx context.Context, paths []string) (bool, []byte, error) {
	command := m.Command
	if command == "" {
		command = DefaultCommand
	}

	cmd := exec.CommandContext(ctx, command, "-")
	cmd.Stdin = strings.NewReader(strings.Join(paths, "\n") + "\n")

	output, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, output, nil
	}
	if err != nil {
		return false, output, fmt.Errorf("run %s: %w", command, err)
	}
	return true, output, nil
}
