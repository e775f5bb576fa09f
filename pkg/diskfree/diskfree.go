// Package diskfree provides a best-effort probe of available disk space
// on the filesystem containing a given path.
//
// Merging compounds roughly doubles transient space usage in the index
// directory, so the executor checks available space before launching a
// merge. On platforms without a probe the result is marked unreliable
// and callers should not act on it.
package diskfree

// Result holds the result of a free-space probe.
type Result struct {
	// AvailableBytes is the space available to unprivileged processes on
	// the filesystem containing the probed path.
	AvailableBytes uint64

	// Reliable indicates whether the value came from a platform-specific
	// probe (true) or is a meaningless fallback (false).
	Reliable bool
}

// Available returns the available disk space for the filesystem
// containing path. If the platform probe fails or is unsupported,
// Reliable is false.
func Available(path string) Result {
	bytes, ok := availableBytes(path)
	if !ok {
		return Result{}
	}
	return Result{AvailableBytes: bytes, Reliable: true}
}
