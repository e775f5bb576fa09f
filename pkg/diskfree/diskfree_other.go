//go:build !linux && !darwin

package diskfree

// availableBytes is unsupported on this platform.
func availableBytes(path string) (uint64, bool) {
	return 0, false
}
