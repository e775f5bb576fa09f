package diskfree

import "testing"

func TestAvailable(t *testing.T) {
	res := Available(t.TempDir())
	if res.Reliable && res.AvailableBytes == 0 {
		t.Error("reliable probe reported zero available bytes")
	}
}

func TestAvailableMissingPath(t *testing.T) {
	res := Available("/definitely/not/a/real/path")
	if res.Reliable {
		t.Error("probe of missing path should be unreliable")
	}
}
