package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")

	if Exists(path) {
		t.Error("Exists = true for missing file")
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Error("Exists = false for present file")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s", dir)
	}
	// Idempotent.
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "record.paths")

	if err := WriteFileAtomic(path, []byte("a\nb\n")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a\nb\n" {
		t.Errorf("content = %q, want %q", got, "a\nb\n")
	}
	if Exists(path + ".tmp") {
		t.Error("temp file left behind")
	}
}

func TestWriteTmpThenMoveCleansUpOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	err := WriteTmpThenMove(path, func(tmpPath string) error {
		if err := os.WriteFile(tmpPath, []byte("partial"), 0o644); err != nil {
			return err
		}
		return os.ErrInvalid
	})
	if err == nil {
		t.Fatal("expected error from writeFunc")
	}
	if Exists(path) || Exists(path+".tmp") {
		t.Error("no file should remain after failed write")
	}
}

func TestMoveIntoDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shard.zoekt")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	bak := filepath.Join(dir, "bak")
	if err := EnsureDir(bak); err != nil {
		t.Fatal(err)
	}

	if err := MoveIntoDir(src, bak); err != nil {
		t.Fatal(err)
	}
	if Exists(src) {
		t.Error("source still present after move")
	}
	got, err := os.ReadFile(filepath.Join(bak, "shard.zoekt"))
	if err != nil || string(got) != "data" {
		t.Errorf("moved file content = %q, err = %v", got, err)
	}
}

func TestMoveIntoDirMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := MoveIntoDir(filepath.Join(dir, "nope"), dir); err == nil {
		t.Fatal("expected error for missing source")
	}
}
