// Package fileutil provides filesystem helpers for the merge run:
// tmp+rename writes for outcome records and directory moves for
// archiving merged shards.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exists returns true if the file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}

// WriteTmpThenMove writes to a temporary file then atomically moves it to
// the final path. The writeFunc receives the temporary path and should
// write the complete file. The temporary file lives next to outPath so
// the final rename stays within one filesystem.
func WriteTmpThenMove(outPath string, writeFunc func(tmpPath string) error) error {
	if err := EnsureDir(filepath.Dir(outPath)); err != nil {
		return err
	}

	tmpPath := outPath + ".tmp"

	if err := writeFunc(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := syncFile(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to final: %w", err)
	}

	return nil
}

// WriteFileAtomic writes data to path with tmp+rename semantics.
func WriteFileAtomic(path string, data []byte) error {
	return WriteTmpThenMove(path, func(tmpPath string) error {
		return os.WriteFile(tmpPath, data, 0o644)
	})
}

// MoveIntoDir renames path into dir, preserving its base name. The move
// is atomic when dir is on the same filesystem as path.
func MoveIntoDir(path, dir string) error {
	dst := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", path, dir, err)
	}
	return nil
}

// syncFile opens, syncs, and closes a file.
func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	err = f.Sync()
	f.Close()
	return err
}
