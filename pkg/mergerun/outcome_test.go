package mergerun

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseOutcomeName(t *testing.T) {
	tests := []struct {
		name   string
		ok     bool
		status Status
	}{
		{"1700000000-success.paths", true, StatusSuccess},
		{"1700000000-failed.paths", true, StatusFailed},
		{"1700000000-success.log", false, ""},
		{"1700000000-skipped.paths", false, ""},
		{"garbage.paths", false, ""},
		{"1700000000.paths", false, ""},
	}
	for _, tt := range tests {
		ts, status, ok := parseOutcomeName(tt.name)
		if ok != tt.ok {
			t.Errorf("parseOutcomeName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if status != tt.status {
			t.Errorf("parseOutcomeName(%q) status = %s, want %s", tt.name, status, tt.status)
		}
		if !ts.Equal(time.Unix(1700000000, 0)) {
			t.Errorf("parseOutcomeName(%q) ts = %v", tt.name, ts)
		}
	}
}

func TestReadRecords(t *testing.T) {
	scratch := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(scratch, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("1700000000-success.paths", "/idx/a.zoekt\n/idx/a.zoekt.meta\n")
	write("1700000000-success.log", "merged\n")
	write("1700000100-failed.paths", "/idx/b.zoekt\n")
	write("1700000100-failed.log", "boom\n")
	write("notes.txt", "ignore me\n")
	if err := os.Mkdir(filepath.Join(scratch, BackupDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(scratch)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Status != StatusSuccess || records[0].Inputs != 2 {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Status != StatusFailed || records[1].Inputs != 1 {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestReadRecordsMissingDir(t *testing.T) {
	records, err := ReadRecords(filepath.Join(t.TempDir(), ScratchDirName))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}
