package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputManagerFilePath(t *testing.T) {
	om := NewOutputManager("/base")

	if got := om.FilePath("train.jsonl"); got != filepath.Join("/base", "train.jsonl") {
		t.Errorf("FilePath = %q", got)
	}
	// path separators in the name cannot escape the base directory
	if got := om.FilePath("../../evil.jsonl"); got != filepath.Join("/base", "evil.jsonl") {
		t.Errorf("FilePath with traversal = %q", got)
	}
}

func TestOutputManagerEnsureAndFileSize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om := NewOutputManager(dir)

	if err := om.EnsureOutputDirExists(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}

	path := om.FilePath("f.txt")
	if err := os.WriteFile(path, []byte("12345"), 0644); err != nil {
		t.Fatal(err)
	}

	size, err := om.FileSize(path)
	if err != nil {
		t.Fatal(err)
	}
	if size != 5 {
		t.Errorf("FileSize = %d, want 5", size)
	}

	if _, err := om.FileSize(om.FilePath("missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
