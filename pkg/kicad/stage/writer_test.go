package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "board.kicad_pcb")

	if err := WriteFile(context.Background(), dest, []byte("first")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading staged file: %v", err)
	}
	if string(got) != "first" {
		t.Fatalf("content = %q, want %q", got, "first")
	}

	if _, err := os.Stat(dest + ".new"); !os.IsNotExist(err) {
		t.Fatalf("expected .new staging file to be renamed away, stat err = %v", err)
	}
}

func TestWriteFileBacksUpExisting(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "board.kicad_pcb")

	if err := os.WriteFile(dest, []byte("original"), 0644); err != nil {
		t.Fatalf("seeding original file: %v", err)
	}

	if err := WriteFile(context.Background(), dest, []byte("updated")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading updated file: %v", err)
	}
	if string(got) != "updated" {
		t.Fatalf("content = %q, want %q", got, "updated")
	}

	bak, err := os.ReadFile(dest + ".bak")
	if err != nil {
		t.Fatalf("reading backup file: %v", err)
	}
	if string(bak) != "original" {
		t.Fatalf("backup content = %q, want %q", bak, "original")
	}
}
