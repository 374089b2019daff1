package ledger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	f, err := Open(filepath.Join(t.TempDir(), "chartStyles.txt"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if _, ok := f.Lookup("colors"); ok {
		t.Error("expected empty ledger")
	}
}

func TestRecord_AppendsOncePerKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles", "chartStyles.txt")
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.Record("colors", "Colors"); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := f.Record("colors", "Something else"); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := f.Record("font", "Chart font"); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "colors - Colors\nfont - Chart font\n"
	if string(data) != want {
		t.Errorf("ledger content = %q, want %q", data, want)
	}
}

func TestOpen_MemoizesByLeadingToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartStyles.txt")
	os.WriteFile(path, []byte("colors - Colors - legacy\nshadow\n"), 0644)

	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	desc, ok := f.Lookup("colors")
	if !ok || desc != "Colors - legacy" {
		t.Errorf("Lookup(colors) = %q, %v", desc, ok)
	}
	if _, ok := f.Lookup("shadow"); !ok {
		t.Error("a bare key line should still count as recorded")
	}
}

func TestMemory(t *testing.T) {
	m := Memory{}
	m.Record("font", "Font")
	m.Record("font", "Other")
	if desc, _ := m.Lookup("font"); desc != "Font" {
		t.Errorf("Lookup(font) = %q, want Font", desc)
	}
}
