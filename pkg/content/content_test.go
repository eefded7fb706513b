package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newDiskFixture(t *testing.T) *Disk {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"home.html":  "<h1>Home</h1>",
		"about.html": "<h1>About</h1>",
		"notes.txt":  "not a fragment",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	dataFile := filepath.Join(dir, "data.json")
	if err := os.WriteFile(dataFile, []byte(`{"title":"Fern"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewDisk(dir, dataFile)
}

func TestDiskFragment(t *testing.T) {
	d := newDiskFixture(t)
	raw, err := d.Fragment(context.Background(), "home")
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if string(raw) != "<h1>Home</h1>" {
		t.Errorf("fragment body = %q", raw)
	}
}

func TestDiskFragmentMissing(t *testing.T) {
	d := newDiskFixture(t)
	_, err := d.Fragment(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskFragmentRejectsTraversal(t *testing.T) {
	d := newDiskFixture(t)
	for _, name := range []string{"../data", "a/b", `a\b`, ".hidden", ""} {
		if _, err := d.Fragment(context.Background(), name); !errors.Is(err, ErrNotFound) {
			t.Errorf("name %q should be rejected, got %v", name, err)
		}
	}
}

func TestDiskData(t *testing.T) {
	d := newDiskFixture(t)
	raw, err := d.Data(context.Background())
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if string(raw) != `{"title":"Fern"}` {
		t.Errorf("payload = %q", raw)
	}
}

func TestDiskDataUnconfigured(t *testing.T) {
	d := NewDisk(t.TempDir(), "")
	if _, err := d.Data(context.Background()); err == nil {
		t.Error("expected error for unconfigured payload")
	}
}

func TestDiskFragments(t *testing.T) {
	d := newDiskFixture(t)
	names, err := d.Fragments()
	if err != nil {
		t.Fatalf("Fragments: %v", err)
	}
	want := map[string]bool{"home": true, "about": true}
	if len(names) != 2 {
		t.Fatalf("expected 2 fragments, got %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected fragment %q", n)
		}
	}
}
