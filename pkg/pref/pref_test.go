package pref

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestOpenMissingFile(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := p.Get("theme"); ok {
		t.Error("fresh store should be empty")
	}
	if got := p.GetDefault("theme", "light"); got != "light" {
		t.Errorf("GetDefault = %q", got)
	}
}

func TestSetPersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.Set("theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, _ := reopened.Get("theme"); v != "dark" {
		t.Errorf("persisted theme = %q", v)
	}
}

func TestToggle(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Unset toggles to the second value.
	v, err := p.Toggle("theme", "light", "dark")
	if err != nil || v != "dark" {
		t.Fatalf("first toggle = %q, %v", v, err)
	}
	v, _ = p.Toggle("theme", "light", "dark")
	if v != "light" {
		t.Errorf("second toggle = %q", v)
	}
	v, _ = p.Toggle("theme", "light", "dark")
	if v != "dark" {
		t.Errorf("third toggle = %q", v)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := writeFile(path, "{nope"); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected parse error")
	}
}
