package fern

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenRendersProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "site", "fragments"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"fern.json":                     `{"name":"demo"}`,
		"site/data.json":                `{"greeting":"hello"}`,
		"site/fragments/home.html":      `<p>{{ greeting }}</p>`,
		"site/fragments/not-found.html": `<p>missing</p>`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ctx := context.Background()
	a.LoadData(ctx)
	if err := a.Navigate(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(a.HTML(), "<p>hello</p>") {
		t.Errorf("rendered = %s", a.HTML())
	}
}

func TestOpenMissingProjectStillWorks(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open on empty dir should use defaults: %v", err)
	}
	if a.Store().Route() != "home" {
		t.Errorf("route = %q", a.Store().Route())
	}
}
