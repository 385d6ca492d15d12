package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatestProject(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"old.json",
		"newest.yaml",
		"middle.yml",
		"ignored.mp3",
	}
	base := time.Now().Add(-time.Hour)
	mods := map[string]time.Duration{
		"old.json":    0,
		"middle.yml":  10 * time.Minute,
		"newest.yaml": 20 * time.Minute,
		"ignored.mp3": 30 * time.Minute,
	}

	for _, name := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		modTime := base.Add(mods[name])
		if err := os.Chtimes(p, modTime, modTime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
	}

	latest, err := FindLatestProject(dir)
	if err != nil {
		t.Fatalf("FindLatestProject failed: %v", err)
	}
	if filepath.Base(latest) != "newest.yaml" {
		t.Errorf("Expected newest.yaml, got %s", latest)
	}
}

func TestFindLatestEmpty(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	_, err := FindLatest(dir, ".json")
	if err == nil {
		t.Fatal("Expected error for directory without matching files")
	}
	if !strings.Contains(err.Error(), ".json") {
		t.Errorf("Error should mention the extension: %v", err)
	}
}

func TestFindLatestMissingDir(t *testing.T) {
	if _, err := FindLatestProject(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}
