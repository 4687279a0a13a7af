package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeRepoConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, RepoConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRepo_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeRepoConfig(t, dir, "")

	cfg, err := LoadRepo(dir)
	if err != nil {
		t.Fatalf("LoadRepo(): %v", err)
	}

	if !reflect.DeepEqual([]string(cfg.SourceFiles), []string{DefaultSourceGlob}) {
		t.Errorf("SourceFiles = %v, want [%s]", cfg.SourceFiles, DefaultSourceGlob)
	}
	if got, want := cfg.CacheFilePath(dir), filepath.Join(dir, DefaultCacheFile); got != want {
		t.Errorf("CacheFilePath() = %q, want %q", got, want)
	}
}

func TestLoadRepo_SourceFilesString(t *testing.T) {
	dir := t.TempDir()
	writeRepoConfig(t, dir, "source_files: papers.yaml\n")

	cfg, err := LoadRepo(dir)
	if err != nil {
		t.Fatalf("LoadRepo(): %v", err)
	}
	if !reflect.DeepEqual([]string(cfg.SourceFiles), []string{"papers.yaml"}) {
		t.Errorf("SourceFiles = %v", cfg.SourceFiles)
	}
}

func TestLoadRepo_SourceFilesList(t *testing.T) {
	dir := t.TempDir()
	writeRepoConfig(t, dir, "source_files:\n  - papers.yaml\n  - books/*.yaml\n")

	cfg, err := LoadRepo(dir)
	if err != nil {
		t.Fatalf("LoadRepo(): %v", err)
	}
	if !reflect.DeepEqual([]string(cfg.SourceFiles), []string{"papers.yaml", "books/*.yaml"}) {
		t.Errorf("SourceFiles = %v", cfg.SourceFiles)
	}
}

func TestLoadRepo_CachePathOverride(t *testing.T) {
	dir := t.TempDir()
	writeRepoConfig(t, dir, "cache: .cache/meta.sqlite\n")

	cfg, err := LoadRepo(dir)
	if err != nil {
		t.Fatalf("LoadRepo(): %v", err)
	}
	if got, want := cfg.CacheFilePath(dir), filepath.Join(dir, ".cache/meta.sqlite"); got != want {
		t.Errorf("CacheFilePath() = %q, want %q", got, want)
	}
}

func TestLoadRepo_Missing(t *testing.T) {
	if _, err := LoadRepo(t.TempDir()); err == nil {
		t.Error("LoadRepo() on empty dir = nil error, want error")
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		path string
		want string
	}{
		{"~/bib", filepath.Join(home, "bib")},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandTilde(tt.path); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
