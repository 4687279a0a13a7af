// Package source loads raw bibliography entries from hand-authored
// YAML files. It is the boundary between user input and the engine:
// everything here is validated for shape and identifier uniqueness
// before the core ever sees it.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/matsen/gitbib/internal/config"
	"github.com/matsen/gitbib/internal/entry"
)

// RawEntry is one entry as authored in a source file, before any
// fetching, parsing, or resolution.
type RawEntry struct {
	ID          string   `yaml:"-"`
	DOI         string   `yaml:"doi,omitempty"`
	Arxiv       string   `yaml:"arxiv,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	PDF         string   `yaml:"pdf,omitempty"`
	Description string   `yaml:"description,omitempty"`

	// File is the source file the entry came from, relative to the
	// bibliography root.
	File string `yaml:"-"`
}

// External returns the entry's external identifier, or nil if it has
// none. Load has already rejected entries carrying both kinds.
func (r *RawEntry) External() *entry.ExternalID {
	switch {
	case r.DOI != "":
		return &entry.ExternalID{Kind: entry.KindDOI, Value: r.DOI}
	case r.Arxiv != "":
		return &entry.ExternalID{Kind: entry.KindArxiv, Value: r.Arxiv}
	default:
		return nil
	}
}

// DuplicateIDError reports the same identifier authored in two places.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate identifier %q: identifiers must be unique across all source files", e.ID)
}

// Load reads every configured source file under dir and returns the
// raw entries in a deterministic order: files sorted by path, entries
// in document order within each file.
func Load(dir string, cfg *config.Repo) ([]RawEntry, error) {
	files, err := expandGlobs(dir, cfg.SourceFiles)
	if err != nil {
		return nil, err
	}

	var entries []RawEntry
	seen := make(map[string]bool)

	for _, path := range files {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		fileEntries, err := loadFile(path, rel)
		if err != nil {
			return nil, err
		}

		for _, e := range fileEntries {
			if seen[e.ID] {
				return nil, &DuplicateIDError{ID: e.ID}
			}
			seen[e.ID] = true
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// expandGlobs resolves the configured glob patterns, skipping the
// repository config file itself.
func expandGlobs(dir string, patterns []string) ([]string, error) {
	configPath := filepath.Join(dir, config.RepoConfigFile)

	seen := make(map[string]bool)
	var files []string
	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return nil, fmt.Errorf("bad source_files pattern %q: %w", pat, err)
		}
		for _, m := range matches {
			if m == configPath || seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// loadFile parses one source YAML file, a mapping from identifier to
// raw record, preserving the authored document order.
func loadFile(path, rel string) ([]RawEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil // empty file
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: source yaml files must be a mapping from identifier to entry", rel)
	}

	var entries []RawEntry
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]

		id := keyNode.Value
		if !entry.ValidID(id) {
			return nil, fmt.Errorf("%s:%d: invalid identifier %q (want lowercase letters, digits, hyphens)",
				rel, keyNode.Line, id)
		}

		var rec RawEntry
		if err := valNode.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%s:%d: entry %q: %w", rel, valNode.Line, id, err)
		}
		if rec.DOI != "" && rec.Arxiv != "" {
			return nil, fmt.Errorf("%s:%d: entry %q carries both a doi and an arxiv id; at most one is allowed",
				rel, keyNode.Line, id)
		}

		rec.ID = id
		rec.File = rel
		entries = append(entries, rec)
	}

	return entries, nil
}
