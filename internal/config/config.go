// Package config handles repository and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// RepoConfigFile is the per-repository configuration file name.
	RepoConfigFile = "gitbib.yaml"

	// DefaultCacheFile is the default metadata cache file name.
	DefaultCacheFile = "gitbib.sqlite"

	// DefaultSourceGlob matches source files when none are configured.
	DefaultSourceGlob = "*.yaml"
)

// Repo is per-repository configuration stored in gitbib.yaml at the
// bibliography root.
type Repo struct {
	// SourceFiles are glob patterns, relative to the repository root,
	// naming the YAML files that hold entries. Accepts a single string
	// or a list.
	SourceFiles StringList `yaml:"source_files,omitempty"`

	// CachePath overrides the metadata cache location.
	CachePath string `yaml:"cache,omitempty"`
}

// LoadRepo reads gitbib.yaml from a bibliography directory.
func LoadRepo(dir string) (*Repo, error) {
	path := filepath.Join(dir, RepoConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", RepoConfigFile, err)
	}

	var cfg Repo
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", RepoConfigFile, err)
	}

	if len(cfg.SourceFiles) == 0 {
		cfg.SourceFiles = StringList{DefaultSourceGlob}
	}

	return &cfg, nil
}

// CacheFilePath returns the metadata cache path for a repository.
func (r *Repo) CacheFilePath(dir string) string {
	if r.CachePath != "" {
		if filepath.IsAbs(r.CachePath) {
			return r.CachePath
		}
		return filepath.Join(dir, r.CachePath)
	}
	return filepath.Join(dir, DefaultCacheFile)
}

// StringList unmarshals from either a single YAML string or a sequence
// of strings.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return fmt.Errorf("line %d: want a string or a list of strings", node.Line)
	}
}
