package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the machine-readable companion of a report.
type Manifest struct {
	Generated   string          `yaml:"generated"`
	ProjectRoot string          `yaml:"project_root"`
	Revision    string          `yaml:"revision,omitempty"`
	TotalFiles  int             `yaml:"total_files"`
	TotalSize   int64           `yaml:"total_size"`
	TotalTokens int             `yaml:"total_tokens,omitempty"`
	Files       []ManifestEntry `yaml:"files"`
}

// ManifestEntry describes one file, in report order.
type ManifestEntry struct {
	Index    int    `yaml:"index"`
	Path     string `yaml:"path"`
	Category string `yaml:"category"`
	Size     int64  `yaml:"size"`
	Tokens   int    `yaml:"tokens,omitempty"`
}

func buildManifest(files []FileEntry, opts reportOptions) Manifest {
	summary := summarize(files)
	m := Manifest{
		Generated:   opts.Generated.Format(time.RFC3339),
		ProjectRoot: opts.AbsRoot,
		Revision:    opts.GitRevision,
		TotalFiles:  summary.TotalFiles,
		TotalSize:   summary.TotalSize,
		Files:       make([]ManifestEntry, 0, len(files)),
	}
	if opts.ShowTokens {
		m.TotalTokens = summary.TotalTokens
	}
	for i, f := range files {
		entry := ManifestEntry{
			Index:    i + 1,
			Path:     f.Rel,
			Category: categoryOf(f.Path).String(),
			Size:     f.Size,
		}
		if opts.ShowTokens {
			entry.Tokens = f.TokenCount
		}
		m.Files = append(m.Files, entry)
	}
	return m
}

// writeManifest serializes the manifest as YAML to path.
func writeManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
