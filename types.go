package main

import "fmt"

// FileEntry holds information about a file selected for the report.
type FileEntry struct {
	Path       string // Location on disk, rooted at the project path as given
	Rel        string // Relative to the project root, slash separated
	Size       int64
	TokenCount int // Populated if token counting is enabled

	Content string // Decoded text, valid when Loaded is set
	Loaded  bool
}

// Summary holds aggregated information about the processed files.
type Summary struct {
	TotalFiles  int
	TotalSize   int64
	TotalTokens int
}

// NotFoundError reports a project root that is missing or not a directory.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("project directory '%s' does not exist: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("project directory '%s' is not a directory", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// summarize totals the entries that made it into the report.
func summarize(files []FileEntry) Summary {
	var s Summary
	for _, f := range files {
		s.TotalFiles++
		s.TotalSize += f.Size
		s.TotalTokens += f.TokenCount
	}
	return s
}
