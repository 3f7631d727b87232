package main

import (
	"path/filepath"
	"sort"
	"strings"
)

// Category is the display group a file is reported under.
// The declaration order is the order groups appear in the report.
type Category int

const (
	CategoryConfiguration Category = iota
	CategoryHeaders
	CategorySource
	CategoryDocumentation
	CategoryData
	CategoryOther
)

var categoryNames = [...]string{
	CategoryConfiguration: "Configuration",
	CategoryHeaders:       "Headers",
	CategorySource:        "Source",
	CategoryDocumentation: "Documentation",
	CategoryData:          "Data",
	CategoryOther:         "Other",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Other"
	}
	return categoryNames[c]
}

var (
	headerExtensions = map[string]struct{}{".h": {}, ".hpp": {}}
	sourceExtensions = map[string]struct{}{".cpp": {}, ".c": {}, ".ino": {}}
	docExtensions    = map[string]struct{}{".md": {}, ".txt": {}}
	dataExtensions   = map[string]struct{}{".json": {}, ".xml": {}, ".yaml": {}, ".yml": {}}
)

// categoryOf classifies a path by filename and extension. First match wins.
func categoryOf(path string) Category {
	baseName := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(baseName))

	if baseName == "platformio.ini" {
		return CategoryConfiguration
	}
	if _, ok := headerExtensions[ext]; ok {
		return CategoryHeaders
	}
	if _, ok := sourceExtensions[ext]; ok {
		return CategorySource
	}
	if _, ok := docExtensions[ext]; ok {
		return CategoryDocumentation
	}
	if _, ok := dataExtensions[ext]; ok {
		return CategoryData
	}
	return CategoryOther
}

// sortEntries orders files by category, then by full path.
func sortEntries(files []FileEntry) {
	sort.SliceStable(files, func(i, j int) bool {
		ci, cj := categoryOf(files[i].Path), categoryOf(files[j].Path)
		if ci != cj {
			return ci < cj
		}
		return files[i].Path < files[j].Path
	})
}
