package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// scanDirs are the project subdirectories walked recursively.
var scanDirs = []string{"include", "src"}

const platformioFile = "platformio.ini"

// includeExtensions are matched case-insensitively.
var includeExtensions = map[string]struct{}{
	".cpp": {}, ".c": {}, ".hpp": {}, ".h": {}, ".ino": {},
	".ini": {}, ".txt": {}, ".md": {}, ".json": {}, ".xml": {},
	".yaml": {}, ".yml": {}, ".conf": {}, ".cfg": {},
}

// alwaysInclude holds lowercased filenames kept regardless of extension.
var alwaysInclude = map[string]struct{}{
	"platformio.ini": {},
	"cmakelists.txt": {},
	"makefile":       {},
	"readme.md":      {},
	"license":        {},
	".gitignore":     {},
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	".git":          {},
	".vscode":       {},
	".pio":          {},
	"build":         {},
	"dist":          {},
	"node_modules":  {},
	".pytest_cache": {},
	"CMakeFiles":    {},
}

type scanOptions struct {
	UseGitignore bool
}

// shouldIncludeFile decides whether a file, given by its path relative to the
// project root, belongs in the report.
func shouldIncludeFile(rel string) bool {
	rel = filepath.ToSlash(rel)
	name := path.Base(rel)
	_, always := alwaysInclude[strings.ToLower(name)]

	if strings.HasPrefix(name, ".") && !always {
		return false
	}

	for _, segment := range strings.Split(rel, "/") {
		if _, skip := skipDirs[segment]; skip {
			return false
		}
	}

	if _, ok := includeExtensions[strings.ToLower(path.Ext(name))]; ok {
		return true
	}
	return always
}

type projectScanner struct {
	root    string
	absRoot string
	log     *statusLogger
	ignore  gitignore.IgnoreMatcher
	visited map[string]struct{}
	files   []FileEntry
}

// scanProject collects the files under root that belong in the report, in
// discovery order.
func scanProject(root string, opts scanOptions, log *statusLogger) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &NotFoundError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: root}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", root, err)
	}

	s := &projectScanner{
		root:    root,
		absRoot: absRoot,
		log:     log,
		visited: make(map[string]struct{}),
	}
	if opts.UseGitignore {
		s.ignore = loadIgnoreMatcher(absRoot, log)
	}

	platformio := filepath.Join(root, platformioFile)
	if fi, err := os.Stat(platformio); err == nil && fi.Mode().IsRegular() {
		s.files = append(s.files, FileEntry{Path: platformio, Rel: platformioFile, Size: fi.Size()})
	}

	for _, dirName := range scanDirs {
		dirPath := filepath.Join(root, dirName)
		fi, err := os.Stat(dirPath)
		if err != nil || !fi.IsDir() {
			log.Warnf("Directory '%s' not found in project root", dirName)
			continue
		}
		s.walk(dirPath)
	}

	return s.files, nil
}

// loadIgnoreMatcher parses <root>/.gitignore. A missing or broken file means
// no extra filtering.
func loadIgnoreMatcher(absRoot string, log *statusLogger) gitignore.IgnoreMatcher {
	gitIgnorePath := filepath.Join(absRoot, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(gitIgnorePath, absRoot)
	if err != nil {
		log.Warnf("could not parse .gitignore file %s: %v", gitIgnorePath, err)
		return nil
	}
	return matcher
}

func (s *projectScanner) ignored(rel string, isDir bool) bool {
	if s.ignore == nil {
		return false
	}
	return s.ignore.Match(filepath.Join(s.absRoot, filepath.FromSlash(rel)), isDir)
}

func (s *projectScanner) relPath(p string) string {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// walk descends into dir, following symlinks. Every directory is entered at
// most once by canonical path, so symlink loops end.
func (s *projectScanner) walk(dir string) {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		s.log.Warnf("error resolving directory %s: %v", dir, err)
		return
	}
	if _, seen := s.visited[canonical]; seen {
		s.log.Warnf("skipping %s: already visited as %s", dir, canonical)
		return
	}
	s.visited[canonical] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warnf("error reading directory %s: %v", dir, err)
		return
	}

	for _, d := range entries {
		p := filepath.Join(dir, d.Name())
		rel := s.relPath(p)
		mode := d.Type()
		isDir := d.IsDir()
		var size int64 = -1

		if mode&fs.ModeSymlink != 0 {
			target, err := os.Stat(p)
			if err != nil {
				s.log.Warnf("skipping broken symlink %s: %v", p, err)
				continue
			}
			isDir = target.IsDir()
			if !isDir && !target.Mode().IsRegular() {
				continue
			}
			size = target.Size()
		} else if !isDir && !mode.IsRegular() {
			continue // sockets, devices, pipes
		}

		if isDir {
			if _, skip := skipDirs[d.Name()]; skip {
				continue
			}
			if s.ignored(rel, true) {
				continue
			}
			s.walk(p)
			continue
		}

		if !shouldIncludeFile(rel) || s.ignored(rel, false) {
			continue
		}

		if size < 0 {
			info, err := d.Info()
			if err != nil {
				s.log.Warnf("could not get info for %s: %v", p, err)
				continue
			}
			size = info.Size()
		}

		s.files = append(s.files, FileEntry{Path: p, Rel: rel, Size: size})
	}
}
