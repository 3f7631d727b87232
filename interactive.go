package main

import (
	"errors"
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errSelectionAborted means the user closed the picker without choosing.
var errSelectionAborted = errors.New("interactive selection aborted")

// selectInteractively lets the user narrow the scanned files with a fuzzy
// finder. The returned slice keeps the input order.
func selectInteractively(files []FileEntry) ([]FileEntry, error) {
	if len(files) == 0 {
		return nil, errNoFiles
	}

	idx, err := fuzzyfinder.FindMulti(
		files,
		func(i int) string {
			return files[i].Rel
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select files to include. Press Tab to multi-select, Enter to confirm."
			}
			f := files[i]
			return fmt.Sprintf("Path: %s\nCategory: %s\nSize: %s bytes", f.Rel, categoryOf(f.Path), formatThousands(f.Size))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errSelectionAborted
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	return pickIndices(files, idx), nil
}

// pickIndices returns files[idx...] in their original order, ignoring
// duplicates and out of range indices.
func pickIndices(files []FileEntry, idx []int) []FileEntry {
	chosen := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(files) {
			chosen[i] = struct{}{}
		}
	}
	selected := make([]FileEntry, 0, len(chosen))
	for i, f := range files {
		if _, ok := chosen[i]; ok {
			selected = append(selected, f)
		}
	}
	return selected
}
