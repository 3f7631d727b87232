package main

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// gitRevision describes the checked-out revision of the repository that
// contains root, e.g. "main@3f2a9c1". Returns "" with no error when root is
// not inside a Git repository.
func gitRevision(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("opening git repository at %s: %w", root, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD in %s: %w", root, err)
	}

	short := head.Hash().String()
	if len(short) > 7 {
		short = short[:7]
	}
	if head.Name().IsBranch() {
		return fmt.Sprintf("%s@%s", head.Name().Short(), short), nil
	}
	return fmt.Sprintf("detached@%s", short), nil
}
