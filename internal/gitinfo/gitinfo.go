// Package gitinfo reads revision information from the repository holding the
// site sources.
package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// ShortLength is the number of hex digits in a short commit hash.
const ShortLength = 7

// ErrNotRepository is returned when the path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Revision describes the checked out commit.
type Revision struct {
	Commit string
	Branch string // empty on a detached HEAD
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) <= ShortLength {
		return r.Commit
	}
	return r.Commit[:ShortLength]
}

// Head returns the HEAD revision of the repository containing path. Parent
// directories are searched for the .git directory.
func Head(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNotRepository
		}
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
