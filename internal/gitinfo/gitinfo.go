// Package gitinfo reads the repository state of a project directory so
// recorded relocations and cleanups can be tied to a commit.
package gitinfo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned for directories outside any git worktree.
var ErrNotRepository = errors.New("not a git repository")

// Info describes the repository containing a directory.
type Info struct {
	Root   string
	Commit string // empty for a repository without commits
	Branch string // empty for a detached HEAD
}

// ShortCommit returns the abbreviated commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 12 {
		return i.Commit[:12]
	}
	return i.Commit
}

// Describe opens the repository containing dir, searching parent directories.
func Describe(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Info{}, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		return Info{}, fmt.Errorf("open repository: %w", err)
	}

	var info Info
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return info, nil
		}
		return Info{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	info.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}
