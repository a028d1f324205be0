package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// OpenRepository opens the repository whose work tree is at repoPath. A .git
// file pointing elsewhere (worktrees, submodules) is followed.
func OpenRepository(repoPath string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(repoPath, &gogit.PlainOpenOptions{EnableDotGitCommonDir: true})
}

// HistorySummary describes the commits reachable from any ref of a repository.
type HistorySummary struct {
	Commits  int
	Merges   int
	Branches int
	Tags     int
}

// refTips returns the commits that the repository's refs point at, peeling
// annotated tags. Refs that do not lead to a commit are skipped.
func refTips(repo *gogit.Repository) ([]plumbing.Hash, *HistorySummary, error) {
	refs, err := repo.References()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list references: %w", err)
	}
	defer refs.Close()

	summary := &HistorySummary{}
	var tips []plumbing.Hash
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}

		hash := ref.Hash()
		if tag, err := repo.TagObject(hash); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				return nil
			}
			hash = commit.Hash
		} else if _, err := repo.CommitObject(hash); err != nil {
			return nil
		}

		switch {
		case ref.Name().IsBranch():
			summary.Branches++
		case ref.Name().IsTag():
			summary.Tags++
		}
		tips = append(tips, hash)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tips, summary, nil
}

// walkHistory visits every commit reachable from tips exactly once.
func walkHistory(ctx context.Context, repo *gogit.Repository, tips []plumbing.Hash, visit func(*object.Commit) error) error {
	seen := make(map[plumbing.Hash]struct{})
	stack := append([]plumbing.Hash{}, tips...)

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}

		commit, err := repo.CommitObject(hash)
		if err != nil {
			return fmt.Errorf("failed to read commit %s: %w", hash, err)
		}
		if err := visit(commit); err != nil {
			return err
		}
		stack = append(stack, commit.ParentHashes...)
	}
	return nil
}

// SummarizeHistory counts the branches, tags, commits and merges of the repository at repoPath.
func SummarizeHistory(ctx context.Context, repoPath string) (*HistorySummary, error) {
	repo, err := OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	tips, summary, err := refTips(repo)
	if err != nil {
		return nil, err
	}

	err = walkHistory(ctx, repo, tips, func(c *object.Commit) error {
		summary.Commits++
		if c.NumParents() > 1 {
			summary.Merges++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// FindSubdirs counts, for each subdirectory, the commits reachable from any ref
// whose tree still contains it. Subdirectories found nowhere are left out.
func FindSubdirs(ctx context.Context, repoPath string, subdirs []string) (map[string]int, error) {
	repo, err := OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	tips, _, err := refTips(repo)
	if err != nil {
		return nil, err
	}

	found := make(map[string]int)
	err = walkHistory(ctx, repo, tips, func(c *object.Commit) error {
		tree, err := c.Tree()
		if err != nil {
			return fmt.Errorf("failed to read tree of %s: %w", c.Hash, err)
		}
		for _, subdir := range subdirs {
			_, err := tree.FindEntry(subdir)
			switch {
			case err == nil:
				found[subdir]++
			case errors.Is(err, object.ErrEntryNotFound), errors.Is(err, object.ErrDirectoryNotFound):
			default:
				return fmt.Errorf("failed to look up %s in %s: %w", subdir, c.Hash, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
