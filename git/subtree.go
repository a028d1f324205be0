package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git_subtree_tool/config"
	"git_subtree_tool/fsutil"
	"git_subtree_tool/log"
)

// RemoveOptions configures RemoveSubtree.
type RemoveOptions struct {
	Repo    string
	Subdirs []string
	Config  *config.Configuration
	DryRun  bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// SplitOptions configures SplitSubtree.
type SplitOptions struct {
	SourceRepo string
	DestRepo   string
	// Subdirs lists the directory to extract followed by its previous names, newest first.
	Subdirs []string
	Config  *config.Configuration
	DryRun  bool
	Stdout  io.Writer
	Stderr  io.Writer
}

func newRunner(cfg *config.Configuration, dir string, dryRun bool, stdout, stderr io.Writer) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	r := &Runner{
		Git:    cfg.Git,
		Dir:    dir,
		DryRun: dryRun,
		Stdout: stdout,
		Stderr: stderr,
	}
	if cfg.FilterBranch.SquelchWarning {
		r.Env = append(r.Env, "FILTER_BRANCH_SQUELCH_WARNING=1")
	}
	return r
}

func gcConfig(cfg *config.Configuration) config.GCConfig {
	if cfg == nil {
		return config.DefaultConfig().GC
	}
	return cfg.GC
}

// RemoveSubtree rewrites every branch and tag of a repository so that the given
// subdirectories never existed, then discards the old objects.
func RemoveSubtree(ctx context.Context, opts RemoveOptions) error {
	subdirs, err := NormalizeSubdirs(opts.Subdirs)
	if err != nil {
		return log.NewError(log.ErrInvalidArgument, "Invalid subdirectory", err)
	}

	repo, err := filepath.Abs(opts.Repo)
	if err != nil {
		return log.NewError(log.ErrRepoInvalidPath, "Invalid repository path", err)
	}
	if err := ValidateRepository(repo); err != nil {
		return err
	}

	unlock, err := LockRepository(repo)
	if err != nil {
		return err
	}
	defer unlock()

	r := newRunner(opts.Config, repo, opts.DryRun, opts.Stdout, opts.Stderr)

	for _, subdir := range subdirs {
		filter, err := RemoveIndexFilter(subdir)
		if err != nil {
			return log.NewError(log.ErrGitFilterInvalid, fmt.Sprintf("Could not build filter for %s", subdir), err)
		}

		log.PrintOperation(fmt.Sprintf("Removing %s from all branches and tags of %s", subdir, repo))
		err = r.RunGit(ctx, "filter-branch", "-f", "--tag-name-filter", "cat", "--prune-empty",
			"--index-filter", filter, "--", "--all")
		if err != nil {
			return log.NewError(log.ErrGitFilterFailed, fmt.Sprintf("Rewriting history without %s failed", subdir), err)
		}
	}

	log.PrintOperation("Cleaning up left overs")
	if err := Cleanup(ctx, r, gcConfig(opts.Config)); err != nil {
		return log.NewError(log.ErrGitCleanupFailed, "Cleanup after rewrite failed", err)
	}

	if !opts.DryRun {
		if err := verifyRemoved(ctx, repo, subdirs); err != nil {
			return err
		}
	}

	log.PrintSuccess(fmt.Sprintf("Removed %s from %s", strings.Join(subdirs, ", "), repo))
	return nil
}

// verifyRemoved fails when any commit reachable from a ref still contains one of subdirs.
func verifyRemoved(ctx context.Context, repo string, subdirs []string) error {
	found, err := FindSubdirs(ctx, repo, subdirs)
	if err != nil {
		return log.NewError(log.ErrGitCommandFailed, "Could not inspect rewritten history", err)
	}

	var remaining []string
	for _, subdir := range subdirs {
		if n := found[subdir]; n > 0 {
			remaining = append(remaining, fmt.Sprintf("%s (%d commits)", subdir, n))
		}
	}
	if len(remaining) > 0 {
		return log.NewError(log.ErrGitFilterFailed,
			fmt.Sprintf("History still contains %s", strings.Join(remaining, ", ")), nil)
	}
	return nil
}

// SplitSubtree copies a repository to a new location and rewrites the copy so that
// it only contains the history of the given subdirectories, moved to its root.
func SplitSubtree(ctx context.Context, opts SplitOptions) error {
	subdirs, err := NormalizeSubdirs(opts.Subdirs)
	if err != nil {
		return log.NewError(log.ErrInvalidArgument, "Invalid subdirectory", err)
	}

	source, err := filepath.Abs(opts.SourceRepo)
	if err != nil {
		return log.NewError(log.ErrRepoInvalidPath, "Invalid source repository path", err)
	}
	dest, err := filepath.Abs(opts.DestRepo)
	if err != nil {
		return log.NewError(log.ErrRepoInvalidPath, "Invalid destination repository path", err)
	}
	if err := ValidateRepository(source); err != nil {
		return err
	}
	if contains(dest, source) || contains(source, dest) {
		return log.NewError(log.ErrRepoInvalidPath,
			fmt.Sprintf("Destination %s must not overlap the source repository %s", dest, source), nil)
	}

	unlock, err := LockRepository(dest)
	if err != nil {
		return err
	}
	defer unlock()

	if err := cleanDestination(dest, opts.DryRun); err != nil {
		return err
	}

	top := newRunner(opts.Config, "", opts.DryRun, opts.Stdout, opts.Stderr)
	if err := top.Run(ctx, "cp", "-a", source, dest); err != nil {
		return log.NewError(log.ErrGitCopyFailed, "Copying the source repository failed", err)
	}

	r := newRunner(opts.Config, dest, opts.DryRun, opts.Stdout, opts.Stderr)

	if err := detachOrigin(ctx, r); err != nil {
		return err
	}

	filter, err := SplitIndexFilter(subdirs)
	if err != nil {
		return log.NewError(log.ErrGitFilterInvalid, "Could not build split filter", err)
	}
	log.PrintOperation(fmt.Sprintf("Keeping only %s, moved to the repository root", strings.Join(subdirs, ", ")))
	err = r.RunGit(ctx, "filter-branch", "-f", "--tag-name-filter", "cat", "--prune-empty",
		"--index-filter", filter, "--", "--all")
	if err != nil {
		return log.NewError(log.ErrGitFilterFailed, "Rewriting history to the subdirectory failed", err)
	}

	if err := collapseMerges(ctx, r); err != nil {
		return err
	}

	log.PrintOperation("Cleaning up left overs")
	if err := Cleanup(ctx, r, gcConfig(opts.Config)); err != nil {
		return log.NewError(log.ErrGitCleanupFailed, "Cleanup after rewrite failed", err)
	}

	if !opts.DryRun {
		reportSplit(ctx, dest)
	}

	log.PrintSuccess(fmt.Sprintf("Split %s from %s into %s", strings.Join(subdirs, ", "), source, dest))
	return nil
}

func reportSplit(ctx context.Context, dest string) {
	summary, err := SummarizeHistory(ctx, dest)
	if err != nil {
		log.PrintWarning(fmt.Sprintf("could not inspect %s: %v", dest, err))
		return
	}

	log.PrintInfo(fmt.Sprintf("%s has %d commits on %d branches and %d tags", dest,
		summary.Commits, summary.Branches, summary.Tags))
	if summary.Commits == 0 {
		log.PrintWarning("no commit touched the requested subdirectories, the new repository is empty")
	}
	if summary.Merges > 0 {
		log.Logger().Debug("merges kept after collapsing", "count", summary.Merges)
	}
}

// contains reports whether path is dir or lies inside it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func cleanDestination(dest string, dryRun bool) error {
	if _, err := os.Lstat(dest); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	log.PrintInfo("Cleaning previous destination repo directory...")
	if dryRun {
		return nil
	}

	removed, err := fsutil.ForceRemove(dest)
	if err != nil {
		return log.NewError(log.ErrRepoCleanFailed, fmt.Sprintf("Could not remove %s", dest), err)
	}
	if !removed {
		return log.NewError(log.ErrRepoCleanFailed, fmt.Sprintf("Could not remove %s", dest), nil)
	}
	return nil
}

// detachOrigin turns every branch of origin into a local branch and drops the
// remote, so the split repository does not point back at the source's upstream.
func detachOrigin(ctx context.Context, r *Runner) error {
	hasOrigin, err := HasRemote(ctx, r, "origin")
	if err != nil {
		return log.NewError(log.ErrGitCommandFailed, "Listing remotes failed", err)
	}
	if !hasOrigin {
		log.Logger().Debug("no origin remote, skipping branch tracking", "repo", r.Dir)
		return nil
	}

	if err := r.RunGit(ctx, "fetch", "origin"); err != nil {
		return log.NewError(log.ErrGitCommandFailed, "Fetching origin failed", err)
	}
	if err := TrackRemoteBranches(ctx, r, "origin"); err != nil {
		return log.NewError(log.ErrGitBranchFailed, "Creating local branches failed", err)
	}
	if err := r.RunGit(ctx, "remote", "rm", "origin"); err != nil {
		return log.NewError(log.ErrGitCommandFailed, "Removing origin failed", err)
	}
	return nil
}

// collapseMerges drops merge parents made redundant by the index rewrite.
func collapseMerges(ctx context.Context, r *Runner) error {
	script, cleanup, err := writeParentFilter()
	if err != nil {
		return log.NewError(log.ErrGitHelperFailed, "Could not write parent filter script", err)
	}
	defer cleanup()

	filter, err := ParentFilter(script)
	if err != nil {
		return log.NewError(log.ErrGitFilterInvalid, "Could not build parent filter", err)
	}

	log.PrintOperation("Removing empty merge commits")
	err = r.RunGit(ctx, "filter-branch", "-f", "--tag-name-filter", "cat", "--prune-empty",
		"--parent-filter", filter, "--", "--all")
	if err != nil {
		return log.NewError(log.ErrGitFilterFailed, "Collapsing merge commits failed", err)
	}
	return nil
}

// writeParentFilter writes the parent filter script into a fresh temporary
// directory. The returned cleanup removes the directory and must always be called.
func writeParentFilter() (string, func(), error) {
	dir, err := os.MkdirTemp("", "git-subtree-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if removed, err := fsutil.ForceRemove(dir); err != nil || !removed {
			log.PrintWarning(fmt.Sprintf("could not remove temporary directory %s: %v", dir, err))
		}
	}

	script := filepath.Join(dir, "parent-filter.sh")
	if err := os.WriteFile(script, []byte(parentFilterScript), 0o700); err != nil {
		cleanup()
		return "", nil, err
	}
	if err := os.Chmod(script, 0o700); err != nil {
		cleanup()
		return "", nil, err
	}

	return script, cleanup, nil
}
