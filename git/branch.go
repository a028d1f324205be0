package git

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"git_subtree_tool/log"
)

// CheckBranchExists checks if a branch exists locally
func CheckBranchExists(ctx context.Context, r *Runner, branch string) (bool, error) {
	_, err := r.GitOutput(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		// Exit code 1 means branch doesn't exist, which is not an error for our purposes
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// HasRemote reports whether the repository has a remote with the given name.
func HasRemote(ctx context.Context, r *Runner, remote string) (bool, error) {
	output, err := r.GitOutput(ctx, "remote")
	if err != nil {
		return false, err
	}
	return slices.Contains(lines(output), remote), nil
}

// RemoteBranches lists the branch names known under refs/remotes/<remote>/, without HEAD.
func RemoteBranches(ctx context.Context, r *Runner, remote string) ([]string, error) {
	output, err := r.GitOutput(ctx, "for-each-ref", "--format=%(refname:strip=3)", "refs/remotes/"+remote+"/")
	if err != nil {
		return nil, err
	}

	var branches []string
	for _, name := range lines(output) {
		if name != "HEAD" {
			branches = append(branches, name)
		}
	}
	return branches, nil
}

// TrackRemoteBranches creates a local tracking branch for every branch of remote
// that has no local branch of the same name yet.
func TrackRemoteBranches(ctx context.Context, r *Runner, remote string) error {
	branches, err := RemoteBranches(ctx, r, remote)
	if err != nil {
		return fmt.Errorf("failed to list remote branches: %w", err)
	}

	for _, branch := range branches {
		exists, err := CheckBranchExists(ctx, r, branch)
		if err != nil {
			return fmt.Errorf("failed to check if branch %s exists: %w", branch, err)
		}
		if exists {
			log.Logger().Debug("local branch already exists", "branch", branch)
			continue
		}

		if err := r.RunGit(ctx, "branch", "--track", branch, remote+"/"+branch); err != nil {
			return fmt.Errorf("failed to track branch %s: %w", branch, err)
		}
	}

	return nil
}
