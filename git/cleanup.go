package git

import (
	"context"
	"fmt"

	"git_subtree_tool/config"
)

// Cleanup discards what a history rewrite leaves behind: the working tree is reset,
// the refs/original backup refs and all reflogs are dropped, and the repository is
// garbage collected so the removed objects are really gone.
func Cleanup(ctx context.Context, r *Runner, gc config.GCConfig) error {
	if err := r.RunGit(ctx, "reset", "--hard"); err != nil {
		return err
	}

	output, err := r.GitOutput(ctx, "for-each-ref", "--format=%(refname)", "refs/original/")
	if err != nil {
		return fmt.Errorf("failed to list backup refs: %w", err)
	}
	for _, ref := range lines(output) {
		if err := r.RunGit(ctx, "update-ref", "-d", ref); err != nil {
			return err
		}
	}

	if err := r.RunGit(ctx, "reflog", "expire", "--expire=now", "--all"); err != nil {
		return err
	}

	if !gc.Enabled {
		return nil
	}
	args := []string{"gc"}
	if gc.Aggressive {
		args = append(args, "--aggressive")
	}
	if gc.Prune != "" {
		args = append(args, "--prune="+gc.Prune)
	}
	return r.RunGit(ctx, args...)
}
