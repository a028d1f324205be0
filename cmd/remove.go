package cmd

import (
	"git_subtree_tool/config"
	"git_subtree_tool/git"
	"git_subtree_tool/log"

	"github.com/spf13/cobra"
)

var (
	removeRepo    string
	removeSubdirs []string
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove [SUBDIR...]",
	Short: "Remove subdirectories from all branches and tags of a repository",
	Long: `Rewrite every branch and tag of the repository so that the given subdirectories
never existed, then expire the reflog and garbage collect the old objects.

The repository is rewritten in place. Make a copy first if you may need the old history.`,
	Example: `  git-subtree remove -r ~/src/project --subdir vendor --subdir third_party
  git-subtree remove -r . docs/old`,
	RunE: runRemoveCmd,
}

// initRemoveCmd initializes the remove command with its flags
func initRemoveCmd() {
	removeCmd.Flags().StringVarP(&removeRepo, "repo", "r", "", "Path to the repository to rewrite")
	removeCmd.Flags().StringSliceVar(&removeSubdirs, "subdir", nil, "Subdirectory to remove (repeatable, comma separated)")
	_ = removeCmd.MarkFlagRequired("repo")
}

// runRemoveCmd is the main function for the remove command
func runRemoveCmd(cmd *cobra.Command, args []string) error {
	subdirs, err := collectSubdirs(removeSubdirs, args)
	if err != nil {
		return newExitError(err)
	}
	if removeRepo == "" {
		return newExitError(log.NewError(log.ErrInvalidArgument, "--repo is required", nil))
	}

	record := config.NewRunRecord(config.OperationRemove, removeRepo, "", subdirs, dryRun)
	err = git.RemoveSubtree(cmd.Context(), git.RemoveOptions{
		Repo:    removeRepo,
		Subdirs: subdirs,
		Config:  cfg,
		DryRun:  dryRun,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})
	recordRun(record, err)

	return newExitError(err)
}

// collectSubdirs merges --subdir values with positional arguments and validates them.
func collectSubdirs(flagValues, args []string) ([]string, error) {
	subdirs := append(append([]string{}, flagValues...), args...)
	normalized, err := git.NormalizeSubdirs(subdirs)
	if err != nil {
		return nil, log.NewError(log.ErrInvalidArgument, "Invalid subdirectory", err)
	}
	return normalized, nil
}
