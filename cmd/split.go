package cmd

import (
	"git_subtree_tool/config"
	"git_subtree_tool/git"
	"git_subtree_tool/log"

	"github.com/spf13/cobra"
)

var (
	splitSourceRepo string
	splitDestRepo   string
	splitSubdirs    []string
)

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split [SUBDIR...]",
	Short: "Extract subdirectories into a new repository with their full history",
	Long: `Copy the source repository to the destination and rewrite the copy so that it
only contains the history of the given subdirectories, moved to its root.

List the current name of the subdirectory first, followed by any previous names
it had before being renamed. Every branch of origin becomes a local branch and
the origin remote is removed. An existing destination is deleted first.`,
	Example: `  git-subtree split -s ~/src/project -d ~/src/lib --subdir pkg/lib --subdir lib`,
	RunE:    runSplitCmd,
}

// initSplitCmd initializes the split command with its flags
func initSplitCmd() {
	splitCmd.Flags().StringVarP(&splitSourceRepo, "source-repo", "s", "", "Path to the repository to split from")
	splitCmd.Flags().StringVarP(&splitDestRepo, "dest-repo", "d", "", "Path of the new repository (replaced if it exists)")
	splitCmd.Flags().StringSliceVar(&splitSubdirs, "subdir", nil, "Subdirectory to keep, current name first (repeatable, comma separated)")
	_ = splitCmd.MarkFlagRequired("source-repo")
	_ = splitCmd.MarkFlagRequired("dest-repo")
}

// runSplitCmd is the main function for the split command
func runSplitCmd(cmd *cobra.Command, args []string) error {
	subdirs, err := collectSubdirs(splitSubdirs, args)
	if err != nil {
		return newExitError(err)
	}
	if splitSourceRepo == "" || splitDestRepo == "" {
		return newExitError(log.NewError(log.ErrInvalidArgument, "Both --source-repo and --dest-repo are required", nil))
	}

	record := config.NewRunRecord(config.OperationSplit, splitSourceRepo, splitDestRepo, subdirs, dryRun)
	err = git.SplitSubtree(cmd.Context(), git.SplitOptions{
		SourceRepo: splitSourceRepo,
		DestRepo:   splitDestRepo,
		Subdirs:    subdirs,
		Config:     cfg,
		DryRun:     dryRun,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
	recordRun(record, err)

	return newExitError(err)
}
