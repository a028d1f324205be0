package cmd

import (
	"fmt"
	"strings"

	"git_subtree_tool/config"
	"git_subtree_tool/log"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous remove and split runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCmd,
}

// initHistoryCmd initializes the history command with its flags
func initHistoryCmd() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Show only the most recent N runs (0 shows all)")
}

// runHistoryCmd is the main function for the history command
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return newExitError(log.NewError(log.ErrInvalidArgument, "--limit must not be negative", nil))
	}

	history, err := config.LoadRunHistory(cfg.HistoryFile)
	if err != nil {
		return newExitError(log.NewError(log.ErrHistoryReadFailed, "Error loading run history", err))
	}

	out := cmd.OutOrStdout()
	if len(history.Runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	runs := history.Last(historyLimit)
	first := len(history.Runs) - len(runs)
	for i, run := range runs {
		fmt.Fprintln(out, formatRun(first+i, run))
	}
	return nil
}

// formatRun renders a run as a single line, followed by its error if it failed.
func formatRun(index int, run config.RunRecord) string {
	repos := run.SourceRepo
	if run.DestRepo != "" {
		repos += " -> " + run.DestRepo
	}

	line := fmt.Sprintf("[%d] %s %-6s %s (%s) %s", index, run.Timestamp, run.Operation, repos,
		strings.Join(run.Subdirs, ", "), run.Result)
	if run.DryRun {
		line += " [dry-run]"
	}
	if run.Error != "" {
		line += "\n    " + run.Error
	}
	return line
}
