package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run:   runVersionCmd,
}

// initVersionCmd initializes the version command with its flags
func initVersionCmd() {
	// No specific flags for version command
}

func runVersionCmd(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "git-subtree %s\n", Version)
}
