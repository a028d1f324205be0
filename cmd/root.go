package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"git_subtree_tool/config"
	"git_subtree_tool/log"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time with -ldflags "-X git_subtree_tool/cmd.Version=...".
var Version = "dev"

// Global flags used across multiple commands
var (
	configFile string
	dryRun     bool
	verbose    bool
)

// cfg is the configuration loaded before any command runs.
var cfg *config.Configuration

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "git-subtree",
	Short: "Remove or split out subdirectories across a repository's whole history",
	Long: `git-subtree rewrites every branch and tag of a git repository with git filter-branch.

  remove  drops subdirectories from the history of a repository, in place
  split   copies a repository and keeps only the history of subdirectories,
          moved to the root of the copy

Every git command is echoed before it runs. Use --dry-run to only print them.`,
	SilenceUsage: true,
}

// addGlobalFlags registers the flags shared by git-subtree and the standalone tools.
func addGlobalFlags(c *cobra.Command) {
	c.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default: git-subtree.yml in the working or user config directory)")
	c.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the commands without running them")
	c.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	c.PersistentPreRunE = loadConfig
	c.SetGlobalNormalizationFunc(normalizeFlagName)
}

// normalizeFlagName accepts underscores in flag names, so --source_repo works
// like --source-repo.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Initialize adds all child commands to the root command
func Initialize() {
	addGlobalFlags(rootCmd)

	initRemoveCmd()
	initSplitCmd()
	initHistoryCmd()
	initVersionCmd()

	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute executes the root command
func Execute() {
	os.Exit(execute(context.Background(), rootCmd))
}

// ExecuteRemove runs the remove command as the root of the git-remove-subtree binary.
func ExecuteRemove() {
	initRemoveCmd()
	standalone(removeCmd, "git-remove-subtree")
	os.Exit(execute(context.Background(), removeCmd))
}

// ExecuteSplit runs the split command as the root of the git-split-subtree binary.
func ExecuteSplit() {
	initSplitCmd()
	standalone(splitCmd, "git-split-subtree")
	os.Exit(execute(context.Background(), splitCmd))
}

func standalone(c *cobra.Command, name string) {
	c.Use = name + strings.TrimPrefix(c.Use, c.Name())
	c.SilenceUsage = true
	addGlobalFlags(c)
}

// execute runs c through fang and returns the process exit code.
func execute(ctx context.Context, c *cobra.Command) int {
	err := fang.Execute(ctx, c,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	return exitCodeOf(err)
}

// loadConfig reads the configuration and applies the logging settings.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.ReadConfig(configFile)
	if err != nil {
		code := log.ErrConfigParseFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = log.ErrConfigReadFailed
		}
		return log.NewError(code, "Error reading config", err)
	}
	cfg = loaded

	log.SetVerbose(verbose || cfg.Verbose)
	log.Logger().Debug("configuration loaded", "git", cfg.Git, "history", cfg.HistoryFile, "dry-run", dryRun)
	return nil
}

// recordRun appends a run to the history journal. A journal failure never fails the run.
func recordRun(record config.RunRecord, runErr error) {
	if cfg == nil || cfg.HistoryFile == "" {
		return
	}

	record.Finish(runErr)
	if err := config.AppendRun(cfg.HistoryFile, record); err != nil {
		log.PrintWarning(log.FormatError(log.ErrHistoryWriteFailed, "Could not record run in history", err))
	}
}
