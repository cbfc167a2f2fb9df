package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowtools/burrow/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Tool-call hook plugins for coding agent sessions",
	Long: `Burrow isolates coding agent sessions into per-session git worktrees.
It runs as a hook server the agent host talks to over stdio: on each tool
call it provisions a worktree for the session (once) and redirects the
call's file arguments into it, so concurrent sessions never touch the
same checkout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("burrow %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("burrow %s\n", version)
}
