package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/burrowtools/burrow/internal/errors"
	"github.com/burrowtools/burrow/internal/git"
	"github.com/burrowtools/burrow/internal/logger"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all session worktrees, branches, and log files",
	Long: `Removes every session worktree in this repository along with its
branch, then clears burrow's log files. Commits on session branches are
lost, so clean prompts for confirmation unless --yes is given.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(input io.Reader) error {
	ctx := context.Background()
	gitSvc := git.NewService()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if !gitSvc.IsRepository(ctx, cwd) {
		return errors.GitNotRepo(cwd)
	}
	root := gitSvc.Root(ctx, cwd)

	sessions, err := sessionWorktrees(ctx, gitSvc, root)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}

	fmt.Printf("This will remove %d session worktree(s) and their branches:\n", len(sessions))
	for _, wt := range sessions {
		fmt.Printf("  %s\n", wt.Branch)
	}

	if !skipConfirm && !confirm(input, "Continue?") {
		fmt.Println("Aborted.")
		return nil
	}

	removed := 0
	for _, wt := range sessions {
		if err := gitSvc.RemoveWorktree(ctx, wt.Path, root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not remove worktree %s: %v\n", wt.Path, err)
			continue
		}
		if err := gitSvc.DeleteBranch(ctx, wt.Branch, root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not delete branch %s: %v\n", wt.Branch, err)
		}
		removed++
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	fmt.Printf("Removed %d worktree(s), cleared %d log file(s).\n", removed, logsCleared)
	return nil
}

// confirm prompts on stdout and reads a yes/no answer from input. Anything
// but an explicit yes declines.
func confirm(input io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(input)
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
