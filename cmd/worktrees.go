package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/burrowtools/burrow/internal/errors"
	"github.com/burrowtools/burrow/internal/git"
	"github.com/burrowtools/burrow/internal/identity"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	pathStyle   = lipgloss.NewStyle().Faint(true)
)

var worktreesCmd = &cobra.Command{
	Use:   "worktrees",
	Short: "List session worktrees in this repository",
	RunE:  runWorktrees,
}

func init() {
	rootCmd.AddCommand(worktreesCmd)
}

func runWorktrees(cmd *cobra.Command, args []string) error {
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
		fmt.Println("No session worktrees.")
		return nil
	}

	fmt.Println(headerStyle.Render("Session worktrees:"))
	for _, wt := range sessions {
		fmt.Printf("  %s\n    %s\n", branchStyle.Render(wt.Branch), pathStyle.Render(wt.Path))
	}
	return nil
}

// sessionWorktrees returns the repository's worktrees on session branches.
func sessionWorktrees(ctx context.Context, gitSvc *git.Service, root string) ([]git.Worktree, error) {
	all, err := gitSvc.ListWorktrees(ctx, root)
	if err != nil {
		return nil, err
	}
	var sessions []git.Worktree
	for _, wt := range all {
		if strings.HasPrefix(wt.Branch, identity.BranchPrefix+"/") {
			sessions = append(sessions, wt)
		}
	}
	return sessions, nil
}
