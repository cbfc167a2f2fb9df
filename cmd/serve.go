package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/burrowtools/burrow/internal/cli"
	"github.com/burrowtools/burrow/internal/config"
	"github.com/burrowtools/burrow/internal/git"
	"github.com/burrowtools/burrow/internal/hostrpc"
	"github.com/burrowtools/burrow/internal/logger"
	"github.com/burrowtools/burrow/internal/notification"
	"github.com/burrowtools/burrow/internal/plugin"
	"github.com/burrowtools/burrow/internal/plugin/autocommit"
	"github.com/burrowtools/burrow/internal/plugin/autoworktree"
	"github.com/burrowtools/burrow/internal/plugin/extdirs"
	"github.com/burrowtools/burrow/internal/plugin/shellwrap"
	"github.com/burrowtools/burrow/internal/worktree"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hook server on stdio",
	Long: `Serve speaks line-delimited JSON-RPC with the agent host on
stdin/stdout, intercepting tool calls and redirecting them into per-session
worktrees. The host spawns this process once and keeps it alive for the
lifetime of the agent; session state lives in memory here.

Outside a git repository the server still answers the protocol but leaves
every tool call untouched.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cli.ValidateRequired(cli.DefaultPrerequisites()); err != nil {
		return err
	}

	// stdout belongs to the protocol, so logs go to a per-process file
	if err := logger.Init(logger.ServeLogPath(fmt.Sprintf("%d", os.Getpid()))); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}
	defer logger.Close()

	ctx := context.Background()
	gitSvc := git.NewService()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	root := ""
	if gitSvc.IsRepository(ctx, cwd) {
		root = gitSvc.Root(ctx, cwd)
	} else {
		logger.Warn("Serve: %s is not a git repository, running inert", cwd)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	set := buildPluginSet(cfg, gitSvc)
	srv := hostrpc.NewServer(os.Stdin, os.Stdout, set, root, version)
	return srv.Run()
}

// buildPluginSet assembles the plugins the config leaves enabled, in
// dispatch order. Shellwrap runs before autoworktree so the worktree anchor
// ends up outside the wrapper template.
func buildPluginSet(cfg *config.Config, gitSvc *git.Service) *plugin.Set {
	manager := worktree.NewManager(gitSvc, worktree.Options{
		BaseDir:      cfg.BaseDir,
		WorktreesDir: cfg.WorktreesDir,
	})
	if cfg.NotificationsEnabled {
		manager.OnProvision(func(c *worktree.Context) {
			notification.WorktreeProvisioned(c.BranchName)
		})
	}

	var plugins []plugin.Plugin
	if sw := shellwrap.New(cfg.ShellTemplate); sw.Enabled() && cfg.PluginEnabled(sw.Name()) {
		plugins = append(plugins, sw)
	}
	if aw := autoworktree.New(manager); cfg.PluginEnabled(aw.Name()) {
		plugins = append(plugins, aw)
	}
	if ed := extdirs.New(); cfg.PluginEnabled(ed.Name()) {
		plugins = append(plugins, ed)
	}
	if ac := autocommit.New(gitSvc, manager.Registry()); cfg.PluginEnabled(ac.Name()) {
		plugins = append(plugins, ac)
	}
	return plugin.NewSet(plugins...)
}
