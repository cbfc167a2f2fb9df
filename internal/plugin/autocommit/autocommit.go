// Package autocommit records each successful file edit as a commit in the
// session's worktree, so a session's history is reviewable change by change
// and nothing is lost if the agent run is interrupted.
package autocommit

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/burrowtools/burrow/internal/git"
	"github.com/burrowtools/burrow/internal/identity"
	"github.com/burrowtools/burrow/internal/logger"
	"github.com/burrowtools/burrow/internal/plugin"
	"github.com/burrowtools/burrow/internal/worktree"
)

// mutatingTools are the tools whose completion triggers a commit.
var mutatingTools = map[string]bool{
	"write": true,
	"edit":  true,
}

// Plugin commits worktree changes after file-mutating tool calls.
type Plugin struct {
	git      *git.Service
	registry *worktree.Registry
}

// New creates the plugin. The registry decides which sessions have a
// worktree to commit into.
func New(gitSvc *git.Service, registry *worktree.Registry) *Plugin {
	return &Plugin{git: gitSvc, registry: registry}
}

func (p *Plugin) Name() string { return "autocommit" }

// ToolAfter commits the session worktree after a successful write or edit.
// Sessions without a worktree, failed calls, and clean trees are skipped.
func (p *Plugin) ToolAfter(ctx context.Context, call *plugin.ToolCall, callErr string) error {
	if !mutatingTools[call.Tool] || callErr != "" {
		return nil
	}
	worktreePath, ok := p.registry.Get(call.SessionID)
	if !ok {
		return nil
	}

	hasChanges, err := p.git.HasChanges(ctx, worktreePath)
	if err != nil {
		return err
	}
	if !hasChanges {
		return nil
	}

	id := identity.Derive(call.SessionID)
	message := commitMessage(call, worktreePath)
	if err := p.git.CommitAll(ctx, worktreePath, message, id.UserName, id.UserEmail); err != nil {
		return err
	}
	logger.Debug("autocommit: committed %s for session %s", message, call.SessionID)
	return nil
}

// commitMessage builds a fixed-format message naming the tool and the file
// it touched, relative to the worktree when possible.
func commitMessage(call *plugin.ToolCall, worktreePath string) string {
	target := ""
	if fp, ok := call.Args["filePath"].(string); ok && fp != "" {
		target = fp
		if rel, err := filepath.Rel(worktreePath, fp); err == nil && !strings.HasPrefix(rel, "..") {
			target = rel
		}
	}
	if target == "" {
		return fmt.Sprintf("auto: %s", call.Tool)
	}
	return fmt.Sprintf("auto: %s %s", call.Tool, target)
}
