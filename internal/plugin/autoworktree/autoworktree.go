// Package autoworktree isolates each agent session's file operations into a
// dedicated git worktree. On the first eligible tool call of a session it
// provisions a branch and worktree; on every eligible call it rewrites
// filesystem-touching arguments to target the worktree.
package autoworktree

import (
	"context"

	"github.com/burrowtools/burrow/internal/logger"
	"github.com/burrowtools/burrow/internal/plugin"
	"github.com/burrowtools/burrow/internal/rewrite"
	"github.com/burrowtools/burrow/internal/worktree"
)

// Plugin implements the auto-worktree isolation behavior.
type Plugin struct {
	manager *worktree.Manager
}

// New creates the plugin around a worktree manager.
func New(manager *worktree.Manager) *Plugin {
	return &Plugin{manager: manager}
}

func (p *Plugin) Name() string { return "autoworktree" }

// Manager exposes the underlying worktree manager, mainly for tests and for
// plugins that need the session registry.
func (p *Plugin) Manager() *worktree.Manager { return p.manager }

// ToolBefore provisions the session worktree (idempotently) and rewrites the
// call's arguments to target it. A provisioning failure is returned to be
// logged by the dispatcher; the tool call then proceeds un-redirected
// against the real root rather than blocking the agent.
func (p *Plugin) ToolBefore(ctx context.Context, call *plugin.ToolCall) error {
	if !rewrite.Eligible(call.Tool) {
		return nil
	}

	if _, err := p.manager.Ensure(ctx, call.SessionID, call.Root); err != nil {
		return err
	}

	rewrite.Rewrite(p.manager.Registry(), call.SessionID, call.Tool, call.Args, call.Root)
	return nil
}

// SessionEnd releases the session's registry entry. The worktree itself
// stays on disk for later inspection or resumption.
func (p *Plugin) SessionEnd(sessionID string) {
	logger.Debug("autoworktree: releasing session %s", sessionID)
	p.manager.Release(sessionID)
}
