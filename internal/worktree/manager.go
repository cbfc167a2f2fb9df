// Package worktree provisions one git worktree per agent session and tracks
// the session-to-worktree mapping. Provisioning is lazy and idempotent: the
// first tool call of a session creates the branch and worktree, every later
// call is a registry lookup with no git side effects.
package worktree

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/burrowtools/burrow/internal/errors"
	"github.com/burrowtools/burrow/internal/git"
	"github.com/burrowtools/burrow/internal/identity"
	"github.com/burrowtools/burrow/internal/logger"
)

// Options configures where session worktrees live relative to the project root.
type Options struct {
	// BaseDir is the directory for host artifacts (default ".opencode").
	BaseDir string
	// WorktreesDir is the subdirectory of BaseDir holding worktrees
	// (default "worktrees").
	WorktreesDir string
}

// DefaultOptions returns the standard worktree layout options.
func DefaultOptions() Options {
	return Options{BaseDir: ".opencode", WorktreesDir: "worktrees"}
}

// Context describes a provisioned session worktree. Created once per session
// and not mutated afterwards.
type Context struct {
	WorktreePath string
	BranchName   string
	UserName     string
	UserEmail    string
	Identity     identity.Identity
}

// provision tracks an in-flight provisioning sequence. Claiming the map slot
// under the manager mutex is what closes the first-call race: concurrent
// tool calls for one session share a single git provisioning sequence and
// all wait on its done channel.
type provision struct {
	done chan struct{}
	ctx  *Context
	err  error
}

// Manager owns the session registry and the worktree provisioning lifecycle
// for one project root. One instance is created per serve process; there is
// no package-level state.
type Manager struct {
	git  *git.Service
	opts Options

	registry *Registry

	mu       sync.Mutex
	inflight map[string]*provision

	// onProvision, if set, is called after each successful first-time
	// provisioning. Used for desktop notifications.
	onProvision func(*Context)
}

// NewManager creates a Manager using the given git service and layout options.
func NewManager(gitSvc *git.Service, opts Options) *Manager {
	if opts.BaseDir == "" {
		opts.BaseDir = DefaultOptions().BaseDir
	}
	if opts.WorktreesDir == "" {
		opts.WorktreesDir = DefaultOptions().WorktreesDir
	}
	return &Manager{
		git:      gitSvc,
		opts:     opts,
		registry: NewRegistry(),
		inflight: make(map[string]*provision),
	}
}

// OnProvision registers a callback invoked after each successful first-time
// provisioning. Must be called before the manager is shared across goroutines.
func (m *Manager) OnProvision(fn func(*Context)) {
	m.onProvision = fn
}

// Registry returns the session registry consulted by the path rewriter.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// ContainerDir returns the worktree container directory for a project root.
func (m *Manager) ContainerDir(root string) string {
	return filepath.Join(root, m.opts.BaseDir, m.opts.WorktreesDir)
}

// Ensure returns the worktree context for a session, provisioning the branch
// and worktree on the first call. Calling Ensure N times for one session
// performs git side effects exactly once; any provisioning error propagates
// to the caller and leaves no registry entry behind.
func (m *Manager) Ensure(ctx context.Context, token, root string) (*Context, error) {
	m.mu.Lock()
	if path, ok := m.registry.Get(token); ok {
		m.mu.Unlock()
		return m.rebuild(token, path), nil
	}
	if p, ok := m.inflight[token]; ok {
		m.mu.Unlock()
		<-p.done
		return p.ctx, p.err
	}
	p := &provision{done: make(chan struct{})}
	m.inflight[token] = p
	m.mu.Unlock()

	p.ctx, p.err = m.provisionWorktree(ctx, token, root)

	m.mu.Lock()
	if p.err == nil {
		m.registry.Set(token, p.ctx.WorktreePath)
	}
	delete(m.inflight, token)
	m.mu.Unlock()
	close(p.done)

	if p.err == nil && m.onProvision != nil {
		m.onProvision(p.ctx)
	}
	return p.ctx, p.err
}

// rebuild reconstructs a context for an already-provisioned session from the
// registered path plus a freshly derived (and therefore identical) identity.
func (m *Manager) rebuild(token, path string) *Context {
	id := identity.Derive(token)
	return &Context{
		WorktreePath: path,
		BranchName:   id.BranchName,
		UserName:     id.UserName,
		UserEmail:    id.UserEmail,
		Identity:     id,
	}
}

func (m *Manager) provisionWorktree(ctx context.Context, token, root string) (*Context, error) {
	id := identity.Derive(token)
	log := logger.WithSession(token)
	log.Info("provisioning session worktree", "branch", id.BranchName)

	container := m.ContainerDir(root)
	if err := os.MkdirAll(container, 0755); err != nil {
		return nil, errors.ProvisionFailed(token, err)
	}
	if err := writeIgnoreMarker(container); err != nil {
		return nil, errors.ProvisionFailed(token, err)
	}

	if !m.git.LocalBranchExists(ctx, id.BranchName, root) {
		if err := m.git.CreateBranch(ctx, id.BranchName, root); err != nil {
			return nil, errors.ProvisionFailed(token, err)
		}
	}

	worktreePath := filepath.Join(container, id.Slug())
	if !m.git.WorktreeExists(ctx, worktreePath, root) {
		if err := m.git.AddWorktree(ctx, worktreePath, id.BranchName, root); err != nil {
			return nil, errors.ProvisionFailed(token, err)
		}
	}

	log.Info("session worktree ready", "path", worktreePath)
	return &Context{
		WorktreePath: worktreePath,
		BranchName:   id.BranchName,
		UserName:     id.UserName,
		UserEmail:    id.UserEmail,
		Identity:     id,
	}, nil
}

// writeIgnoreMarker drops a .gitignore into the container so the parent
// repository never tracks worktree contents. The write is non-destructive:
// an existing marker, whatever its contents, is left alone.
func writeIgnoreMarker(container string) error {
	marker := filepath.Join(container, ".gitignore")
	f, err := os.OpenFile(marker, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = f.WriteString("*\n")
	return err
}

// Release drops the registry entry for a session. The worktree and branch
// stay on disk so the session can be resumed; `burrow clean` removes them.
func (m *Manager) Release(token string) {
	m.registry.Clear(token)
}
