// Package git wraps the git CLI operations burrow needs: repository checks,
// branch management, worktree management, and commits. All commands run
// through a CommandExecutor so tests can observe or replace them.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/burrowtools/burrow/internal/errors"
	pexec "github.com/burrowtools/burrow/internal/exec"
	"github.com/burrowtools/burrow/internal/logger"
)

// Service performs git operations through a command executor.
type Service struct {
	executor pexec.CommandExecutor
}

// NewService creates a Service backed by the real git CLI.
func NewService() *Service {
	return &Service{executor: pexec.NewRealExecutor()}
}

// NewServiceWithExecutor creates a Service with a custom executor.
// This is primarily used for testing.
func NewServiceWithExecutor(executor pexec.CommandExecutor) *Service {
	return &Service{executor: executor}
}

// IsRepository reports whether path is inside a git working copy.
func (s *Service) IsRepository(ctx context.Context, path string) bool {
	_, _, err := s.executor.Run(ctx, path, "git", "rev-parse", "--git-dir")
	return err == nil
}

// Root returns the top-level directory of the working copy containing path,
// or an empty string if path is not inside a repository.
func (s *Service) Root(ctx context.Context, path string) string {
	output, err := s.executor.Output(ctx, path, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// LocalBranchExists reports whether name exists as a local branch in repoPath.
func (s *Service) LocalBranchExists(ctx context.Context, name, repoPath string) bool {
	_, _, err := s.executor.Run(ctx, repoPath, "git", "rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// CreateBranch creates a local branch at the current HEAD without checking it out.
func (s *Service) CreateBranch(ctx context.Context, name, repoPath string) error {
	logger.Debug("Git: Creating branch %s in %s", name, repoPath)
	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "branch", name)
	if err != nil {
		return errors.GitBranchFailed(name, fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err))
	}
	return nil
}

// Worktree describes one entry from `git worktree list`.
type Worktree struct {
	Path   string
	Branch string
}

// ListWorktrees returns the worktrees registered for repoPath, parsed from
// the porcelain listing format.
func (s *Service) ListWorktrees(ctx context.Context, repoPath string) ([]Worktree, error) {
	output, err := s.executor.Output(ctx, repoPath, "git", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, errors.E(errors.Op("git.ListWorktrees"), errors.KindGit, err)
	}

	var worktrees []Worktree
	var current Worktree
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "worktree "):
			current = Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "":
			if current.Path != "" {
				worktrees = append(worktrees, current)
				current = Worktree{}
			}
		}
	}
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}
	return worktrees, nil
}

// WorktreeExists reports whether a worktree is registered at path.
func (s *Service) WorktreeExists(ctx context.Context, path, repoPath string) bool {
	worktrees, err := s.ListWorktrees(ctx, repoPath)
	if err != nil {
		return false
	}
	for _, wt := range worktrees {
		if wt.Path == path {
			return true
		}
	}
	return false
}

// AddWorktree registers a worktree at path checked out on branch.
// The branch must already exist.
func (s *Service) AddWorktree(ctx context.Context, path, branch, repoPath string) error {
	logger.Debug("Git: Adding worktree at %s on branch %s", path, branch)
	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "worktree", "add", path, branch)
	if err != nil {
		return errors.GitWorktreeFailed(branch, fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err))
	}
	return nil
}

// RemoveWorktree removes the worktree at path and prunes stale references.
func (s *Service) RemoveWorktree(ctx context.Context, path, repoPath string) error {
	logger.Debug("Git: Removing worktree at %s", path)
	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "worktree", "remove", path, "--force")
	if err != nil {
		return errors.E(errors.Op("git.RemoveWorktree"), errors.KindGit,
			fmt.Sprintf("failed to remove worktree at %s", path),
			fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err))
	}

	// Prune worktree references (best-effort cleanup)
	if output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "worktree", "prune"); err != nil {
		logger.Warn("Git: Worktree prune failed (best-effort): %s - %v", string(output), err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch.
func (s *Service) DeleteBranch(ctx context.Context, name, repoPath string) error {
	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "branch", "-D", name)
	if err != nil {
		return errors.GitBranchFailed(name, fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err))
	}
	return nil
}

// HasChanges reports whether the worktree at path has uncommitted changes,
// including untracked files.
func (s *Service) HasChanges(ctx context.Context, path string) (bool, error) {
	output, err := s.executor.Output(ctx, path, "git", "status", "--porcelain")
	if err != nil {
		return false, errors.E(errors.Op("git.HasChanges"), errors.KindGit, err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// CommitAll stages everything in the worktree and commits with the given
// message and author. The author is supplied explicitly so session commits
// carry the derived agent identity rather than the user's global git config.
func (s *Service) CommitAll(ctx context.Context, path, message, authorName, authorEmail string) error {
	output, err := s.executor.CombinedOutput(ctx, path, "git", "add", "-A")
	if err != nil {
		return errors.GitCommitFailed(path, fmt.Errorf("git add: %s: %w", strings.TrimSpace(string(output)), err))
	}

	args := []string{"commit", "-m", message}
	if authorName != "" && authorEmail != "" {
		args = append(args, "--author", fmt.Sprintf("%s <%s>", authorName, authorEmail))
	}
	output, err = s.executor.CombinedOutput(ctx, path, "git", args...)
	if err != nil {
		return errors.GitCommitFailed(path, fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err))
	}
	logger.Info("Git: Committed changes in %s", path)
	return nil
}
