package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var ctx = context.Background()

// createTestRepo creates a temporary git repository for testing
func createTestRepo(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	cmd := exec.Command("git", "init")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}

	cmd = exec.Command("git", "config", "user.email", "test@example.com")
	cmd.Dir = tmpDir
	cmd.Run()

	cmd = exec.Command("git", "config", "user.name", "Test User")
	cmd.Dir = tmpDir
	cmd.Run()

	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cmd = exec.Command("git", "add", ".")
	cmd.Dir = tmpDir
	cmd.Run()

	cmd = exec.Command("git", "commit", "-m", "Initial commit")
	cmd.Dir = tmpDir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to create initial commit: %v", err)
	}

	return tmpDir
}

func TestIsRepository(t *testing.T) {
	svc := NewService()

	repo := createTestRepo(t)
	if !svc.IsRepository(ctx, repo) {
		t.Error("IsRepository() = false for a git repo")
	}

	if svc.IsRepository(ctx, t.TempDir()) {
		t.Error("IsRepository() = true for a plain directory")
	}
}

func TestRoot(t *testing.T) {
	svc := NewService()
	repo := createTestRepo(t)

	sub := filepath.Join(repo, "nested", "deep")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	root := svc.Root(ctx, sub)
	// Resolve both sides since the system temp dir may be symlinked
	wantResolved, _ := filepath.EvalSymlinks(repo)
	gotResolved, _ := filepath.EvalSymlinks(root)
	if gotResolved != wantResolved {
		t.Errorf("Root() = %q, want %q", root, repo)
	}

	if got := svc.Root(ctx, t.TempDir()); got != "" {
		t.Errorf("Root() outside a repo = %q, want empty", got)
	}
}

func TestCreateBranchAndExists(t *testing.T) {
	svc := NewService()
	repo := createTestRepo(t)

	if svc.LocalBranchExists(ctx, "feature-x", repo) {
		t.Fatal("branch exists before creation")
	}
	if err := svc.CreateBranch(ctx, "feature-x", repo); err != nil {
		t.Fatalf("CreateBranch() error = %v", err)
	}
	if !svc.LocalBranchExists(ctx, "feature-x", repo) {
		t.Error("branch missing after creation")
	}

	// Creating it again fails
	if err := svc.CreateBranch(ctx, "feature-x", repo); err == nil {
		t.Error("expected error creating duplicate branch")
	}
}

func TestWorktreeLifecycle(t *testing.T) {
	svc := NewService()
	repo := createTestRepo(t)

	wtPath := filepath.Join(repo, ".opencode", "worktrees", "w1")
	if err := os.MkdirAll(filepath.Dir(wtPath), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := svc.CreateBranch(ctx, "session-branch", repo); err != nil {
		t.Fatalf("CreateBranch() error = %v", err)
	}
	if err := svc.AddWorktree(ctx, wtPath, "session-branch", repo); err != nil {
		t.Fatalf("AddWorktree() error = %v", err)
	}

	if !svc.WorktreeExists(ctx, wtPath, repo) {
		t.Error("WorktreeExists() = false after add")
	}

	worktrees, err := svc.ListWorktrees(ctx, repo)
	if err != nil {
		t.Fatalf("ListWorktrees() error = %v", err)
	}
	found := false
	for _, wt := range worktrees {
		if wt.Path == wtPath && wt.Branch == "session-branch" {
			found = true
		}
	}
	if !found {
		t.Errorf("worktree not in listing: %v", worktrees)
	}

	if err := svc.RemoveWorktree(ctx, wtPath, repo); err != nil {
		t.Fatalf("RemoveWorktree() error = %v", err)
	}
	if svc.WorktreeExists(ctx, wtPath, repo) {
		t.Error("WorktreeExists() = true after remove")
	}

	if err := svc.DeleteBranch(ctx, "session-branch", repo); err != nil {
		t.Fatalf("DeleteBranch() error = %v", err)
	}
	if svc.LocalBranchExists(ctx, "session-branch", repo) {
		t.Error("branch still exists after delete")
	}
}

func TestHasChanges(t *testing.T) {
	svc := NewService()
	repo := createTestRepo(t)

	changed, err := svc.HasChanges(ctx, repo)
	if err != nil {
		t.Fatalf("HasChanges() error = %v", err)
	}
	if changed {
		t.Error("fresh repo reported dirty")
	}

	if err := os.WriteFile(filepath.Join(repo, "new.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed, err = svc.HasChanges(ctx, repo)
	if err != nil {
		t.Fatalf("HasChanges() error = %v", err)
	}
	if !changed {
		t.Error("untracked file not reported as a change")
	}
}

func TestCommitAll(t *testing.T) {
	svc := NewService()
	repo := createTestRepo(t)

	if err := os.WriteFile(filepath.Join(repo, "new.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := svc.CommitAll(ctx, repo, "auto: write new.txt", "Ada", "ada@burrow.dev"); err != nil {
		t.Fatalf("CommitAll() error = %v", err)
	}

	cmd := exec.Command("git", "log", "-1", "--pretty=%s|%an|%ae")
	cmd.Dir = repo
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git log: %v", err)
	}
	got := strings.TrimSpace(string(out))
	want := "auto: write new.txt|Ada|ada@burrow.dev"
	if got != want {
		t.Errorf("last commit = %q, want %q", got, want)
	}

	changed, err := svc.HasChanges(ctx, repo)
	if err != nil {
		t.Fatalf("HasChanges() error = %v", err)
	}
	if changed {
		t.Error("repo dirty after CommitAll")
	}
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	svc := NewService()
	repo := createTestRepo(t)

	if err := svc.CommitAll(ctx, repo, "empty", "Ada", "ada@burrow.dev"); err == nil {
		t.Error("expected error committing a clean tree")
	}
}
