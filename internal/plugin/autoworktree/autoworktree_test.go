package autoworktree

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	pexec "github.com/burrowtools/burrow/internal/exec"
	"github.com/burrowtools/burrow/internal/git"
	"github.com/burrowtools/burrow/internal/identity"
	"github.com/burrowtools/burrow/internal/plugin"
	"github.com/burrowtools/burrow/internal/worktree"
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

func newTestPlugin(t *testing.T) (*Plugin, *pexec.RecordingExecutor) {
	t.Helper()
	recorder := &pexec.RecordingExecutor{Inner: &pexec.RealExecutor{}}
	gitSvc := git.NewServiceWithExecutor(recorder)
	manager := worktree.NewManager(gitSvc, worktree.DefaultOptions())
	return New(manager), recorder
}

func TestToolBefore_ProvisionsAndRewrites(t *testing.T) {
	root := createTestRepo(t)
	p, _ := newTestPlugin(t)

	call := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "write",
		Args:      map[string]any{"filePath": filepath.Join(root, "src", "a.ts")},
		Root:      root,
	}
	if err := p.ToolBefore(ctx, call); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}

	id := identity.Derive("abc")
	wantWT := filepath.Join(root, ".opencode", "worktrees", id.Slug())
	wantPath := filepath.Join(wantWT, "src", "a.ts")
	if call.Args["filePath"] != wantPath {
		t.Errorf("filePath = %v, want %v", call.Args["filePath"], wantPath)
	}

	if _, err := os.Stat(wantWT); err != nil {
		t.Errorf("worktree not on disk: %v", err)
	}

	out, err := exec.Command("git", "-C", wantWT, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		t.Fatalf("rev-parse in worktree failed: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != id.BranchName {
		t.Errorf("worktree HEAD = %q, want %q", got, id.BranchName)
	}
}

func TestToolBefore_SecondCallReusesWorktree(t *testing.T) {
	root := createTestRepo(t)
	p, recorder := newTestPlugin(t)

	first := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "read",
		Args:      map[string]any{"filePath": filepath.Join(root, "a.ts")},
		Root:      root,
	}
	if err := p.ToolBefore(ctx, first); err != nil {
		t.Fatalf("first ToolBefore() error = %v", err)
	}

	recorder.Reset()

	second := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "edit",
		Args:      map[string]any{"filePath": filepath.Join(root, "b.ts")},
		Root:      root,
	}
	if err := p.ToolBefore(ctx, second); err != nil {
		t.Fatalf("second ToolBefore() error = %v", err)
	}

	if calls := recorder.CallsMatching("git worktree add"); len(calls) != 0 {
		t.Errorf("second call re-provisioned: %v", calls)
	}

	id := identity.Derive("abc")
	wantPath := filepath.Join(root, ".opencode", "worktrees", id.Slug(), "b.ts")
	if second.Args["filePath"] != wantPath {
		t.Errorf("filePath = %v, want %v", second.Args["filePath"], wantPath)
	}
}

func TestToolBefore_RewritesBashWorkdirAndCommand(t *testing.T) {
	root := createTestRepo(t)
	p, _ := newTestPlugin(t)

	call := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "bash",
		Args:      map[string]any{"command": "npm test", "workdir": root},
		Root:      root,
	}
	if err := p.ToolBefore(ctx, call); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}

	id := identity.Derive("abc")
	wt := filepath.Join(root, ".opencode", "worktrees", id.Slug())
	if call.Args["workdir"] != wt {
		t.Errorf("workdir = %v, want %v", call.Args["workdir"], wt)
	}
	wantCmd := `cd "` + wt + `" && (npm test)`
	if call.Args["command"] != wantCmd {
		t.Errorf("command = %v, want %v", call.Args["command"], wantCmd)
	}
}

func TestToolBefore_IneligibleToolUntouched(t *testing.T) {
	root := createTestRepo(t)
	p, recorder := newTestPlugin(t)

	call := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "webfetch",
		Args:      map[string]any{"url": "https://example.com"},
		Root:      root,
	}
	if err := p.ToolBefore(ctx, call); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}

	if len(recorder.Calls()) != 0 {
		t.Errorf("ineligible tool triggered git calls: %v", recorder.Calls())
	}
	if call.Args["url"] != "https://example.com" {
		t.Errorf("args changed: %v", call.Args)
	}
}

func TestToolBefore_ProvisionFailureLeavesArgs(t *testing.T) {
	root := t.TempDir() // not a git repo
	p, _ := newTestPlugin(t)

	original := filepath.Join(root, "a.ts")
	call := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "write",
		Args:      map[string]any{"filePath": original},
		Root:      root,
	}
	err := p.ToolBefore(ctx, call)
	if err == nil {
		t.Fatal("expected provisioning error outside a git repo")
	}
	if call.Args["filePath"] != original {
		t.Errorf("filePath = %v, want untouched %v", call.Args["filePath"], original)
	}
}

func TestSessionEnd_ReleasesRegistry(t *testing.T) {
	root := createTestRepo(t)
	p, _ := newTestPlugin(t)

	call := &plugin.ToolCall{
		SessionID: "abc",
		Tool:      "read",
		Args:      map[string]any{"filePath": filepath.Join(root, "a.ts")},
		Root:      root,
	}
	if err := p.ToolBefore(ctx, call); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}
	if !p.Manager().Registry().Has("abc") {
		t.Fatal("session not registered after ToolBefore")
	}

	p.SessionEnd("abc")

	if p.Manager().Registry().Has("abc") {
		t.Error("session still registered after SessionEnd")
	}

	// The worktree itself stays on disk
	id := identity.Derive("abc")
	wt := filepath.Join(root, ".opencode", "worktrees", id.Slug())
	if _, err := os.Stat(wt); err != nil {
		t.Errorf("worktree removed on session end: %v", err)
	}
}
