// Package exec provides a swappable command executor so packages that shell
// out to git can be exercised in tests without touching a real repository.
package exec

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// CommandExecutor runs external commands in a working directory.
type CommandExecutor interface {
	// Run executes the command and returns stdout and stderr separately.
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr string, err error)
	// Output executes the command and returns its stdout.
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
	// CombinedOutput executes the command and returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct{}

// NewRealExecutor returns an executor backed by os/exec.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

func (e *RealExecutor) Run(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (e *RealExecutor) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

func (e *RealExecutor) CombinedOutput(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Call records one command invocation seen by a RecordingExecutor.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call the way it would appear on a shell command line.
func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// RecordingExecutor wraps another executor and records every call.
// Used by tests to assert how many git operations a code path performed.
type RecordingExecutor struct {
	Inner CommandExecutor

	mu    sync.Mutex
	calls []Call
}

// NewRecordingExecutor wraps inner, recording all calls made through it.
func NewRecordingExecutor(inner CommandExecutor) *RecordingExecutor {
	return &RecordingExecutor{Inner: inner}
}

func (e *RecordingExecutor) record(dir, name string, args []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Dir: dir, Name: name, Args: append([]string(nil), args...)})
}

// Calls returns a copy of all recorded calls.
func (e *RecordingExecutor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallsMatching returns recorded calls whose command line contains substr.
func (e *RecordingExecutor) CallsMatching(substr string) []Call {
	var matched []Call
	for _, c := range e.Calls() {
		if strings.Contains(c.String(), substr) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Reset clears the recorded calls.
func (e *RecordingExecutor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *RecordingExecutor) Run(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	e.record(dir, name, args)
	return e.Inner.Run(ctx, dir, name, args...)
}

func (e *RecordingExecutor) Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	e.record(dir, name, args)
	return e.Inner.Output(ctx, dir, name, args...)
}

func (e *RecordingExecutor) CombinedOutput(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	e.record(dir, name, args)
	return e.Inner.CombinedOutput(ctx, dir, name, args...)
}
