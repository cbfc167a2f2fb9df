package shellwrap

import (
	"context"
	"testing"

	"github.com/burrowtools/burrow/internal/plugin"
)

var ctx = context.Background()

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		template string
		command  string
		want     string
	}{
		{"basic template", "nix develop -c {}", "npm test", "nix develop -c npm test"},
		{"placeholder mid-template", "env FOO=1 {} 2>&1", "make", "env FOO=1 make 2>&1"},
		{"empty template disables", "", "npm test", "npm test"},
		{"template without placeholder disables", "bash -c", "npm test", "npm test"},
		{"empty command passes through", "nix develop -c {}", "", ""},
		{"only first placeholder substituted", "{} # {}", "ls", "ls # {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.template).Wrap(tt.command)
			if got != tt.want {
				t.Errorf("Wrap(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	if New("").Enabled() {
		t.Error("empty template should be disabled")
	}
	if New("no placeholder here").Enabled() {
		t.Error("template without placeholder should be disabled")
	}
	if !New("wrap {}").Enabled() {
		t.Error("template with placeholder should be enabled")
	}
}

func TestToolBefore_WrapsBashOnly(t *testing.T) {
	p := New("sandbox-run -- {}")

	bash := &plugin.ToolCall{
		Tool: "bash",
		Args: map[string]any{"command": "go vet ./..."},
	}
	if err := p.ToolBefore(ctx, bash); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}
	if bash.Args["command"] != "sandbox-run -- go vet ./..." {
		t.Errorf("command = %v", bash.Args["command"])
	}

	write := &plugin.ToolCall{
		Tool: "write",
		Args: map[string]any{"filePath": "/repo/a.ts", "command": "not a shell arg"},
	}
	if err := p.ToolBefore(ctx, write); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}
	if write.Args["command"] != "not a shell arg" {
		t.Errorf("non-bash tool was wrapped: %v", write.Args["command"])
	}
}

func TestToolBefore_NilArgs(t *testing.T) {
	p := New("wrap {}")
	if err := p.ToolBefore(ctx, &plugin.ToolCall{Tool: "bash"}); err != nil {
		t.Fatalf("ToolBefore() error = %v", err)
	}
}
