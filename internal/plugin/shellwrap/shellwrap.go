// Package shellwrap wraps bash tool commands in a configured template.
// Typical use is routing every agent command through a wrapper such as a
// sandbox runner or environment shim, e.g. "sandbox-run -- {}".
package shellwrap

import (
	"context"
	"strings"

	"github.com/burrowtools/burrow/internal/plugin"
)

// Placeholder marks where the original command is substituted into the template.
const Placeholder = "{}"

// Plugin rewrites bash commands through a template string.
type Plugin struct {
	template string
}

// New creates the plugin. An empty template, or one without the placeholder,
// disables wrapping.
func New(template string) *Plugin {
	return &Plugin{template: template}
}

func (p *Plugin) Name() string { return "shellwrap" }

// Enabled reports whether the plugin will actually rewrite commands.
func (p *Plugin) Enabled() bool {
	return strings.Contains(p.template, Placeholder)
}

// Wrap applies the template to a command string.
func (p *Plugin) Wrap(command string) string {
	if !p.Enabled() || command == "" {
		return command
	}
	return strings.Replace(p.template, Placeholder, command, 1)
}

// ToolBefore wraps the bash command in the template. Other tools pass
// through untouched.
func (p *Plugin) ToolBefore(ctx context.Context, call *plugin.ToolCall) error {
	if call.Tool != "bash" || call.Args == nil {
		return nil
	}
	if cmd, ok := call.Args["command"].(string); ok && cmd != "" {
		call.Args["command"] = p.Wrap(cmd)
	}
	return nil
}
