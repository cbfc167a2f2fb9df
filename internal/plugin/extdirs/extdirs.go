// Package extdirs makes symlinked external directories visible to file
// search. Search tools resolve paths lexically and skip symlinks, so a
// project that links in an external directory (a shared component library,
// a sibling checkout) gets no results from it. This plugin resolves
// search-path arguments that point at symlinks under the project root to
// their real targets.
package extdirs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/burrowtools/burrow/internal/plugin"
)

// searchTools are the tools whose path argument is resolved.
var searchTools = map[string]bool{
	"glob": true,
	"grep": true,
	"list": true,
}

// Plugin resolves symlinked search paths to their targets.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string { return "extdirs" }

// ToolBefore resolves the search path when it is (or is inside) a symlinked
// directory under the project root. Paths outside the root and resolution
// failures are left alone.
func (p *Plugin) ToolBefore(ctx context.Context, call *plugin.ToolCall) error {
	if !searchTools[call.Tool] || call.Args == nil {
		return nil
	}
	raw, ok := call.Args["path"].(string)
	if !ok || raw == "" {
		return nil
	}

	path := raw
	if !filepath.IsAbs(path) {
		path = filepath.Join(call.Root, path)
	}
	if !within(path, call.Root) {
		return nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil || resolved == path {
		return nil
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return nil
	}

	call.Args["path"] = resolved
	return nil
}

// within reports whether path is root or lexically inside it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
