// Package rewrite redirects filesystem-touching tool arguments into a
// session's worktree. Rewriting is pure in-memory string and path
// manipulation: it either mutates the argument map in place or does
// nothing, and has no failure mode.
package rewrite

import (
	"path/filepath"
	"strings"

	"github.com/burrowtools/burrow/internal/worktree"
)

// pathTools is the fixed allow-list of tool names whose arguments are
// eligible for rewriting. Any other tool, including unknown future tools,
// passes through untouched.
var pathTools = map[string]bool{
	"bash":  true,
	"read":  true,
	"write": true,
	"edit":  true,
	"glob":  true,
	"grep":  true,
	"list":  true,
}

// Eligible reports whether a tool's arguments are subject to rewriting.
func Eligible(tool string) bool {
	return pathTools[tool]
}

// Remap redirects p into the worktree. Absolute paths inside root are
// rebased onto worktreePath; absolute paths outside root are returned
// unchanged, since the worktree cannot shadow arbitrary filesystem
// locations. Relative paths are joined directly under worktreePath.
func Remap(p, worktreePath, root string) string {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return p
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return p
		}
		return filepath.Join(worktreePath, rel)
	}
	return filepath.Join(worktreePath, p)
}

// wrapPrefix is the exact command prefix that anchors a bash command inside
// the worktree. Its exactness is what makes re-wrapping detectable.
func wrapPrefix(worktreePath string) string {
	return `cd "` + worktreePath + `" && `
}

// Rewrite mutates args in place so the tool call targets the session's
// worktree instead of the real project root. It is a no-op when the
// registry has no entry for the session or the tool is not on the
// allow-list. Rewrite never fails.
func Rewrite(reg *worktree.Registry, token, tool string, args map[string]any, root string) {
	if args == nil || !pathTools[tool] {
		return
	}
	wt, ok := reg.Get(token)
	if !ok {
		return
	}

	switch tool {
	case "bash":
		// Double guard: rewrite the workdir field and anchor the command
		// string itself, since downstream execution may ignore workdir.
		workdir := root
		if wd, isStr := args["workdir"].(string); isStr && wd != "" {
			workdir = wd
		}
		args["workdir"] = Remap(workdir, wt, root)

		if cmd, isStr := args["command"].(string); isStr && cmd != "" {
			prefix := wrapPrefix(wt)
			if !strings.HasPrefix(cmd, prefix) {
				args["command"] = prefix + "(" + cmd + ")"
			}
		}
	case "read", "write", "edit":
		if p, isStr := args["filePath"].(string); isStr {
			args["filePath"] = Remap(p, wt, root)
		}
	case "glob", "grep", "list":
		// These tools default to searching the project root, so an explicit
		// default must be supplied to avoid leaking the real root.
		if v, present := args["path"]; present {
			if p, isStr := v.(string); isStr {
				args["path"] = Remap(p, wt, root)
			}
		} else {
			args["path"] = wt
		}
	}
}
