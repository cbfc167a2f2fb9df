// Package cli checks for the external tools burrow shells out to.
package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/burrowtools/burrow/internal/errors"
)

// Prerequisite describes an external CLI tool burrow depends on.
type Prerequisite struct {
	Name        string
	Required    bool
	Description string
	InstallURL  string
}

// CheckResult is the outcome of looking up one prerequisite on PATH.
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Path         string
}

// lookPath is swappable for tests.
var lookPath = exec.LookPath

// DefaultPrerequisites returns the tools burrow needs at runtime.
func DefaultPrerequisites() []Prerequisite {
	return []Prerequisite{
		{
			Name:        "git",
			Required:    true,
			Description: "Git (worktree and branch management)",
			InstallURL:  "https://git-scm.com/downloads",
		},
	}
}

// Check looks up a single prerequisite on PATH.
func Check(p Prerequisite) CheckResult {
	path, err := lookPath(p.Name)
	return CheckResult{
		Prerequisite: p,
		Found:        err == nil,
		Path:         path,
	}
}

// CheckAll checks every prerequisite.
func CheckAll(prereqs []Prerequisite) []CheckResult {
	results := make([]CheckResult, 0, len(prereqs))
	for _, p := range prereqs {
		results = append(results, Check(p))
	}
	return results
}

// FormatCheckResults renders check results for terminal output.
func FormatCheckResults(results []CheckResult) string {
	var b strings.Builder
	b.WriteString("Prerequisites:\n")
	for _, r := range results {
		mark := "✗"
		if r.Found {
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("  %s %s - %s", mark, r.Prerequisite.Name, r.Prerequisite.Description))
		if r.Found {
			b.WriteString(fmt.Sprintf(" (%s)", r.Path))
		} else if r.Prerequisite.InstallURL != "" {
			b.WriteString(fmt.Sprintf("\n      install: %s", r.Prerequisite.InstallURL))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ValidateRequired returns an error naming the first required prerequisite
// missing from PATH.
func ValidateRequired(prereqs []Prerequisite) error {
	for _, p := range prereqs {
		if !p.Required {
			continue
		}
		if result := Check(p); !result.Found {
			return errors.CLINotFound(p.Name)
		}
	}
	return nil
}
