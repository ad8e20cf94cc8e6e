package deps

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Requirement defines an external program that investigation scripts rely on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// InterpreterRequirements converts an extension-to-interpreter map into
// requirements, ordered by extension.
func InterpreterRequirements(interpreters map[string]string) []Requirement {
	exts := make([]string, 0, len(interpreters))
	for ext := range interpreters {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	requirements := make([]Requirement, 0, len(exts))
	for _, ext := range exts {
		requirements = append(requirements, Requirement{
			Name:        fmt.Sprintf("Interpreter (%s)", ext),
			Command:     interpreters[ext],
			Description: fmt.Sprintf("Runs %s investigation scripts", ext),
		})
	}
	return requirements
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
