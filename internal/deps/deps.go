// Package deps reports whether the external binaries qrsite shells out to are
// installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency qrsite relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Git describes the git binary the deploy helper drives.
func Git(command string) Requirement {
	if strings.TrimSpace(command) == "" {
		command = "git"
	}
	return Requirement{Name: "Git", Command: command, Description: "Publishes the generated site"}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(req.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Require returns an error describing the first required binary that is missing.
func Require(requirements ...Requirement) error {
	for _, status := range CheckBinaries(requirements) {
		if !status.Available && !status.Optional {
			return fmt.Errorf("%s is required: %s", status.Name, status.Detail)
		}
	}
	return nil
}
