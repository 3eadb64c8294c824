package deploy

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"qrsite/internal/deps"
)

// Git runs git commands inside a working tree.
type Git interface {
	// Available reports an error when git cannot be executed.
	Available() error
	// Run executes git with args in dir and returns its trimmed stdout.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitError carries git's stderr as the error text.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return "git " + strings.Join(e.Args, " ") + ": " + e.Err.Error()
	}
	return "git " + strings.Join(e.Args, " ") + " failed"
}

func (e *GitError) Unwrap() error { return e.Err }

// CommandGit shells out to a git binary.
type CommandGit struct {
	Binary string
}

func (g CommandGit) binary() string {
	if b := strings.TrimSpace(g.Binary); b != "" {
		return b
	}
	return "git"
}

// Available checks that the binary is on PATH.
func (g CommandGit) Available() error {
	return deps.Require(deps.Git(g.binary()))
}

// Run executes the command with the caller's context; there is no retry.
func (g CommandGit) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.binary(), args...) //nolint:gosec
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(stdout.String()), &GitError{
			Args:   append([]string(nil), args...),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
