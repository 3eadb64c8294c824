package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qrsite/internal/logging"
)

const remoteName = "origin"

// Target names what to publish and where.
type Target struct {
	RepoURL       string
	Branch        string
	Dir           string
	CommitMessage string
}

// StepError reports the step a deploy failed in.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("deploy: %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepOutcome records what one step did.
type StepOutcome struct {
	Name     string
	Detail   string
	Duration time.Duration
}

// Result summarizes a successful deploy.
type Result struct {
	Remote       string
	Branch       string
	Committed    bool
	PublishedURL string
	Steps        []StepOutcome
}

// Step is one named unit of the deploy sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context, r *run) (string, error)
}

// run carries state between the steps of one deploy.
type run struct {
	git       Git
	target    Target
	remoteURL string
	committed bool
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithGit injects a custom git backend (primarily for tests).
func WithGit(git Git) Option {
	return func(d *Deployer) {
		if git != nil {
			d.git = git
		}
	}
}

// Deployer runs the deploy steps.
type Deployer struct {
	git    Git
	logger *slog.Logger
}

// New returns a deployer that runs the given git binary.
func New(binary string, logger *slog.Logger, opts ...Option) *Deployer {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Deployer{git: CommandGit{Binary: binary}, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Steps lists the deploy sequence in execution order.
func Steps() []Step {
	return []Step{
		{Name: "check-source", Run: checkSource},
		{Name: "check-git", Run: checkGit},
		{Name: "init", Run: initRepo},
		{Name: "marker", Run: ensureMarker},
		{Name: "remote", Run: configureRemote},
		{Name: "integrate", Run: integrate},
		{Name: "commit", Run: commit},
		{Name: "push", Run: push},
	}
}

// Run executes every step against target. The first failure aborts.
func (d *Deployer) Run(ctx context.Context, target Target) (Result, error) {
	target.Branch = strings.TrimSpace(target.Branch)
	if target.Branch == "" {
		return Result{}, &StepError{Step: "check-source", Err: errors.New("branch is required")}
	}
	if strings.TrimSpace(target.CommitMessage) == "" {
		target.CommitMessage = "Deploy site"
	}
	state := &run{git: d.git, target: target}
	result := Result{Branch: target.Branch}
	for _, step := range Steps() {
		if err := ctx.Err(); err != nil {
			return result, &StepError{Step: step.Name, Err: err}
		}
		start := time.Now()
		detail, err := step.Run(ctx, state)
		if err != nil {
			d.logger.Error("deploy step failed",
				logging.String(logging.FieldStep, step.Name),
				logging.Error(err),
			)
			return result, &StepError{Step: step.Name, Err: err}
		}
		outcome := StepOutcome{Name: step.Name, Detail: detail, Duration: time.Since(start)}
		result.Steps = append(result.Steps, outcome)
		d.logger.Info("deploy step complete",
			logging.String(logging.FieldStep, step.Name),
			logging.String("detail", detail),
		)
	}
	result.Remote = state.remoteURL
	result.Committed = state.committed
	result.PublishedURL = PublishedURL(state.remoteURL)
	return result, nil
}

func checkSource(_ context.Context, r *run) (string, error) {
	dir := r.target.Dir
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("site directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("site directory %s is not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read site directory: %w", err)
	}
	count := 0
	for _, e := range entries {
		if e.Name() != ".git" {
			count++
		}
	}
	if count == 0 {
		return "", fmt.Errorf("site directory %s is empty; run qrsite build first", dir)
	}
	return fmt.Sprintf("%d entries", count), nil
}

func checkGit(_ context.Context, r *run) (string, error) {
	if err := r.git.Available(); err != nil {
		return "", err
	}
	return "available", nil
}

func initRepo(ctx context.Context, r *run) (string, error) {
	dir, branch := r.target.Dir, r.target.Branch
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if _, err := r.git.Run(ctx, dir, "init"); err != nil {
			return "", err
		}
		if _, err := r.git.Run(ctx, dir, "checkout", "-B", branch); err != nil {
			return "", err
		}
		return "initialized on " + branch, nil
	}
	current, err := r.git.Run(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err == nil && current == branch {
		return "existing repository", nil
	}
	if _, err := r.git.Run(ctx, dir, "checkout", "-B", branch); err != nil {
		return "", err
	}
	return "switched to " + branch, nil
}

func ensureMarker(_ context.Context, r *run) (string, error) {
	path := filepath.Join(r.target.Dir, ".nojekyll")
	if _, err := os.Stat(path); err == nil {
		return "present", nil
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return "", fmt.Errorf("write .nojekyll: %w", err)
	}
	return "created", nil
}

func configureRemote(ctx context.Context, r *run) (string, error) {
	dir, want := r.target.Dir, strings.TrimSpace(r.target.RepoURL)
	current, err := r.git.Run(ctx, dir, "remote", "get-url", remoteName)
	hasRemote := err == nil && current != ""
	switch {
	case want == "" && hasRemote:
		r.remoteURL = current
		return "keeping " + current, nil
	case want == "":
		return "", errors.New("no repository URL given and no origin remote configured")
	case hasRemote && current == want:
		r.remoteURL = want
		return "unchanged", nil
	case hasRemote:
		if _, err := r.git.Run(ctx, dir, "remote", "set-url", remoteName, want); err != nil {
			return "", err
		}
		r.remoteURL = want
		return "updated to " + want, nil
	default:
		if _, err := r.git.Run(ctx, dir, "remote", "add", remoteName, want); err != nil {
			return "", err
		}
		r.remoteURL = want
		return "added " + want, nil
	}
}

func integrate(ctx context.Context, r *run) (string, error) {
	dir, branch := r.target.Dir, r.target.Branch
	if _, err := r.git.Run(ctx, dir, "fetch", remoteName); err != nil {
		return "", err
	}
	heads, err := r.git.Run(ctx, dir, "ls-remote", "--heads", remoteName, branch)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(heads) == "" {
		return "remote branch does not exist yet", nil
	}
	if _, err := r.git.Run(ctx, dir, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		// Nothing committed locally: adopt the remote history and let the
		// commit step record the new tree on top of it.
		if _, err := r.git.Run(ctx, dir, "reset", "--soft", remoteName+"/"+branch); err != nil {
			return "", err
		}
		return "adopted " + remoteName + "/" + branch, nil
	}
	if _, err := r.git.Run(ctx, dir, "pull", "--rebase", "--autostash", "--allow-unrelated-histories", remoteName, branch); err != nil {
		return "", err
	}
	return "rebased onto " + remoteName + "/" + branch, nil
}

func commit(ctx context.Context, r *run) (string, error) {
	dir := r.target.Dir
	if _, err := r.git.Run(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}
	status, err := r.git.Run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(status) == "" {
		return "nothing to commit", nil
	}
	if _, err := r.git.Run(ctx, dir, "commit", "-m", r.target.CommitMessage); err != nil {
		return "", err
	}
	r.committed = true
	return fmt.Sprintf("%d changes", len(strings.Split(strings.TrimSpace(status), "\n"))), nil
}

func push(ctx context.Context, r *run) (string, error) {
	if _, err := r.git.Run(ctx, r.target.Dir, "push", "-u", remoteName, r.target.Branch); err != nil {
		return "", err
	}
	return "pushed " + r.target.Branch, nil
}
