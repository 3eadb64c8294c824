package deploy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeGit struct {
	unavailable error
	outputs     map[string]string
	failures    map[string]error
	calls       []string
	// onRun lets a test mutate the working tree when a command runs.
	onRun func(dir string, args []string)
}

func (f *fakeGit) Available() error { return f.unavailable }

func (f *fakeGit) Run(_ context.Context, dir string, args ...string) (string, error) {
	cmd := strings.Join(args, " ")
	f.calls = append(f.calls, cmd)
	if f.onRun != nil {
		f.onRun(dir, args)
	}
	if err, ok := f.failures[cmd]; ok {
		return "", err
	}
	return f.outputs[cmd], nil
}

func siteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func initOnRun(dir string, args []string) {
	if len(args) > 0 && args[0] == "init" {
		_ = os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
	}
}

func TestStepsOrder(t *testing.T) {
	var names []string
	for _, s := range Steps() {
		names = append(names, s.Name)
	}
	want := []string{"check-source", "check-git", "init", "marker", "remote", "integrate", "commit", "push"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFreshRepository(t *testing.T) {
	dir := siteDir(t)
	git := &fakeGit{
		outputs: map[string]string{
			"status --porcelain": "A  index.html\nA  .nojekyll",
		},
		failures: map[string]error{
			"remote get-url origin":           &GitError{Stderr: "error: No such remote 'origin'"},
			"rev-parse --verify --quiet HEAD": &GitError{},
		},
		onRun: initOnRun,
	}
	d := New("git", nil, WithGit(git))
	res, err := d.Run(context.Background(), Target{
		RepoURL:       "git@github.com:alice/gift.git",
		Branch:        "gh-pages",
		Dir:           dir,
		CommitMessage: "Deploy site",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"init",
		"checkout -B gh-pages",
		"remote get-url origin",
		"remote add origin git@github.com:alice/gift.git",
		"fetch origin",
		"ls-remote --heads origin gh-pages",
		"add -A",
		"status --porcelain",
		"commit -m Deploy site",
		"push -u origin gh-pages",
	}
	if diff := cmp.Diff(want, git.calls); diff != "" {
		t.Fatalf("git calls mismatch (-want +got):\n%s", diff)
	}
	if !res.Committed {
		t.Fatal("expected a commit")
	}
	if res.PublishedURL != "https://alice.github.io/gift/" {
		t.Fatalf("unexpected published url %q", res.PublishedURL)
	}
	if _, err := os.Stat(filepath.Join(dir, ".nojekyll")); err != nil {
		t.Fatalf("expected .nojekyll marker: %v", err)
	}
	if len(res.Steps) != len(Steps()) {
		t.Fatalf("expected an outcome per step, got %d", len(res.Steps))
	}
}

func TestRunExistingRepositoryRebasesAndSkipsEmptyCommit(t *testing.T) {
	dir := siteDir(t)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	git := &fakeGit{
		outputs: map[string]string{
			"symbolic-ref --short HEAD":         "gh-pages",
			"remote get-url origin":             "https://github.com/alice/alice.github.io.git",
			"ls-remote --heads origin gh-pages": "abc123\trefs/heads/gh-pages",
			"rev-parse --verify --quiet HEAD":   "abc123",
		},
	}
	res, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{Branch: "gh-pages", Dir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"symbolic-ref --short HEAD",
		"remote get-url origin",
		"fetch origin",
		"ls-remote --heads origin gh-pages",
		"rev-parse --verify --quiet HEAD",
		"pull --rebase --autostash --allow-unrelated-histories origin gh-pages",
		"add -A",
		"status --porcelain",
		"push -u origin gh-pages",
	}
	if diff := cmp.Diff(want, git.calls); diff != "" {
		t.Fatalf("git calls mismatch (-want +got):\n%s", diff)
	}
	if res.Committed {
		t.Fatal("expected commit to be skipped for a clean tree")
	}
	if res.PublishedURL != "https://alice.github.io/" {
		t.Fatalf("unexpected published url %q", res.PublishedURL)
	}
}

func TestRunFreshRepositoryAdoptsRemoteBranch(t *testing.T) {
	dir := siteDir(t)
	git := &fakeGit{
		outputs: map[string]string{
			"ls-remote --heads origin main": "abc\trefs/heads/main",
		},
		failures: map[string]error{
			"remote get-url origin":           &GitError{Stderr: "error: No such remote 'origin'"},
			"rev-parse --verify --quiet HEAD": &GitError{},
		},
		onRun: initOnRun,
	}
	_, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{RepoURL: "https://example.org/site.git", Branch: "main", Dir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, call := range git.calls {
		if call == "reset --soft origin/main" {
			found = true
		}
		if strings.HasPrefix(call, "pull") {
			t.Fatalf("unexpected pull on a repository without commits: %v", git.calls)
		}
	}
	if !found {
		t.Fatalf("expected reset onto remote branch, calls: %v", git.calls)
	}
}

func TestRunSwitchesRemoteURL(t *testing.T) {
	dir := siteDir(t)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	git := &fakeGit{outputs: map[string]string{
		"symbolic-ref --short HEAD": "main",
		"remote get-url origin":     "https://example.org/old.git",
	}}
	res, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{RepoURL: "https://example.org/new.git", Branch: "gh-pages", Dir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !contains(git.calls, "checkout -B gh-pages") || !contains(git.calls, "remote set-url origin https://example.org/new.git") {
		t.Fatalf("expected branch switch and remote update, calls: %v", git.calls)
	}
	if res.PublishedURL != "https://example.org/new.git" {
		t.Fatalf("non-GitHub remotes are reported as-is, got %q", res.PublishedURL)
	}
}

func TestRunFailures(t *testing.T) {
	t.Run("empty source", func(t *testing.T) {
		git := &fakeGit{}
		_, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{Branch: "gh-pages", Dir: t.TempDir()})
		assertStep(t, err, "check-source")
		if len(git.calls) != 0 {
			t.Fatalf("no git command may run, got %v", git.calls)
		}
	})
	t.Run("git missing", func(t *testing.T) {
		git := &fakeGit{unavailable: errors.New("Git is required: binary \"git\" not found")}
		_, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{Branch: "gh-pages", Dir: siteDir(t)})
		assertStep(t, err, "check-git")
	})
	t.Run("no remote", func(t *testing.T) {
		git := &fakeGit{
			failures: map[string]error{"remote get-url origin": &GitError{Stderr: "error: No such remote 'origin'"}},
			onRun:    initOnRun,
		}
		_, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{Branch: "gh-pages", Dir: siteDir(t)})
		assertStep(t, err, "remote")
	})
	t.Run("push rejected", func(t *testing.T) {
		git := &fakeGit{
			outputs: map[string]string{"remote get-url origin": "https://example.org/x.git"},
			failures: map[string]error{
				"push -u origin gh-pages": &GitError{Stderr: "! [rejected] gh-pages -> gh-pages (fetch first)"},
			},
			onRun: initOnRun,
		}
		_, err := New("git", nil, WithGit(git)).Run(context.Background(), Target{Branch: "gh-pages", Dir: siteDir(t)})
		assertStep(t, err, "push")
		if err.Error() != "deploy: push: ! [rejected] gh-pages -> gh-pages (fetch first)" {
			t.Fatalf("unexpected error text %q", err.Error())
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New("git", nil, WithGit(&fakeGit{})).Run(ctx, Target{Branch: "gh-pages", Dir: siteDir(t)})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected cancellation, got %v", err)
		}
	})
}

func assertStep(t *testing.T, err error, step string) {
	t.Helper()
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Step != step {
		t.Fatalf("expected failure in %s, got %s (%v)", step, stepErr.Step, err)
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func TestPublishedURL(t *testing.T) {
	cases := map[string]string{
		"git@github.com:alice/gift.git":                "https://alice.github.io/gift/",
		"https://github.com/Alice/gift":                "https://alice.github.io/gift/",
		"ssh://git@github.com/alice/gift.git":          "https://alice.github.io/gift/",
		"https://github.com/alice/alice.github.io.git": "https://alice.github.io/",
		"https://gitlab.com/alice/gift.git":            "https://gitlab.com/alice/gift.git",
		"":                                             "",
	}
	for remote, want := range cases {
		if got := PublishedURL(remote); got != want {
			t.Fatalf("PublishedURL(%q) = %q, want %q", remote, got, want)
		}
	}
}
