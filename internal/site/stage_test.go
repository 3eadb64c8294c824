package site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qrsite/internal/fileutil"
	"qrsite/internal/testsupport"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestCommitReplacesOutputAndKeepsPreserved(t *testing.T) {
	base := t.TempDir()
	output := filepath.Join(base, "site")
	testsupport.WriteFile(t, filepath.Join(output, "old.html"), "old")
	testsupport.WriteFile(t, filepath.Join(output, ".git", "HEAD"), "ref: refs/heads/gh-pages")

	stage, err := NewStage(output, []string{".git", "CNAME"}, nil)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	if filepath.Dir(stage.Dir()) != base {
		t.Fatalf("staging dir %s is not a sibling of the output", stage.Dir())
	}
	if err := stage.WriteFile("index.html", []byte("new")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	image, err := stage.Path("images/cat.jpg")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	testsupport.WriteFile(t, image, "jpg")
	stage.Record("images/cat.jpg")
	if err := stage.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := readFile(t, filepath.Join(output, "index.html")); got != "new" {
		t.Fatalf("unexpected index content %q", got)
	}
	if got := readFile(t, filepath.Join(output, "images", "cat.jpg")); got != "jpg" {
		t.Fatalf("recorded image lost: %q", got)
	}
	if _, err := os.Stat(filepath.Join(output, "old.html")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stale file to be gone, got %v", err)
	}
	if got := readFile(t, filepath.Join(output, ".git", "HEAD")); got != "ref: refs/heads/gh-pages" {
		t.Fatalf("preserved .git lost: %q", got)
	}
	if _, err := os.Stat(stage.Dir()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("staging directory left behind: %v", err)
	}
	if diff := cmp.Diff([]string{"images/cat.jpg", "index.html"}, stage.Files()); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "site" && e.Name() != "cat.jpg" {
			t.Fatalf("unexpected leftover %s next to output", e.Name())
		}
	}
}

func TestDiscardLeavesOutputUntouched(t *testing.T) {
	base := t.TempDir()
	output := filepath.Join(base, "site")
	testsupport.WriteFile(t, filepath.Join(output, "index.html"), "previous")
	before, err := fileutil.TreeDigest(output)
	if err != nil {
		t.Fatal(err)
	}

	stage, err := NewStage(output, nil, nil)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	if err := stage.WriteFile("index.html", []byte("half-written")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := stage.Discard(); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	after, err := fileutil.TreeDigest(output)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("output changed (-before +after):\n%s", diff)
	}
	if _, err := os.Stat(stage.Dir()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("staging directory left behind: %v", err)
	}
	if err := stage.Commit(); err == nil {
		t.Fatal("expected commit after discard to fail")
	}
}

func TestCommitCreatesMissingOutput(t *testing.T) {
	output := filepath.Join(t.TempDir(), "nested", "site")
	stage, err := NewStage(output, []string{".git"}, nil)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	if err := stage.WriteFile(NoJekyll, nil); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := stage.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("unexpected output permissions %v", info.Mode().Perm())
	}
	if err := stage.Discard(); err != nil {
		t.Fatalf("Discard after commit must be a no-op: %v", err)
	}
}

func TestPathRejectsEscapes(t *testing.T) {
	stage, err := NewStage(filepath.Join(t.TempDir(), "site"), nil, nil)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	defer stage.Discard()
	for _, rel := range []string{"../x", "a/../../x", ""} {
		if _, err := stage.Path(rel); err == nil {
			t.Fatalf("expected %q to be rejected", rel)
		}
	}
	if _, err := stage.Path("qr/1.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRejectsNestedPreserveEntries(t *testing.T) {
	base := t.TempDir()
	output := filepath.Join(base, "site")
	testsupport.WriteFile(t, filepath.Join(output, "keep", "x"), "x")
	stage, err := NewStage(output, []string{"keep/x"}, nil)
	if err != nil {
		t.Fatalf("NewStage: %v", err)
	}
	if err := stage.Commit(); err == nil {
		t.Fatal("expected nested preserve entry to be rejected")
	}
	if got := readFile(t, filepath.Join(output, "keep", "x")); got != "x" {
		t.Fatal("output changed after failed commit")
	}
}
