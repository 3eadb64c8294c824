// Package deploy publishes a built site directory by pushing it to a branch
// of a git remote, typically a GitHub Pages branch.
//
// A deploy is an ordered list of named steps run against a Git backend. The
// first failing step aborts the run and its error names the step, followed by
// git's own message. Tests substitute a fake backend through WithGit.
package deploy
