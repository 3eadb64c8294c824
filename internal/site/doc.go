// Package site assembles the output directory.
//
// A build writes into a Stage, a temporary sibling of the output directory.
// Only Commit makes the result visible: entries named in the preserve list
// (usually the deploy repository's .git) are carried over from the previous
// output and the staged tree is swapped into place. Discard drops the stage
// and leaves the previous output untouched.
//
// Lock guards the output directory against concurrent builds and deploys
// with an advisory lock file next to it.
package site
