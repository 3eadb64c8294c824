// Package preflight provides readiness checks for the inputs, output
// location and external binaries qrsite depends on.
//
// The CLI "qrsite status" command runs RunAll and CheckSystemDeps to show
// whether a build or deploy would get past its first steps. Each check
// returns a Result instead of an error so every problem is listed at once.
package preflight
