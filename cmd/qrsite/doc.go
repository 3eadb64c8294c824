// Package main hosts the qrsite CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into site builds,
// deploys, image folder scans and renames, readiness checks, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands only translate flags into calls
// on the internal packages and render their results.
package main
