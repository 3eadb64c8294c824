// Package textutil provides small string helpers shared by the loader, the
// renderers and the scan command: rune-aware truncation, descriptions derived
// from file names and filesystem-safe tokens.
package textutil
