// Package config loads, normalizes, and validates qrsite configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the QRSITE_BASE_URL environment
// fallback. The Config type centralizes every knob the build, label and
// deploy commands need so input paths, site strings and print geometry are
// resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
