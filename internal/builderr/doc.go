// Package builderr defines the failure taxonomy of a site build.
//
// Every fatal build condition is reported through one of the typed errors in
// this package. Each typed error matches its exported sentinel through
// errors.Is, so callers can classify a failure without caring about the
// details, and errors.As exposes the details (row numbers, missing columns,
// entry ids) when they are needed for messages or tests.
package builderr
