// Package cli defines the Cobra command tree for the purplefox CLI. Each file
// registers one pipeline stage (fetch, read-dashboard, diff, sync, etc.) with
// the root command. Commands resolve paths from flags and config, delegate to
// internal/pipeline, and print a one-line summary unless --silent is set.
package cli
