package chart

import "errors"

// Error taxonomy shared by all stages. Stage errors wrap one of these so
// callers can classify failures with errors.Is.
var (
	// ErrInputNotFound reports a required file or argument that is missing.
	ErrInputNotFound = errors.New("input not found")
	// ErrMalformedInput reports a parse failure or an unexpected shape.
	ErrMalformedInput = errors.New("malformed input")
	// ErrExternalCall reports a failed documentation or dashboard fetch.
	ErrExternalCall = errors.New("external call failed")
	// ErrPatchTargetNotFound reports a marker or delimiter the patcher could not locate.
	ErrPatchTargetNotFound = errors.New("patch target not found")
)
