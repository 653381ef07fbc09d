package chart

import "errors"

// Error taxonomy for the resolver, following spec.md §7; there is no
// MemFailed value, as allocation in Go does not return an error. Grouped
// the way the teacher groups its own sentinel errors by concern in
// pkg/psp/errors/errors.go.
var (
	// ErrInvalidParam is returned for a null/empty music identifier.
	ErrInvalidParam = errors.New("chart: invalid parameter")

	// ErrFileFailed is returned when a required file could not be opened
	// or was truncated.
	ErrFileFailed = errors.New("chart: required file could not be read")

	// ErrInvalidFile is returned when the ifs header or manifest entry
	// fails its structural checks.
	ErrInvalidFile = errors.New("chart: invalid archive or manifest entry")

	// ErrManifestParseError is returned when the embedded kbinxml
	// manifest could not be decoded.
	ErrManifestParseError = errors.New("chart: manifest failed to decode")
)
