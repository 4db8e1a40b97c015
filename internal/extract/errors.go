package extract

import "errors"

// Sentinel errors for the extraction pipeline.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConfiguration indicates a missing setup step: the resolved
	// ontology has no entity types, or no LLM capability is configured.
	// Client-correctable; never retried automatically.
	ErrConfiguration = errors.New("extraction not configured")

	// ErrUpstream indicates the LLM capability could not be reached or
	// failed at the transport level. Fatal for single-document extraction;
	// converted into a placeholder slot by the batch coordinator.
	ErrUpstream = errors.New("upstream model failure")

	// ErrMalformedResponse indicates the LLM responded but the payload
	// could not be parsed into the expected shape. Always recovered into an
	// empty graph with a diagnostic note, never surfaced to callers.
	ErrMalformedResponse = errors.New("malformed model response")
)
