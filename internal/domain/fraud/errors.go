package fraud

import "errors"

// ErrMalformedResponse indicates the explanation provider returned content
// that could not be parsed as the expected JSON schema.
var ErrMalformedResponse = errors.New("explanation response is not valid JSON")

// ErrInvalidExplanation indicates a parsed response that violates the
// Explanation contract (empty reasoning or no steps).
var ErrInvalidExplanation = errors.New("explanation missing reasoning or steps")
