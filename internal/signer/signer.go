package signer

import (
	"encoding/json"
	"fmt"
)

// Result is the canonical {encoded, extend} shape every signer method
// returns on success.
type Result struct {
	Encoded string                 `json:"encoded"`
	Extend  map[string]interface{} `json:"extend,omitempty"`
}

// Method is the shape every per-chain signing entry point has:
// sign(txData, coinType) -> (Result, error). txData is the raw request
// payload for the chain-specific struct the method will decode.
type Method func(txData json.RawMessage, coinType uint32) (*Result, error)

// Chain is implemented once per supported blockchain family. The
// dispatcher resolves a Chain by coin id or by blockchain family tag
// and then looks up one of its Methods by name, replacing the source
// system's dynamic "map id to class, invoke method by name" pattern
// with a typed lookup table built once per instance.
type Chain interface {
	// Family is the blockchain tag used for fallback lookup (e.g. "evm", "cosmos").
	Family() string
	// Methods returns the named signing operations this chain exposes.
	Methods() map[string]Method
}

// Factory constructs a Chain signer. Factories are invoked at most once
// per worker lifetime; the dispatcher caches the result.
type Factory func() Chain

// InputInvalid and OutputInvalid are the two schema-validation error
// points every Method's contract requires (§4.4 steps 1 and 3). Chains
// call these from their own field-validation helpers; there is no
// shared protobuf schema validator because the signers are hand-rolled
// rather than generated, so "validate against the library's schema"
// becomes "validate the decoded struct's required fields".
func InputInvalid(message string) *Error  { return New(KindInputInvalid, message) }
func OutputInvalid(message string) *Error { return New(KindOutputInvalid, message) }
func SigningFailed(message string) *Error { return New(KindSigningFailed, message) }

// InternalErrorf formats an InternalError for conditions that indicate
// a bug in this program rather than bad input (e.g. a helper that
// re-derives its own just-computed output and gets a different answer).
func InternalErrorf(format string, args ...interface{}) *Error {
	return New(KindInternalError, fmt.Sprintf(format, args...))
}
