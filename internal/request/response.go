package request

import (
	"encoding/json"

	"github.com/coldsigner/core/internal/keyengine"
	"github.com/coldsigner/core/internal/signer"
)

// successEnvelope is marshaled directly; each command sets only the
// fields its response schema names (§6's response examples).
type successEnvelope struct {
	Status   string                  `json:"status"`
	Mnemonic string                  `json:"mnemonic,omitempty"`
	IsValid  *bool                   `json:"isValid,omitempty"`
	Results  []keyengine.KeyMaterial `json:"results,omitempty"`
	Encoded  string                  `json:"encoded,omitempty"`
	Extend   map[string]interface{}  `json:"extend,omitempty"`
}

// errorEnvelope is the single document written to the error stream on
// any failure outside get_keys_batch's per-coin capture.
type errorEnvelope struct {
	Status  string `json:"status"`
	Command string `json:"command"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

func encodeMnemonic(mnemonic string) []byte {
	return mustMarshal(successEnvelope{Status: "success", Mnemonic: mnemonic})
}

func encodeValidity(valid bool) []byte {
	return mustMarshal(successEnvelope{Status: "success", IsValid: &valid})
}

func encodeBatch(results []keyengine.KeyMaterial) []byte {
	return mustMarshal(successEnvelope{Status: "success", Results: results})
}

func encodeSignResult(result *signer.Result) []byte {
	return mustMarshal(successEnvelope{Status: "success", Encoded: result.Encoded, Extend: result.Extend})
}

// EncodeError renders the failure document written to the error stream.
// Stack is the error's chain of causes via Error(), never key material
// (the signer taxonomy's Error.Error() never surfaces secret bytes).
func EncodeError(command Command, err error) []byte {
	kind := signer.KindOf(err)
	return mustMarshal(errorEnvelope{
		Status:  "error",
		Command: string(command),
		Message: string(kind) + ": " + err.Error(),
		Stack:   err.Error(),
	})
}

func mustMarshal(v interface{}) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		// A response envelope failing to marshal means a bug in this
		// program's own types, not bad input; fall back to a minimal
		// literal rather than panic on the way out.
		return []byte(`{"status":"error","message":"InternalError: response encoding failed"}`)
	}
	return out
}
