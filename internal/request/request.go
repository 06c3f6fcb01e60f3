// Package request implements the Request Front-End (§4.5): decoding the
// single JSON request document, running the sign_transaction pre-flight
// (coin lookup, private-key derivation, anti-tampering address check,
// field injection), dispatching to the signer registry, and building
// the single JSON response document.
package request

import (
	"encoding/json"

	"github.com/coldsigner/core/internal/signer"
)

// Command is the exhaustive set of commands the worker accepts.
type Command string

const (
	CommandGenerateMnemonic Command = "generate_mnemonic"
	CommandValidateMnemonic Command = "validate_mnemonic"
	CommandGetKeysBatch     Command = "get_keys_batch"
	CommandSignTransaction  Command = "sign_transaction"
)

// AssetContext identifies which coin and which already-derived address
// a sign_transaction request is operating against.
type AssetContext struct {
	Coin           string `json:"coin"`
	Address        string `json:"address"`
	DerivationPath string `json:"derivation_path"`
}

// Request is the single JSON document read from stdin. Only the fields
// the named command requires are populated; the rest are zero values.
type Request struct {
	Command    Command         `json:"command"`
	Entropy    string          `json:"entropy"`
	Mnemonic   string          `json:"mnemonic"`
	Passphrase string          `json:"passphrase"`
	Num        int             `json:"num"`
	Method     string          `json:"method"`
	Asset      AssetContext    `json:"asset"`
	TxData     json.RawMessage `json:"txData"`
}

// Decode parses a single request document. A malformed document is an
// InputParseError, not a panic.
func Decode(data []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return Request{}, signer.New(signer.KindInputParseError, "request: malformed JSON document")
	}
	if r.Command == "" {
		return Request{}, signer.New(signer.KindInputParseError, "request: missing command")
	}
	if r.Num == 0 {
		r.Num = 50
	}
	return r, nil
}
