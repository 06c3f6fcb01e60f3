package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type tezosChain struct{}

func NewTezos() signer.Chain { return &tezosChain{} }

func (c *tezosChain) Family() string { return "tezos" }

func (c *tezosChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer":      c.signTransfer,
		"signFA1_2Transfer": c.signFA1_2Transfer,
		"signFA2Transfer":   c.signFA2Transfer,
	}
}

type tezosInput struct {
	To           string            `json:"to"`
	Amount       signer.Amount     `json:"amount"`
	Branch       string            `json:"branch"`
	Fee          signer.Amount     `json:"fee"`
	GasLimit     signer.Amount     `json:"gasLimit"`
	StorageLimit signer.Amount     `json:"storageLimit"`
	Counter      signer.Amount     `json:"counter"`
	Destination  string            `json:"destination"` // contract address for FA1.2/FA2 calls
	TokenID      signer.Amount     `json:"tokenId"`
	PrivateKey   signer.ByteString `json:"privateKey"`
}

type tezosFA12Params struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

type tezosFA2Tx struct {
	To      string `json:"to_"`
	TokenID string `json:"token_id"`
	Amount  string `json:"amount"`
}

type tezosFA2Params struct {
	From string       `json:"from_"`
	Txs  []tezosFA2Tx `json:"txs"`
}

type tezosUnsigned struct {
	Branch       string      `json:"branch"`
	Source       string      `json:"source"`
	Fee          string      `json:"fee"`
	Counter      string      `json:"counter"`
	GasLimit     string      `json:"gasLimit"`
	StorageLimit string      `json:"storageLimit"`
	Kind         string      `json:"kind"`
	Destination  string      `json:"destination"`
	Amount       string      `json:"amount,omitempty"`
	Entrypoint   string      `json:"entrypoint,omitempty"`
	Parameters   interface{} `json:"parameters,omitempty"`
}

type tezosSigned struct {
	tezosUnsigned
	Signature string `json:"signature"`
}

func (c *tezosChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in tezosInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("tezos: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("tezos: missing recipient")
	}
	return buildTezosOperation(in, "transaction", in.To, "", nil)
}

func (c *tezosChain) signFA1_2Transfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in tezosInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("tezos: malformed FA1.2 transfer description")
	}
	if in.Destination == "" || in.To == "" {
		return nil, signer.InputInvalid("tezos: FA1.2 transfer requires destination and to")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	source := address.Tezos(priv.Public().(ed25519.PublicKey))
	params := tezosFA12Params{From: source, To: in.To, Value: in.Amount.String()}
	return signTezosOperation(priv, source, in, "transfer", params)
}

func (c *tezosChain) signFA2Transfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in tezosInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("tezos: malformed FA2 transfer description")
	}
	if in.Destination == "" || in.To == "" {
		return nil, signer.InputInvalid("tezos: FA2 transfer requires destination and to")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	source := address.Tezos(priv.Public().(ed25519.PublicKey))
	params := []tezosFA2Params{{
		From: source,
		Txs:  []tezosFA2Tx{{To: in.To, TokenID: in.TokenID.String(), Amount: in.Amount.String()}},
	}}
	return signTezosOperation(priv, source, in, "transfer", params)
}

func buildTezosOperation(in tezosInput, kind, destination, entrypoint string, parameters interface{}) (*signer.Result, error) {
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	source := address.Tezos(priv.Public().(ed25519.PublicKey))

	unsigned := tezosUnsigned{
		Branch:       in.Branch,
		Source:       source,
		Fee:          in.Fee.String(),
		Counter:      in.Counter.String(),
		GasLimit:     in.GasLimit.String(),
		StorageLimit: in.StorageLimit.String(),
		Kind:         kind,
		Destination:  destination,
		Amount:       in.Amount.String(),
		Entrypoint:   entrypoint,
		Parameters:   parameters,
	}
	return finishTezosOperation(priv, source, unsigned)
}

// signTezosOperation builds the contract-call shape FA1.2 and FA2
// transfers share: a "transaction" operation against destination
// whose amount is always zero (the token amount travels inside the
// entrypoint parameters, not the operation's own mutez amount).
func signTezosOperation(priv ed25519.PrivateKey, source string, in tezosInput, entrypoint string, parameters interface{}) (*signer.Result, error) {
	unsigned := tezosUnsigned{
		Branch:       in.Branch,
		Source:       source,
		Fee:          in.Fee.String(),
		Counter:      in.Counter.String(),
		GasLimit:     in.GasLimit.String(),
		StorageLimit: in.StorageLimit.String(),
		Kind:         "transaction",
		Destination:  in.Destination,
		Amount:       "0",
		Entrypoint:   entrypoint,
		Parameters:   parameters,
	}
	return finishTezosOperation(priv, source, unsigned)
}

func finishTezosOperation(priv ed25519.PrivateKey, source string, unsigned tezosUnsigned) (*signer.Result, error) {
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("tezos: cannot encode operation")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := tezosSigned{tezosUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("tezos: cannot encode signed operation")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      source,
			"signature": signed.Signature,
		},
	}, nil
}
