package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type aptosChain struct{}

func NewAptos() signer.Chain { return &aptosChain{} }

func (c *aptosChain) Family() string { return "aptos" }

func (c *aptosChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type aptosInput struct {
	Sender                  string            `json:"sender"`
	To                      string            `json:"to"`
	Amount                  signer.Amount     `json:"amount"`
	SequenceNumber          signer.Amount     `json:"sequenceNumber"`
	ExpirationTimestampSecs signer.Amount     `json:"expirationTimestampSecs"`
	ChainID                 signer.Amount     `json:"chainId"`
	MaxGasAmount            signer.Amount     `json:"maxGasAmount"`
	GasUnitPrice            signer.Amount     `json:"gasUnitPrice"`
	PrivateKey              signer.ByteString `json:"privateKey"`
}

// aptosUnsigned renders every u64 field as a decimal string, matching
// the Aptos REST API's own convention for values that would lose
// precision as a JSON number; sequenceNumber and expirationTimestampSecs
// are the two fields §4.4 calls out by name.
type aptosUnsigned struct {
	Sender                  string `json:"sender"`
	To                      string `json:"to"`
	Amount                  string `json:"amount"`
	SequenceNumber          string `json:"sequenceNumber"`
	ExpirationTimestampSecs string `json:"expirationTimestampSecs"`
	ChainID                 string `json:"chainId"`
	MaxGasAmount            string `json:"maxGasAmount"`
	GasUnitPrice            string `json:"gasUnitPrice"`
}

type aptosSigned struct {
	aptosUnsigned
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

func (c *aptosChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in aptosInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("aptos: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("aptos: missing recipient")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}

	derived := address.Ed25519Hex0x(priv.Public().(ed25519.PublicKey))
	// Aptos address verification is delegated to the library in the
	// original system: if the caller supplies an explicit sender this
	// signer trusts it rather than rejecting a mismatch itself.
	sender := in.Sender
	if sender == "" {
		sender = derived
	}

	unsigned := aptosUnsigned{
		Sender:                  sender,
		To:                      in.To,
		Amount:                  in.Amount.String(),
		SequenceNumber:          strconv.FormatUint(in.SequenceNumber.Uint64(), 10),
		ExpirationTimestampSecs: strconv.FormatUint(in.ExpirationTimestampSecs.Uint64(), 10),
		ChainID:                 in.ChainID.String(),
		MaxGasAmount:            in.MaxGasAmount.String(),
		GasUnitPrice:            in.GasUnitPrice.String(),
	}
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("aptos: cannot encode transaction")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := aptosSigned{
		aptosUnsigned: unsigned,
		PublicKey:     hex.EncodeToString(priv.Public().(ed25519.PublicKey)),
		Signature:     hex.EncodeToString(sig),
	}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("aptos: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      derived,
			"signature": signed.Signature,
		},
	}, nil
}
