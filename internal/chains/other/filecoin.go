package other

import (
	"encoding/hex"
	"encoding/json"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type filecoinChain struct{}

func NewFilecoin() signer.Chain { return &filecoinChain{} }

func (c *filecoinChain) Family() string { return "filecoin" }

func (c *filecoinChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type filecoinInput struct {
	To         string            `json:"to"`
	Amount     signer.Amount     `json:"amount"`
	Nonce      signer.Amount     `json:"nonce"`
	GasLimit   signer.Amount     `json:"gasLimit"`
	GasFeeCap  signer.Amount     `json:"gasFeeCap"`
	GasPremium signer.Amount     `json:"gasPremium"`
	Method     signer.Amount     `json:"method"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

// filecoinUnsigned renders value/gasFeeCap/gasPremium as hex-encoded
// BigEndian byte buffers (§4.4), the same buffer format
// signer.Amount.BigEndian produces for the EVM and Polkadot families,
// rather than as decimal strings or JSON numbers.
type filecoinUnsigned struct {
	To         string `json:"to"`
	From       string `json:"from"`
	Nonce      string `json:"nonce"`
	Value      string `json:"value"`
	GasLimit   string `json:"gasLimit"`
	GasFeeCap  string `json:"gasFeeCap"`
	GasPremium string `json:"gasPremium"`
	Method     string `json:"method"`
}

type filecoinSigned struct {
	filecoinUnsigned
	Signature string `json:"signature"`
}

func (c *filecoinChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in filecoinInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("filecoin: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("filecoin: missing recipient")
	}
	priv, err := secp256k1KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	from := address.Filecoin(priv.PubKey())

	unsigned := filecoinUnsigned{
		To:         in.To,
		From:       from,
		Nonce:      in.Nonce.String(),
		Value:      hex.EncodeToString(in.Amount.BigEndian()),
		GasLimit:   in.GasLimit.String(),
		GasFeeCap:  hex.EncodeToString(in.GasFeeCap.BigEndian()),
		GasPremium: hex.EncodeToString(in.GasPremium.BigEndian()),
		Method:     in.Method.String(),
	}
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("filecoin: cannot encode transaction")
	}
	digest := sha256Of(preimage)
	sig := signCompactSecp256k1(priv, digest)

	signed := filecoinSigned{filecoinUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("filecoin: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      from,
			"signature": signed.Signature,
		},
	}, nil
}
