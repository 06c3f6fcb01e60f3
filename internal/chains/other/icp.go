package other

import (
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type icpChain struct{}

func NewICP() signer.Chain { return &icpChain{} }

func (c *icpChain) Family() string { return "icp" }

func (c *icpChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type icpInput struct {
	To          string            `json:"to"`
	Amount      signer.Amount     `json:"amount"`
	Fee         signer.Amount     `json:"fee"`
	Memo        signer.Amount     `json:"memo"`
	TimestampMs signer.Amount     `json:"timestampMs"`
	PrivateKey  signer.ByteString `json:"privateKey"`
}

type icpUnsigned struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee"`
	Memo          string `json:"memo"`
	IngressExpiry string `json:"ingressExpiry"`
}

type icpSigned struct {
	icpUnsigned
	Signature string `json:"signature"`
}

func (c *icpChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in icpInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("icp: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("icp: missing recipient")
	}
	priv, err := secp256k1KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	from := address.ICP(priv.PubKey())

	// ICP's ingress expiry is a nanosecond timestamp, §4.4's
	// timestampMs * 1_000_000.
	nanos := in.TimestampMs.Uint64() * 1_000_000

	unsigned := icpUnsigned{
		From:          from,
		To:            in.To,
		Amount:        in.Amount.String(),
		Fee:           in.Fee.String(),
		Memo:          in.Memo.String(),
		IngressExpiry: strconv.FormatUint(nanos, 10),
	}
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("icp: cannot encode transaction")
	}
	digest := sha256Of(preimage)
	sig := signCompactSecp256k1(priv, digest)

	signed := icpSigned{icpUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("icp: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      from,
			"signature": signed.Signature,
		},
	}, nil
}
