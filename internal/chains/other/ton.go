package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type tonChain struct{}

func NewTON() signer.Chain { return &tonChain{} }

func (c *tonChain) Family() string { return "ton" }

func (c *tonChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

// tonExpirySeconds is TON's fixed 3600-second external-message
// validity window (§4.4: "expiry is timestamp + 3600s").
const tonExpirySeconds = 3600

type tonJetton struct {
	MasterAddress string        `json:"masterAddress"`
	Amount        signer.Amount `json:"amount"`
}

type tonInput struct {
	To         string            `json:"to"`
	Amount     signer.Amount     `json:"amount"`
	Seqno      signer.Amount     `json:"seqno"`
	Timestamp  signer.Amount     `json:"timestamp"`
	Jetton     *tonJetton        `json:"jetton"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

type tonUnsigned struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Amount       string `json:"amount"`
	Seqno        string `json:"seqno"`
	ValidUntil   string `json:"validUntil"`
	JettonMaster string `json:"jettonMaster,omitempty"`
	JettonAmount string `json:"jettonAmount,omitempty"`
}

type tonSigned struct {
	tonUnsigned
	Signature string `json:"signature"`
}

func (c *tonChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in tonInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("ton: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("ton: missing recipient")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	from := address.TON(priv.Public().(ed25519.PublicKey))

	unsigned := tonUnsigned{
		From:       from,
		To:         in.To,
		Amount:     in.Amount.String(),
		Seqno:      in.Seqno.String(),
		ValidUntil: strconv.FormatUint(in.Timestamp.Uint64()+tonExpirySeconds, 10),
	}
	if in.Jetton != nil {
		unsigned.JettonMaster = in.Jetton.MasterAddress
		unsigned.JettonAmount = in.Jetton.Amount.String()
	}

	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("ton: cannot encode transaction")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := tonSigned{tonUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("ton: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      from,
			"signature": signed.Signature,
		},
	}, nil
}
