package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type hederaChain struct{}

func NewHedera() signer.Chain { return &hederaChain{} }

func (c *hederaChain) Family() string { return "hedera" }

func (c *hederaChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type hederaInput struct {
	To              string            `json:"to"`
	Amount          signer.Amount     `json:"amount"`
	NodeAccountID   string            `json:"nodeAccountId"`
	TransactionFee  signer.Amount     `json:"transactionFee"`
	Memo            string            `json:"memo"`
	TimestampMillis signer.Amount     `json:"timestampMillis"`
	PrivateKey      signer.ByteString `json:"privateKey"`
}

type hederaTransactionID struct {
	AccountID string `json:"accountId"`
	Seconds   string `json:"seconds"`
	Nanos     string `json:"nanos"`
}

type hederaUnsigned struct {
	TransactionID  hederaTransactionID `json:"transactionId"`
	NodeAccountID  string              `json:"nodeAccountId"`
	To             string              `json:"to"`
	Amount         string              `json:"amount"`
	TransactionFee string              `json:"transactionFee"`
	Memo           string              `json:"memo,omitempty"`
}

type hederaSigned struct {
	hederaUnsigned
	Signature string `json:"signature"`
}

func (c *hederaChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in hederaInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("hedera: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("hedera: missing recipient")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}

	from := address.Hedera(priv.Public().(ed25519.PublicKey))

	millis := in.TimestampMillis.Int64()
	unsigned := hederaUnsigned{
		TransactionID: hederaTransactionID{
			AccountID: from,
			// Hedera's TransactionID splits its validStart timestamp
			// into whole seconds and a remaining-nanoseconds component,
			// per §4.4.
			Seconds: strconv.FormatInt(millis/1000, 10),
			Nanos:   strconv.FormatInt((millis%1000)*1_000_000, 10),
		},
		NodeAccountID:  in.NodeAccountID,
		To:             in.To,
		Amount:         in.Amount.String(),
		TransactionFee: in.TransactionFee.String(),
		Memo:           in.Memo,
	}
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("hedera: cannot encode transaction")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := hederaSigned{hederaUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("hedera: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      from,
			"signature": signed.Signature,
		},
	}, nil
}
