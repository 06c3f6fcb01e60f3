package other

import (
	"encoding/hex"
	"encoding/json"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type xrpChain struct{}

func NewXRP() signer.Chain { return &xrpChain{} }

func (c *xrpChain) Family() string { return "xrp" }

func (c *xrpChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type xrpInput struct {
	FromAddress        string            `json:"fromAddress"`
	To                 string            `json:"to"`
	Amount             signer.Amount     `json:"amount"`
	Fee                signer.Amount     `json:"fee"`
	Sequence           signer.Amount     `json:"sequence"`
	LastLedgerSequence signer.Amount     `json:"lastLedgerSequence"`
	DestinationTag     *uint32           `json:"destinationTag"`
	PrivateKey         signer.ByteString `json:"privateKey"`
}

type xrpUnsigned struct {
	TransactionType    string  `json:"transactionType"`
	Account            string  `json:"account"`
	Destination        string  `json:"destination"`
	Amount             string  `json:"amount"`
	Fee                string  `json:"fee"`
	Sequence           string  `json:"sequence"`
	LastLedgerSequence string  `json:"lastLedgerSequence"`
	DestinationTag     *uint32 `json:"destinationTag,omitempty"`
}

type xrpSigned struct {
	xrpUnsigned
	SigningPubKey string `json:"signingPubKey"`
	TxnSignature  string `json:"txnSignature"`
}

func (c *xrpChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in xrpInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("xrp: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("xrp: missing recipient")
	}
	priv, err := secp256k1KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	derived := address.XRP(priv.PubKey())
	// XRP is one of the chains §4.5 injects the sender's derived
	// address into explicitly as fromAddress rather than relying on
	// this signer deriving it implicitly.
	account := in.FromAddress
	if account == "" {
		account = derived
	}

	unsigned := xrpUnsigned{
		TransactionType:    "Payment",
		Account:            account,
		Destination:        in.To,
		Amount:             in.Amount.String(),
		Fee:                in.Fee.String(),
		Sequence:           in.Sequence.String(),
		LastLedgerSequence: in.LastLedgerSequence.String(),
		DestinationTag:     in.DestinationTag,
	}
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("xrp: cannot encode transaction")
	}
	digest := sha256Of(preimage)
	sig := signCompactSecp256k1(priv, digest)

	signed := xrpSigned{
		xrpUnsigned:   unsigned,
		SigningPubKey: hex.EncodeToString(priv.PubKey().SerializeCompressed()),
		TxnSignature:  hex.EncodeToString(sig),
	}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("xrp: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      account,
			"signature": signed.TxnSignature,
		},
	}, nil
}
