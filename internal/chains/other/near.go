package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/mr-tron/base58"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type nearChain struct{}

func NewNEAR() signer.Chain { return &nearChain{} }

func (c *nearChain) Family() string { return "near" }

func (c *nearChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type nearInput struct {
	To         string            `json:"to"`
	Amount     signer.Amount     `json:"amount"`
	Nonce      signer.Amount     `json:"nonce"`
	BlockHash  string            `json:"blockHash"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

type nearUnsigned struct {
	SignerID   string `json:"signerId"`
	ReceiverID string `json:"receiverId"`
	Nonce      string `json:"nonce"`
	BlockHash  string `json:"blockHash"`
	// Amount is NEAR's own u128 convention: a 16-byte little-endian
	// buffer, rendered here as hex since JSON has no binary type.
	Amount string `json:"amount"`
}

type nearSigned struct {
	nearUnsigned
	Signature string `json:"signature"`
}

func (c *nearChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in nearInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("near: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("near: missing recipient")
	}
	if in.BlockHash != "" {
		if _, err := base58.Decode(in.BlockHash); err != nil {
			return nil, signer.InputInvalid("near: malformed blockHash")
		}
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	signerID := address.NEARImplicit(priv.Public().(ed25519.PublicKey))

	unsigned := nearUnsigned{
		SignerID:   signerID,
		ReceiverID: in.To,
		Nonce:      in.Nonce.String(),
		BlockHash:  in.BlockHash,
		Amount:     hex.EncodeToString(u128LittleEndian(in.Amount)),
	}
	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("near: cannot encode transaction")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := nearSigned{nearUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("near: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      signerID,
			"signature": signed.Signature,
		},
	}, nil
}

// u128LittleEndian renders amount as NEAR's 16-byte little-endian u128
// buffer, the reverse byte order of Amount.BigEndian.
func u128LittleEndian(amount signer.Amount) []byte {
	be := amount.BigEndian()
	if len(be) > 16 {
		be = be[len(be)-16:]
	}
	out := make([]byte, 16)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}
