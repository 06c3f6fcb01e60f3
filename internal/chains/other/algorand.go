package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type algorandChain struct{}

func NewAlgorand() signer.Chain { return &algorandChain{} }

func (c *algorandChain) Family() string { return "algorand" }

func (c *algorandChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer":      c.signTransfer,
		"signAssetTransfer": c.signAssetTransfer,
	}
}

type algorandInput struct {
	To          string            `json:"to"`
	Amount      signer.Amount     `json:"amount"`
	Fee         signer.Amount     `json:"fee"`
	FirstValid  signer.Amount     `json:"firstValid"`
	LastValid   signer.Amount     `json:"lastValid"`
	GenesisID   string            `json:"genesisId"`
	GenesisHash string            `json:"genesisHash"`
	Note        string            `json:"note"`
	AssetID     signer.Amount     `json:"assetId"`
	PrivateKey  signer.ByteString `json:"privateKey"`
}

type algorandUnsigned struct {
	Type        string `json:"type"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount"`
	Fee         string `json:"fee"`
	FirstValid  string `json:"firstValid"`
	LastValid   string `json:"lastValid"`
	GenesisID   string `json:"genesisId,omitempty"`
	GenesisHash string `json:"genesisHash,omitempty"`
	Note        string `json:"note,omitempty"`
	AssetID     string `json:"assetId,omitempty"`
}

type algorandSigned struct {
	algorandUnsigned
	Signature string `json:"signature"`
}

func (c *algorandChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	return signAlgorand(txData, "pay", false)
}

func (c *algorandChain) signAssetTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	return signAlgorand(txData, "axfer", true)
}

func signAlgorand(txData json.RawMessage, txType string, requireAsset bool) (*signer.Result, error) {
	var in algorandInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("algorand: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("algorand: missing recipient")
	}
	if requireAsset && in.AssetID.Sign() == 0 {
		return nil, signer.InputInvalid("algorand: assetId required for an asset transfer")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}

	// genesisHash and note are accepted as either hex or base64 and
	// re-rendered as hex in the canonical preimage, per §4.4's
	// "auto-detect hex vs base64" rule.
	genesisHash, err := decodeHexOrBase64(in.GenesisHash)
	if err != nil {
		return nil, signer.InputInvalid("algorand: malformed genesisHash")
	}
	note, err := decodeHexOrBase64(in.Note)
	if err != nil {
		return nil, signer.InputInvalid("algorand: malformed note")
	}

	from := address.Algorand(priv.Public().(ed25519.PublicKey))
	unsigned := algorandUnsigned{
		Type:        txType,
		From:        from,
		To:          in.To,
		Amount:      in.Amount.String(),
		Fee:         in.Fee.String(),
		FirstValid:  in.FirstValid.String(),
		LastValid:   in.LastValid.String(),
		GenesisID:   in.GenesisID,
		GenesisHash: hex.EncodeToString(genesisHash),
		Note:        hex.EncodeToString(note),
	}
	if requireAsset {
		unsigned.AssetID = in.AssetID.String()
	}

	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("algorand: cannot encode transaction")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := algorandSigned{algorandUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("algorand: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      from,
			"signature": signed.Signature,
		},
	}, nil
}
