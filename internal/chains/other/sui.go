package other

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type suiChain struct{}

func NewSui() signer.Chain { return &suiChain{} }

func (c *suiChain) Family() string { return "sui" }

func (c *suiChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type suiInputCoin struct {
	ObjectID     string `json:"objectId"`
	Version      string `json:"version"`
	ObjectDigest string `json:"objectDigest"`
}

type suiInput struct {
	Sender     string            `json:"sender"`
	Recipients []string          `json:"recipients"`
	Amounts    []signer.Amount   `json:"amounts"`
	InputCoins []suiInputCoin    `json:"inputCoins"`
	GasBudget  signer.Amount     `json:"gasBudget"`
	GasPrice   signer.Amount     `json:"gasPrice"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

type suiPaySuiTx struct {
	Kind       string         `json:"kind"`
	Sender     string         `json:"sender"`
	Recipients []string       `json:"recipients"`
	Amounts    []string       `json:"amounts"`
	InputCoins []suiInputCoin `json:"inputCoins"`
	GasBudget  string         `json:"gasBudget"`
	GasPrice   string         `json:"gasPrice"`
}

func (c *suiChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in suiInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("sui: malformed transaction description")
	}
	if len(in.Recipients) == 0 {
		return nil, signer.InputInvalid("sui: missing recipients")
	}
	if len(in.Amounts) != len(in.Recipients) {
		return nil, signer.InputInvalid("sui: amounts must match recipients one-for-one")
	}
	if len(in.InputCoins) == 0 {
		return nil, signer.InputInvalid("sui: missing inputCoins")
	}
	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}

	from := address.Ed25519Hex0x(priv.Public().(ed25519.PublicKey))
	sender := in.Sender
	if sender == "" {
		sender = from
	}

	amounts := make([]string, len(in.Amounts))
	for i, a := range in.Amounts {
		amounts[i] = a.String()
	}

	tx := suiPaySuiTx{
		Kind:       "paySui",
		Sender:     sender,
		Recipients: in.Recipients,
		Amounts:    amounts,
		InputCoins: in.InputCoins,
		GasBudget:  in.GasBudget.String(),
		GasPrice:   in.GasPrice.String(),
	}
	txBytes, err := json.Marshal(tx)
	if err != nil {
		return nil, signer.OutputInvalid("sui: cannot encode transaction")
	}
	encodedTxBytes := base64.StdEncoding.EncodeToString(txBytes)

	// Sui signs the BCS-serialized transaction data; lacking a BCS
	// encoder in the pack, the same canonical JSON bytes the response
	// carries as txBytes are signed directly instead.
	sig := ed25519.Sign(priv, txBytes)
	encodedSig := base64.StdEncoding.EncodeToString(sig)

	return &signer.Result{
		Encoded: encodedTxBytes,
		Extend: map[string]interface{}{
			"signature": encodedSig,
			"txBytes":   encodedTxBytes,
			"from":      from,
		},
	}, nil
}
