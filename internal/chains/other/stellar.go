package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type stellarChain struct{}

func NewStellar() signer.Chain { return &stellarChain{} }

func (c *stellarChain) Family() string { return "stellar" }

func (c *stellarChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

// stellarNetworkPassphrases is the canonical network passphrase table
// every Stellar SDK ships (§4.4: "network passphrase from the
// library's canonical table"); on the Stellar network the passphrase's
// 32-byte SHA-256 hash heads what a node signs over, not the
// transaction envelope alone. This signer places the passphrase string
// itself in its JSON preimage.
var stellarNetworkPassphrases = map[string]string{
	"public":    "Public Global Stellar Network ; September 2015",
	"testnet":   "Test SDF Network ; September 2015",
	"futurenet": "Test SDF Future Network ; October 2022",
}

type stellarInput struct {
	Network        string            `json:"network"`
	Operation      string            `json:"operation"`
	To             string            `json:"to"`
	Amount         signer.Amount     `json:"amount"`
	Asset          string            `json:"asset"`
	Limit          signer.Amount     `json:"limit"`
	SequenceNumber signer.Amount     `json:"sequenceNumber"`
	Fee            signer.Amount     `json:"fee"`
	PrivateKey     signer.ByteString `json:"privateKey"`
}

type stellarUnsigned struct {
	NetworkPassphrase string `json:"networkPassphrase"`
	Source            string `json:"source"`
	SequenceNumber    string `json:"sequenceNumber"`
	Fee               string `json:"fee"`
	Operation         string `json:"operation"`
	Destination       string `json:"destination,omitempty"`
	Amount            string `json:"amount,omitempty"`
	Asset             string `json:"asset,omitempty"`
	Limit             string `json:"limit,omitempty"`
}

type stellarSigned struct {
	stellarUnsigned
	Signature string `json:"signature"`
}

func (c *stellarChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in stellarInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("stellar: malformed transaction description")
	}

	network := in.Network
	if network == "" {
		network = "public"
	}
	passphrase, ok := stellarNetworkPassphrases[network]
	if !ok {
		return nil, signer.InputInvalid("stellar: unknown network \"" + network + "\"")
	}

	operation := in.Operation
	if operation == "" {
		operation = "opPayment"
	}

	priv, err := ed25519KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	source := address.Stellar(priv.Public().(ed25519.PublicKey))

	unsigned := stellarUnsigned{
		NetworkPassphrase: passphrase,
		Source:            source,
		SequenceNumber:    in.SequenceNumber.String(),
		Fee:               in.Fee.String(),
		Operation:         operation,
	}

	switch operation {
	case "opPayment":
		if in.To == "" {
			return nil, signer.InputInvalid("stellar: opPayment requires a destination")
		}
		unsigned.Destination = in.To
		unsigned.Amount = in.Amount.String()
		unsigned.Asset = in.Asset
	case "opChangeTrust":
		if in.Asset == "" {
			return nil, signer.InputInvalid("stellar: opChangeTrust requires an asset")
		}
		unsigned.Asset = in.Asset
		unsigned.Limit = in.Limit.String()
	default:
		return nil, signer.InputInvalid("stellar: unsupported operation \"" + operation + "\"")
	}

	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("stellar: cannot encode transaction")
	}
	sig := ed25519.Sign(priv, preimage)

	signed := stellarSigned{stellarUnsigned: unsigned, Signature: hex.EncodeToString(sig)}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("stellar: cannot encode signed transaction")
	}

	return &signer.Result{
		Encoded: signer.EncodeHex0x(final),
		Extend: map[string]interface{}{
			"from":      source,
			"signature": signed.Signature,
		},
	}, nil
}
