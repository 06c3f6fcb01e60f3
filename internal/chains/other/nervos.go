package other

import (
	"encoding/hex"
	"encoding/json"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/signer"
)

type nervosChain struct{}

func NewNervos() signer.Chain { return &nervosChain{} }

func (c *nervosChain) Family() string { return "nervos" }

func (c *nervosChain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer": c.signTransfer,
	}
}

type nervosOutPoint struct {
	TxHash string `json:"txHash"`
	Index  string `json:"index"`
}

type nervosLock struct {
	CodeHash string `json:"codeHash"`
	HashType string `json:"hashType"`
	Args     string `json:"args"`
}

type nervosCell struct {
	OutPoint nervosOutPoint `json:"outPoint"`
	Lock     nervosLock     `json:"lock"`
	Capacity signer.Amount  `json:"capacity"`
}

type nervosInput struct {
	Cells      []nervosCell      `json:"cells"`
	To         string            `json:"to"`
	Amount     signer.Amount     `json:"amount"`
	ByteFee    signer.Amount     `json:"byteFee"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

type nervosCellInputRef struct {
	PreviousOutput nervosOutPoint `json:"previousOutput"`
	Since          string         `json:"since"`
}

type nervosCellOutput struct {
	Capacity string     `json:"capacity"`
	Lock     nervosLock `json:"lock"`
}

type nervosUnsignedTx struct {
	Version     string               `json:"version"`
	CellDeps    []struct{}           `json:"cellDeps"`
	HeaderDeps  []struct{}           `json:"headerDeps"`
	Inputs      []nervosCellInputRef `json:"inputs"`
	Outputs     []nervosCellOutput   `json:"outputs"`
	OutputsData []string             `json:"outputsData"`
	Fee         string               `json:"fee"`
}

type nervosSignedTx struct {
	nervosUnsignedTx
	Witnesses []string `json:"witnesses"`
}

func (c *nervosChain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in nervosInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("nervos: malformed transaction description")
	}
	if in.To == "" {
		return nil, signer.InputInvalid("nervos: missing recipient")
	}
	if len(in.Cells) == 0 {
		return nil, signer.InputInvalid("nervos: missing cells")
	}
	priv, err := secp256k1KeyFrom(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	from := address.Nervos(priv.PubKey())

	var totalCapacity int64
	inputs := make([]nervosCellInputRef, 0, len(in.Cells))
	for _, cell := range in.Cells {
		totalCapacity += cell.Capacity.Int64()
		inputs = append(inputs, nervosCellInputRef{PreviousOutput: cell.OutPoint, Since: "0"})
	}

	// CKB sizes fees in fee-rate shannons-per-byte against the
	// serialized transaction size, the explicit byteFee §4.4 names.
	estimatedBytes := int64(96 + 44*len(inputs) + 60)
	fee := in.ByteFee.Int64() * estimatedBytes

	recipientLock := in.Cells[0].Lock
	outputs := []nervosCellOutput{{Capacity: in.Amount.String(), Lock: nervosLock{Args: in.To}}}
	change := totalCapacity - in.Amount.Int64() - fee
	if change > 0 {
		outputs = append(outputs, nervosCellOutput{Capacity: signer.NewAmount(change).String(), Lock: recipientLock})
	}

	unsigned := nervosUnsignedTx{
		Version:     "0",
		Inputs:      inputs,
		Outputs:     outputs,
		OutputsData: make([]string, len(outputs)),
		Fee:         signer.NewAmount(fee).String(),
	}

	preimage, err := json.Marshal(unsigned)
	if err != nil {
		return nil, signer.OutputInvalid("nervos: cannot encode transaction")
	}
	digest := sha256Of(preimage)
	sig := signCompactSecp256k1(priv, digest)

	signed := nervosSignedTx{nervosUnsignedTx: unsigned, Witnesses: []string{hex.EncodeToString(sig)}}
	final, err := json.Marshal(signed)
	if err != nil {
		return nil, signer.OutputInvalid("nervos: cannot encode signed transaction")
	}

	// §4.4: "response is a JSON transaction" — unlike the rest of this
	// package's hex-wrapped envelopes, Nervos's encoded field is the
	// transaction JSON itself.
	return &signer.Result{
		Encoded: string(final),
		Extend: map[string]interface{}{
			"from": from,
			"fee":  fee,
		},
	}, nil
}
