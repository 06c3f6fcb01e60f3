// Package cardano implements the Cardano family signer (§4.4): native
// ADA transfers, multi-asset (native token) transfers, and the
// calculateMinAda helper the front-end uses to size an output before
// asking for a signature. Cardano's transaction wire format is CBOR,
// not protobuf; internal/cbor hand-encodes the handful of CBOR shapes
// a transaction body and witness set need, the same grounding approach
// internal/pbenc takes for Tron and Cosmos.
package cardano

import (
	"crypto/ed25519"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/cbor"
	"github.com/coldsigner/core/internal/signer"
)

// minUTXOLovelace and perAssetLovelace are a simplified stand-in for
// the protocol's minAdaValue formula (which depends on current
// protocol parameters fetched from the chain); good enough to size a
// change output without a live parameter feed.
const (
	minUTXOLovelace  = 1_000_000
	perAssetLovelace = 100_000
)

type Chain struct{}

func New() signer.Chain { return &Chain{} }

func (c *Chain) Family() string { return "cardano" }

func (c *Chain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer":    c.signTransfer,
		"calculateMinAda": c.calculateMinAda,
	}
}

type asset struct {
	PolicyID  signer.ByteString `json:"policyId"`
	AssetName signer.ByteString `json:"assetName"`
	Amount    signer.Amount     `json:"amount"`
}

type txInput struct {
	TxHash signer.ByteString `json:"txHash"`
	Index  uint32            `json:"index"`
}

type txOutput struct {
	Address string        `json:"address"`
	Amount  signer.Amount `json:"amount"`
	Assets  []asset       `json:"assets"`
}

type transferInput struct {
	Inputs     []txInput         `json:"inputs"`
	Outputs    []txOutput        `json:"outputs"`
	Fee        signer.Amount     `json:"fee"`
	TTL        signer.Amount     `json:"ttl"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

func (c *Chain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in transferInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("cardano: malformed transaction description")
	}
	if len(in.Inputs) == 0 || len(in.Outputs) == 0 {
		return nil, signer.InputInvalid("cardano: at least one input and output required")
	}
	if len(in.PrivateKey) != ed25519.SeedSize && len(in.PrivateKey) != ed25519.PrivateKeySize {
		return nil, signer.InputInvalid("cardano: malformed private key")
	}
	priv, err := privateKeyFromSeedOrKey(in.PrivateKey)
	if err != nil {
		return nil, err
	}

	inputsCBOR := make([][]byte, len(in.Inputs))
	for i, input := range in.Inputs {
		if len(input.TxHash) != 32 {
			return nil, signer.InputInvalid("cardano: txHash must be 32 bytes")
		}
		inputsCBOR[i] = cbor.Array(cbor.ByteString(input.TxHash), cbor.UnsignedInt(uint64(input.Index)))
	}

	outputsCBOR := make([][]byte, len(in.Outputs))
	for i, output := range in.Outputs {
		payload, err := decodeCardanoPayload(output.Address)
		if err != nil {
			return nil, signer.InputInvalid("cardano: malformed output address")
		}
		value := cbor.UnsignedInt(output.Amount.Uint64())
		if len(output.Assets) > 0 {
			value = cbor.Array(cbor.UnsignedInt(output.Amount.Uint64()), encodeMultiAsset(output.Assets))
		}
		outputsCBOR[i] = cbor.Array(cbor.ByteString(payload), value)
	}

	body := cbor.MapHeader(4)
	body = append(body, cbor.UnsignedInt(0)...)
	body = append(body, cbor.Array(inputsCBOR...)...)
	body = append(body, cbor.UnsignedInt(1)...)
	body = append(body, cbor.Array(outputsCBOR...)...)
	body = append(body, cbor.UnsignedInt(2)...)
	body = append(body, cbor.UnsignedInt(in.Fee.Uint64())...)
	body = append(body, cbor.UnsignedInt(3)...)
	body = append(body, cbor.UnsignedInt(in.TTL.Uint64())...)

	txHash := address.Blake2b256(body)
	sig := ed25519.Sign(priv, txHash[:])

	witness := cbor.Array(cbor.ByteString(priv.Public().(ed25519.PublicKey)), cbor.ByteString(sig))
	witnessSet := cbor.MapHeader(1)
	witnessSet = append(witnessSet, cbor.UnsignedInt(0)...)
	witnessSet = append(witnessSet, cbor.Array(witness)...)

	tx := cbor.ArrayHeader(4)
	tx = append(tx, body...)
	tx = append(tx, witnessSet...)
	tx = append(tx, 0xf5) // CBOR simple value "true" (is_valid)
	tx = append(tx, 0xf6) // CBOR null (no auxiliary data)

	return &signer.Result{
		Encoded: signer.EncodeHex0x(tx),
		Extend: map[string]interface{}{
			"txHash": signer.EncodeHex0x(txHash[:]),
		},
	}, nil
}

type minAdaInput struct {
	Assets []asset `json:"assets"`
}

func (c *Chain) calculateMinAda(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in minAdaInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("cardano: malformed calculateMinAda request")
	}
	min := uint64(minUTXOLovelace + perAssetLovelace*len(in.Assets))
	return &signer.Result{
		Extend: map[string]interface{}{
			"minAda": min,
		},
	}, nil
}

func encodeMultiAsset(assets []asset) []byte {
	byPolicy := map[string][]asset{}
	order := []string{}
	for _, a := range assets {
		key := string(a.PolicyID)
		if _, ok := byPolicy[key]; !ok {
			order = append(order, key)
		}
		byPolicy[key] = append(byPolicy[key], a)
	}

	out := cbor.MapHeader(len(order))
	for _, key := range order {
		group := byPolicy[key]
		out = append(out, cbor.ByteString([]byte(key))...)
		inner := cbor.MapHeader(len(group))
		for _, a := range group {
			inner = append(inner, cbor.ByteString(a.AssetName)...)
			inner = append(inner, cbor.UnsignedInt(a.Amount.Uint64())...)
		}
		out = append(out, inner...)
	}
	return out
}

func decodeCardanoPayload(addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil || hrp != "addr" {
		return nil, err
	}
	return bech32.ConvertBits(data, 5, 8, false)
}

func privateKeyFromSeedOrKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, signer.InputInvalid("cardano: malformed private key")
	}
}
