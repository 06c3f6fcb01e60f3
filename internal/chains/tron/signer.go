// Package tron implements the Tron family signer (§4.4): native TRX
// transfers, TRC-20 token transfers, and pre-built raw transaction
// signing. Grounded on the teacher repo's GenerateTronAddress routine
// (Keccak256 of the uncompressed public key, 0x41 network prefix,
// base58check), carried over into internal/address, plus go-ethereum's
// secp256k1 recoverable-signature helpers already wired for the evm
// family.
package tron

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/pbenc"
	"github.com/coldsigner/core/internal/signer"
)

// defaultExpirationMillis is Tron's one-hour transaction validity
// window, applied when a caller does not supply an explicit
// expiration.
const defaultExpirationMillis = 3_600_000

type Chain struct{}

func New() signer.Chain { return &Chain{} }

func (c *Chain) Family() string { return "tron" }

func (c *Chain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer":      c.signTransfer,
		"signTokenTransfer": c.signTokenTransfer,
		"signDirect":        c.signDirect,
	}
}

type transferInput struct {
	ToAddress     string            `json:"toAddress"`
	Amount        signer.Amount     `json:"amount"`
	RefBlockBytes signer.ByteString `json:"refBlockBytes"`
	RefBlockHash  signer.ByteString `json:"refBlockHash"`
	Expiration    signer.Amount     `json:"expiration"`
	Timestamp     signer.Amount     `json:"timestamp"`
	PrivateKey    signer.ByteString `json:"privateKey"`
	ContractAddress string          `json:"contractAddress"`
}

// transferContractTypeURL/triggerSmartContractTypeURL are the Any
// message type_url values Tron full nodes expect inside Contract.parameter.
const (
	transferContractTypeURL       = "type.googleapis.com/protocol.TransferContract"
	triggerSmartContractTypeURL   = "type.googleapis.com/protocol.TriggerSmartContract"
	contractTypeTransfer          = 1
	contractTypeTriggerSmart      = 31
)

func (c *Chain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in transferInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("tron: malformed transaction description")
	}
	if len(in.PrivateKey) == 0 {
		return nil, signer.InputInvalid("tron: missing private key")
	}
	if in.ToAddress == "" {
		return nil, signer.InputInvalid("tron: missing toAddress")
	}

	owner, privKey, err := ownerFromPrivateKey(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	defer zeroECDSA(privKey)

	to, err := decodeTronAddress(in.ToAddress)
	if err != nil {
		return nil, signer.InputInvalid("tron: malformed toAddress")
	}

	contractParam := pbenc.Concat(
		pbenc.BytesField(1, owner),
		pbenc.BytesField(2, to),
		pbenc.VarintField(3, in.Amount.Uint64()),
	)
	contract := pbenc.Concat(
		pbenc.VarintField(1, contractTypeTransfer),
		pbenc.MessageField(2, anyMessage(transferContractTypeURL, contractParam)),
	)

	return buildAndSign(in, contract, privKey)
}

func (c *Chain) signTokenTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in transferInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("tron: malformed token transfer description")
	}
	if in.ContractAddress == "" {
		return nil, signer.InputInvalid("tron: signTokenTransfer requires contractAddress")
	}
	if in.ToAddress == "" {
		return nil, signer.InputInvalid("tron: missing toAddress")
	}
	if len(in.PrivateKey) == 0 {
		return nil, signer.InputInvalid("tron: missing private key")
	}

	owner, privKey, err := ownerFromPrivateKey(in.PrivateKey)
	if err != nil {
		return nil, err
	}
	defer zeroECDSA(privKey)

	contractAddr, err := decodeTronAddress(in.ContractAddress)
	if err != nil {
		return nil, signer.InputInvalid("tron: malformed contractAddress")
	}
	to, err := decodeTronAddress(in.ToAddress)
	if err != nil {
		return nil, signer.InputInvalid("tron: malformed toAddress")
	}

	// transfer(address,uint256), recipient and amount each left-padded
	// to 32 bytes; the recipient's 21-byte Tron form is trimmed back to
	// its raw 20-byte EVM-style payload first.
	data := make([]byte, 0, 4+32+32)
	data = append(data, 0xa9, 0x05, 0x9c, 0xbb)
	data = append(data, leftPad32(to[1:])...)
	data = append(data, leftPad32(in.Amount.BigEndian())...)

	contractParam := pbenc.Concat(
		pbenc.BytesField(1, owner),
		pbenc.BytesField(2, contractAddr),
		pbenc.BytesField(4, data),
	)
	contract := pbenc.Concat(
		pbenc.VarintField(1, contractTypeTriggerSmart),
		pbenc.MessageField(2, anyMessage(triggerSmartContractTypeURL, contractParam)),
	)

	return buildAndSign(in, contract, privKey)
}

type directInput struct {
	RawData    signer.ByteString `json:"rawData"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

// signDirect signs a raw_data payload the caller already assembled,
// for contract types this signer does not model directly.
func (c *Chain) signDirect(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in directInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("tron: malformed raw transaction description")
	}
	if len(in.RawData) == 0 {
		return nil, signer.InputInvalid("tron: missing rawData")
	}
	if len(in.PrivateKey) == 0 {
		return nil, signer.InputInvalid("tron: missing private key")
	}

	privKey, err := crypto.ToECDSA(in.PrivateKey)
	if err != nil {
		return nil, signer.InputInvalid("tron: malformed private key")
	}
	defer zeroECDSA(privKey)

	return signAndWrap(in.RawData, privKey)
}

func buildAndSign(in transferInput, contract []byte, privKey *ecdsa.PrivateKey) (*signer.Result, error) {
	if len(in.RefBlockBytes) != 2 {
		return nil, signer.InputInvalid("tron: refBlockBytes must be 2 bytes")
	}
	if len(in.RefBlockHash) != 8 {
		return nil, signer.InputInvalid("tron: refBlockHash must be 8 bytes")
	}

	expiration := in.Expiration.Uint64()
	if expiration == 0 {
		expiration = in.Timestamp.Uint64() + defaultExpirationMillis
	}

	rawData := pbenc.Concat(
		pbenc.BytesField(1, in.RefBlockBytes),
		pbenc.BytesField(2, in.RefBlockHash),
		pbenc.VarintField(8, expiration),
		pbenc.MessageField(11, contract),
		pbenc.VarintField(14, in.Timestamp.Uint64()),
	)

	return signAndWrap(rawData, privKey)
}

func signAndWrap(rawData []byte, privKey *ecdsa.PrivateKey) (*signer.Result, error) {
	txID := sha256.Sum256(rawData)

	sig, err := crypto.Sign(txID[:], privKey)
	if err != nil {
		return nil, signer.SigningFailed("tron: " + err.Error())
	}
	if len(sig) != 65 {
		return nil, signer.OutputInvalid("tron: malformed signature length")
	}

	transaction := pbenc.Concat(
		pbenc.MessageField(1, rawData),
		pbenc.BytesField(2, sig),
	)

	return &signer.Result{
		Encoded: signer.EncodeHex0x(transaction),
		Extend: map[string]interface{}{
			"txID":      signer.EncodeHex0x(txID[:]),
			"signature": signer.EncodeHex0x(sig),
		},
	}, nil
}

// anyMessage wraps payload in a minimal google.protobuf.Any (type_url
// field 1, value field 2), the envelope Tron's Contract.parameter uses.
func anyMessage(typeURL string, payload []byte) []byte {
	return pbenc.Concat(
		pbenc.StringField(1, typeURL),
		pbenc.BytesField(2, payload),
	)
}

func ownerFromPrivateKey(raw []byte) ([]byte, *ecdsa.PrivateKey, error) {
	privKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, nil, signer.InputInvalid("tron: malformed private key")
	}
	secpPub, err := address.PubKeyFromECDSA(&privKey.PublicKey)
	if err != nil {
		return nil, nil, signer.InputInvalid("tron: malformed private key")
	}
	addr := address.Tron(secpPub)
	owner, derr := decodeTronAddress(addr)
	if derr != nil {
		return nil, nil, signer.InternalErrorf("tron: %s", derr.Error())
	}
	return owner, privKey, nil
}

// decodeTronAddress decodes a base58check Txxx address into its raw
// 21-byte form (0x41 network prefix + 20-byte Keccak-256-derived
// account id).
func decodeTronAddress(s string) ([]byte, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, err
	}
	return append([]byte{version}, payload...), nil
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func zeroECDSA(k *ecdsa.PrivateKey) {
	if k == nil || k.D == nil {
		return
	}
	k.D.SetInt64(0)
}
