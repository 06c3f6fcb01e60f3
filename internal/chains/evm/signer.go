// Package evm implements the EVM family signer (§4.4): Ethereum, BSC,
// Polygon, Avalanche, and any other chain registered under the "evm"
// blockchain family share this one signer. Grounded on
// Jasonyou1995-simple-eth-hd-wallet's use of go-ethereum's
// core/types + crypto packages for RLP encoding and EIP-155 signing.
package evm

import (
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/coldsigner/core/internal/signer"
)

// Chain is the evm family's signer.Chain implementation.
type Chain struct{}

// New constructs the evm Chain signer. Registered once and cached by
// the dispatcher for the worker's lifetime.
func New() signer.Chain { return &Chain{} }

func (c *Chain) Family() string { return "evm" }

func (c *Chain) Methods() map[string]signer.Method {
	return map[string]signer.Method{
		"signTransfer":      c.signTransfer,
		"signTokenTransfer": c.signTokenTransfer,
		"signMessage":       c.signMessage,
	}
}

// transferInput is the chain-agnostic EVM transaction description from
// §4.4: numbers arrive via signer.Amount so decimal, "0x"-hex, and bare
// integer encodings are all accepted uniformly.
type transferInput struct {
	To                    string          `json:"to"`
	Amount                signer.Amount   `json:"amount"`
	GasLimit              signer.Amount   `json:"gasLimit"`
	GasPrice              *signer.Amount  `json:"gasPrice"`
	MaxFeePerGas          *signer.Amount  `json:"maxFeePerGas"`
	MaxInclusionFeePerGas *signer.Amount  `json:"maxInclusionFeePerGas"`
	Nonce                 signer.Amount   `json:"nonce"`
	ChainID               signer.Amount   `json:"chainId"`
	PrivateKey            signer.ByteString `json:"privateKey"`
	ContractAddress       string          `json:"contractAddress"`
	Data                  signer.ByteString `json:"data"`
}

func (c *Chain) signTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in transferInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("evm: malformed transaction description")
	}
	return sign(in)
}

// erc20TransferSelector is the first four bytes of
// keccak256("transfer(address,uint256)").
var erc20TransferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}

func (c *Chain) signTokenTransfer(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in transferInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("evm: malformed token transfer description")
	}
	if in.ContractAddress == "" {
		return nil, signer.InputInvalid("evm: signTokenTransfer requires contractAddress")
	}
	if !common.IsHexAddress(in.To) {
		return nil, signer.InputInvalid("evm: malformed recipient address")
	}

	data := make([]byte, 0, 4+32+32)
	data = append(data, erc20TransferSelector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(in.To).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(in.Amount.BigEndian(), 32)...)

	// The ERC-20 transfer encapsulates the recipient and amount in the
	// call data; the top-level recipient becomes the token contract and
	// the top-level value is zero (§4.4 EVM family).
	erc20 := in
	erc20.To = in.ContractAddress
	erc20.Amount = signer.NewAmount(0)
	erc20.Data = data
	return sign(erc20)
}

func sign(in transferInput) (*signer.Result, error) {
	if in.To == "" {
		return nil, signer.InputInvalid("evm: missing recipient")
	}
	if !common.IsHexAddress(in.To) {
		return nil, signer.InputInvalid("evm: malformed recipient address")
	}
	if len(in.PrivateKey) == 0 {
		return nil, signer.InputInvalid("evm: missing private key")
	}
	if in.ChainID.Sign() == 0 {
		return nil, signer.InputInvalid("evm: missing chainId")
	}

	privKey, err := crypto.ToECDSA(in.PrivateKey)
	if err != nil {
		return nil, signer.InputInvalid("evm: malformed private key")
	}
	defer zeroECDSA(privKey)

	to := common.HexToAddress(in.To)
	chainID := new(big.Int).Set(&in.ChainID.Int)

	var tx *types.Transaction
	var signerImpl types.Signer
	isEIP1559 := in.MaxFeePerGas != nil || in.MaxInclusionFeePerGas != nil

	if isEIP1559 {
		maxFee := bigOrZero(in.MaxFeePerGas)
		tip := bigOrZero(in.MaxInclusionFeePerGas)
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     in.Nonce.Uint64(),
			GasTipCap: tip,
			GasFeeCap: maxFee,
			Gas:       in.GasLimit.Uint64(),
			To:        &to,
			Value:     new(big.Int).Set(&in.Amount.Int),
			Data:      in.Data,
		})
		signerImpl = types.NewLondonSigner(chainID)
	} else {
		gasPrice := bigOrZero(in.GasPrice)
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    in.Nonce.Uint64(),
			GasPrice: gasPrice,
			Gas:      in.GasLimit.Uint64(),
			To:       &to,
			Value:    new(big.Int).Set(&in.Amount.Int),
			Data:     in.Data,
		})
		signerImpl = types.NewEIP155Signer(chainID)
	}

	signedTx, err := types.SignTx(tx, signerImpl, privKey)
	if err != nil {
		return nil, signer.SigningFailed("evm: " + err.Error())
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil || len(raw) == 0 {
		return nil, signer.OutputInvalid("evm: empty encoded transaction")
	}

	v, r, s := signedTx.RawSignatureValues()
	return &signer.Result{
		Encoded: signer.EncodeHex0x(raw),
		Extend: map[string]interface{}{
			"v":    v.String(),
			"r":    signer.EncodeHex0x(common.LeftPadBytes(r.Bytes(), 32)),
			"s":    signer.EncodeHex0x(common.LeftPadBytes(s.Bytes(), 32)),
			"hash": signedTx.Hash().Hex(),
		},
	}, nil
}

type messageInput struct {
	Message    string            `json:"message"`
	PrivateKey signer.ByteString `json:"privateKey"`
}

// signMessage implements the EIP-191 personal-sign prefix: §4.4 EVM
// family requires "\x19Ethereum Signed Message:\n" || len(message)
// prepended before Keccak-256 hashing.
func (c *Chain) signMessage(txData json.RawMessage, coinType uint32) (*signer.Result, error) {
	var in messageInput
	if err := json.Unmarshal(txData, &in); err != nil {
		return nil, signer.InputInvalid("evm: malformed message description")
	}
	if in.Message == "" {
		return nil, signer.InputInvalid("evm: missing message")
	}
	if len(in.PrivateKey) == 0 {
		return nil, signer.InputInvalid("evm: missing private key")
	}

	privKey, err := crypto.ToECDSA(in.PrivateKey)
	if err != nil {
		return nil, signer.InputInvalid("evm: malformed private key")
	}
	defer zeroECDSA(privKey)

	prefix := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(in.Message))
	hash := crypto.Keccak256([]byte(prefix + in.Message))

	sig, err := crypto.Sign(hash, privKey)
	if err != nil {
		return nil, signer.SigningFailed("evm: " + err.Error())
	}
	if len(sig) != 65 {
		return nil, signer.OutputInvalid("evm: malformed signature length")
	}
	sig[64] += 27 // recovery id rendered in the Ethereum convention

	return &signer.Result{
		Encoded: signer.EncodeHex0x(sig),
		Extend: map[string]interface{}{
			"r": signer.EncodeHex0x(sig[:32]),
			"s": signer.EncodeHex0x(sig[32:64]),
			"v": sig[64],
		},
	}, nil
}

func bigOrZero(a *signer.Amount) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(&a.Int)
}

func zeroECDSA(k *ecdsa.PrivateKey) {
	if k == nil || k.D == nil {
		return
	}
	k.D.SetInt64(0)
}
