package request

import (
	"encoding/json"
	"strings"

	"github.com/coldsigner/core/internal/dispatch"
	"github.com/coldsigner/core/internal/keyengine"
	"github.com/coldsigner/core/internal/registry"
	"github.com/coldsigner/core/internal/signer"
)

// Handle runs req to completion against reg and d, returning the bytes
// for exactly one of the two output streams plus the process exit code
// (§4.5, §6): stdout on success, stderr on failure.
func Handle(req Request, reg *registry.Registry, d *dispatch.Dispatcher) (stdout, stderr []byte, exitCode int) {
	switch req.Command {
	case CommandGenerateMnemonic:
		mnemonic, err := keyengine.MnemonicFromEntropy(req.Entropy)
		if err != nil {
			return nil, EncodeError(req.Command, err), 1
		}
		return encodeMnemonic(mnemonic), nil, 0

	case CommandValidateMnemonic:
		return encodeValidity(keyengine.ValidateMnemonic(req.Mnemonic)), nil, 0

	case CommandGetKeysBatch:
		if req.Mnemonic == "" {
			return nil, EncodeError(req.Command, signer.New(signer.KindInputParseError, "get_keys_batch: missing mnemonic")), 1
		}
		return encodeBatch(keyengine.DeriveBatch(reg, req.Mnemonic, req.Passphrase, req.Num)), nil, 0

	case CommandSignTransaction:
		result, err := signTransaction(req, reg, d)
		if err != nil {
			return nil, EncodeError(req.Command, err), 1
		}
		return encodeSignResult(result), nil, 0

	default:
		err := signer.New(signer.KindUnknownCommand, "unrecognised command \""+string(req.Command)+"\"")
		return nil, EncodeError(req.Command, err), 1
	}
}

func signTransaction(req Request, reg *registry.Registry, d *dispatch.Dispatcher) (*signer.Result, error) {
	coin, ok := reg.Lookup(req.Asset.Coin)
	if !ok {
		return nil, signer.New(signer.KindUnknownCoin, "unknown coin \""+req.Asset.Coin+"\"")
	}

	seed, err := keyengine.Seed(req.Mnemonic, req.Passphrase)
	if err != nil {
		return nil, err
	}
	seedBuf := keyengine.NewSecretBuffer(seed)
	defer seedBuf.Release()

	segments, err := keyengine.ParsePath(req.Asset.DerivationPath)
	if err != nil {
		return nil, err
	}
	var edIndex uint32
	if len(segments) > 0 {
		edIndex = segments[len(segments)-1].Index
	}

	privateKey, derivedAddress, release, err := keyengine.DeriveForSigning(coin, seedBuf.Bytes(), req.Asset.DerivationPath, edIndex)
	if err != nil {
		return nil, err
	}
	defer release()

	if coin.Curve == registry.Secp256k1 {
		if !strings.EqualFold(derivedAddress, req.Asset.Address) {
			return nil, signer.New(signer.KindAddressMismatch, "derived address does not match asset.address for coin \""+coin.ID+"\"")
		}
	}
	// For ed25519 curves the anti-tampering check is delegated to the
	// controller; this front-end does not silently reproduce it.

	txData, err := injectPrivateKey(req.TxData, coin, req.Asset.Address, privateKey)
	if err != nil {
		return nil, err
	}

	return d.Sign(coin.ID, coin.Blockchain, req.Method, txData, coin.CoinType)
}

// injectPrivateKey adds the derived key material to txData under the
// field name §4.5 step 4 names for coin's blockchain family.
func injectPrivateKey(txData json.RawMessage, coin registry.Coin, assetAddress string, privateKey []byte) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(txData) > 0 {
		if err := json.Unmarshal(txData, &fields); err != nil {
			return nil, signer.InputInvalid("sign_transaction: txData must be a JSON object")
		}
	}

	keyHex, err := json.Marshal(signer.EncodeHex0x(privateKey))
	if err != nil {
		return nil, signer.InternalErrorf("sign_transaction: cannot encode private key field: %v", err)
	}

	switch coin.Blockchain {
	case "utxo":
		keys, err := json.Marshal([]string{signer.EncodeHex0x(privateKey)})
		if err != nil {
			return nil, signer.InternalErrorf("sign_transaction: cannot encode privateKeys field: %v", err)
		}
		fields["privateKeys"] = keys
	case "xrp":
		addr, err := json.Marshal(assetAddress)
		if err != nil {
			return nil, signer.InternalErrorf("sign_transaction: cannot encode fromAddress field: %v", err)
		}
		fields["fromAddress"] = addr
		fields["privateKey"] = keyHex
	default:
		fields["privateKey"] = keyHex
	}

	return json.Marshal(fields)
}
