package address

import (
	"crypto/ed25519"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/coldsigner/core/internal/signer"
)

var cosmosHRP = map[string]string{
	"cosmoshub":     "cosmos",
	"osmosis":       "osmo",
	"kava":          "kava",
	"band":          "band",
	"agoric":        "agoric",
	"bluzelle":      "bluzelle",
	"cryptoorg":     "cro",
	"stargaze":      "stars",
	"secretnetwork": "secret",
	"terra":         "terra",
	"thorchain":     "thor",
	"kujira":        "kuji",
	"sei":           "sei",
	"injective":     "inj",
}

var ss58Prefix = map[string]byte{
	"polkadot": 0,
	"kusama":   2,
	"acala":    10,
	"polymesh": 12,
}

var utxoLegacyVersion = map[string]byte{
	"dogecoin":       0x1E,
	"dash":           0x4C,
	"bitcoincash":    0x00,
	"bitcoindiamond": 0x00,
}

var utxoSegwitHRP = map[string]string{
	"bitcoin":     "bc",
	"litecoin":    "ltc",
	"groestlcoin": "grs",
}

// ForSecp256k1Coin derives the canonical address for a secp256k1-curve
// coin, dispatching on coin id first and blockchain family second, the
// same precedence the signer dispatcher uses (§4.3).
func ForSecp256k1Coin(coinID, blockchain string, pub *secp256k1.PublicKey) (string, error) {
	switch coinID {
	case "tron":
		return Tron(pub), nil
	case "xrp":
		return XRP(pub), nil
	case "nervos":
		return Nervos(pub), nil
	case "filecoin":
		return Filecoin(pub), nil
	case "icp":
		return ICP(pub), nil
	case "zcash":
		return ZcashTransparent(pub, 0x1C, 0xB8), nil
	case "horizen":
		return ZcashTransparent(pub, 0x20, 0x89), nil
	}
	if hrp, ok := utxoSegwitHRP[coinID]; ok {
		return Bech32Segwit(pub, hrp)
	}
	if version, ok := utxoLegacyVersion[coinID]; ok {
		return BitcoinLegacy(pub, version), nil
	}
	if blockchain == "evm" {
		return Ethereum(pub), nil
	}
	if blockchain == "cosmos" {
		hrp := cosmosHRP[coinID]
		if hrp == "" {
			hrp = "cosmos"
		}
		if coinID == "thorchain" || coinID == "injective" {
			return CosmosBech32FromKeccak(pub, hrp)
		}
		return CosmosBech32(pub, hrp)
	}
	return "", signer.New(signer.KindDerivationFailed, "address: no secp256k1 address rule for coin \""+coinID+"\"")
}

// ForEd25519Coin derives the canonical address for an ed25519-curve
// coin.
func ForEd25519Coin(coinID, blockchain string, pub ed25519.PublicKey) (string, error) {
	switch coinID {
	case "solana":
		return Ed25519Base58(pub), nil
	case "aptos", "sui":
		return Ed25519Hex0x(pub), nil
	case "near":
		return NEARImplicit(pub), nil
	case "algorand":
		return Algorand(pub), nil
	case "stellar":
		return Stellar(pub), nil
	case "tezos":
		return Tezos(pub), nil
	case "ton":
		return TON(pub), nil
	case "cardano":
		return Cardano(pub), nil
	case "hedera":
		return Hedera(pub), nil
	case "nimiq":
		return Ed25519Hex0x(pub), nil
	}
	if prefix, ok := ss58Prefix[blockchain]; ok {
		return SS58(pub, prefix), nil
	}
	return "", signer.New(signer.KindDerivationFailed, "address: no ed25519 address rule for coin \""+coinID+"\"")
}
