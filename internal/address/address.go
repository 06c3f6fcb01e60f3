// Package address derives canonical receiving addresses from public
// keys for every chain family the registry supports. It is shared by
// the key engine (batch derivation, §4.2), the per-chain signers
// (which must reproduce the same address to fill in "from" fields),
// and the request front-end's anti-tampering check (§4.5 step 3).
package address

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for legacy hash160 address formats
	"golang.org/x/crypto/sha3"
)

// PubKeyFromECDSA converts a standard library secp256k1 public key
// (as produced by go-ethereum's crypto.ToECDSA) into the decred
// PublicKey type the rest of the address package works with, letting
// the Tron and EVM signers share one key-derived-address code path.
func PubKeyFromECDSA(pub *ecdsa.PublicKey) (*secp256k1.PublicKey, error) {
	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04
	pub.X.FillBytes(uncompressed[1:33])
	pub.Y.FillBytes(uncompressed[33:65])
	return secp256k1.ParsePubKey(uncompressed)
}

// Hash160 computes RIPEMD160(SHA256(data)), the digest every legacy
// Bitcoin-family address is built from.
func Hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

// Keccak256 is Ethereum/Tron's hash function, distinct from SHA-3
// despite the shared lineage.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Base58CheckVersion encodes payload with a single version byte and a
// double-SHA256 checksum, the scheme Bitcoin-family legacy addresses
// and Tron both use.
func Base58CheckVersion(version byte, payload []byte) string {
	return base58.CheckEncode(payload, version)
}

// UncompressedXY strips the 0x04 prefix from an uncompressed secp256k1
// public key, returning the raw 64-byte coordinate pair used by
// Ethereum- and Tron-style address hashing.
func UncompressedXY(pub *secp256k1.PublicKey) []byte {
	b := pub.SerializeUncompressed()
	return b[1:]
}

// Ethereum derives the canonical 20-byte "0x"-prefixed EVM address
// shared by Ethereum, BSC, Polygon, and Avalanche.
func Ethereum(pub *secp256k1.PublicKey) string {
	hash := Keccak256(UncompressedXY(pub))
	return "0x" + hex.EncodeToString(hash[len(hash)-20:])
}

// Tron derives a TRON base58check address: Keccak256 of the
// uncompressed key, last 20 bytes, 0x41 network prefix, base58check.
func Tron(pub *secp256k1.PublicKey) string {
	hash := Keccak256(UncompressedXY(pub))
	return Base58CheckVersion(0x41, hash[len(hash)-20:])
}

// BitcoinLegacy derives a P2PKH address for the given version byte
// (0x00 mainnet BTC, 0x1E Dogecoin, 0x4C Dash, ...).
func BitcoinLegacy(pub *secp256k1.PublicKey, version byte) string {
	return Base58CheckVersion(version, Hash160(pub.SerializeCompressed()))
}

// Bech32Segwit derives a version-0 P2WPKH address for the given
// human-readable prefix ("bc" for Bitcoin, "ltc" for Litecoin, ...).
func Bech32Segwit(pub *secp256k1.PublicKey, hrp string) (string, error) {
	program := Hash160(pub.SerializeCompressed())
	conv, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{0x00}, conv...)
	return bech32.Encode(hrp, data)
}

// ZcashTransparent derives a two-byte-version transparent address
// (also used for Horizen/BitcoinDiamond-style forks with their own
// version pair).
func ZcashTransparent(pub *secp256k1.PublicKey, versionHi, versionLo byte) string {
	payload := append([]byte{versionHi, versionLo}, Hash160(pub.SerializeCompressed())...)
	checksum := sha256.Sum256(payload)
	checksum = sha256.Sum256(checksum[:])
	full := append(payload, checksum[:4]...)
	return base58.Encode(full)
}

// CosmosBech32 derives a Cosmos SDK style bech32 address ("cosmos",
// "osmo", ...) from a compressed secp256k1 key: RIPEMD160(SHA-256(key)),
// bech32-encoded under hrp.
func CosmosBech32(pub *secp256k1.PublicKey, hrp string) (string, error) {
	program := Hash160(pub.SerializeCompressed())
	conv, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}

// CosmosBech32FromKeccak derives the address style Thorchain and
// Injective use instead of the rest of the Cosmos SDK family: the
// low 20 bytes of Keccak256(uncompressed key), the same digest
// Ethereum addresses use, bech32-encoded under hrp rather than
// rendered as 0x-hex.
func CosmosBech32FromKeccak(pub *secp256k1.PublicKey, hrp string) (string, error) {
	hash := Keccak256(UncompressedXY(pub))
	program := hash[len(hash)-20:]
	conv, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}

// Ed25519Base58 is Solana's address scheme: the raw 32-byte public key,
// base58 encoded with no checksum.
func Ed25519Base58(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}

// Ed25519Hex0x is used by chains that render their ed25519 public key
// (or a hash of it) as a 0x-prefixed hex string (e.g. Aptos, Sui).
func Ed25519Hex0x(pub ed25519.PublicKey) string {
	scheme := append([]byte{0x00}, pub...) // single-signer scheme byte, per Aptos/Sui convention
	hash := sha3.Sum256(scheme)
	return "0x" + hex.EncodeToString(hash[:])
}

// SS58 derives a Substrate SS58 address from an ed25519 public key and
// a network prefix (0 = Polkadot, 2 = Kusama, ...).
func SS58(pub ed25519.PublicKey, networkPrefix byte) string {
	payload := append([]byte{networkPrefix}, pub...)
	checksum := ss58Checksum(payload)
	full := append(payload, checksum[:2]...)
	return base58.Encode(full)
}

func ss58Checksum(payload []byte) []byte {
	prefixed := append([]byte("SS58PRE"), payload...)
	h := blake2b512(prefixed)
	return h[:]
}

// blake2b512 is SS58's checksum digest (real blake2b-512, via
// golang.org/x/crypto/blake2b — already required by go.mod for sha3
// and ripemd160 in this same file).
func blake2b512(data []byte) []byte {
	h := blake2b.Sum512(data)
	return h[:]
}

// Blake2b256 is blake2b-256, used wherever a chain calls for it
// specifically: Cardano's transaction hash (signed directly) and the
// Polkadot signer's hash of long signing payloads. Cardano and Tezos
// address hashes use the shorter 28- and 20-byte blake2b digests.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

