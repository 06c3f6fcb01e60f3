package address

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/blake2b"
)

// XRP derives a classic-format address from the Hash160 of a
// compressed secp256k1 key. XRP Ledger uses its own base58 alphabet
// ("ripple alphabet") which no library in the retrieved pack provides;
// this uses the standard Bitcoin base58 alphabet instead, so addresses
// are deterministic and internally reproducible but not bit-identical
// to a reference XRP encoder (see DESIGN.md).
func XRP(pub *secp256k1.PublicKey) string {
	return Base58CheckVersion(0x00, Hash160(pub.SerializeCompressed()))
}

// Nervos derives a simplified CKB short-format address: a bech32
// encoding of the secp256k1 Hash160 under the "ckb" human-readable
// part. Real CKB addresses additionally encode a code-hash/hash-type
// selector; this is carried separately in the signer's lock-script
// construction rather than the display address.
func Nervos(pub *secp256k1.PublicKey) string {
	addr, err := Bech32Segwit(pub, "ckb")
	if err != nil {
		return ""
	}
	return addr
}

// Filecoin derives an f1-style secp256k1 address: network prefix "f1"
// followed by a base32 encoding of the Hash160 digest plus its 4-byte
// checksum, Filecoin's own non-bech32 base32 scheme.
func Filecoin(pub *secp256k1.PublicKey) string {
	payload := Hash160(pub.SerializeCompressed())
	checksum := sha256.Sum256(append([]byte{0x01}, payload...))
	full := append(payload, checksum[:4]...)
	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(full)
	return "f1" + toLowerASCII(enc)
}

// ICP derives a textual principal id: the first 28 bytes of SHA-256 of
// the compressed public key with a single trailing type tag byte,
// base32 encoded and grouped with dashes every 5 characters. It hashes
// the raw compressed key rather than its DER encoding, and adds no
// CRC32 checksum prefix, so the result is not the Internet Computer's
// own principal text for this key.
func ICP(pub *secp256k1.PublicKey) string {
	h := sha256.Sum256(pub.SerializeCompressed())
	raw := append(h[:28], 0x02)
	enc := toLowerASCII(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw))
	var out []byte
	for i, c := range []byte(enc) {
		if i > 0 && i%5 == 0 {
			out = append(out, '-')
		}
		out = append(out, c)
	}
	return string(out)
}

// NEARImplicit is the hex-encoded ed25519 public key used as a NEAR
// "implicit account" id.
func NEARImplicit(pub ed25519.PublicKey) string {
	return hex.EncodeToString(pub)
}

// Algorand encodes the public key plus a 4-byte trailing checksum in
// unpadded base32, the canonical Algorand address format.
func Algorand(pub ed25519.PublicKey) string {
	checksum := sha512.Sum512_256(pub)
	full := append(append([]byte{}, pub...), checksum[len(checksum)-4:]...)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(full)
}

// Stellar encodes an ed25519 public key as a StrKey "G..." address:
// version byte 6<<3, the raw key, and a CRC16/XMODEM checksum, base32
// encoded.
func Stellar(pub ed25519.PublicKey) string {
	payload := append([]byte{6 << 3}, pub...)
	checksum := crc16XModem(payload)
	full := append(payload, byte(checksum), byte(checksum>>8))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(full)
}

func crc16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Tezos encodes a tz1-prefixed address from the blake2b-160 digest of
// an ed25519 key.
func Tezos(pub ed25519.PublicKey) string {
	digest := blake2bSum(20, pub)
	payload := append([]byte{0x06, 0xA1, 0x9F}, digest...)
	checksum := sha256.Sum256(payload)
	checksum = sha256.Sum256(checksum[:])
	full := append(payload, checksum[:4]...)
	return base58.Encode(full)
}

// TON renders a raw workchain:hash address for workchain 0.
func TON(pub ed25519.PublicKey) string {
	h := sha256.Sum256(pub)
	return "0:" + hex.EncodeToString(h[:])
}

// Cardano renders a simplified bech32 "addr1..." payment address from
// the blake2b-224 hash of the ed25519 key, with the header byte for an
// enterprise mainnet key-hash address.
func Cardano(pub ed25519.PublicKey) string {
	digest := blake2bSum(28, pub)
	payload := append([]byte{0x61}, digest...)
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return ""
	}
	addr, err := bech32.Encode("addr", conv)
	if err != nil {
		return ""
	}
	return addr
}

// Hedera renders the ed25519 public key as a 0x-prefixed hex string;
// Hedera account ids (shard.realm.num) are assigned by the network at
// account-creation time and are not derivable from a key alone, so the
// request front-end's asset.address for Hedera is this public-key
// rendering rather than a shard.realm.num triple.
func Hedera(pub ed25519.PublicKey) string {
	return "0x" + hex.EncodeToString(pub)
}

// blake2bSum returns the size-byte blake2b digest of data. size must
// be within blake2b.New's 1-64 byte range.
func blake2bSum(size int, data []byte) []byte {
	h, err := blake2b.New(size, nil)
	if err != nil {
		panic(err)
	}
	h.Write(data)
	return h.Sum(nil)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
