package keyengine

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tyler-smith/go-bip32"

	"github.com/coldsigner/core/internal/signer"
)

// DeriveSecp256k1 walks seed through path using BIP-32, generalizing
// the teacher's hard-coded BIP-44 DeriveKeyFromPath into a routine that
// accepts any registry-declared path and any number of levels.
func DeriveSecp256k1(seed []byte, path []PathSegment) (*bip32.Key, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, signer.Wrap(signer.KindDerivationFailed, err, "secp256k1: master key derivation failed")
	}
	for _, seg := range path {
		key, err = key.NewChildKey(seg.Value())
		if err != nil {
			return nil, signer.Wrap(signer.KindDerivationFailed, err, "secp256k1: child key derivation failed")
		}
	}
	return key, nil
}

// PrivateKey converts a BIP-32 private key node into a secp256k1
// signing key, mirroring the teacher's keys.go step 5.
func PrivateKey(key *bip32.Key) *secp256k1.PrivateKey {
	return secp256k1.PrivKeyFromBytes(key.Key)
}

// ExtendedPublicKey serializes key's public counterpart under the
// given 4-byte version prefix, letting the registry's per-coin version
// tag (xpub/ypub/zpub/...) override go-bip32's hard-coded mainnet
// public version.
func ExtendedPublicKey(key *bip32.Key, version [4]byte) string {
	pub := key.PublicKey()
	pub.Version = append([]byte{}, version[:]...)
	return pub.B58Serialize()
}
