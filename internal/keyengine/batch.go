package keyengine

import (
	"github.com/coldsigner/core/internal/address"
	"github.com/coldsigner/core/internal/registry"
	"github.com/coldsigner/core/internal/signer"
)

// KeyMaterial is one row of a get_keys_batch response.
type KeyMaterial struct {
	Coin              string `json:"coin"`
	Symbol            string `json:"symbol"`
	Address           string `json:"address"`
	Path              string `json:"path"`
	ExtendedPublicKey string `json:"extendedPublicKey,omitempty"`
	Error             string `json:"error,omitempty"`
}

// DeriveBatch implements §4.2's derive_batch: for every coin the
// registry currently permits, derive its canonical public key material
// at the registered path. Per-coin failures are captured into that
// coin's row rather than aborting the whole batch.
func DeriveBatch(reg *registry.Registry, mnemonic, passphrase string, num int) []KeyMaterial {
	seed, err := Seed(mnemonic, passphrase)
	if err != nil {
		return []KeyMaterial{{Error: err.Error()}}
	}
	secret := NewSecretBuffer(seed)
	defer secret.Release()

	results := make([]KeyMaterial, 0, len(reg.Iterate()))
	for _, c := range reg.Iterate() {
		switch c.Curve {
		case registry.Secp256k1:
			results = append(results, deriveSecp256k1Row(c, secret.Bytes()))
		case registry.Ed25519:
			results = append(results, deriveEd25519Rows(c, secret.Bytes(), num)...)
		default:
			results = append(results, KeyMaterial{Coin: c.ID, Error: "derivation: unknown curve"})
		}
	}
	return results
}

func deriveSecp256k1Row(c registry.Coin, seed []byte) KeyMaterial {
	d := c.PrimaryDerivation()
	segments, err := ParsePath(d.Path)
	if err != nil {
		return KeyMaterial{Coin: c.ID, Error: err.Error()}
	}
	key, err := DeriveSecp256k1(seed, segments)
	if err != nil {
		return KeyMaterial{Coin: c.ID, Error: err.Error()}
	}
	defer Zero(key.Key)

	priv := PrivateKey(key)
	defer priv.Zero()

	addr, err := address.ForSecp256k1Coin(c.ID, c.Blockchain, priv.PubKey())
	if err != nil {
		return KeyMaterial{Coin: c.ID, Error: err.Error()}
	}

	xpub := ExtendedPublicKey(key, registry.VersionBytes(d.Version))
	return KeyMaterial{
		Coin:              c.ID,
		Symbol:            c.Symbol,
		Address:           addr,
		Path:              d.Path,
		ExtendedPublicKey: xpub,
	}
}

func deriveEd25519Rows(c registry.Coin, seed []byte, num int) []KeyMaterial {
	d := c.PrimaryDerivation()
	base, err := ParsePath(d.Path)
	if err != nil {
		return []KeyMaterial{{Coin: c.ID, Error: err.Error()}}
	}

	rows := make([]KeyMaterial, 0, num)
	for i := 0; i < num; i++ {
		segments := WithHardenedLastSegment(base, uint32(i))
		pub, priv, err := DeriveEd25519(seed, segments)
		if err != nil {
			rows = append(rows, KeyMaterial{Coin: c.ID, Error: err.Error()})
			continue
		}
		addr, err := address.ForEd25519Coin(c.ID, c.Blockchain, pub)
		Zero(priv)
		if err != nil {
			rows = append(rows, KeyMaterial{Coin: c.ID, Error: err.Error()})
			continue
		}
		rows = append(rows, KeyMaterial{
			Coin:    c.ID,
			Symbol:  c.Symbol,
			Address: addr,
			Path:    String(segments),
		})
	}
	return rows
}

// DeriveForSigning derives the private key material the request
// front-end needs at asset.derivation_path for a single coin (§4.5
// step 2), returning raw bytes the caller must zeroize via the
// returned release function.
func DeriveForSigning(c registry.Coin, seed []byte, path string, edIndex uint32) (privateKey []byte, publicAddress string, release func(), err error) {
	segments, perr := ParsePath(path)
	if perr != nil {
		return nil, "", func() {}, perr
	}
	switch c.Curve {
	case registry.Secp256k1:
		key, derr := DeriveSecp256k1(seed, segments)
		if derr != nil {
			return nil, "", func() {}, derr
		}
		priv := PrivateKey(key)
		addr, aerr := address.ForSecp256k1Coin(c.ID, c.Blockchain, priv.PubKey())
		raw := priv.Serialize()
		release = func() {
			Zero(key.Key)
			priv.Zero()
			Zero(raw)
		}
		if aerr != nil {
			release()
			return nil, "", func() {}, aerr
		}
		return raw, addr, release, nil
	case registry.Ed25519:
		segments = WithHardenedLastSegment(segments, edIndex)
		pub, priv, derr := DeriveEd25519(seed, segments)
		if derr != nil {
			return nil, "", func() {}, derr
		}
		addr, aerr := address.ForEd25519Coin(c.ID, c.Blockchain, pub)
		release = func() { Zero(priv) }
		if aerr != nil {
			release()
			return nil, "", func() {}, aerr
		}
		return append([]byte{}, priv...), addr, release, nil
	default:
		return nil, "", func() {}, signer.New(signer.KindDerivationFailed, "derivation: unknown curve")
	}
}
