// Package registry implements the Chain Registry: an immutable catalogue
// of coin descriptors loaded once at startup, with deny-list/allow-list
// filtering and extended-key version-tag resolution.
package registry

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/coldsigner/core/internal/clog"
	"github.com/coldsigner/core/internal/signer"
)

//go:embed coins.json
var embeddedCoins []byte

// Curve identifies the elliptic curve family a coin's derivation uses.
type Curve string

const (
	Secp256k1 Curve = "secp256k1"
	Ed25519   Curve = "ed25519"
)

// Derivation pairs a canonical path with the extended-key version tag
// used to serialize its public key.
type Derivation struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// Coin is one entry of the chain registry.
type Coin struct {
	ID         string       `json:"id"`
	Blockchain string       `json:"blockchain"`
	Curve      Curve        `json:"curve"`
	CoinType   uint32       `json:"coinType"`
	Derivation []Derivation `json:"derivation"`
	Symbol     string       `json:"symbol"`
	Name       string       `json:"name"`
	Decimals   int          `json:"decimals"`
}

// PrimaryDerivation returns derivation[0], the entry every operation in
// §4.1/§4.2 uses for key derivation.
func (c Coin) PrimaryDerivation() Derivation {
	if len(c.Derivation) == 0 {
		return Derivation{Path: "m", Version: "xpub"}
	}
	return c.Derivation[0]
}

// versionBytes is the fixed extended-key version table from §4.1.
// Unknown tags fall back to xpub.
var versionBytes = map[string][4]byte{
	"xpub": {0x04, 0x88, 0xB2, 0x1E},
	"xprv": {0x04, 0x88, 0xAD, 0xE4},
	"ypub": {0x04, 0x9D, 0x7C, 0xB2},
	"Ypub": {0x02, 0x95, 0xB4, 0x3F},
	"zpub": {0x04, 0xB2, 0x47, 0x46},
	"Zpub": {0x02, 0xAA, 0x7E, 0xD3},
	"dgub": {0x02, 0xFA, 0xCA, 0xFD},
	"Ltub": {0x01, 0x9D, 0xA4, 0x62},
	"tpub": {0x04, 0x35, 0x87, 0xCF},
}

// VersionBytes resolves a version tag to its 4-byte BIP-32 prefix.
// A missing or unknown tag is a warning, not a failure: it falls back
// to xpub per §4.1's failure semantics.
func VersionBytes(tag string) [4]byte {
	if v, ok := versionBytes[tag]; ok {
		return v
	}
	clog.Warn("unknown extended-key version tag, falling back to xpub",
		clog.Field("tag", tag))
	return versionBytes["xpub"]
}

// denyList is the registry's permanent policy deny-list (§9 open
// question, resolved in DESIGN.md): nimiq has no activation path
// anywhere in the request schema, so the deny-list entry is treated as
// permanent rather than transitional.
var denyList = map[string]struct{}{
	"nimiq": {},
}

// Registry is the immutable, loaded-once coin catalogue.
type Registry struct {
	coins     []Coin
	byID      map[string]Coin
	allowList map[string]struct{} // nil means "no allow-list configured"
}

// Load parses a registry document (an array of Coin). A parse failure
// is fatal to the caller, per §6.
func Load(data []byte) (*Registry, error) {
	var coins []Coin
	if err := json.Unmarshal(data, &coins); err != nil {
		return nil, signer.Wrap(signer.KindInternalError, err, "registry: parse failure")
	}
	r := &Registry{
		coins: coins,
		byID:  make(map[string]Coin, len(coins)),
	}
	for _, c := range coins {
		r.byID[strings.ToLower(c.ID)] = c
	}
	return r, nil
}

// LoadEmbedded loads the registry baked into the binary at build time.
// It is the fallback used when no external registry file is found next
// to the executable (§6).
func LoadEmbedded() (*Registry, error) {
	return Load(embeddedCoins)
}

// WithAllowList returns a copy of the registry restricted to the given
// coin ids. An empty/nil allow-list means "no restriction". When both a
// deny-list and an allow-list are present the allow-list wins, per §4.1.
func (r *Registry) WithAllowList(ids []string) *Registry {
	if len(ids) == 0 {
		return r
	}
	allow := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allow[strings.ToLower(id)] = struct{}{}
	}
	clone := *r
	clone.allowList = allow
	return &clone
}

// Lookup resolves a coin id. A missing coin is a fatal UnknownCoin
// error for the caller to raise; Lookup itself just reports presence.
func (r *Registry) Lookup(id string) (Coin, bool) {
	c, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return Coin{}, false
	}
	if !r.permitted(c.ID) {
		return Coin{}, false
	}
	return c, true
}

func (r *Registry) permitted(id string) bool {
	id = strings.ToLower(id)
	if r.allowList != nil {
		_, ok := r.allowList[id]
		return ok
	}
	_, denied := denyList[id]
	return !denied
}

// Iterate returns every coin currently permitted by the deny/allow-list
// configuration, in registry order (§5: get_keys_batch must preserve
// this order).
func (r *Registry) Iterate() []Coin {
	out := make([]Coin, 0, len(r.coins))
	for _, c := range r.coins {
		if r.permitted(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
