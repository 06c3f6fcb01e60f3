package keyengine

import (
	"strconv"
	"strings"

	"github.com/coldsigner/core/internal/signer"
)

// HardenedOffset is BIP-32's high bit, added to an index to mark it
// hardened. Ported from the teacher's bip44.go constant.
const HardenedOffset uint32 = 0x80000000

// PathSegment is one level of a derivation path.
type PathSegment struct {
	Index    uint32
	Hardened bool
}

// Value returns the raw uint32 child index to hand to a BIP-32
// implementation, with the hardened bit applied if needed.
func (s PathSegment) Value() uint32 {
	if s.Hardened {
		return s.Index + HardenedOffset
	}
	return s.Index
}

// ParsePath parses a "m/44'/0'/0'/0/0" style path into its segments.
// Generalizes the teacher's DeriveKeyFromPath, which hard-coded the
// five BIP-44 levels, into a routine that accepts any registry path.
func ParsePath(path string) ([]PathSegment, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, signer.New(signer.KindDerivationFailed, "derivation path must start with \"m\"")
	}
	segments := make([]PathSegment, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") || strings.HasSuffix(p, "H")
		trimmed := strings.TrimRight(p, "'hH")
		idx, err := strconv.ParseUint(trimmed, 10, 32)
		if err != nil {
			return nil, signer.Wrap(signer.KindDerivationFailed, err, "invalid derivation path segment \""+p+"\"")
		}
		segments = append(segments, PathSegment{Index: uint32(idx), Hardened: hardened})
	}
	return segments, nil
}

// WithHardenedLastSegment replaces the final path segment's index with
// i, forcing it hardened. ed25519 derivation requires every segment to
// be hardened (§4.2): "hardening of the last segment is mandatory".
func WithHardenedLastSegment(segments []PathSegment, i uint32) []PathSegment {
	out := make([]PathSegment, len(segments))
	copy(out, segments)
	if len(out) == 0 {
		return out
	}
	out[len(out)-1] = PathSegment{Index: i, Hardened: true}
	return out
}

// String renders segments back into "m/44'/0'/..." form.
func String(segments []PathSegment) string {
	var b strings.Builder
	b.WriteString("m")
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(s.Index), 10))
		if s.Hardened {
			b.WriteString("'")
		}
	}
	return b.String()
}
