// Package scale is a minimal SCALE (Simple Concatenated Aggregate
// Little-Endian) codec, covering the handful of encodings a Polkadot
// extrinsic needs: fixed-width little-endian integers, compact
// integers (including the big-integer mode beyond 2^30), and
// length-prefixed byte vectors. No Substrate/SCALE library exists
// anywhere in the retrieved pack, so this is built directly from the
// encoding's published rules, the same grounding approach
// internal/pbenc and internal/cbor take for their own wire formats.
package scale

import "math/big"

// FixedU32 encodes v as 4 little-endian bytes.
func FixedU32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// FixedU64 encodes v as 8 little-endian bytes.
func FixedU64(v uint64) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

// CompactUint64 encodes v using SCALE's compact integer format.
func CompactUint64(v uint64) []byte {
	return CompactBigInt(new(big.Int).SetUint64(v))
}

// CompactBigInt encodes an arbitrary non-negative integer using
// SCALE's compact format, including mode 3 ("big integer") for values
// at or beyond 2^30 — the mode every value from 2^30 up through
// arbitrary-precision integers like 2^64 uses.
func CompactBigInt(v *big.Int) []byte {
	switch {
	case v.Cmp(big.NewInt(64)) < 0:
		return []byte{byte(v.Uint64()<<2) | 0b00}
	case v.Cmp(big.NewInt(1<<14)) < 0:
		n := uint16(v.Uint64()<<2) | 0b01
		return []byte{byte(n), byte(n >> 8)}
	case v.Cmp(big.NewInt(1<<30)) < 0:
		n := uint32(v.Uint64()<<2) | 0b10
		return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
	default:
		raw := littleEndianBytes(v)
		header := byte((len(raw)-4)<<2) | 0b11
		return append([]byte{header}, raw...)
	}
}

// littleEndianBytes renders v as a minimal-length little-endian byte
// slice, left-padded to at least 4 bytes as SCALE's big-integer mode
// requires.
func littleEndianBytes(v *big.Int) []byte {
	be := v.Bytes()
	out := make([]byte, len(be))
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	if len(out) < 4 {
		padded := make([]byte, 4)
		copy(padded, out)
		out = padded
	}
	return out
}

// Bytes encodes a byte vector as a compact length prefix followed by
// the raw bytes, SCALE's Vec<u8> encoding.
func Bytes(b []byte) []byte {
	return append(CompactUint64(uint64(len(b))), b...)
}

// Concat joins encoded fields in sequence, mirroring internal/pbenc's helper.
func Concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
