package scale

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactUint64SingleByteMode(t *testing.T) {
	assert.Equal(t, []byte{0}, CompactUint64(0))
	assert.Equal(t, []byte{252}, CompactUint64(63))
}

func TestCompactUint64TwoByteMode(t *testing.T) {
	encoded := CompactUint64(64)
	assert.Len(t, encoded, 2)
	assert.Equal(t, byte(0b01), encoded[0]&0b11)
}

func TestCompactBigIntHandlesPowerOfTwo64Boundary(t *testing.T) {
	// 2^64 cannot fit a uint64, so this exercises the big-integer mode
	// with a value beyond what CompactUint64's uint64 parameter could
	// even represent.
	v := new(big.Int).Lsh(big.NewInt(1), 64)
	encoded := CompactBigInt(v)
	assert.Equal(t, byte(0b11), encoded[0]&0b11)

	decodedLen := int(encoded[0]>>2) + 4
	assert.Len(t, encoded[1:], decodedLen)
}

func TestBytesPrefixesCompactLength(t *testing.T) {
	encoded := Bytes([]byte{1, 2, 3})
	assert.Equal(t, append(CompactUint64(3), 1, 2, 3), encoded)
}
