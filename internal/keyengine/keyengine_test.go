package keyengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldsigner/core/internal/registry"
)

const fixtureMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestMnemonicFromEntropyRoundTrips(t *testing.T) {
	entropyHex, err := EntropyHex(fixtureMnemonic)
	require.NoError(t, err)

	mnemonic, err := MnemonicFromEntropy(entropyHex)
	require.NoError(t, err)
	assert.Equal(t, fixtureMnemonic, mnemonic)
}

func TestMnemonicFromEntropyRejectsBadLengths(t *testing.T) {
	for _, n := range []int{1, 8, 15, 17, 33} {
		_, err := MnemonicFromEntropy(strings.Repeat("00", n))
		assert.Error(t, err, "entropy length %d bytes must be rejected", n)
	}
}

func TestValidateMnemonicDeterministic(t *testing.T) {
	assert.True(t, ValidateMnemonic(fixtureMnemonic))
	assert.False(t, ValidateMnemonic("not a real mnemonic phrase at all nope"))
	// calling twice must agree
	assert.Equal(t, ValidateMnemonic(fixtureMnemonic), ValidateMnemonic(fixtureMnemonic))
}

func TestSeedIsDeterministic(t *testing.T) {
	s1, err := Seed(fixtureMnemonic, "pass")
	require.NoError(t, err)
	s2, err := Seed(fixtureMnemonic, "pass")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	s3, err := Seed(fixtureMnemonic, "different")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3)
}

func TestDeriveBatchPreservesRegistryOrderAndAddressesAreDeterministic(t *testing.T) {
	reg, err := registry.LoadEmbedded()
	require.NoError(t, err)

	batch1 := DeriveBatch(reg, fixtureMnemonic, "", 3)
	batch2 := DeriveBatch(reg, fixtureMnemonic, "", 3)
	require.Equal(t, len(batch1), len(batch2))

	for i := range batch1 {
		assert.Equal(t, batch1[i].Coin, batch2[i].Coin)
		assert.Equal(t, batch1[i].Address, batch2[i].Address)
	}

	coins := reg.Iterate()
	assert.Equal(t, coins[0].ID, batch1[0].Coin)
}

func TestDeriveBatchEd25519ProducesDistinctIndices(t *testing.T) {
	reg, err := registry.LoadEmbedded()
	require.NoError(t, err)
	restricted := reg.WithAllowList([]string{"solana"})

	batch := DeriveBatch(restricted, fixtureMnemonic, "", 4)
	require.Len(t, batch, 4)

	seen := map[string]bool{}
	for _, row := range batch {
		require.Empty(t, row.Error)
		assert.False(t, seen[row.Address], "ed25519 indices must produce distinct addresses")
		seen[row.Address] = true
	}
}

func TestParsePathRejectsMissingRoot(t *testing.T) {
	_, err := ParsePath("44'/0'/0'")
	assert.Error(t, err)
}

func TestWithHardenedLastSegmentAlwaysHardens(t *testing.T) {
	segs, err := ParsePath("m/44'/501'/0'")
	require.NoError(t, err)
	replaced := WithHardenedLastSegment(segs, 7)
	assert.True(t, replaced[len(replaced)-1].Hardened)
	assert.Equal(t, uint32(7), replaced[len(replaced)-1].Index)
}
