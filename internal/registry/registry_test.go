package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedParsesAllCoins(t *testing.T) {
	reg, err := LoadEmbedded()
	require.NoError(t, err)
	coins := reg.Iterate()
	assert.Greater(t, len(coins), 30)

	for _, c := range coins {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Derivation, "coin %s must have at least one derivation entry", c.ID)
		assert.True(t, c.Curve == Secp256k1 || c.Curve == Ed25519, "coin %s has unexpected curve %q", c.ID, c.Curve)
		assert.GreaterOrEqual(t, c.Decimals, 0)
	}
}

func TestDenyListExcludesNimiq(t *testing.T) {
	reg, err := LoadEmbedded()
	require.NoError(t, err)

	_, ok := reg.Lookup("nimiq")
	assert.False(t, ok, "nimiq is permanently deny-listed")

	for _, c := range reg.Iterate() {
		assert.NotEqual(t, "nimiq", c.ID)
	}
}

func TestAllowListWinsOverDenyList(t *testing.T) {
	reg, err := LoadEmbedded()
	require.NoError(t, err)

	restricted := reg.WithAllowList([]string{"bitcoin", "ethereum", "nimiq"})
	coins := restricted.Iterate()
	require.Len(t, coins, 3)

	_, ok := restricted.Lookup("tron")
	assert.False(t, ok)

	_, ok = restricted.Lookup("nimiq")
	assert.True(t, ok, "an allow-listed coin is permitted even when deny-listed")
}

func TestVersionBytesFallsBackToXpub(t *testing.T) {
	assert.Equal(t, versionBytes["zpub"], VersionBytes("zpub"))
	assert.Equal(t, versionBytes["xpub"], VersionBytes("does-not-exist"))
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	reg, err := LoadEmbedded()
	require.NoError(t, err)

	c, ok := reg.Lookup("BITCOIN")
	require.True(t, ok)
	assert.Equal(t, "bitcoin", c.ID)
}
