package cardano

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureAddress(t *testing.T, pub ed25519.PublicKey) string {
	t.Helper()
	payload := append([]byte{0x61}, pub[:28]...)
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode("addr", conv)
	require.NoError(t, err)
	return addr
}

func TestSignTransferProducesTxHash(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"inputs": []map[string]interface{}{
			{"txHash": "0x" + repeatHex("ab", 32), "index": 0},
		},
		"outputs": []map[string]interface{}{
			{"address": fixtureAddress(t, pub), "amount": "2000000"},
		},
		"fee":        "170000",
		"ttl":        "99999999",
		"privateKey": "0x" + repeatHex("11", 32),
	})
	require.NoError(t, err)

	result, err := method(txData, 1815)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
	assert.Contains(t, result.Extend, "txHash")
	_ = priv
}

func TestCalculateMinAdaScalesWithAssetCount(t *testing.T) {
	c := New()
	method := c.Methods()["calculateMinAda"]

	txData, _ := json.Marshal(map[string]interface{}{
		"assets": []map[string]interface{}{
			{"policyId": "0x" + repeatHex("aa", 28), "assetName": "0x74657374", "amount": "1"},
		},
	})
	result, err := method(txData, 1815)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_100_000), result.Extend["minAda"])
}

func repeatHex(pair string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += pair
	}
	return out
}
