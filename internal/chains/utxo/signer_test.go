package utxo

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f3623a"

func TestSignTransferBuildsLegacyP2PKHTransaction(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"coin": "bitcoin",
		"inputs": []map[string]interface{}{
			{
				"txId":    "0102030405060708010203040506070801020304050607080102030405060708"[:64],
				"vout":    0,
				"amount":  "100000",
				"address": "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
			},
		},
		"to":            "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"amount":        "50000",
		"changeAddress": "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
		"byteFee":       "10",
		"privateKeys":   []string{"0x" + fixturePrivateKeyHex},
	})
	require.NoError(t, err)

	result, err := method(txData, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
	assert.Contains(t, result.Extend, "txId")

	raw, derr := hexDecode0x(result.Encoded)
	require.NoError(t, derr)
	assert.NotEmpty(t, raw)
}

func TestSignTransferRejectsMismatchedKeyCount(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]

	txData, _ := json.Marshal(map[string]interface{}{
		"coin": "bitcoin",
		"inputs": []map[string]interface{}{
			{"txId": "0102030405060708010203040506070801020304050607080102030405060708"[:64], "vout": 0, "amount": "1000", "address": "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"},
		},
		"to":          "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"amount":      "500",
		"privateKeys": []string{},
	})
	_, err := method(txData, 0)
	require.Error(t, err)
}

// TestUseMaxSizesFeeWithoutChangeOutput covers the boundary case
// useMax=true, one input of value v, byteFee=1: the fee must be sized
// against a transaction with no change output, not one that always
// assumes a change output exists.
func TestUseMaxSizesFeeWithoutChangeOutput(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"coin": "bitcoin",
		"inputs": []map[string]interface{}{
			{
				"txId":    "0102030405060708010203040506070801020304050607080102030405060708"[:64],
				"vout":    0,
				"amount":  "100000",
				"address": "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
			},
		},
		"to":            "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"changeAddress": "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
		"byteFee":       "1",
		"useMax":        true,
		"privateKeys":   []string{"0x" + fixturePrivateKeyHex},
	})
	require.NoError(t, err)

	result, err := method(txData, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 192, result.Extend["fee"])
}

func hexDecode0x(s string) ([]byte, error) {
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	return hex.DecodeString(s)
}
