package tron

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSignTransferProducesDeterministicTxID(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"toAddress":     "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
		"amount":        "1000000",
		"refBlockBytes": "0x0102",
		"refBlockHash":  "0x0102030405060708",
		"timestamp":     "1700000000000",
		"privateKey":    "0x" + fixturePrivateKeyHex,
	})
	require.NoError(t, err)

	result1, err := method(txData, 195)
	require.NoError(t, err)
	result2, err := method(txData, 195)
	require.NoError(t, err)

	assert.Equal(t, result1.Encoded, result2.Encoded, "signing the same transaction twice must be deterministic")
	assert.Contains(t, result1.Extend, "txID")
}

func TestSignTransferRejectsMalformedRefBlockBytes(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]
	txData, _ := json.Marshal(map[string]interface{}{
		"toAddress":     "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
		"amount":        "1",
		"refBlockBytes": "0x01",
		"refBlockHash":  "0x0102030405060708",
		"privateKey":    "0x" + fixturePrivateKeyHex,
	})
	_, err := method(txData, 195)
	require.Error(t, err)
}

func TestDecodeTronAddressRoundTripsOwnerAddress(t *testing.T) {
	raw, err := hex.DecodeString(fixturePrivateKeyHex)
	require.NoError(t, err)

	owner, priv, err := ownerFromPrivateKey(raw)
	require.NoError(t, err)
	defer zeroECDSA(priv)
	assert.Len(t, owner, 21)
	assert.Equal(t, byte(0x41), owner[0])
}
