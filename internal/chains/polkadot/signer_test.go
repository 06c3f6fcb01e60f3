package polkadot

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignTransferProducesFramedExtrinsic(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	dest := make([]byte, 32)

	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"moduleIndex":         5,
		"callIndex":           0,
		"dest":                "0x" + hex.EncodeToString(dest),
		"amount":              "1000000000000",
		"era":                 "0x00",
		"nonce":               "3",
		"tip":                 "0",
		"specVersion":         9370,
		"transactionVersion":  19,
		"genesisHash":         "0x" + hex.EncodeToString(make([]byte, 32)),
		"checkpointBlockHash": "0x" + hex.EncodeToString(make([]byte, 32)),
		"privateKey":          "0x" + hex.EncodeToString(priv),
	})
	require.NoError(t, err)

	result, err := method(txData, 354)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
	assert.Contains(t, result.Extend, "callHash")
}

func TestSignTransferRejectsShortDest(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]
	txData, _ := json.Marshal(map[string]interface{}{
		"dest": "0x0102",
		"era":  "0x00",
	})
	_, err := method(txData, 354)
	require.Error(t, err)
}
