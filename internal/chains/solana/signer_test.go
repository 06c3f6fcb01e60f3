package solana

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignTransferProducesValidSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"from":            base58.Encode(pub),
		"to":              base58.Encode(pub),
		"amount":          "1000000",
		"recentBlockhash": base58.Encode(make([]byte, 32)),
		"privateKey":      "0x" + hex.EncodeToString(priv),
	})
	require.NoError(t, err)

	result, err := method(txData, 501)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
	assert.Contains(t, result.Extend, "signature")
}

func TestSignTransferRejectsMissingBlockhash(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	c := New()
	method := c.Methods()["signTransfer"]
	txData, _ := json.Marshal(map[string]interface{}{
		"from":       base58.Encode(pub),
		"to":         base58.Encode(pub),
		"amount":     "1",
		"privateKey": "0x" + hex.EncodeToString(priv),
	})
	_, err = method(txData, 501)
	require.Error(t, err)
}

