package evm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldsigner/core/internal/signer"
)

const fixturePrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f3623a"
const fixtureRecipient = "0x3535353535353535353535353535353535353535"[:42]

func TestSignTransferLegacyProducesEIP155Signature(t *testing.T) {
	c := New()
	txData, err := json.Marshal(map[string]interface{}{
		"to":         fixtureRecipient,
		"amount":     "1000000000000000000",
		"gasLimit":   "21000",
		"gasPrice":   "20000000000",
		"nonce":      "9",
		"chainId":    "1",
		"privateKey": fixturePrivateKey,
	})
	require.NoError(t, err)

	method, ok := c.Methods()["signTransfer"]
	require.True(t, ok)

	result, err := method(txData, 60)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
	assert.Contains(t, result.Extend, "hash")
}

func TestSignTransferRejectsMissingPrivateKey(t *testing.T) {
	c := New()
	txData, _ := json.Marshal(map[string]interface{}{
		"to":       fixtureRecipient,
		"amount":   "1",
		"gasLimit": "21000",
		"gasPrice": "1",
		"nonce":    "0",
		"chainId":  "1",
	})
	method := c.Methods()["signTransfer"]
	_, err := method(txData, 60)
	require.Error(t, err)
	se, ok := signer.As(err)
	require.True(t, ok)
	assert.Equal(t, signer.KindInputInvalid, se.Kind)
}

func TestSignMessageUsesPersonalSignPrefix(t *testing.T) {
	c := New()
	txData, err := json.Marshal(map[string]interface{}{
		"message":    "hello cold wallet",
		"privateKey": fixturePrivateKey,
	})
	require.NoError(t, err)

	method := c.Methods()["signMessage"]
	result, err := method(txData, 60)
	require.NoError(t, err)
	assert.Len(t, result.Encoded, 2+65*2) // "0x" + 65 bytes
}
