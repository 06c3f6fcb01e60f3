package cosmos

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSignTransferIsDeterministic(t *testing.T) {
	key, err := hex.DecodeString(fixturePrivateKeyHex)
	require.NoError(t, err)

	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"fromAddress":   "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqmjzsvh",
		"toAddress":     "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqmjzsvh",
		"amount":        []map[string]string{{"denom": "uatom", "amount": "1000"}},
		"feeAmount":     []map[string]string{{"denom": "uatom", "amount": "500"}},
		"gasLimit":      "200000",
		"chainId":       "cosmoshub-4",
		"accountNumber": "1",
		"sequence":      "0",
		"privateKey":    "0x" + hex.EncodeToString(key),
	})
	require.NoError(t, err)

	r1, err := method(txData, 118)
	require.NoError(t, err)
	r2, err := method(txData, 118)
	require.NoError(t, err)
	assert.Equal(t, r1.Encoded, r2.Encoded)
	assert.Contains(t, r1.Extend, "address")
}

func TestSignTransferRejectsMissingChainID(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]
	txData, _ := json.Marshal(map[string]interface{}{
		"fromAddress": "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqmjzsvh",
		"toAddress":   "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqmjzsvh",
		"amount":      []map[string]string{{"denom": "uatom", "amount": "1"}},
		"privateKey":  "0x" + fixturePrivateKeyHex,
	})
	_, err := method(txData, 118)
	require.Error(t, err)
}

func TestSignTransferThorchainUsesLegacyTypeURLAndKeccakAddress(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"coin":          "thorchain",
		"fromAddress":   "thor1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqezsvh",
		"toAddress":     "thor1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqezsvh",
		"amount":        []map[string]string{{"denom": "rune", "amount": "1000"}},
		"feeAmount":     []map[string]string{{"denom": "rune", "amount": "500"}},
		"gasLimit":      "200000",
		"chainId":       "thorchain-mainnet-v1",
		"accountNumber": "1",
		"sequence":      "0",
		"privateKey":    "0x" + fixturePrivateKeyHex,
	})
	require.NoError(t, err)

	result, err := method(txData, 931)
	require.NoError(t, err)
	assert.Contains(t, result.Extend, "address")
	addr, _ := result.Extend["address"].(string)
	assert.Contains(t, addr, "thor1")
}

func TestSignWasmTransferBuildsCw20Payload(t *testing.T) {
	c := New()
	method := c.Methods()["signWasmTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"coin":          "secretnetwork",
		"fromAddress":   "secret1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq0ms9t8",
		"contract":      "secret1contractqqqqqqqqqqqqqqqqqqqqqqqqqq0ms9t8",
		"recipient":     "secret1recipientqqqqqqqqqqqqqqqqqqqqqqqqq0ms9t8",
		"amount":        "1000",
		"gasLimit":      "200000",
		"chainId":       "secret-4",
		"accountNumber": "1",
		"sequence":      "0",
		"privateKey":    "0x" + fixturePrivateKeyHex,
	})
	require.NoError(t, err)

	result, err := method(txData, 529)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Encoded)
}

func TestSignAuthzGrantAndRevokeRoundTrip(t *testing.T) {
	c := New()
	base := map[string]interface{}{
		"coin":          "cosmoshub",
		"fromAddress":   "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqmjzsvh",
		"grantee":       "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqmjzsvh",
		"msgTypeUrl":    "/cosmos.bank.v1beta1.MsgSend",
		"gasLimit":      "200000",
		"chainId":       "cosmoshub-4",
		"accountNumber": "1",
		"sequence":      "0",
		"privateKey":    "0x" + fixturePrivateKeyHex,
	}

	grantData, err := json.Marshal(base)
	require.NoError(t, err)
	grantResult, err := c.Methods()["signAuthzGrant"](grantData, 118)
	require.NoError(t, err)
	assert.NotEmpty(t, grantResult.Encoded)

	revokeData, err := json.Marshal(base)
	require.NoError(t, err)
	revokeResult, err := c.Methods()["signAuthzRevoke"](revokeData, 118)
	require.NoError(t, err)
	assert.NotEmpty(t, revokeResult.Encoded)
}

func TestSignTransferJSONEnvelopeForKava(t *testing.T) {
	c := New()
	method := c.Methods()["signTransfer"]

	txData, err := json.Marshal(map[string]interface{}{
		"coin":          "kava",
		"fromAddress":   "kava1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq0wxstt",
		"toAddress":     "kava1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq0wxstt",
		"amount":        []map[string]string{{"denom": "ukava", "amount": "1000"}},
		"feeAmount":     []map[string]string{{"denom": "ukava", "amount": "500"}},
		"gasLimit":      "200000",
		"chainId":       "kava_2222-10",
		"accountNumber": "1",
		"sequence":      "0",
		"privateKey":    "0x" + fixturePrivateKeyHex,
	})
	require.NoError(t, err)

	result, err := method(txData, 459)
	require.NoError(t, err)
	assert.Equal(t, "amino-json", result.Extend["envelope"])

	raw, derr := hexDecode0x(result.Encoded)
	require.NoError(t, derr)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "cosmos-sdk/StdTx", decoded["type"])
}

func hexDecode0x(s string) ([]byte, error) {
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}
	return hex.DecodeString(s)
}
