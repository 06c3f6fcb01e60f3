package other

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexDecode0x(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

func TestAlgorandAutoDetectsHexAndBase64Fields(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	txData, err := json.Marshal(map[string]interface{}{
		"to":          "destination-account",
		"amount":      "1000",
		"genesisHash": hexEncode([]byte("abcdefgh12345678")), // hex
		"note":        base64.StdEncoding.EncodeToString([]byte("hello world")),
		"privateKey":  "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewAlgorand().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)

	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, hexEncode([]byte("abcdefgh12345678")), decoded["genesisHash"])
	assert.Equal(t, hexEncode([]byte("hello world")), decoded["note"])
}

func TestAlgorandAssetTransferRequiresAssetID(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":         "destination-account",
		"amount":     "1000",
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)
	_, err = NewAlgorand().Methods()["signAssetTransfer"](txData, 0)
	require.Error(t, err)
}

func TestAptosRendersSequenceAndExpirationAsDecimalStrings(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":                      "0xdeadbeef",
		"amount":                  "500",
		"sequenceNumber":          "18446744073709551615", // max uint64
		"expirationTimestampSecs": "1999999999",
		"privateKey":              "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewAptos().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "18446744073709551615", decoded["sequenceNumber"])
	assert.Equal(t, "1999999999", decoded["expirationTimestampSecs"])
}

func TestHederaSplitsTimestampIntoSecondsAndNanos(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":              "0.0.1001",
		"amount":          "100",
		"timestampMillis": "1700000123456",
		"privateKey":      "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewHedera().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	txID := decoded["transactionId"].(map[string]interface{})
	assert.Equal(t, "1700000123", txID["seconds"])
	assert.Equal(t, "456000000", txID["nanos"])
}

func TestStellarPicksPassphraseAndSupportsChangeTrust(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"network":    "testnet",
		"operation":  "opChangeTrust",
		"asset":      "USDC:GABC",
		"limit":      "1000000",
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewStellar().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Test SDF Network ; September 2015", decoded["networkPassphrase"])
	assert.Equal(t, "opChangeTrust", decoded["operation"])
}

func TestStellarRejectsUnknownNetwork(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"network":    "mystery-net",
		"to":         "GDEST",
		"amount":     "1",
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)
	_, err = NewStellar().Methods()["signTransfer"](txData, 0)
	require.Error(t, err)
}

func TestTezosFA2TransferBuildsStructuredParameters(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"destination": "KT1contract",
		"to":          "tz1recipient",
		"tokenId":     "7",
		"amount":      "3",
		"privateKey":  "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewTezos().Methods()["signFA2Transfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "transfer", decoded["entrypoint"])
	assert.Equal(t, "0", decoded["amount"])
}

func TestSuiPaySuiReturnsSignatureAndTxBytes(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"recipients": []string{"0xrecipient"},
		"amounts":    []string{"1000"},
		"inputCoins": []map[string]interface{}{
			{"objectId": "0xobj", "version": "1", "objectDigest": "digest"},
		},
		"gasBudget":  "1000000",
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewSui().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Extend["signature"])
	assert.NotEmpty(t, result.Extend["txBytes"])
	assert.Equal(t, result.Extend["txBytes"], result.Encoded)

	_, err = base64.StdEncoding.DecodeString(result.Encoded)
	assert.NoError(t, err)
}

func TestSuiRejectsMismatchedRecipientsAndAmounts(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"recipients": []string{"0xa", "0xb"},
		"amounts":    []string{"1000"},
		"inputCoins": []map[string]interface{}{{"objectId": "0xobj", "version": "1", "objectDigest": "d"}},
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)
	_, err = NewSui().Methods()["signTransfer"](txData, 0)
	require.Error(t, err)
}

func TestXRPCarriesOptionalDestinationTag(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":             "rDestination",
		"amount":         "1000000",
		"destinationTag": 12345,
		"privateKey":     "0x" + hexEncode(priv.Serialize()),
	})
	require.NoError(t, err)

	result, err := NewXRP().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.EqualValues(t, 12345, decoded["destinationTag"])
}

func TestXRPUsesExplicitFromAddressWhenProvided(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"fromAddress": "rExplicitSender",
		"to":          "rDestination",
		"amount":      "1",
		"privateKey":  "0x" + hexEncode(priv.Serialize()),
	})
	require.NoError(t, err)

	result, err := NewXRP().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	assert.Equal(t, "rExplicitSender", result.Extend["from"])
}

func TestTONAppliesJettonPayloadAndExpiryWindow(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":        "EQDest",
		"amount":    "1000",
		"timestamp": "1000",
		"jetton": map[string]interface{}{
			"masterAddress": "EQJetton",
			"amount":        "500",
		},
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	result, err := NewTON().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "4600", decoded["validUntil"])
	assert.Equal(t, "EQJetton", decoded["jettonMaster"])
}

func TestNervosBuildsCellsAndComputesByteFee(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"cells": []map[string]interface{}{
			{
				"outPoint": map[string]interface{}{"txHash": "0xabc", "index": "0"},
				"lock":     map[string]interface{}{"codeHash": "0xcode", "hashType": "type", "args": "0xargs"},
				"capacity": "10000000000",
			},
		},
		"to":         "ckb1recipient",
		"amount":     "5000000000",
		"byteFee":    "1",
		"privateKey": "0x" + hexEncode(priv.Serialize()),
	})
	require.NoError(t, err)

	result, err := NewNervos().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	// §4.4: Nervos's encoded field is the JSON transaction itself, not
	// a hex-wrapped envelope.
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Encoded), &decoded))
	assert.NotEmpty(t, decoded["witnesses"])
	assert.NotZero(t, result.Extend["fee"])
}

func TestNervosRejectsMissingCells(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":         "ckb1recipient",
		"amount":     "1000",
		"privateKey": "0x" + hexEncode(priv.Serialize()),
	})
	require.NoError(t, err)
	_, err = NewNervos().Methods()["signTransfer"](txData, 0)
	require.Error(t, err)
}

func TestFilecoinEncodesValueAndGasFieldsBigEndian(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":         "f1recipient",
		"amount":     "256",
		"gasFeeCap":  "512",
		"gasPremium": "1",
		"privateKey": "0x" + hexEncode(priv.Serialize()),
	})
	require.NoError(t, err)

	result, err := NewFilecoin().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "0100", decoded["value"])
	assert.Equal(t, "0200", decoded["gasFeeCap"])
	assert.Equal(t, "01", decoded["gasPremium"])
}

func TestICPComputesNanosecondIngressExpiry(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"to":          "principal-id",
		"amount":      "100",
		"timestampMs": "1700000000000",
		"privateKey":  "0x" + hexEncode(priv.Serialize()),
	})
	require.NoError(t, err)

	result, err := NewICP().Methods()["signTransfer"](txData, 0)
	require.NoError(t, err)
	raw, err := hexDecode0x(result.Encoded)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1700000000000000000", decoded["ingressExpiry"])
}
