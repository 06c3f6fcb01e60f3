package other

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldsigner/core/internal/signer"
)

func hexEncode(b []byte) string { return hex.EncodeToString(b) }

type signerUnderTest struct {
	name  string
	chain signer.Chain
}

func TestEd25519ChainsSignDeterministicallyAndExposeFrom(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	chains := []signerUnderTest{
		{"algorand", NewAlgorand()},
		{"aptos", NewAptos()},
		{"hedera", NewHedera()},
		{"stellar", NewStellar()},
		{"tezos", NewTezos()},
		{"near", NewNEAR()},
		{"ton", NewTON()},
	}
	for _, tc := range chains {
		t.Run(tc.name, func(t *testing.T) {
			txData, err := json.Marshal(map[string]interface{}{
				"to":         "destination-account",
				"amount":     "1000",
				"privateKey": "0x" + hexEncode(priv),
			})
			require.NoError(t, err)

			method := tc.chain.Methods()["signTransfer"]
			require.NotNil(t, method)

			result, err := method(txData, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Encoded)
			assert.NotEmpty(t, result.Extend["from"])

			again, err := method(txData, 0)
			require.NoError(t, err)
			assert.Equal(t, result.Encoded, again.Encoded, "signing the same input twice must be deterministic")
		})
	}
}

func TestSecp256k1ChainsSignDeterministicallyAndExposeFrom(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	rawKey := priv.Serialize()

	chains := []signerUnderTest{
		{"xrp", NewXRP()},
		{"filecoin", NewFilecoin()},
		{"icp", NewICP()},
	}
	for _, tc := range chains {
		t.Run(tc.name, func(t *testing.T) {
			txData, err := json.Marshal(map[string]interface{}{
				"to":         "destination-account",
				"amount":     "1000",
				"privateKey": "0x" + hexEncode(rawKey),
			})
			require.NoError(t, err)

			method := tc.chain.Methods()["signTransfer"]
			require.NotNil(t, method)

			result, err := method(txData, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Encoded)
			assert.NotEmpty(t, result.Extend["from"])
		})
	}
}

func TestEnvelopeRejectsMissingRecipient(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	txData, err := json.Marshal(map[string]interface{}{
		"amount":     "1000",
		"privateKey": "0x" + hexEncode(priv),
	})
	require.NoError(t, err)

	method := NewAlgorand().Methods()["signTransfer"]
	_, err = method(txData, 0)
	require.Error(t, err)
}
