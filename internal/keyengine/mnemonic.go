package keyengine

import (
	"encoding/hex"

	"github.com/tyler-smith/go-bip39"

	"github.com/coldsigner/core/internal/signer"
)

// validEntropyLengths are the byte lengths BIP-39 accepts: 128, 160,
// 192, 224, and 256 bits.
var validEntropyLengths = map[int]struct{}{
	16: {}, 20: {}, 24: {}, 28: {}, 32: {},
}

// MnemonicFromEntropy decodes hex entropy and produces its BIP-39
// mnemonic. It takes no passphrase: a passphrase plays no role in
// mnemonic generation and applies only at seed derivation (Seed).
func MnemonicFromEntropy(entropyHex string) (string, error) {
	raw, err := signer.DecodeHex(entropyHex)
	if err != nil {
		return "", signer.New(signer.KindInputParseError, "entropy: malformed hex")
	}
	defer Zero(raw)

	if _, ok := validEntropyLengths[len(raw)]; !ok {
		return "", signer.New(signer.KindInputParseError, "entropy: must be 16, 20, 24, 28, or 32 bytes")
	}

	mnemonic, err := bip39.NewMnemonic(raw)
	if err != nil {
		return "", signer.Wrap(signer.KindDerivationFailed, err, "mnemonic: generation failed")
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether m's word list and checksum are
// valid under BIP-39.
func ValidateMnemonic(m string) bool {
	return bip39.IsMnemonicValid(m)
}

// EntropyHex returns the canonical hex entropy a valid mnemonic encodes,
// the inverse MnemonicFromEntropy needs for the testable property in
// §8 ("generate_mnemonic(entropy_of(m), pass) -> m").
func EntropyHex(m string) (string, error) {
	raw, err := bip39.EntropyFromMnemonic(m)
	if err != nil {
		return "", signer.Wrap(signer.KindDerivationFailed, err, "mnemonic: invalid")
	}
	defer Zero(raw)
	return hex.EncodeToString(raw), nil
}

// Seed derives the 64-byte BIP-39 seed from a mnemonic and optional
// passphrase. The returned buffer is owned by the caller, who must
// zeroize it via the SecretBuffer it is normally wrapped in.
func Seed(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, signer.New(signer.KindDerivationFailed, "mnemonic: invalid")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, signer.Wrap(signer.KindDerivationFailed, err, "seed: derivation failed")
	}
	return seed, nil
}
