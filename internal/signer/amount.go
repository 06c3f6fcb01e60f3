package signer

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"
)

// Amount is a non-negative integer accepted from a request in any of
// the three forms the wire schema allows: a JSON number, a decimal
// string, or a "0x"-prefixed hex string. Every signer field that the
// design notes call out as an "implicit numeric coercion" uses this
// type instead of re-parsing ad hoc at each call site.
type Amount struct {
	big.Int
}

// NewAmount wraps an already-parsed non-negative integer.
func NewAmount(v int64) Amount {
	var a Amount
	a.SetInt64(v)
	return a
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		a.SetInt64(0)
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return New(KindInputParseError, "amount: malformed string")
		}
		return a.fromString(s)
	}
	if err := a.Int.UnmarshalJSON(data); err != nil {
		return New(KindInputParseError, "amount: malformed number")
	}
	if a.Sign() < 0 {
		return New(KindInputParseError, "amount: negative value")
	}
	return nil
}

func (a *Amount) fromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		a.SetInt64(0)
		return nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return New(KindInputParseError, "amount: malformed hex string")
		}
		a.Int = *v
		return nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return New(KindInputParseError, "amount: malformed decimal string")
	}
	if v.Sign() < 0 {
		return New(KindInputParseError, "amount: negative value")
	}
	a.Int = *v
	return nil
}

// BigEndian returns the amount as a minimal-length big-endian byte
// slice (empty for zero), the encoding EVM, Polkadot, and Filecoin all
// require for numeric fields.
func (a Amount) BigEndian() []byte {
	return a.Int.Bytes()
}

// ByteString is a hex payload accepted case-insensitively, with or
// without a "0x" prefix, per the request schema in §6.
type ByteString []byte

func (b *ByteString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return New(KindInputParseError, "byte string: expected hex string")
	}
	decoded, err := DecodeHex(s)
	if err != nil {
		return New(KindInputParseError, "byte string: "+err.Error())
	}
	*b = decoded
	return nil
}

// DecodeHex decodes a case-insensitive hex string with an optional
// "0x"/"0X" prefix. Odd-length input is left-padded with a single zero
// nibble, matching the EVM family's minimal-byte-string rule.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// EncodeHex0x is the canonical "0x"-prefixed, even-length, lower-case
// hex rendering used in every response's extend/encoded fields.
func EncodeHex0x(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
