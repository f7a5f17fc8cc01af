// Package keycodec implements the reversible obfuscation applied to API keys
// before they are embedded in configuration. It is base64 over a per-character
// rotation (13 for letters, 3 for digits) and carries no cryptographic value.
package keycodec

import (
	"encoding/base64"
	"fmt"
)

const digitShift = 3

// Encode obfuscates a plain-text key. Non-alphanumeric characters pass
// through unchanged.
func Encode(plain string) string {
	shifted := make([]byte, len(plain))
	for i := 0; i < len(plain); i++ {
		shifted[i] = shiftChar(plain[i], 10-digitShift)
	}
	return base64.StdEncoding.EncodeToString(shifted)
}

// Decode reverses Encode. Malformed base64 input yields an error instead of
// a panic; callers treat that as "no key".
func Decode(cipher string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cipher)
	if err != nil {
		return "", fmt.Errorf("malformed key material: %w", err)
	}

	plain := make([]byte, len(raw))
	for i, c := range raw {
		plain[i] = shiftChar(c, digitShift)
	}
	return string(plain), nil
}

// shiftChar applies ROT13 to letters and rotates digits forward by n within
// 0-9. ROT13 is self-inverse, so the letter path is identical for both
// directions; only the digit shift differs.
func shiftChar(c byte, n int) byte {
	switch {
	case c >= 'a' && c <= 'z':
		return 'a' + (c-'a'+13)%26
	case c >= 'A' && c <= 'Z':
		return 'A' + (c-'A'+13)%26
	case c >= '0' && c <= '9':
		return '0' + (c-'0'+byte(n))%10
	default:
		return c
	}
}
