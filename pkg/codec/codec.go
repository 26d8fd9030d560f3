// Package codec provides the text encodings used on the wire: base58 for
// keys and secrets, standard padded base64 for signatures and payloads.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// ErrInvalidEncoding is wrapped by every decode failure.
var ErrInvalidEncoding = errors.New("invalid encoding")

// DecodeBase58 decodes a base58 (Bitcoin alphabet) string.
func DecodeBase58(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty base58 string", ErrInvalidEncoding)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

// EncodeBase58 encodes b as base58.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeBase64 decodes a standard, padded base64 string. Decoding is
// strict: line breaks and non-zero trailing bits are rejected.
func DecodeBase64(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("%w: line break in base64 string", ErrInvalidEncoding)
	}
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

// EncodeBase64 encodes b as standard, padded base64.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
