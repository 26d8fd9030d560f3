// Package types parses the fixed-size wire values accepted by the API:
// 32-byte base58 addresses and 64-byte base64 signatures.
package types

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/solforge/pkg/codec"
	"github.com/gagliardetto/solana-go"
)

// AddressSize is the length of an address (Ed25519 public key) in bytes.
const AddressSize = 32

var (
	// ErrInvalidAddress is returned for any address that is not base58 or
	// does not decode to exactly AddressSize bytes.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidPublicKeyFormat is returned when a public key is not base58.
	ErrInvalidPublicKeyFormat = errors.New("invalid public key format")
	// ErrInvalidPublicKey is returned when a public key decodes to the wrong length.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// ParseAddress decodes a base58 address. Any 32-byte value is accepted;
// no on-curve check is made, so program-derived addresses parse too.
func ParseAddress(s string) (solana.PublicKey, error) {
	pub, err := ParsePublicKey(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return pub, nil
}

// ParsePublicKey decodes a base58 public key, distinguishing encoding
// failures (ErrInvalidPublicKeyFormat) from length failures (ErrInvalidPublicKey).
func ParsePublicKey(s string) (solana.PublicKey, error) {
	b, err := codec.DecodeBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidPublicKeyFormat, err)
	}
	if len(b) != AddressSize {
		return solana.PublicKey{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidPublicKey, AddressSize, len(b))
	}
	return solana.PublicKeyFromBytes(b), nil
}

// MustParseAddress is like ParseAddress but panics on error.
// Intended for constants and tests.
func MustParseAddress(s string) solana.PublicKey {
	pub, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return pub
}
