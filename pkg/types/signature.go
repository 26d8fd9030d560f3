package types

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/solforge/pkg/codec"
	"github.com/gagliardetto/solana-go"
)

// SignatureSize is the length of an Ed25519 signature in bytes.
const SignatureSize = 64

var (
	// ErrInvalidSignatureFormat is returned when a signature is not valid base64.
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	// ErrInvalidSignature is returned when a signature decodes to the wrong length.
	ErrInvalidSignature = errors.New("invalid signature")
)

// ParseSignature decodes a standard base64 signature of exactly SignatureSize bytes.
func ParseSignature(s string) (solana.Signature, error) {
	b, err := codec.DecodeBase64(s)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %v", ErrInvalidSignatureFormat, err)
	}
	if len(b) != SignatureSize {
		return solana.Signature{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(b))
	}
	var sig solana.Signature
	copy(sig[:], b)
	return sig, nil
}

// EncodeSignature returns the base64 form of sig used in API responses.
func EncodeSignature(sig solana.Signature) string {
	return codec.EncodeBase64(sig[:])
}
