package types

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Klingon-tech/solforge/pkg/codec"
)

func TestParseSignature(t *testing.T) {
	raw := bytes.Repeat([]byte{0xab}, SignatureSize)
	sig, err := ParseSignature(codec.EncodeBase64(raw))
	if err != nil {
		t.Fatalf("ParseSignature() error: %v", err)
	}
	if !bytes.Equal(sig[:], raw) {
		t.Error("signature bytes mismatch")
	}
	if EncodeSignature(sig) != codec.EncodeBase64(raw) {
		t.Error("EncodeSignature() should round-trip")
	}
}

func TestParseSignature_Errors(t *testing.T) {
	zeroSig := codec.EncodeBase64(make([]byte, SignatureSize))
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"not base64", "***", ErrInvalidSignatureFormat},
		{"base58 looking", "3yZe7d", ErrInvalidSignatureFormat},
		{"short", codec.EncodeBase64(make([]byte, 63)), ErrInvalidSignature},
		{"long", codec.EncodeBase64(make([]byte, 65)), ErrInvalidSignature},
		{"empty", "", ErrInvalidSignature},
		{"line break", zeroSig[:40] + "\r\n" + zeroSig[40:], ErrInvalidSignatureFormat},
		{"non-canonical tail", zeroSig[:len(zeroSig)-3] + "B==", ErrInvalidSignatureFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignature(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseSignature(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}
