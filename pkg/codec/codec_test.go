package codec

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestBase58_RoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			t.Fatalf("rand: %v", err)
		}
		decoded, err := DecodeBase58(EncodeBase58(b))
		if err != nil {
			t.Fatalf("DecodeBase58() error: %v", err)
		}
		if !bytes.Equal(decoded, b) {
			t.Fatalf("round trip mismatch: got %x, want %x", decoded, b)
		}
	}
}

func TestBase58_LeadingZeros(t *testing.T) {
	b := make([]byte, 32)
	s := EncodeBase58(b)
	if s != "11111111111111111111111111111111" {
		t.Errorf("EncodeBase58(zero32) = %q", s)
	}
	decoded, err := DecodeBase58(s)
	if err != nil {
		t.Fatalf("DecodeBase58() error: %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("decoded length = %d, want 32", len(decoded))
	}
}

func TestDecodeBase58_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"punctuation", "not-base58!"},
		{"zero digit", "0abc"},
		{"capital O", "Oabc"},
		{"capital I", "Iabc"},
		{"lowercase l", "labc"},
		{"whitespace", "abc def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBase58(tt.in)
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("DecodeBase58(%q) error = %v, want ErrInvalidEncoding", tt.in, err)
			}
		})
	}
}

func TestBase64_RoundTrip(t *testing.T) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand: %v", err)
	}
	decoded, err := DecodeBase64(EncodeBase64(b))
	if err != nil {
		t.Fatalf("DecodeBase64() error: %v", err)
	}
	if !bytes.Equal(decoded, b) {
		t.Error("base64 round trip mismatch")
	}
}

func TestDecodeBase64_Canonical(t *testing.T) {
	b, err := DecodeBase64("YQ==")
	if err != nil || !bytes.Equal(b, []byte("a")) {
		t.Fatalf("DecodeBase64(YQ==) = %q, %v", b, err)
	}
	// Same byte with a non-zero discarded bit.
	if _, err := DecodeBase64("YR=="); err == nil {
		t.Error("non-canonical trailing bits should be rejected")
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	for _, in := range []string{"!!!", "abc", "YWJj=", "YW Jj", "YW\r\nJj", "YWJj\n", "YR=="} {
		if _, err := DecodeBase64(in); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("DecodeBase64(%q) error = %v, want ErrInvalidEncoding", in, err)
		}
	}
}
