package types

import (
	"errors"
	"testing"
)

// FuzzParsePublicKey checks that every input yields a key or one of the two
// documented errors.
func FuzzParsePublicKey(f *testing.F) {
	f.Add("11111111111111111111111111111111")
	f.Add("abc")
	f.Add("0OIl")

	f.Fuzz(func(t *testing.T, s string) {
		pub, err := ParsePublicKey(s)
		if err == nil {
			if pub.String() == "" {
				t.Fatal("parsed key has empty string form")
			}
			return
		}
		if !errors.Is(err, ErrInvalidPublicKeyFormat) && !errors.Is(err, ErrInvalidPublicKey) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// FuzzParseSignature checks that arbitrary input never panics and that
// accepted signatures survive an encode/parse round trip.
func FuzzParseSignature(f *testing.F) {
	f.Add("AAAA")
	f.Add("%%%")

	f.Fuzz(func(t *testing.T, s string) {
		sig, err := ParseSignature(s)
		if err != nil {
			return
		}
		again, err := ParseSignature(EncodeSignature(sig))
		if err != nil || again != sig {
			t.Fatalf("round trip mismatch for %q (err %v)", s, err)
		}
	})
}
