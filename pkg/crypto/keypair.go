// Package crypto provides the Ed25519 keypairs used to sign and verify
// messages, in the 64-byte seed||pubkey layout Solana tooling uses.
package crypto

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/Klingon-tech/solforge/pkg/codec"
	"github.com/gagliardetto/solana-go"
)

// Key material sizes in bytes.
const (
	SeedSize   = ed25519.SeedSize
	SecretSize = ed25519.PrivateKeySize
)

var (
	// ErrInvalidSecretFormat is returned when a secret is not valid base58.
	ErrInvalidSecretFormat = errors.New("invalid secret key format")
	// ErrInvalidSecret is returned when a secret decodes but is not a
	// consistent 64-byte keypair.
	ErrInvalidSecret = errors.New("invalid secret key")
)

// Keypair is an Ed25519 signing key together with its public key.
type Keypair struct {
	key solana.PrivateKey
}

// GenerateKeypair creates a new random keypair.
func GenerateKeypair() (*Keypair, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{key: key}, nil
}

// KeypairFromSeed derives a keypair from a 32-byte Ed25519 seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", ErrInvalidSecret, SeedSize, len(seed))
	}
	return &Keypair{key: solana.PrivateKey(ed25519.NewKeyFromSeed(seed))}, nil
}

// KeypairFromBytes restores a keypair from its 64-byte seed||pubkey form.
// The embedded public key must match the one derived from the seed.
func KeypairFromBytes(b []byte) (*Keypair, error) {
	if len(b) != SecretSize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSecret, SecretSize, len(b))
	}
	kp, err := KeypairFromSeed(b[:SeedSize])
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(kp.key[SeedSize:], b[SeedSize:]) {
		kp.Zero()
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidSecret)
	}
	return kp, nil
}

// ParseSecret decodes a base58 64-byte secret into a keypair.
func ParseSecret(s string) (*Keypair, error) {
	b, err := codec.DecodeBase58(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecretFormat, err)
	}
	defer zero(b)
	return KeypairFromBytes(b)
}

// KeypairFromKeygenFile loads a keypair from a solana-keygen JSON file
// (a 64-element byte array).
func KeypairFromKeygenFile(path string) (*Keypair, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keygen file: %w", err)
	}
	defer zero(key)
	return KeypairFromBytes(key)
}

// PublicKey returns the keypair's public key.
func (k *Keypair) PublicKey() solana.PublicKey {
	return solana.PublicKeyFromBytes(k.key[SeedSize:])
}

// Bytes returns a copy of the 64-byte seed||pubkey secret.
func (k *Keypair) Bytes() []byte {
	b := make([]byte, SecretSize)
	copy(b, k.key)
	return b
}

// Secret returns the base58 encoding of the 64-byte secret.
func (k *Keypair) Secret() string {
	return codec.EncodeBase58(k.key)
}

// Zero overwrites the secret key material.
func (k *Keypair) Zero() {
	zero(k.key)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
