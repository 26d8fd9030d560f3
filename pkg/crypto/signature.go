package crypto

import (
	"crypto/ed25519"

	"github.com/gagliardetto/solana-go"
)

// Signer signs raw message bytes with Ed25519.
type Signer interface {
	// Sign produces a signature over the message bytes as given (not a hash).
	Sign(message []byte) solana.Signature
	// PublicKey returns the key signatures verify against.
	PublicKey() solana.PublicKey
}

// Verifier verifies Ed25519 signatures.
type Verifier interface {
	// Verify reports whether sig is a valid signature of message by pub.
	Verify(pub solana.PublicKey, message []byte, sig solana.Signature) bool
}

// Sign produces a deterministic Ed25519 signature over message.
func (k *Keypair) Sign(message []byte) solana.Signature {
	var sig solana.Signature
	copy(sig[:], ed25519.Sign(ed25519.PrivateKey(k.key), message))
	return sig
}

// Verify reports whether sig is a valid signature of message by pub.
// A well-formed but wrong signature yields false, never an error.
func Verify(pub solana.PublicKey, message []byte, sig solana.Signature) bool {
	return sig.Verify(pub, message)
}

// Ed25519Verifier implements the Verifier interface.
type Ed25519Verifier struct{}

// Verify reports whether sig is a valid signature of message by pub.
func (Ed25519Verifier) Verify(pub solana.PublicKey, message []byte, sig solana.Signature) bool {
	return Verify(pub, message, sig)
}
