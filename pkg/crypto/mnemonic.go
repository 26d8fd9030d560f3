package crypto

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// Supported mnemonic entropy sizes.
const (
	MnemonicEntropy12Words = 128
	MnemonicEntropy24Words = 256
)

// ErrInvalidMnemonic is returned for a mnemonic with unknown words or a bad checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// GenerateMnemonic creates a new BIP-39 mnemonic with the given entropy
// size (MnemonicEntropy12Words or MnemonicEntropy24Words).
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != MnemonicEntropy12Words && entropyBits != MnemonicEntropy24Words {
		return "", fmt.Errorf("unsupported entropy size %d", entropyBits)
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// KeypairFromMnemonic derives a keypair from a BIP-39 mnemonic and optional
// passphrase. The Ed25519 seed is the first 32 bytes of the BIP-39 seed,
// matching solana-keygen when no derivation path is given.
func KeypairFromMnemonic(mnemonic, passphrase string) (*Keypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	defer zero(seed)
	return KeypairFromSeed(seed[:SeedSize])
}
