package instruction

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrZeroAmount is returned when a transfer or mint amount is zero.
	ErrZeroAmount = errors.New("amount must be greater than zero")
	// ErrInvalidDecimals is returned for decimals outside 0..255.
	ErrInvalidDecimals = errors.New("decimals out of range")
)

// Payload sizes.
const (
	InitializeMintSize = 1 + 1 + 32 + 1 + 32
	AmountPayloadSize  = 1 + 8
	SystemTransferSize = 4 + 8
)

// AssociatedTokenAddress derives the associated token account of owner for
// mint: the program address of seeds [owner, TokenProgramID, mint] under
// the associated token account program.
func AssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress([][]byte{
		owner[:],
		TokenProgramID[:],
		mint[:],
	}, AssociatedTokenProgID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return addr, nil
}

// InitializeMint builds an SPL Token InitializeMint instruction. The freeze
// authority is set to the mint authority.
func InitializeMint(mint, mintAuthority solana.PublicKey, decimals int) (*Descriptor, error) {
	if decimals < 0 || decimals > 255 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}

	data := make([]byte, 0, InitializeMintSize)
	data = append(data, TokenInstrInitializeMint, uint8(decimals))
	data = append(data, mintAuthority[:]...)
	data = append(data, 1) // freeze authority present
	data = append(data, mintAuthority[:]...)

	return fromInstruction(solana.NewInstruction(TokenProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(mint, true, false),
		solana.NewAccountMeta(RentSysvarID, false, false),
	}, data))
}

// MintTo builds an SPL Token MintTo instruction crediting the associated
// token account of destinationOwner.
func MintTo(mint, destinationOwner, authority solana.PublicKey, amount uint64) (*Descriptor, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	dest, err := AssociatedTokenAddress(destinationOwner, mint)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	return fromInstruction(solana.NewInstruction(TokenProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(mint, true, false),
		solana.NewAccountMeta(dest, true, false),
		solana.NewAccountMeta(authority, false, true),
	}, amountPayload(TokenInstrMintTo, amount)))
}

// SystemTransfer builds a System program lamport transfer.
func SystemTransfer(from, to solana.PublicKey, lamports uint64) (*Descriptor, error) {
	if lamports == 0 {
		return nil, ErrZeroAmount
	}
	data := make([]byte, SystemTransferSize)
	binary.LittleEndian.PutUint32(data[0:4], SystemTransferIndex)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return fromInstruction(solana.NewInstruction(SystemProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(from, true, true),
		solana.NewAccountMeta(to, true, false),
	}, data))
}

// TokenTransfer builds an SPL Token Transfer from owner's associated token
// account to destinationOwner's associated token account for mint.
func TokenTransfer(destinationOwner, mint, owner solana.PublicKey, amount uint64) (*Descriptor, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	src, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := AssociatedTokenAddress(destinationOwner, mint)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	return fromInstruction(solana.NewInstruction(TokenProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(src, true, false),
		solana.NewAccountMeta(dst, true, false),
		solana.NewAccountMeta(owner, false, true),
	}, amountPayload(TokenInstrTransfer, amount)))
}

// amountPayload encodes [discriminant, amount u64 LE].
func amountPayload(discriminant uint8, amount uint64) []byte {
	data := make([]byte, AmountPayloadSize)
	data[0] = discriminant
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}
