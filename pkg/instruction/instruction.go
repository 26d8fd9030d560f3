// Package instruction builds unsigned Solana instructions for the System
// and SPL Token programs.
package instruction

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Program and sysvar addresses referenced by the builders.
var (
	SystemProgramID       = solana.SystemProgramID
	TokenProgramID        = solana.TokenProgramID
	AssociatedTokenProgID = solana.SPLAssociatedTokenAccountProgramID
	RentSysvarID          = solana.SysVarRentPubkey
)

// SPL Token instruction discriminants.
const (
	TokenInstrInitializeMint uint8 = 0
	TokenInstrTransfer       uint8 = 3
	TokenInstrMintTo         uint8 = 7
)

// SystemTransferIndex is the System program's transfer discriminant,
// encoded as a little-endian u32.
const SystemTransferIndex uint32 = 2

// AccountMeta is one account reference of an instruction.
type AccountMeta struct {
	PublicKey  solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Descriptor is a built, unsigned instruction. It is never mutated after
// a builder returns it.
type Descriptor struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Instruction returns the descriptor as a solana-go instruction, ready to be
// placed into a transaction by the caller.
func (d *Descriptor) Instruction() solana.Instruction {
	metas := make(solana.AccountMetaSlice, len(d.Accounts))
	for i, a := range d.Accounts {
		metas[i] = &solana.AccountMeta{PublicKey: a.PublicKey, IsSigner: a.IsSigner, IsWritable: a.IsWritable}
	}
	data := make([]byte, len(d.Data))
	copy(data, d.Data)
	return solana.NewInstruction(d.ProgramID, metas, data)
}

// fromInstruction copies a solana-go instruction into a Descriptor.
func fromInstruction(in solana.Instruction) (*Descriptor, error) {
	data, err := in.Data()
	if err != nil {
		return nil, fmt.Errorf("instruction data: %w", err)
	}
	d := &Descriptor{
		ProgramID: in.ProgramID(),
		Accounts:  make([]AccountMeta, 0, len(in.Accounts())),
		Data:      data,
	}
	for _, a := range in.Accounts() {
		d.Accounts = append(d.Accounts, AccountMeta{
			PublicKey:  a.PublicKey,
			IsSigner:   a.IsSigner,
			IsWritable: a.IsWritable,
		})
	}
	return d, nil
}
