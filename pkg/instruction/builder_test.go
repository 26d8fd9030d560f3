package instruction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func testKey(b byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = b
	}
	return pk
}

func checkAccounts(t *testing.T, got []AccountMeta, want []AccountMeta) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("accounts length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].PublicKey.Equals(want[i].PublicKey) {
			t.Errorf("account[%d] = %s, want %s", i, got[i].PublicKey, want[i].PublicKey)
		}
		if got[i].IsSigner != want[i].IsSigner || got[i].IsWritable != want[i].IsWritable {
			t.Errorf("account[%d] flags = signer:%v writable:%v, want signer:%v writable:%v",
				i, got[i].IsSigner, got[i].IsWritable, want[i].IsSigner, want[i].IsWritable)
		}
	}
}

func TestProgramIDs(t *testing.T) {
	tests := []struct {
		name string
		id   solana.PublicKey
		want string
	}{
		{"system", SystemProgramID, "11111111111111111111111111111111"},
		{"token", TokenProgramID, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"},
		{"ata", AssociatedTokenProgID, "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"},
		{"rent", RentSysvarID, "SysvarRent111111111111111111111111111111111"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAssociatedTokenAddress(t *testing.T) {
	owner, mint := testKey(1), testKey(2)

	got, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress() error: %v", err)
	}
	want, _, err := solana.FindProgramAddress([][]byte{owner[:], TokenProgramID[:], mint[:]}, AssociatedTokenProgID)
	if err != nil {
		t.Fatalf("FindProgramAddress() error: %v", err)
	}
	if !got.Equals(want) {
		t.Errorf("AssociatedTokenAddress() = %s, want %s", got, want)
	}

	again, _ := AssociatedTokenAddress(owner, mint)
	if !again.Equals(got) {
		t.Error("derivation should be deterministic")
	}
	other, _ := AssociatedTokenAddress(testKey(3), mint)
	if other.Equals(got) {
		t.Error("different owners should derive different addresses")
	}
	if got.IsOnCurve() {
		t.Error("derived address should be off curve")
	}
}

func TestAssociatedTokenAddress_MatchesLibrary(t *testing.T) {
	owner, mint := testKey(9), testKey(10)
	got, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("AssociatedTokenAddress() error: %v", err)
	}
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("FindAssociatedTokenAddress() error: %v", err)
	}
	if !got.Equals(want) {
		t.Errorf("AssociatedTokenAddress() = %s, library = %s", got, want)
	}
}

func TestInitializeMint(t *testing.T) {
	mint, auth := testKey(0xaa), testKey(0xbb)

	d, err := InitializeMint(mint, auth, 6)
	if err != nil {
		t.Fatalf("InitializeMint() error: %v", err)
	}
	if !d.ProgramID.Equals(TokenProgramID) {
		t.Errorf("ProgramID = %s, want token program", d.ProgramID)
	}
	checkAccounts(t, d.Accounts, []AccountMeta{
		{PublicKey: mint, IsWritable: true},
		{PublicKey: RentSysvarID},
	})

	if len(d.Data) != InitializeMintSize || InitializeMintSize != 67 {
		t.Fatalf("payload length = %d, want 67", len(d.Data))
	}
	if d.Data[0] != 0 || d.Data[1] != 6 {
		t.Errorf("payload header = %v, want [0 6]", d.Data[:2])
	}
	if !bytes.Equal(d.Data[2:34], auth[:]) {
		t.Error("payload[2:34] should be the mint authority")
	}
	if d.Data[34] != 1 {
		t.Errorf("freeze authority tag = %d, want 1", d.Data[34])
	}
	if !bytes.Equal(d.Data[35:67], auth[:]) {
		t.Error("payload[35:67] should be the freeze authority")
	}
}

func TestInitializeMint_Decimals(t *testing.T) {
	tests := []struct {
		decimals int
		wantErr  bool
	}{
		{0, false},
		{9, false},
		{255, false},
		{-1, true},
		{256, true},
	}
	for _, tt := range tests {
		d, err := InitializeMint(testKey(1), testKey(2), tt.decimals)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDecimals) {
				t.Errorf("InitializeMint(decimals=%d) error = %v, want ErrInvalidDecimals", tt.decimals, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("InitializeMint(decimals=%d) error: %v", tt.decimals, err)
			continue
		}
		if int(d.Data[1]) != tt.decimals {
			t.Errorf("decimals byte = %d, want %d", d.Data[1], tt.decimals)
		}
	}
}

func TestMintTo(t *testing.T) {
	mint, owner, auth := testKey(1), testKey(2), testKey(3)

	d, err := MintTo(mint, owner, auth, 1_000_000)
	if err != nil {
		t.Fatalf("MintTo() error: %v", err)
	}
	ata, _ := AssociatedTokenAddress(owner, mint)
	if !d.ProgramID.Equals(TokenProgramID) {
		t.Errorf("ProgramID = %s, want token program", d.ProgramID)
	}
	checkAccounts(t, d.Accounts, []AccountMeta{
		{PublicKey: mint, IsWritable: true},
		{PublicKey: ata, IsWritable: true},
		{PublicKey: auth, IsSigner: true},
	})
	want := []byte{7, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}
	if !bytes.Equal(d.Data, want) {
		t.Errorf("payload = %v, want %v", d.Data, want)
	}
}

func TestSystemTransfer(t *testing.T) {
	from, to := testKey(4), testKey(5)

	d, err := SystemTransfer(from, to, 1_000_000_000)
	if err != nil {
		t.Fatalf("SystemTransfer() error: %v", err)
	}
	if !d.ProgramID.Equals(SystemProgramID) {
		t.Errorf("ProgramID = %s, want system program", d.ProgramID)
	}
	checkAccounts(t, d.Accounts, []AccountMeta{
		{PublicKey: from, IsSigner: true, IsWritable: true},
		{PublicKey: to, IsWritable: true},
	})
	if len(d.Data) != SystemTransferSize {
		t.Fatalf("payload length = %d, want %d", len(d.Data), SystemTransferSize)
	}
	if got := binary.LittleEndian.Uint32(d.Data[:4]); got != 2 {
		t.Errorf("discriminant = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint64(d.Data[4:]); got != 1_000_000_000 {
		t.Errorf("lamports = %d, want 1000000000", got)
	}
}

func TestSystemTransfer_SameAccount(t *testing.T) {
	a := testKey(6)
	if _, err := SystemTransfer(a, a, 1); err != nil {
		t.Errorf("self transfer should build: %v", err)
	}
}

func TestTokenTransfer(t *testing.T) {
	dest, mint, owner := testKey(7), testKey(8), testKey(9)

	d, err := TokenTransfer(dest, mint, owner, 42)
	if err != nil {
		t.Fatalf("TokenTransfer() error: %v", err)
	}
	src, _ := AssociatedTokenAddress(owner, mint)
	dst, _ := AssociatedTokenAddress(dest, mint)
	checkAccounts(t, d.Accounts, []AccountMeta{
		{PublicKey: src, IsWritable: true},
		{PublicKey: dst, IsWritable: true},
		{PublicKey: owner, IsSigner: true},
	})
	want := []byte{3, 42, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(d.Data, want) {
		t.Errorf("payload = %v, want %v", d.Data, want)
	}
}

func TestBuilders_ZeroAmount(t *testing.T) {
	a, b, c := testKey(1), testKey(2), testKey(3)
	tests := []struct {
		name string
		fn   func() (*Descriptor, error)
	}{
		{"mint to", func() (*Descriptor, error) { return MintTo(a, b, c, 0) }},
		{"system transfer", func() (*Descriptor, error) { return SystemTransfer(a, b, 0) }},
		{"token transfer", func() (*Descriptor, error) { return TokenTransfer(a, b, c, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); !errors.Is(err, ErrZeroAmount) {
				t.Errorf("error = %v, want ErrZeroAmount", err)
			}
		})
	}
}

func TestDescriptor_Instruction(t *testing.T) {
	d, err := SystemTransfer(testKey(1), testKey(2), 5)
	if err != nil {
		t.Fatalf("SystemTransfer() error: %v", err)
	}
	in := d.Instruction()
	if !in.ProgramID().Equals(SystemProgramID) {
		t.Errorf("ProgramID() = %s", in.ProgramID())
	}
	data, err := in.Data()
	if err != nil || !bytes.Equal(data, d.Data) {
		t.Errorf("Data() = %v, %v; want %v", data, err, d.Data)
	}
	if len(in.Accounts()) != 2 || !in.Accounts()[0].IsSigner {
		t.Error("Accounts() should mirror the descriptor")
	}

	data[0] = 0xff
	if d.Data[0] == 0xff {
		t.Error("Instruction() should not alias descriptor data")
	}
}

func TestAmountPayload_MaxValue(t *testing.T) {
	got := amountPayload(TokenInstrTransfer, ^uint64(0))
	want := []byte{3, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if !bytes.Equal(got, want) {
		t.Errorf("amountPayload(max) = %v, want %v", got, want)
	}
}
