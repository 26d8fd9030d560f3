package api

import (
	"errors"
	"net/http"

	"github.com/Klingon-tech/solforge/pkg/codec"
	"github.com/Klingon-tech/solforge/pkg/crypto"
	"github.com/Klingon-tech/solforge/pkg/instruction"
	"github.com/Klingon-tech/solforge/pkg/types"
	"github.com/gagliardetto/solana-go"
)

// ── Health & keys ───────────────────────────────────────────────────────

func (s *Server) handleHealth(_ []byte) (interface{}, *Error) {
	return HealthResult{Status: "ok", Message: HealthMessage}, nil
}

func (s *Server) handleKeypair(_ []byte) (interface{}, *Error) {
	kp, err := crypto.GenerateKeypair()
	if err != nil {
		s.logger.Error().Err(err).Msg("Keypair generation failed")
		return nil, &Error{Status: http.StatusInternalServerError, Message: MsgKeypairFailed}
	}
	defer kp.Zero()

	return KeypairResult{
		Pubkey: kp.PublicKey().String(),
		Secret: kp.Secret(),
	}, nil
}

// ── Tokens ──────────────────────────────────────────────────────────────

func (s *Server) handleCreateToken(body []byte) (interface{}, *Error) {
	var req CreateTokenRequest
	if e := decodeBody(body, &req); e != nil {
		return nil, e
	}
	if req.Decimals == nil {
		return nil, badRequest(MsgInvalidBody)
	}
	if req.Authority() == "" || req.Mint == "" {
		return nil, badRequest(MsgMissingFields)
	}

	authority, e := parseAddress(req.Authority(), MsgInvalidMintAuthority)
	if e != nil {
		return nil, e
	}
	mint, e := parseAddress(req.Mint, MsgInvalidMint)
	if e != nil {
		return nil, e
	}

	ix, err := instruction.InitializeMint(mint, authority, *req.Decimals)
	if err != nil {
		s.logger.Debug().Err(err).Msg("InitializeMint rejected")
		return nil, badRequest(MsgInitializeMintFailed)
	}
	return instructionResult(ix), nil
}

func (s *Server) handleMintToken(body []byte) (interface{}, *Error) {
	var req MintTokenRequest
	if e := decodeBody(body, &req); e != nil {
		return nil, e
	}
	if req.Mint == "" || req.Destination == "" || req.Authority == "" {
		return nil, badRequest(MsgMissingFields)
	}

	mint, e := parseAddress(req.Mint, MsgInvalidMint)
	if e != nil {
		return nil, e
	}
	dest, e := parseAddress(req.Destination, MsgInvalidDestination)
	if e != nil {
		return nil, e
	}
	authority, e := parseAddress(req.Authority, MsgInvalidAuthority)
	if e != nil {
		return nil, e
	}
	if req.Amount == 0 {
		return nil, badRequest(MsgAmountNotPositive)
	}

	ix, err := instruction.MintTo(mint, dest, authority, req.Amount)
	if err != nil {
		s.logger.Debug().Err(err).Msg("MintTo rejected")
		return nil, badRequest(MsgMintToFailed)
	}
	return instructionResult(ix), nil
}

// ── Messages ────────────────────────────────────────────────────────────

func (s *Server) handleSignMessage(body []byte) (interface{}, *Error) {
	var req SignMessageRequest
	if e := decodeBody(body, &req); e != nil {
		return nil, e
	}
	if req.Message == "" || req.Secret == "" {
		return nil, badRequest(MsgMissingFields)
	}

	kp, err := crypto.ParseSecret(req.Secret)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidSecretFormat) {
			return nil, badRequest(MsgInvalidSecretFormat)
		}
		return nil, badRequest(MsgInvalidSecret)
	}
	defer kp.Zero()

	var signer crypto.Signer = kp
	sig := signer.Sign([]byte(req.Message))

	return SignMessageResult{
		Signature: types.EncodeSignature(sig),
		PublicKey: signer.PublicKey().String(),
		Message:   req.Message,
	}, nil
}

func (s *Server) handleVerifyMessage(body []byte) (interface{}, *Error) {
	var req VerifyMessageRequest
	if e := decodeBody(body, &req); e != nil {
		return nil, e
	}
	if req.Message == "" || req.Signature == "" || req.Pubkey == "" {
		return nil, badRequest(MsgMissingFields)
	}

	pub, err := types.ParsePublicKey(req.Pubkey)
	if err != nil {
		if errors.Is(err, types.ErrInvalidPublicKeyFormat) {
			return nil, badRequest(MsgInvalidPublicKeyFormat)
		}
		return nil, badRequest(MsgInvalidPublicKey)
	}
	sig, err := types.ParseSignature(req.Signature)
	if err != nil {
		if errors.Is(err, types.ErrInvalidSignatureFormat) {
			return nil, badRequest(MsgInvalidSignatureFormat)
		}
		return nil, badRequest(MsgInvalidSignature)
	}

	valid := s.verifier.Verify(pub, []byte(req.Message), sig)
	s.metrics.verification(valid)

	return VerifyMessageResult{
		Valid:   valid,
		Message: req.Message,
		Pubkey:  req.Pubkey,
	}, nil
}

// ── Transfers ───────────────────────────────────────────────────────────

func (s *Server) handleSendSol(body []byte) (interface{}, *Error) {
	var req SendSolRequest
	if e := decodeBody(body, &req); e != nil {
		return nil, e
	}
	if req.From == "" || req.To == "" {
		return nil, badRequest(MsgMissingFields)
	}

	from, e := parseAddress(req.From, MsgInvalidFrom)
	if e != nil {
		return nil, e
	}
	to, e := parseAddress(req.To, MsgInvalidTo)
	if e != nil {
		return nil, e
	}
	if req.Lamports == 0 {
		return nil, badRequest(MsgAmountNotPositive)
	}

	ix, err := instruction.SystemTransfer(from, to, req.Lamports)
	if err != nil {
		s.logger.Debug().Err(err).Msg("SystemTransfer rejected")
		return nil, badRequest(MsgTransferFailed)
	}
	return instructionResult(ix), nil
}

func (s *Server) handleSendToken(body []byte) (interface{}, *Error) {
	var req SendTokenRequest
	if e := decodeBody(body, &req); e != nil {
		return nil, e
	}
	if req.Destination == "" || req.Mint == "" || req.Owner == "" {
		return nil, badRequest(MsgMissingFields)
	}

	dest, e := parseAddress(req.Destination, MsgInvalidDestination)
	if e != nil {
		return nil, e
	}
	mint, e := parseAddress(req.Mint, MsgInvalidMint)
	if e != nil {
		return nil, e
	}
	owner, e := parseAddress(req.Owner, MsgInvalidOwner)
	if e != nil {
		return nil, e
	}
	if req.Amount == 0 {
		return nil, badRequest(MsgAmountNotPositive)
	}

	ix, err := instruction.TokenTransfer(dest, mint, owner, req.Amount)
	if err != nil {
		s.logger.Debug().Err(err).Msg("TokenTransfer rejected")
		return nil, badRequest(MsgTransferFailed)
	}

	accounts := make([]AccountInfoCamel, len(ix.Accounts))
	for i, a := range ix.Accounts {
		accounts[i] = AccountInfoCamel{Pubkey: a.PublicKey.String(), IsSigner: a.IsSigner}
	}
	return TokenTransferResult{
		ProgramID:       ix.ProgramID.String(),
		Accounts:        accounts,
		InstructionData: codec.EncodeBase64(ix.Data),
	}, nil
}

// ── Helpers ─────────────────────────────────────────────────────────────

// parseAddress parses a role address, reporting msg on failure.
func parseAddress(s, msg string) (solana.PublicKey, *Error) {
	pub, err := types.ParseAddress(s)
	if err != nil {
		return solana.PublicKey{}, badRequest(msg)
	}
	return pub, nil
}

// instructionResult renders a descriptor with snake_case account metas.
func instructionResult(ix *instruction.Descriptor) InstructionResult {
	accounts := make([]AccountInfo, len(ix.Accounts))
	for i, a := range ix.Accounts {
		accounts[i] = AccountInfo{
			Pubkey:     a.PublicKey.String(),
			IsSigner:   a.IsSigner,
			IsWritable: a.IsWritable,
		}
	}
	return InstructionResult{
		ProgramID:       ix.ProgramID.String(),
		Accounts:        accounts,
		InstructionData: codec.EncodeBase64(ix.Data),
	}
}
