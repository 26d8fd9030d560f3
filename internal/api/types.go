package api

// HealthMessage is reported by GET /health.
const HealthMessage = "Solana Fellowship Server is healthy"

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope of every error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ── Requests ────────────────────────────────────────────────────────────

// CreateTokenRequest is the body of POST /token/create. The mint authority
// may be given as mint_authority or mintAuthority. Decimals is required and
// nil when the body omits it.
type CreateTokenRequest struct {
	MintAuthority      string `json:"mint_authority,omitempty"`
	MintAuthorityCamel string `json:"mintAuthority,omitempty"`
	Mint               string `json:"mint"`
	Decimals           *int   `json:"decimals"`
}

// Authority returns the mint authority from whichever field was set.
func (r *CreateTokenRequest) Authority() string {
	if r.MintAuthority != "" {
		return r.MintAuthority
	}
	return r.MintAuthorityCamel
}

// MintTokenRequest is the body of POST /token/mint.
type MintTokenRequest struct {
	Mint        string `json:"mint"`
	Destination string `json:"destination"`
	Authority   string `json:"authority"`
	Amount      uint64 `json:"amount"`
}

// SignMessageRequest is the body of POST /message/sign.
type SignMessageRequest struct {
	Message string `json:"message"`
	Secret  string `json:"secret"`
}

// VerifyMessageRequest is the body of POST /message/verify.
type VerifyMessageRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Pubkey    string `json:"pubkey"`
}

// SendSolRequest is the body of POST /send/sol.
type SendSolRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Lamports uint64 `json:"lamports"`
}

// SendTokenRequest is the body of POST /send/token.
type SendTokenRequest struct {
	Destination string `json:"destination"`
	Mint        string `json:"mint"`
	Owner       string `json:"owner"`
	Amount      uint64 `json:"amount"`
}

// ── Results ─────────────────────────────────────────────────────────────

// HealthResult is returned by GET /health.
type HealthResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// KeypairResult is returned by POST /keypair.
type KeypairResult struct {
	Pubkey string `json:"pubkey"`
	Secret string `json:"secret"`
}

// SignMessageResult is returned by POST /message/sign.
type SignMessageResult struct {
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Message   string `json:"message"`
}

// VerifyMessageResult is returned by POST /message/verify.
type VerifyMessageResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Pubkey  string `json:"pubkey"`
}

// AccountInfo describes one instruction account.
type AccountInfo struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// AccountInfoCamel is the account shape used by POST /send/token.
type AccountInfoCamel struct {
	Pubkey   string `json:"pubkey"`
	IsSigner bool   `json:"isSigner"`
}

// InstructionResult is returned by /token/create, /token/mint and /send/sol.
type InstructionResult struct {
	ProgramID       string        `json:"program_id"`
	Accounts        []AccountInfo `json:"accounts"`
	InstructionData string        `json:"instruction_data"`
}

// TokenTransferResult is returned by POST /send/token.
type TokenTransferResult struct {
	ProgramID       string             `json:"program_id"`
	Accounts        []AccountInfoCamel `json:"accounts"`
	InstructionData string             `json:"instruction_data"`
}
