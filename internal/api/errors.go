package api

import (
	"fmt"
	"net/http"
)

// Client-facing error messages.
const (
	MsgMissingFields          = "Missing required fields"
	MsgInvalidBody            = "Invalid request body"
	MsgInvalidMintAuthority   = "Invalid mint authority address"
	MsgInvalidMint            = "Invalid mint address"
	MsgInvalidDestination     = "Invalid destination address"
	MsgInvalidAuthority       = "Invalid authority address"
	MsgInvalidFrom            = "Invalid from address"
	MsgInvalidTo              = "Invalid to address"
	MsgInvalidOwner           = "Invalid owner address"
	MsgInvalidSecretFormat    = "Invalid secret key format"
	MsgInvalidSecret          = "Invalid secret key"
	MsgInvalidPublicKeyFormat = "Invalid public key format"
	MsgInvalidPublicKey       = "Invalid public key"
	MsgInvalidSignatureFormat = "Invalid signature format"
	MsgInvalidSignature       = "Invalid signature"
	MsgAmountNotPositive      = "Amount must be greater than 0"
	MsgInitializeMintFailed   = "Failed to create initialize mint instruction"
	MsgMintToFailed           = "Failed to create mint to instruction"
	MsgTransferFailed         = "Failed to create transfer instruction"
	MsgKeypairFailed          = "Failed to generate keypair"
	MsgNotFound               = "Not found"
	MsgMethodNotAllowed       = "Method not allowed"
	MsgForbidden              = "Forbidden"
)

// Error is a request failure carrying its HTTP status and message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// badRequest returns a 400 error with msg.
func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}
