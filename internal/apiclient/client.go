// Package apiclient provides an HTTP client for solforge instruction servers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Klingon-tech/solforge/internal/api"
)

// Client is an HTTP client for the instruction API.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a new API client targeting the given base URL.
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, 10*time.Second)
}

// NewWithTimeout creates a new API client with a custom HTTP timeout.
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// response is either envelope shape.
type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// APIError is returned when the server answers with an error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Call sends a request to path and unmarshals the envelope data into result.
// A nil body sends no request body. If result is nil, the data is discarded.
func (c *Client) Call(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env response
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if result != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}

	return nil
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) (*api.HealthResult, error) {
	var res api.HealthResult
	if err := c.Call(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Keypair asks the server for a fresh keypair.
func (c *Client) Keypair(ctx context.Context) (*api.KeypairResult, error) {
	var res api.KeypairResult
	if err := c.Call(ctx, http.MethodPost, "/keypair", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateToken builds an InitializeMint instruction.
func (c *Client) CreateToken(ctx context.Context, req api.CreateTokenRequest) (*api.InstructionResult, error) {
	var res api.InstructionResult
	if err := c.Call(ctx, http.MethodPost, "/token/create", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MintToken builds a MintTo instruction.
func (c *Client) MintToken(ctx context.Context, req api.MintTokenRequest) (*api.InstructionResult, error) {
	var res api.InstructionResult
	if err := c.Call(ctx, http.MethodPost, "/token/mint", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SignMessage has the server sign a message with the given secret.
func (c *Client) SignMessage(ctx context.Context, req api.SignMessageRequest) (*api.SignMessageResult, error) {
	var res api.SignMessageResult
	if err := c.Call(ctx, http.MethodPost, "/message/sign", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// VerifyMessage checks a signature.
func (c *Client) VerifyMessage(ctx context.Context, req api.VerifyMessageRequest) (*api.VerifyMessageResult, error) {
	var res api.VerifyMessageResult
	if err := c.Call(ctx, http.MethodPost, "/message/verify", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendSol builds a system transfer instruction.
func (c *Client) SendSol(ctx context.Context, req api.SendSolRequest) (*api.InstructionResult, error) {
	var res api.InstructionResult
	if err := c.Call(ctx, http.MethodPost, "/send/sol", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SendToken builds an SPL token transfer instruction.
func (c *Client) SendToken(ctx context.Context, req api.SendTokenRequest) (*api.TokenTransferResult, error) {
	var res api.TokenTransferResult
	if err := c.Call(ctx, http.MethodPost, "/send/token", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
