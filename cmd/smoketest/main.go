// Command smoketest boots an in-process instruction server and exercises
// every endpoint through the HTTP client.
//
// Usage: go run ./cmd/smoketest/ [--api http://host:port]
//
// With --api it targets an already running server instead. Each built
// instruction is checked against a local derivation, and the message
// signature is verified locally as well as by the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Klingon-tech/solforge/config"
	"github.com/Klingon-tech/solforge/internal/api"
	"github.com/Klingon-tech/solforge/internal/apiclient"
	klog "github.com/Klingon-tech/solforge/internal/log"
	"github.com/Klingon-tech/solforge/internal/node"
	"github.com/Klingon-tech/solforge/pkg/codec"
	"github.com/Klingon-tech/solforge/pkg/crypto"
	"github.com/Klingon-tech/solforge/pkg/instruction"
	"github.com/Klingon-tech/solforge/pkg/types"
)

func main() {
	apiURL := flag.String("api", "", "Target a running server instead of booting one")
	flag.Parse()

	klog.Init("info", false, "")
	logger := klog.WithComponent("smoketest")

	logger.Info().Msg("=== Solforge Smoke Test ===")

	// ── Phase 1: Boot server ─────────────────────────────────────────────

	url := *apiURL
	if url == "" {
		dir, err := os.MkdirTemp("", "solforge-smoke-")
		if err != nil {
			logger.Fatal().Err(err).Msg("create temp dir")
		}
		defer os.RemoveAll(dir)

		cfg := config.Default()
		cfg.Server.Addr = "127.0.0.1"
		cfg.Server.Port = 0
		cfg.Log.Level = "warn"
		cfg.Journal.File = filepath.Join(dir, config.DefaultJournalFile)

		n, err := node.New(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("build node")
		}
		if err := n.Start(); err != nil {
			logger.Fatal().Err(err).Msg("start node")
		}
		defer n.Stop()
		url = "http://" + n.APIAddr()
	}
	logger.Info().Str("api", url).Msg("Target server")

	// ── Phase 2: Run checks ──────────────────────────────────────────────

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := apiclient.New(url)
	failed := 0
	for _, c := range checks {
		start := time.Now()
		if err := c.run(ctx, client); err != nil {
			failed++
			logger.Error().Err(err).Str("check", c.name).Msg("FAIL")
			continue
		}
		logger.Info().Str("check", c.name).Dur("took", time.Since(start)).Msg("ok")
	}

	// ── Phase 3: Report ──────────────────────────────────────────────────

	if failed > 0 {
		logger.Error().Int("failed", failed).Int("total", len(checks)).Msg("Smoke test FAILED")
		os.Exit(1)
	}
	logger.Info().Int("total", len(checks)).Msg("Smoke test passed")
}

type check struct {
	name string
	run  func(ctx context.Context, c *apiclient.Client) error
}

var checks = []check{
	{"health", checkHealth},
	{"keypair", checkKeypair},
	{"sign/verify", checkSignVerify},
	{"token create", checkCreateToken},
	{"token mint", checkMintToken},
	{"send sol", checkSendSol},
	{"send token", checkSendToken},
	{"validation", checkValidation},
}

func checkHealth(ctx context.Context, c *apiclient.Client) error {
	res, err := c.Health(ctx)
	if err != nil {
		return err
	}
	if res.Status != "ok" {
		return fmt.Errorf("status %q", res.Status)
	}
	return nil
}

func checkKeypair(ctx context.Context, c *apiclient.Client) error {
	res, err := c.Keypair(ctx)
	if err != nil {
		return err
	}
	kp, err := crypto.ParseSecret(res.Secret)
	if err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	defer kp.Zero()
	if kp.PublicKey().String() != res.Pubkey {
		return fmt.Errorf("pubkey %s does not match secret", res.Pubkey)
	}
	return nil
}

func checkSignVerify(ctx context.Context, c *apiclient.Client) error {
	kp, err := crypto.GenerateKeypair()
	if err != nil {
		return err
	}
	defer kp.Zero()

	const msg = "solforge smoke test"
	signed, err := c.SignMessage(ctx, api.SignMessageRequest{Message: msg, Secret: kp.Secret()})
	if err != nil {
		return err
	}
	sig, err := types.ParseSignature(signed.Signature)
	if err != nil {
		return err
	}
	if !crypto.Verify(kp.PublicKey(), []byte(msg), sig) {
		return fmt.Errorf("server signature does not verify locally")
	}

	res, err := c.VerifyMessage(ctx, api.VerifyMessageRequest{
		Message: msg, Signature: signed.Signature, Pubkey: signed.PublicKey,
	})
	if err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("server rejected its own signature")
	}
	return nil
}

func checkCreateToken(ctx context.Context, c *apiclient.Client) error {
	authority, mint := randomAddress(), randomAddress()
	decimals := 6
	res, err := c.CreateToken(ctx, api.CreateTokenRequest{MintAuthority: authority, Mint: mint, Decimals: &decimals})
	if err != nil {
		return err
	}
	want, err := instruction.InitializeMint(types.MustParseAddress(mint), types.MustParseAddress(authority), 6)
	if err != nil {
		return err
	}
	return compareData(res.InstructionData, want)
}

func checkMintToken(ctx context.Context, c *apiclient.Client) error {
	mint, dest, authority := randomAddress(), randomAddress(), randomAddress()
	res, err := c.MintToken(ctx, api.MintTokenRequest{Mint: mint, Destination: dest, Authority: authority, Amount: 1_000_000})
	if err != nil {
		return err
	}
	ata, err := instruction.AssociatedTokenAddress(types.MustParseAddress(dest), types.MustParseAddress(mint))
	if err != nil {
		return err
	}
	if len(res.Accounts) != 3 || res.Accounts[1].Pubkey != ata.String() {
		return fmt.Errorf("destination account is not the associated token account %s", ata)
	}
	return nil
}

func checkSendSol(ctx context.Context, c *apiclient.Client) error {
	from, to := randomAddress(), randomAddress()
	res, err := c.SendSol(ctx, api.SendSolRequest{From: from, To: to, Lamports: 5000})
	if err != nil {
		return err
	}
	want, err := instruction.SystemTransfer(types.MustParseAddress(from), types.MustParseAddress(to), 5000)
	if err != nil {
		return err
	}
	return compareData(res.InstructionData, want)
}

func checkSendToken(ctx context.Context, c *apiclient.Client) error {
	dest, mint, owner := randomAddress(), randomAddress(), randomAddress()
	res, err := c.SendToken(ctx, api.SendTokenRequest{Destination: dest, Mint: mint, Owner: owner, Amount: 7})
	if err != nil {
		return err
	}
	want, err := instruction.TokenTransfer(types.MustParseAddress(dest), types.MustParseAddress(mint), types.MustParseAddress(owner), 7)
	if err != nil {
		return err
	}
	return compareData(res.InstructionData, want)
}

func checkValidation(ctx context.Context, c *apiclient.Client) error {
	_, err := c.SendSol(ctx, api.SendSolRequest{From: randomAddress(), To: randomAddress(), Lamports: 0})
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != api.MsgAmountNotPositive {
		return fmt.Errorf("zero lamports: got %v", err)
	}
	return nil
}

// randomAddress returns the public key of a fresh keypair.
func randomAddress() string {
	kp, err := crypto.GenerateKeypair()
	if err != nil {
		panic(err)
	}
	defer kp.Zero()
	return kp.PublicKey().String()
}

func compareData(got string, want *instruction.Descriptor) error {
	if exp := codec.EncodeBase64(want.Data); got != exp {
		return fmt.Errorf("instruction_data %s, want %s", got, exp)
	}
	return nil
}
