// solforge-cli is a command-line client for a solforged server. Key
// generation and recovery run locally; everything else calls the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Klingon-tech/solforge/internal/api"
	"github.com/Klingon-tech/solforge/internal/apiclient"
	"github.com/Klingon-tech/solforge/pkg/crypto"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	apiURL := "http://127.0.0.1:8080"
	timeout := 10 * time.Second

	// Scan for --api and --timeout before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--api" && len(args) > 1:
			apiURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--api="):
			apiURL = args[0][len("--api="):]
			args = args[1:]
		case args[0] == "--timeout" && len(args) > 1:
			timeout = parseDuration(args[1])
			args = args[2:]
		case strings.HasPrefix(args[0], "--timeout="):
			timeout = parseDuration(args[0][len("--timeout="):])
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := apiclient.NewWithTimeout(apiURL, timeout)
	ctx := context.Background()
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "health":
		cmdHealth(ctx, client)
	case "keypair":
		cmdKeypair(ctx, client)
	case "keygen":
		cmdKeygen(cmdArgs)
	case "recover":
		cmdRecover(cmdArgs)
	case "pubkey":
		cmdPubkey(cmdArgs)
	case "sign":
		cmdSign(ctx, client, cmdArgs)
	case "verify":
		cmdVerify(ctx, client, cmdArgs)
	case "token":
		cmdToken(ctx, client, cmdArgs)
	case "send":
		cmdSend(ctx, client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: solforge-cli [global flags] <command> [flags]

Global flags:
  --api <url>         Server URL (default: http://127.0.0.1:8080)
  --timeout <dur>     HTTP timeout (default: 10s)

Commands:
  health                          Check the server is up
  keypair                         Ask the server for a new keypair

  keygen [--words 12|24] [--passphrase]
                                  Generate a mnemonic and keypair locally
  recover --mnemonic "..." [--passphrase]
                                  Recover a keypair from a mnemonic
  pubkey [<secret> | --keyfile <path>]
                                  Show the public key of a secret
                                  (prompted when neither is given)

  sign --message <m> [--secret <b58> | --keyfile <path>]
                                  Sign a message (secret prompted if absent)
  verify --message <m> --signature <b64> --pubkey <addr>
                                  Verify a signature

  token create --mint-authority <addr> --mint <addr> --decimals <n>
                                  Build an InitializeMint instruction
  token mint --mint <addr> --destination <owner> --authority <addr> --amount <n>
                                  Build a MintTo instruction

  send sol --from <addr> --to <addr> --lamports <n>
                                  Build a system transfer instruction
  send token --destination <owner> --mint <addr> --owner <addr> --amount <n>
                                  Build an SPL token transfer instruction
`)
}

// ── health / keypair ────────────────────────────────────────────────────

func cmdHealth(ctx context.Context, client *apiclient.Client) {
	res, err := client.Health(ctx)
	if err != nil {
		fatal("health: %v", err)
	}
	fmt.Printf("Status:  %s\n", res.Status)
	fmt.Printf("Message: %s\n", res.Message)
}

func cmdKeypair(ctx context.Context, client *apiclient.Client) {
	res, err := client.Keypair(ctx)
	if err != nil {
		fatal("keypair: %v", err)
	}
	fmt.Printf("Public key: %s\n", res.Pubkey)
	fmt.Printf("Secret:     %s\n", res.Secret)
}

// ── local keys ──────────────────────────────────────────────────────────

func cmdKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	words := fs.Int("words", 24, "Mnemonic length: 12 or 24 words")
	withPass := fs.Bool("passphrase", false, "Prompt for a BIP-39 passphrase")
	fs.Parse(args)

	var bits int
	switch *words {
	case 12:
		bits = crypto.MnemonicEntropy12Words
	case 24:
		bits = crypto.MnemonicEntropy24Words
	default:
		fatal("--words must be 12 or 24")
	}

	mnemonic, err := crypto.GenerateMnemonic(bits)
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	passphrase := ""
	if *withPass {
		passphrase = confirmedPassword("Enter passphrase: ", "Confirm passphrase: ")
	}

	kp, err := crypto.KeypairFromMnemonic(mnemonic, passphrase)
	if err != nil {
		fatal("derive keypair: %v", err)
	}
	defer kp.Zero()

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)
	fmt.Printf("Public key: %s\n", kp.PublicKey())
	fmt.Printf("Secret:     %s\n", kp.Secret())
}

func cmdRecover(args []string) {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic")
	withPass := fs.Bool("passphrase", false, "Prompt for a BIP-39 passphrase")
	fs.Parse(args)

	if *mnemonic == "" {
		fatal(`Usage: solforge-cli recover --mnemonic "word1 word2 ..." [--passphrase]`)
	}

	passphrase := ""
	if *withPass {
		p, err := readPassword("Enter passphrase: ")
		if err != nil {
			fatal("read passphrase: %v", err)
		}
		passphrase = string(p)
	}

	kp, err := crypto.KeypairFromMnemonic(strings.Join(strings.Fields(*mnemonic), " "), passphrase)
	if err != nil {
		fatal("recover keypair: %v", err)
	}
	defer kp.Zero()

	fmt.Printf("Public key: %s\n", kp.PublicKey())
	fmt.Printf("Secret:     %s\n", kp.Secret())
}

func cmdPubkey(args []string) {
	fs := flag.NewFlagSet("pubkey", flag.ExitOnError)
	keyfile := fs.String("keyfile", "", "solana-keygen JSON keypair file")
	fs.Parse(args)

	secret := ""
	if fs.NArg() > 0 {
		secret = fs.Arg(0)
	}
	kp := loadKeypair(secret, *keyfile)
	defer kp.Zero()
	fmt.Println(kp.PublicKey())
}

// ── messages ────────────────────────────────────────────────────────────

func cmdSign(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	message := fs.String("message", "", "Message to sign")
	secretFlag := fs.String("secret", "", "Base58 secret key (prompted when absent)")
	keyfile := fs.String("keyfile", "", "solana-keygen JSON keypair file")
	fs.Parse(args)

	if *message == "" {
		fatal("Usage: solforge-cli sign --message <m> [--secret <b58> | --keyfile <path>]")
	}

	kp := loadKeypair(*secretFlag, *keyfile)
	secret := kp.Secret()
	kp.Zero()

	res, err := client.SignMessage(ctx, api.SignMessageRequest{Message: *message, Secret: secret})
	if err != nil {
		fatal("sign: %v", err)
	}
	fmt.Printf("Signature:  %s\n", res.Signature)
	fmt.Printf("Public key: %s\n", res.PublicKey)
}

func cmdVerify(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	message := fs.String("message", "", "Signed message")
	signature := fs.String("signature", "", "Base64 signature")
	pubkey := fs.String("pubkey", "", "Signer public key")
	fs.Parse(args)

	if *message == "" || *signature == "" || *pubkey == "" {
		fatal("Usage: solforge-cli verify --message <m> --signature <b64> --pubkey <addr>")
	}

	res, err := client.VerifyMessage(ctx, api.VerifyMessageRequest{
		Message:   *message,
		Signature: *signature,
		Pubkey:    *pubkey,
	})
	if err != nil {
		fatal("verify: %v", err)
	}
	if !res.Valid {
		fmt.Println("Signature is NOT valid")
		os.Exit(2)
	}
	fmt.Println("Signature is valid")
}

// ── token ───────────────────────────────────────────────────────────────

func cmdToken(ctx context.Context, client *apiclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: solforge-cli token <create|mint> [flags]")
	}
	switch args[0] {
	case "create":
		cmdTokenCreate(ctx, client, args[1:])
	case "mint":
		cmdTokenMint(ctx, client, args[1:])
	default:
		fatal("Unknown token command: %s", args[0])
	}
}

func cmdTokenCreate(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("token create", flag.ExitOnError)
	authority := fs.String("mint-authority", "", "Mint authority address")
	mint := fs.String("mint", "", "Mint account address")
	decimals := fs.Int("decimals", 9, "Decimal places (0-255)")
	fs.Parse(args)

	if *authority == "" || *mint == "" {
		fatal("Usage: solforge-cli token create --mint-authority <addr> --mint <addr> [--decimals <n>]")
	}

	res, err := client.CreateToken(ctx, api.CreateTokenRequest{
		MintAuthority: *authority,
		Mint:          *mint,
		Decimals:      decimals,
	})
	if err != nil {
		fatal("token create: %v", err)
	}
	printJSON(res)
}

func cmdTokenMint(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("token mint", flag.ExitOnError)
	mint := fs.String("mint", "", "Mint account address")
	dest := fs.String("destination", "", "Owner of the receiving token account")
	authority := fs.String("authority", "", "Mint authority address")
	amountStr := fs.String("amount", "", "Amount in base units")
	fs.Parse(args)

	if *mint == "" || *dest == "" || *authority == "" || *amountStr == "" {
		fatal("Usage: solforge-cli token mint --mint <addr> --destination <owner> --authority <addr> --amount <n>")
	}

	res, err := client.MintToken(ctx, api.MintTokenRequest{
		Mint:        *mint,
		Destination: *dest,
		Authority:   *authority,
		Amount:      parseAmount(*amountStr),
	})
	if err != nil {
		fatal("token mint: %v", err)
	}
	printJSON(res)
}

// ── send ────────────────────────────────────────────────────────────────

func cmdSend(ctx context.Context, client *apiclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: solforge-cli send <sol|token> [flags]")
	}
	switch args[0] {
	case "sol":
		cmdSendSol(ctx, client, args[1:])
	case "token":
		cmdSendToken(ctx, client, args[1:])
	default:
		fatal("Unknown send command: %s", args[0])
	}
}

func cmdSendSol(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("send sol", flag.ExitOnError)
	from := fs.String("from", "", "Sender address")
	to := fs.String("to", "", "Recipient address")
	lamportsStr := fs.String("lamports", "", "Amount in lamports")
	fs.Parse(args)

	if *from == "" || *to == "" || *lamportsStr == "" {
		fatal("Usage: solforge-cli send sol --from <addr> --to <addr> --lamports <n>")
	}

	res, err := client.SendSol(ctx, api.SendSolRequest{
		From:     *from,
		To:       *to,
		Lamports: parseAmount(*lamportsStr),
	})
	if err != nil {
		fatal("send sol: %v", err)
	}
	printJSON(res)
}

func cmdSendToken(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("send token", flag.ExitOnError)
	dest := fs.String("destination", "", "Recipient wallet address")
	mint := fs.String("mint", "", "Mint account address")
	owner := fs.String("owner", "", "Sender wallet address")
	amountStr := fs.String("amount", "", "Amount in base units")
	fs.Parse(args)

	if *dest == "" || *mint == "" || *owner == "" || *amountStr == "" {
		fatal("Usage: solforge-cli send token --destination <owner> --mint <addr> --owner <addr> --amount <n>")
	}

	res, err := client.SendToken(ctx, api.SendTokenRequest{
		Destination: *dest,
		Mint:        *mint,
		Owner:       *owner,
		Amount:      parseAmount(*amountStr),
	})
	if err != nil {
		fatal("send token: %v", err)
	}
	printJSON(res)
}

// ── Helpers ─────────────────────────────────────────────────────────────

// loadKeypair parses secret, or reads keyfile, or prompts for a base58 secret.
func loadKeypair(secret, keyfile string) *crypto.Keypair {
	if secret != "" {
		kp, err := crypto.ParseSecret(secret)
		if err != nil {
			fatal("parse secret: %v", err)
		}
		return kp
	}
	if keyfile != "" {
		kp, err := crypto.KeypairFromKeygenFile(keyfile)
		if err != nil {
			fatal("load keyfile: %v", err)
		}
		return kp
	}

	typed, err := readPassword("Enter secret key: ")
	if err != nil {
		fatal("read secret: %v", err)
	}
	kp, err := crypto.ParseSecret(strings.TrimSpace(string(typed)))
	for i := range typed {
		typed[i] = 0
	}
	if err != nil {
		fatal("parse secret: %v", err)
	}
	return kp
}

func parseAmount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fatal("invalid amount %q: %v", s, err)
	}
	return n
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		fatal("invalid timeout %q: %v", s, err)
	}
	return d
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("encode result: %v", err)
	}
	fmt.Println(string(data))
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func confirmedPassword(prompt, confirmPrompt string) string {
	password, err := readPassword(prompt)
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword(confirmPrompt)
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passphrases do not match")
	}
	return string(password)
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
