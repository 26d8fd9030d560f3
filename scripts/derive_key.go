// derive_key.go prints the pubkey of a solana-keygen JSON keypair file and,
// given a mint, the associated token account it would receive tokens in.
// Usage: go run scripts/derive_key.go <keyfile> [mint]
package main

import (
	"fmt"
	"os"

	"github.com/Klingon-tech/solforge/pkg/crypto"
	"github.com/Klingon-tech/solforge/pkg/instruction"
	"github.com/Klingon-tech/solforge/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile> [mint]")
		os.Exit(1)
	}
	kp, err := crypto.KeypairFromKeygenFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer kp.Zero()

	pub := kp.PublicKey()
	fmt.Printf("pubkey=%s\n", pub)
	fmt.Printf("on_curve=%t\n", pub.IsOnCurve())

	if len(os.Args) > 2 {
		mint, err := types.ParseAddress(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		ata, err := instruction.AssociatedTokenAddress(pub, mint)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("token_account=%s\n", ata)
	}
}
