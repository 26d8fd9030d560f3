// Solforge instruction server daemon.
//
// Usage:
//
//	solforged [--addr=... --port=...]   Run the server
//	solforged init-config [path]        Write a default config file
//	solforged --help                    Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Klingon-tech/solforge/config"
	"github.com/Klingon-tech/solforge/internal/node"
)

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		config.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	switch {
	case flags.Help:
		config.PrintUsage(os.Stdout)
		return
	case flags.Version:
		fmt.Printf("solforged %s\n", config.Version)
		return
	}

	if len(flags.Args) > 0 {
		switch flags.Args[0] {
		case "init-config":
			path := cfg.ConfigFile
			if len(flags.Args) > 1 {
				path = flags.Args[1]
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote default config to %s\n", path)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", flags.Args[0])
			config.PrintUsage(os.Stderr)
			os.Exit(1)
		}
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		n.Stop()
		os.Exit(1)
	}

	printBanner(n.APIAddr(), cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
}

func printBanner(addr string, cfg *config.Config) {
	fmt.Printf("solforged %s listening on http://%s\n", config.Version, addr)
	fmt.Println("Endpoints:")
	for _, r := range node.Routes {
		fmt.Printf("  %s\n", r)
	}
	if cfg.Metrics.Enabled {
		fmt.Println("  GET  /metrics")
	}
	if cfg.Journal.Enabled {
		fmt.Printf("Journal: %s\n", cfg.Journal.File)
	}
}
