package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version is reported by --version.
const Version = "0.1.0"

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Files
	Config  string
	EnvFile string

	// Server
	Addr    string
	Port    int
	Allowed string
	CORS    string

	// Journal
	Journal     bool
	JournalFile string

	// Metrics
	Metrics bool

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetJournal bool
	SetMetrics bool
	SetLogJSON bool
}

// ParseFlags parses daemon flags from args (without the program name).
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("solforged", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")
	fs.StringVar(&f.EnvFile, "env-file", "", "Path of a .env file to load")

	fs.StringVar(&f.Addr, "addr", "", "Listen address")
	fs.IntVar(&f.Port, "port", 0, "Listen port")
	fs.StringVar(&f.Allowed, "allowed", "", "Allowed client IPs or CIDRs (comma-separated)")
	fs.StringVar(&f.CORS, "cors", "", "Allowed CORS origins (comma-separated)")

	fs.BoolVar(&f.Journal, "journal", true, "Write the request/response journal")
	fs.StringVar(&f.JournalFile, "journal-file", "", "Journal file path")
	fs.BoolVar(&f.Metrics, "metrics", true, "Serve Prometheus metrics on /metrics")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			f.Help = true
			return f, nil
		}
		return nil, err
	}

	f.SetJournal = isFlagSet(fs, "journal")
	f.SetMetrics = isFlagSet(fs, "metrics")
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()

	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %q was not parsed (positional argument stopped parsing)", arg)
		}
	}

	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Addr != "" {
		cfg.Server.Addr = f.Addr
	}
	if f.Port != 0 {
		cfg.Server.Port = f.Port
	}
	if f.Allowed != "" {
		cfg.Server.AllowedIPs = parseStringList(f.Allowed)
	}
	if f.CORS != "" {
		cfg.Server.CORSOrigins = parseStringList(f.CORS)
	}

	if f.SetJournal {
		cfg.Journal.Enabled = f.Journal
	}
	if f.JournalFile != "" {
		cfg.Journal.File = f.JournalFile
	}
	if f.SetMetrics {
		cfg.Metrics.Enabled = f.Metrics
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintUsage writes the daemon help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `solforged - stateless Solana instruction and signing service

Usage:
  solforged [options]
  solforged init-config [path]   Write a default config file
  solforged --help

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

File Options:
  --config, -c    Config file path (default: solforge.conf)
  --env-file      .env file to load before reading the environment (default: .env)

Server Options:
  --addr          Listen address (default: 0.0.0.0)
  --port          Listen port (default: 8080)
  --allowed       Allowed client IPs or CIDRs (comma-separated)
  --cors          Allowed CORS origins (comma-separated, "*" for all)

Journal Options:
  --journal       Write the request/response journal (default: true)
  --journal-file  Journal file path (default: api_logs.txt)

Metrics Options:
  --metrics       Serve Prometheus metrics on /metrics (default: true)

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON

Environment:
  Every config key can be set as SOLFORGE_<KEY>, with dots replaced by
  underscores: SOLFORGE_SERVER_PORT=9000, SOLFORGE_LOG_LEVEL=debug.

Examples:
  # Listen on localhost only, without a journal
  solforged --addr=127.0.0.1 --journal=false

  # Restrict clients and allow a browser front end
  solforged --allowed=10.0.0.0/8 --cors=http://localhost:3000
`)
}

// Load resolves configuration from args with the following precedence:
// 1. Default values
// 2. Config file
// 3. Environment (after loading the .env file)
// 4. Command-line flags
//
// When --help or --version is given, Load returns a nil Config and the
// parsed flags so the caller can act on them.
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	if flags.Help || flags.Version {
		return nil, flags, nil
	}

	cfg := Default()
	if flags.Config != "" {
		cfg.ConfigFile = flags.Config
	}
	if flags.EnvFile != "" {
		cfg.EnvFile = flags.EnvFile
	}

	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, nil, fmt.Errorf("loading env file: %w", err)
	}

	fileValues, err := LoadFile(cfg.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, nil, fmt.Errorf("applying environment: %w", err)
	}

	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}
