package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOLFORGE_"

// Keys lists every config key that can be set from a file or the environment.
var Keys = []string{
	"server.addr",
	"server.port",
	"server.allowed",
	"server.cors",
	"server.read_timeout",
	"server.write_timeout",
	"log.level",
	"log.file",
	"log.json",
	"journal.enabled",
	"journal.file",
	"metrics.enabled",
}

// EnvName returns the environment variable for a config key,
// e.g. server.port -> SOLFORGE_SERVER_PORT.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// LoadEnvFile loads variables from a .env file into the process environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies SOLFORGE_* overrides found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range Keys {
		value, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("env %s: %w", EnvName(key), err)
		}
	}
	return nil
}

// EnvLookup returns a lookup over a fixed set of variables, such as the
// result of godotenv.Read.
func EnvLookup(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}
