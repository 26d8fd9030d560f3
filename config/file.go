package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile reads a key = value config file. Blank lines and lines starting
// with # are skipped. A missing file yields an empty map.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return values, scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Server
	case "server.addr":
		cfg.Server.Addr = value
	case "server.port", "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Server.Port = port
	case "server.allowed":
		cfg.Server.AllowedIPs = parseStringList(value)
	case "server.cors":
		cfg.Server.CORSOrigins = parseStringList(value)
	case "server.read_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Server.ReadTimeout = d
	case "server.write_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Server.WriteTimeout = d

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	// Journal
	case "journal.enabled", "journal":
		cfg.Journal.Enabled = parseBool(value)
	case "journal.file":
		cfg.Journal.File = value

	// Metrics
	case "metrics.enabled", "metrics":
		cfg.Metrics.Enabled = parseBool(value)
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a commented default config file.
func WriteDefaultConfig(path string) error {
	content := `# solforge daemon configuration
#
# Environment variables (SOLFORGE_SERVER_PORT, SOLFORGE_LOG_LEVEL, ...)
# override this file; command-line flags override both.

# ============================================================================
# HTTP Server
# ============================================================================

server.addr = 0.0.0.0
server.port = 8080
# Allowed client IPs or CIDRs (comma-separated, empty = all)
# server.allowed = 127.0.0.1,10.0.0.0/8
# CORS allowed origins ("*" for all)
# server.cors = http://localhost:3000
# server.read_timeout = 30s
# server.write_timeout = 30s

# ============================================================================
# Journal
# ============================================================================

journal.enabled = true
journal.file = api_logs.txt

# ============================================================================
# Metrics
# ============================================================================

metrics.enabled = true

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
