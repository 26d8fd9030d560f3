package config

import (
	"fmt"
	"net"
	"strings"

	klog "github.com/Klingon-tech/solforge/internal/log"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in range [0, 65535]")
	}
	if cfg.Server.Addr != "" && net.ParseIP(cfg.Server.Addr) == nil && cfg.Server.Addr != "localhost" {
		return fmt.Errorf("server.addr %q is not an IP address", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	for i, entry := range cfg.Server.AllowedIPs {
		if !validIPEntry(entry) {
			return fmt.Errorf("server.allowed[%d] %q is not an IP or CIDR", i, entry)
		}
	}
	if cfg.Log.Level != "" && !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	if cfg.Journal.Enabled && strings.TrimSpace(cfg.Journal.File) == "" {
		return fmt.Errorf("journal.file is required when the journal is enabled")
	}
	return nil
}

func validIPEntry(entry string) bool {
	if _, _, err := net.ParseCIDR(entry); err == nil {
		return true
	}
	return net.ParseIP(entry) != nil
}
