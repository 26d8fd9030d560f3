package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if got := cfg.Server.ListenAddr(); got != "0.0.0.0:8080" {
		t.Errorf("ListenAddr() = %q, want 0.0.0.0:8080", got)
	}
	if !cfg.Journal.Enabled || cfg.Journal.File != "api_logs.txt" {
		t.Errorf("journal defaults = %+v", cfg.Journal)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "solforge.conf", `
# comment
server.port = 9000
server.cors = "http://a.example, http://b.example"
log.json = yes
journal.file = 'journal.txt'
unknown.key = ignored
`)
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Log.JSON {
		t.Error("log.json = yes should enable JSON logs")
	}
	if cfg.Journal.File != "journal.txt" {
		t.Errorf("Journal.File = %q, want journal.txt", cfg.Journal.File)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := writeFile(t, "bad.conf", "server.port 9000\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("line without '=' should fail")
	}
}

func TestApplyFileConfig_BadValues(t *testing.T) {
	tests := map[string]string{
		"server.port":          "eighty",
		"server.read_timeout":  "soon",
		"server.write_timeout": "10",
	}
	for key, value := range tests {
		if err := ApplyFileConfig(Default(), map[string]string{key: value}); err == nil {
			t.Errorf("%s = %q should fail", key, value)
		}
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solforge.conf")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	want := Default()
	if cfg.Server.ListenAddr() != want.Server.ListenAddr() || cfg.Journal != want.Journal || cfg.Log != want.Log {
		t.Errorf("default file should reproduce defaults, got %+v", cfg)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("server.read_timeout"); got != "SOLFORGE_SERVER_READ_TIMEOUT" {
		t.Errorf("EnvName() = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, EnvLookup(map[string]string{
		"SOLFORGE_SERVER_PORT":     "7000",
		"SOLFORGE_JOURNAL_ENABLED": "false",
		"SOLFORGE_SERVER_ALLOWED":  "127.0.0.1,10.0.0.0/8",
		"UNRELATED":                "x",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Journal.Enabled {
		t.Error("journal should be disabled")
	}
	if len(cfg.Server.AllowedIPs) != 2 {
		t.Errorf("AllowedIPs = %v", cfg.Server.AllowedIPs)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	err := ApplyEnv(Default(), EnvLookup(map[string]string{"SOLFORGE_SERVER_PORT": "x"}))
	if err == nil {
		t.Error("bad env port should fail")
	}
}

func TestEnvFile_Read(t *testing.T) {
	path := writeFile(t, ".env", "SOLFORGE_LOG_LEVEL=debug\nSOLFORGE_METRICS_ENABLED=0\n")
	vars, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("godotenv.Read() error: %v", err)
	}
	cfg := Default()
	if err := ApplyEnv(cfg, EnvLookup(vars)); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Metrics.Enabled {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should not error: %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path should not error: %v", err)
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--port", "9100", "--journal=false", "--cors", "*", "--log-json"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	cfg := Default()
	ApplyFlags(cfg, f)
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Journal.Enabled {
		t.Error("--journal=false should disable the journal")
	}
	if !cfg.Metrics.Enabled {
		t.Error("unset --metrics should keep the default")
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Log.JSON {
		t.Error("--log-json should enable JSON logs")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := [][]string{
		{"--no-such-flag"},
		{"--port", "abc"},
		{"extra", "--port", "1"},
	}
	for _, args := range tests {
		if _, err := ParseFlags(args); err == nil {
			t.Errorf("ParseFlags(%v) should fail", args)
		}
	}
}

func TestParseFlags_Help(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		f, err := ParseFlags([]string{arg})
		if err != nil || !f.Help {
			t.Errorf("ParseFlags(%s) = %+v, %v", arg, f, err)
		}
	}
}

func TestLoad_Precedence(t *testing.T) {
	conf := writeFile(t, "solforge.conf", "server.port = 8100\nlog.level = warn\njournal.file = from-file.txt\n")
	envFile := writeFile(t, ".env", "SOLFORGE_LOG_LEVEL=error\n")
	t.Setenv("SOLFORGE_SERVER_PORT", "8200")
	t.Cleanup(func() { os.Unsetenv("SOLFORGE_LOG_LEVEL") })

	cfg, _, err := Load([]string{"--config", conf, "--env-file", envFile, "--port", "8300"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8300 {
		t.Errorf("Port = %d, flag should win (8300)", cfg.Server.Port)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, .env should beat the file", cfg.Log.Level)
	}
	if cfg.Journal.File != "from-file.txt" {
		t.Errorf("Journal.File = %q, file should beat defaults", cfg.Journal.File)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	conf := writeFile(t, "solforge.conf", "server.port = 8100\n")
	t.Setenv("SOLFORGE_SERVER_PORT", "8200")

	cfg, _, err := Load([]string{"--config", conf, "--env-file", filepath.Join(t.TempDir(), "none")})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 8200 {
		t.Errorf("Port = %d, environment should win (8200)", cfg.Server.Port)
	}
}

func TestLoad_Help(t *testing.T) {
	cfg, f, err := Load([]string{"--version"})
	if err != nil || cfg != nil || !f.Version {
		t.Errorf("Load(--version) = %v, %+v, %v", cfg, f, err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	conf := writeFile(t, "solforge.conf", "log.level = loud\n")
	if _, _, err := Load([]string{"--config", conf, "--env-file", ""}); err == nil {
		t.Error("invalid log level should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"negative port", func(c *Config) { c.Server.Port = -1 }},
		{"hostname addr", func(c *Config) { c.Server.Addr = "example.com" }},
		{"bad allowed", func(c *Config) { c.Server.AllowedIPs = []string{"not-an-ip"} }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
		{"journal without file", func(c *Config) { c.Journal.File = " " }},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestValidate_AllowedEntries(t *testing.T) {
	cfg := Default()
	cfg.Server.AllowedIPs = []string{"127.0.0.1", "::1", "10.0.0.0/8"}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}
