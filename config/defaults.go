package config

import "time"

// Default ports and paths.
const (
	DefaultPort        = 8080
	DefaultConfigFile  = "solforge.conf"
	DefaultEnvFile     = ".env"
	DefaultJournalFile = "api_logs.txt"
)

// Default returns the default daemon configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         "0.0.0.0",
			Port:         DefaultPort,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
		Journal: JournalConfig{
			Enabled: true,
			File:    DefaultJournalFile,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		ConfigFile: DefaultConfigFile,
		EnvFile:    DefaultEnvFile,
	}
}
