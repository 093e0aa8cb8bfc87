package config

import "strings"

// Environment variables that override deploy-time values.
const (
	EnvStoreDriver = "LINGOQUIZ_STORE_DRIVER"
	EnvStoreDSN    = "LINGOQUIZ_STORE_DSN"
	EnvLogLevel    = "LINGOQUIZ_LOG_LEVEL"
	EnvBanksDir    = "LINGOQUIZ_BANKS_DIR"
	EnvConfig      = "LINGOQUIZ_CONFIG"
)

// ApplyEnv overrides file values with non-empty environment values.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	cfg.Store.Driver = envOr(getenv, EnvStoreDriver, cfg.Store.Driver)
	cfg.Store.DSN = envOr(getenv, EnvStoreDSN, cfg.Store.DSN)
	cfg.Log.Level = envOr(getenv, EnvLogLevel, cfg.Log.Level)
	cfg.BanksDir = envOr(getenv, EnvBanksDir, cfg.BanksDir)
}

func envOr(getenv func(string) string, key, fallback string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return fallback
}
