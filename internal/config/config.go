package config

import (
	"os"
	"strconv"
)

type Config struct {
	Env          string
	HTTPPort     string
	RateRPS      int
	LedgerShards int
	AuditWorkers int
	AuditBuffer  int
}

func Load() Config {
	return Config{
		Env:          get("APP_ENV", "dev"),
		HTTPPort:     get("HTTP_PORT", "8080"),
		RateRPS:      getInt("RATE_RPS", 100),
		LedgerShards: getInt("LEDGER_SHARDS", 32),
		AuditWorkers: getInt("AUDIT_WORKERS", 4),
		AuditBuffer:  getInt("AUDIT_BUFFER", 1024),
	}
}

func get(key, def string) string { v := os.Getenv(key); if v == "" { return def }; return v }

func getInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return def
}
