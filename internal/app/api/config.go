package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
)

// ID strategies accepted in ORDER_ID_STRATEGY.
const (
	IDStrategyHex      = "hex"
	IDStrategySequence = "sequence"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SeedFile          string
	IDStrategy        string
	SequenceOffset    int64
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SeedFile:          strings.TrimSpace(os.Getenv("ORDERS_SEED_FILE")),
		IDStrategy:        strings.ToLower(envDefault("ORDER_ID_STRATEGY", IDStrategyHex)),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	switch cfg.IDStrategy {
	case IDStrategyHex, IDStrategySequence:
	default:
		return Config{}, fmt.Errorf("ORDER_ID_STRATEGY must be %q or %q, got %q", IDStrategyHex, IDStrategySequence, cfg.IDStrategy)
	}
	if raw := strings.TrimSpace(os.Getenv("ORDER_ID_SEQUENCE_OFFSET")); raw != "" {
		offset, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || offset < 0 {
			return Config{}, fmt.Errorf("ORDER_ID_SEQUENCE_OFFSET must be a non-negative integer")
		}
		cfg.SequenceOffset = offset
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
