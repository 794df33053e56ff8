package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"ORDERS_SEED_FILE", "ORDER_ID_STRATEGY", "ORDER_ID_SEQUENCE_OFFSET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalDisabled)
	assert.Equal(t, IDStrategyHex, cfg.IDStrategy)
	assert.Zero(t, cfg.SequenceOffset)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_DSN", " postgres://orders@db/orders ")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("ORDERS_SEED_FILE", "configs/orders.seed.yaml")
	t.Setenv("ORDER_ID_STRATEGY", "Sequence")
	t.Setenv("ORDER_ID_SEQUENCE_OFFSET", "100")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "postgres://orders@db/orders", cfg.PostgresDSN)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "configs/orders.seed.yaml", cfg.SeedFile)
	assert.Equal(t, IDStrategySequence, cfg.IDStrategy)
	assert.Equal(t, int64(100), cfg.SequenceOffset)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"port":     {"PORT", "http"},
		"strategy": {"ORDER_ID_STRATEGY", "uuid"},
		"offset":   {"ORDER_ID_SEQUENCE_OFFSET", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
