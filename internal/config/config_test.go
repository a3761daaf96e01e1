package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockAnalysis/internal/analytics"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9095", cfg.Port)
	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, "Ticker", cfg.TickerKey)
	assert.Equal(t, ".NS", cfg.SectorSuffix)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 5, cfg.CumulativeTop)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)

	opts := cfg.DashboardOptions()
	assert.Equal(t, analytics.SampleStd, opts.Std)
	assert.Equal(t, 10, opts.VolatilityTopK)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STOCKDASH_SOURCE", "sqlite")
	t.Setenv("STOCKDASH_TOP_N", "3")
	t.Setenv("STOCKDASH_POPULATION_STD", "true")
	t.Setenv("STOCKDASH_CACHE_TTL", "30s")
	t.Setenv("STOCKDASH_SECTOR_RPS", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceSQLite, cfg.Source)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, 0.5, cfg.SectorRPS)

	opts := cfg.DashboardOptions()
	assert.Equal(t, analytics.PopulationStd, opts.Std)
	assert.Equal(t, 30*time.Second, opts.CacheTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown source", "STOCKDASH_SOURCE", "excel"},
		{"negative top n", "STOCKDASH_TOP_N", "-1"},
		{"zero rps", "STOCKDASH_SECTOR_RPS", "0"},
		{"not a number", "STOCKDASH_TOP_N", "ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestRequireBot(t *testing.T) {
	cfg := Config{}
	err := cfg.RequireBot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STOCKDASH_TELEGRAM_BOT_TOKEN")

	cfg.TelegramToken, cfg.WebhookPublicURL = "t", "https://example.com/telegram/webhook"
	assert.NoError(t, cfg.RequireBot())
}
