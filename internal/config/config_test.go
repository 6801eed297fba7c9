package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "USD", cfg.Ledger.BaseCurrency)
	assert.Equal(t, 7, cfg.Ledger.NearExpiryDays)
	assert.Equal(t, "postgres://postgres:@localhost:5432/granja?sslmode=disable", cfg.ConnectionString())

	ledger, err := cfg.LedgerConfig()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.3").Equal(ledger.DefaultMarkup))
	assert.Equal(t, 365, ledger.DefaultShelfLifeDays)
	assert.False(t, ledger.ExactRestore)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_NEAR_EXPIRY_DAYS", "3")
	t.Setenv("LEDGER_EXACT_RESTORE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)

	ledger, err := cfg.LedgerConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, ledger.NearExpiryDays)
	assert.True(t, ledger.ExactRestore)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		ledger bool
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "bad markup", env: map[string]string{"LEDGER_DEFAULT_MARKUP": "abc"}, ledger: true},
		{name: "zero markup", env: map[string]string{"LEDGER_DEFAULT_MARKUP": "0"}, ledger: true},
		{name: "negative window", env: map[string]string{"LEDGER_NEAR_EXPIRY_DAYS": "-1"}, ledger: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if !tt.ledger {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			_, err = cfg.LedgerConfig()
			assert.Error(t, err)
		})
	}
}
