package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/granja/internal/app"
	"github.com/MrJamesThe3rd/granja/internal/config"
)

func TestNew_MemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_BASE_CURRENCY", "VES")
	t.Setenv("LEDGER_NEAR_EXPIRY_DAYS", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "VES", a.Inventory.Config().BaseCurrency)
	assert.Equal(t, 3, a.Inventory.Config().NearExpiryDays)

	products, err := a.Inventory.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestNew_InvalidMarkup(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LEDGER_DEFAULT_MARKUP", "-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = app.New(context.Background(), cfg)
	assert.Error(t, err)
}
