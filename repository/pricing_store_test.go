package repository

import (
	"path/filepath"
	"testing"

	"github.com/kendall-kelly/print-shop-api/logger"
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingStoreDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PricingConfig.txt")
	store := NewPricingStore(path, logger.Discard())
	store.Load()

	assert.Equal(t, "3.00", store.Get(models.PriceA4BlackWhite).StringFixed(2))
	assert.Equal(t, "-1.00", store.Get(models.PriceThesis).StringFixed(2))
	assert.Equal(t, "5.00", store.Get(models.PriceLongColored).StringFixed(2))

	lines := readFile(t, path)
	require.Len(t, lines, 11)
	assert.Equal(t, pricingHeader, lines[0])
	assert.Equal(t, "a4_black_white=3.00", lines[1])
	assert.Equal(t, "ultra_premium=4.00", lines[10])
}

func TestPricingStoreUnknownKeyIsZero(t *testing.T) {
	store := NewPricingStore(filepath.Join(t.TempDir(), "p.txt"), logger.Discard())
	store.Load()

	assert.True(t, store.Get("glossy").IsZero())
}

func TestPricingStoreParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PricingConfig.txt")
	writeFile(t, path,
		"# PricingConfig.txt",
		"a4_black_white = 2.50",
		"premium=abc",
		"not a pair",
		"a=b=c",
		"lamination=7",
	)

	store := NewPricingStore(path, logger.Discard())
	store.Load()

	assert.Equal(t, "2.50", store.Get(models.PriceA4BlackWhite).StringFixed(2))
	assert.Equal(t, "2.00", store.Get(models.PricePremium).StringFixed(2), "invalid value keeps default")
	assert.Equal(t, "5.00", store.Get(models.PriceA4Colored).StringFixed(2), "absent key keeps default")
	assert.Equal(t, "7.00", store.Get("lamination").StringFixed(2))
	assert.Len(t, store.All(), 11)
}

func TestPricingStoreSetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PricingConfig.txt")
	store := NewPricingStore(path, logger.Discard())
	store.Load()

	require.NoError(t, store.Set(models.PriceThesis, decimal.RequireFromString("-2.5")))
	require.NoError(t, store.Set("lamination", decimal.NewFromInt(10)))

	reloaded := NewPricingStore(path, logger.Discard())
	reloaded.Load()
	assert.Equal(t, "-2.50", reloaded.Get(models.PriceThesis).StringFixed(2))

	entries := reloaded.Entries()
	require.Len(t, entries, 11)
	assert.Equal(t, models.PriceA4BlackWhite, entries[0].Key)
	assert.Equal(t, "lamination", entries[10].Key)
}
