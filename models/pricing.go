package models

import "github.com/shopspring/decimal"

// Recognised pricing keys
const (
	PriceA4BlackWhite    = "a4_black_white"
	PriceA4Colored       = "a4_colored"
	PriceShortBlackWhite = "short_black_white"
	PriceShortColored    = "short_colored"
	PriceLongBlackWhite  = "long_black_white"
	PriceLongColored     = "long_colored"
	PriceThesis          = "thesis"
	PriceStandard        = "standard"
	PricePremium         = "premium"
	PriceUltraPremium    = "ultra_premium"
)

// PricingEntry is a single key/price pair. Prices may be negative for discounts.
type PricingEntry struct {
	Key   string          `json:"key"`
	Price decimal.Decimal `json:"price"`
}

// PricingKeys lists the recognised keys in file order
var PricingKeys = []string{
	PriceA4BlackWhite,
	PriceA4Colored,
	PriceShortBlackWhite,
	PriceShortColored,
	PriceLongBlackWhite,
	PriceLongColored,
	PriceThesis,
	PriceStandard,
	PricePremium,
	PriceUltraPremium,
}

// DefaultPrices returns the built-in price table
func DefaultPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		PriceA4BlackWhite:    decimal.NewFromInt(3),
		PriceA4Colored:       decimal.NewFromInt(5),
		PriceShortBlackWhite: decimal.NewFromInt(3),
		PriceShortColored:    decimal.NewFromInt(5),
		PriceLongBlackWhite:  decimal.NewFromInt(3),
		PriceLongColored:     decimal.NewFromInt(5),
		PriceThesis:          decimal.NewFromInt(-1),
		PriceStandard:        decimal.Zero,
		PricePremium:         decimal.NewFromInt(2),
		PriceUltraPremium:    decimal.NewFromInt(4),
	}
}

// IsPricingKey reports whether key is one of the recognised keys
func IsPricingKey(key string) bool {
	for _, k := range PricingKeys {
		if k == key {
			return true
		}
	}
	return false
}
