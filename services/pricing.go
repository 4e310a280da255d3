package services

import (
	"github.com/kendall-kelly/print-shop-api/models"
	"github.com/shopspring/decimal"
)

// PriceTable is the read side of the pricing store
type PriceTable interface {
	Get(key string) decimal.Decimal
}

// DefaultPaperSize is used when a request does not name one
const DefaultPaperSize = "a4"

// QuotePrice computes pages × copies × (base price for size and color + quality surcharge).
// An empty quality adds no surcharge.
func QuotePrice(prices PriceTable, req QuoteRequest) (Quote, error) {
	if err := validateInput(req); err != nil {
		return Quote{}, err
	}

	size := req.PaperSize
	if size == "" {
		size = DefaultPaperSize
	}
	unit := prices.Get(baseKey(size, req.IsColorPrinting))
	if req.Quality != "" {
		unit = unit.Add(prices.Get(req.Quality))
	}

	total := unit.Mul(decimal.NewFromInt(int64(req.PageCount))).Mul(decimal.NewFromInt(int64(req.Copies)))
	return Quote{UnitPrice: unit, Total: total}, nil
}

// base price keys per paper size: black and white, colored
var baseKeys = map[string][2]string{
	"a4":    {models.PriceA4BlackWhite, models.PriceA4Colored},
	"short": {models.PriceShortBlackWhite, models.PriceShortColored},
	"long":  {models.PriceLongBlackWhite, models.PriceLongColored},
}

func baseKey(size string, color bool) string {
	keys := baseKeys[size]
	if color {
		return keys[1]
	}
	return keys[0]
}
