// Package price contains interface of HIVE price quotes.
package price

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=./mock/price.go -package=mock -source=price.go

// ErrNoQuote is returned when a quote source responds without HIVE price.
var ErrNoQuote = errors.New("no quote")

// Quoter returns HIVE price.
type Quoter interface {
	HiveUSD(ctx context.Context) (decimal.Decimal, error)
}
