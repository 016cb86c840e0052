// Package currency holds the fixed set of currencies the storefront sells in.
// Prices are stored per currency (regional pricing), not derived from the
// exchange rate; Rate is kept for display hints only.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	GHS Code = "GHS"
)

type Info struct {
	Symbol string
	Rate   decimal.Decimal
}

var table = map[Code]Info{
	USD: {Symbol: "$", Rate: decimal.NewFromInt(1)},
	EUR: {Symbol: "€", Rate: decimal.RequireFromString("0.93")},
	GHS: {Symbol: "GH₵", Rate: decimal.RequireFromString("14.80")},
}

// codes is the stable iteration order for listings and validation messages.
var codes = []Code{USD, EUR, GHS}

func Codes() []Code {
	out := make([]Code, len(codes))
	copy(out, codes)
	return out
}

func Valid(code Code) bool {
	_, ok := table[code]
	return ok
}

// Get returns the table entry for code. The currency set is fixed at build
// time, so an unknown code is a programming error, not a runtime condition.
func Get(code Code) Info {
	info, ok := table[code]
	if !ok {
		panic(fmt.Sprintf("currency: unknown code %q", code))
	}
	return info
}

// Format renders an amount for display, e.g. "GH₵1,110.00" without grouping:
// symbol followed by the amount to two decimal places.
func Format(code Code, amount decimal.Decimal) string {
	return Get(code).Symbol + amount.StringFixed(2)
}

// PriceMap is a product's per-currency price. Every supported currency must
// carry a positive amount; a missing entry fails closed rather than pricing
// the product at zero.
type PriceMap map[Code]decimal.Decimal

func (p PriceMap) Validate() error {
	for _, code := range codes {
		amount, ok := p[code]
		if !ok {
			return fmt.Errorf("price missing %s amount", code)
		}
		if !amount.IsPositive() {
			return fmt.Errorf("price for %s must be positive, got %s", code, amount)
		}
	}
	for code := range p {
		if !Valid(code) {
			return fmt.Errorf("price has unsupported currency %q", code)
		}
	}
	return nil
}

// Amount returns the price in code. Callers are expected to have validated
// the map on the way in; a missing entry panics like Get does.
func (p PriceMap) Amount(code Code) decimal.Decimal {
	amount, ok := p[code]
	if !ok {
		panic(fmt.Sprintf("currency: price map has no %s entry", code))
	}
	return amount
}
