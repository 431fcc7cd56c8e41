// Package money holds the rounding, parsing and display rules shared by the
// calculator and the section builders.
package money

import (
	"github.com/shopspring/decimal"

	"billing/pkg/models"
)

// Places is the number of fractional digits money is rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round rounds half away from zero to two places. It is idempotent.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse reads a number permissively; malformed input is zero.
func Parse(s string) decimal.Decimal {
	return models.ParseDecimal(s)
}

// Percent returns d * rate / 100 without rounding.
func Percent(d, rate decimal.Decimal) decimal.Decimal {
	return d.Mul(rate).Div(hundred)
}
