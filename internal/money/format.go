package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"billing/pkg/models"
)

const defaultPrecision = 2

// Formatter renders amounts in the invoice's currency.
type Formatter struct {
	fallback models.Currency
}

// NewFormatter returns a formatter that falls back to US dollars when neither
// the client nor the account carries a currency.
func NewFormatter() *Formatter {
	return &Formatter{
		fallback: models.Currency{
			Code:              "USD",
			Symbol:            "$",
			ThousandSeparator: ",",
			DecimalSeparator:  ".",
		},
	}
}

// Format renders amount with the currency symbol, e.g. "$1,234.50".
func (f *Formatter) Format(amount decimal.Decimal, inv *models.Invoice) string {
	return f.format(amount, inv, false)
}

// FormatPlain renders amount without any currency symbol or code.
func (f *Formatter) FormatPlain(amount decimal.Decimal, inv *models.Invoice) string {
	return f.format(amount, inv, true)
}

func (f *Formatter) format(amount decimal.Decimal, inv *models.Invoice, hideSymbol bool) string {
	cur := f.fallback
	locale := ""
	if inv != nil {
		if c := inv.Currency(); c != nil {
			cur = *c
		}
		if inv.Account != nil {
			locale = inv.Account.Locale
		}
	}

	precision := defaultPrecision
	if cur.Precision != nil && *cur.Precision >= 0 {
		precision = *cur.Precision
	}

	rounded := amount.Round(int32(precision))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	digits := formatNumber(rounded, precision, cur, locale)
	switch {
	case hideSymbol:
		return sign + digits
	case cur.Symbol == "" && cur.Code != "":
		return sign + digits + " " + cur.Code
	case bool(cur.SwapCurrencySymbol):
		return sign + digits + " " + cur.Symbol
	default:
		return sign + cur.Symbol + digits
	}
}

func formatNumber(d decimal.Decimal, precision int, cur models.Currency, locale string) string {
	if cur.ThousandSeparator == "" && cur.DecimalSeparator == "" {
		return formatLocalized(d, precision, locale)
	}

	decimalSep := cur.DecimalSeparator
	if decimalSep == "" {
		decimalSep = "."
	}

	fixed := d.StringFixed(int32(precision))
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	intPart = group(intPart, cur.ThousandSeparator)
	if precision == 0 {
		return intPart
	}
	return intPart + decimalSep + fracPart
}

func formatLocalized(d decimal.Decimal, precision int, locale string) string {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(strings.ReplaceAll(locale, "_", "-")); err == nil {
			tag = parsed
		}
	}
	f, _ := d.Float64()
	return message.NewPrinter(tag).Sprint(number.Decimal(f, number.Scale(precision)))
}

func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
