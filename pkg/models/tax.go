package models

import "github.com/shopspring/decimal"

// TaxSpec is a named tax rate in percent.
type TaxSpec struct {
	Name string `json:"name"`
	Rate Amount `json:"rate"`
}

// Active reports whether the tax contributes anything.
func (t *TaxSpec) Active() bool {
	return t != nil && !t.Rate.IsZero()
}

// TaxBucket accumulates line-item tax for one name and rate pair.
type TaxBucket struct {
	Name   string `json:"name"`
	Rate   Amount `json:"rate"`
	Amount Amount `json:"amount"`
}

// Key identifies the bucket, e.g. "VAT20".
func (b TaxBucket) Key() string {
	return TaxKey(b.Name, b.Rate.Decimal)
}

// TaxKey concatenates a tax name and rate.
func TaxKey(name string, rate decimal.Decimal) string {
	return name + rate.String()
}
