package invoice

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/pkg/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amt(s string) models.Amount {
	return models.NewAmount(dec(s))
}

func decode(t *testing.T, raw string) *models.Invoice {
	t.Helper()
	var inv models.Invoice
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))
	return &inv
}

func assertDec(t *testing.T, want string, got models.Amount, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s, got %s", field, want, got.String())
}

func TestCalculateAmountDiscountWithItemTax(t *testing.T) {
	inv := decode(t, `{
		"invoice_items": [{"cost": 100, "qty": 2, "tax": {"name": "VAT", "rate": 20}}],
		"discount": 10,
		"is_amount_discount": true
	}`)

	out := Calculate(inv)

	assertDec(t, "200", out.SubtotalAmount, "subtotal")
	assertDec(t, "10", out.DiscountAmount, "discount")
	require.Len(t, out.ItemTaxes, 1)
	assert.Equal(t, "VAT20", out.ItemTaxes[0].Key())
	assertDec(t, "38", out.ItemTaxes[0].Amount, "VAT20")
	assertDec(t, "228", out.TotalAmount, "total")
	assertDec(t, "228", out.BalanceAmount, "balance")
}

func TestCalculateAllZeroItems(t *testing.T) {
	inv := decode(t, `{"invoice_items": [{"cost": 0, "qty": 0}, {"cost": "", "qty": null}, {"notes": "x"}]}`)

	out := Calculate(inv)

	assert.True(t, out.SubtotalAmount.IsZero())
	assert.True(t, out.TotalAmount.IsZero())
	assert.Empty(t, out.ItemTaxes)
}

func TestCalculateDoesNotMutateInput(t *testing.T) {
	inv := decode(t, `{"invoice_items": [{"cost": 5, "qty": 3, "tax_name": "GST", "tax_rate": "10"}]}`)

	out := Calculate(inv)

	assert.True(t, inv.SubtotalAmount.IsZero())
	assert.Nil(t, inv.ItemTaxes)
	assertDec(t, "15", out.SubtotalAmount, "subtotal")
	assertDec(t, "1.5", out.ItemTaxes[0].Amount, "GST10")
}

func TestCalculateIsIdempotent(t *testing.T) {
	inv := decode(t, `{
		"invoice_items": [
			{"cost": "19.99", "qty": "3", "tax": {"name": "VAT", "rate": 19}},
			{"cost": "5.555", "qty": "1.5", "tax": {"name": "VAT", "rate": 7}}
		],
		"discount": 12.5,
		"tax": {"name": "City", "rate": 1.5},
		"custom_value1": 4,
		"custom_taxes1": "1",
		"custom_value2": "2.50"
	}`)

	once := Calculate(inv)
	twice := Calculate(once)

	assert.Equal(t, once.TotalAmount.String(), twice.TotalAmount.String())
	assert.Equal(t, once.ItemTaxes, twice.ItemTaxes)
	assert.Empty(t, NewValidation().Reconcile(once).Warnings)
}

func TestCalculateTaxBucketsCombine(t *testing.T) {
	inv := decode(t, `{"invoice_items": [
		{"cost": "10.01", "qty": 1, "tax": {"name": "VAT", "rate": 20}},
		{"cost": 7, "qty": 1, "tax": {"name": "Reduced", "rate": 5}},
		{"cost": "10.01", "qty": 1, "tax": {"name": "VAT", "rate": 20}}
	]}`)

	out := Calculate(inv)

	require.Len(t, out.ItemTaxes, 2)
	assert.Equal(t, "VAT20", out.ItemTaxes[0].Key())
	assert.Equal(t, "Reduced5", out.ItemTaxes[1].Key())
	// each line rounds 2.002 to 2.00 before summing
	assertDec(t, "4", out.ItemTaxes[0].Amount, "VAT20")
	assertDec(t, "0.35", out.ItemTaxes[1].Amount, "Reduced5")
}

func TestCalculateDiscounts(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantDiscount string
		wantTotal    string
	}{
		{
			name:         "amount discount is exact",
			raw:          `{"invoice_items": [{"cost": 33.33, "qty": 3}], "discount": 7.77, "is_amount_discount": "1"}`,
			wantDiscount: "7.77",
			wantTotal:    "92.22",
		},
		{
			name:         "percentage discount",
			raw:          `{"invoice_items": [{"cost": 80, "qty": 1}], "discount": 12.5}`,
			wantDiscount: "10",
			wantTotal:    "70",
		},
		{
			name:         "zero discount skipped",
			raw:          `{"invoice_items": [{"cost": 80, "qty": 1}], "discount": "0"}`,
			wantDiscount: "0",
			wantTotal:    "80",
		},
		{
			name:         "amount discount on zero subtotal",
			raw:          `{"invoice_items": [{"cost": 0, "qty": 1, "tax": {"name": "VAT", "rate": 20}}], "discount": 5, "is_amount_discount": true}`,
			wantDiscount: "5",
			wantTotal:    "-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Calculate(decode(t, tt.raw))
			assertDec(t, tt.wantDiscount, out.DiscountAmount, "discount")
			assertDec(t, tt.wantTotal, out.TotalAmount, "total")
			assert.False(t, out.DiscountAmount.IsNegative())
		})
	}
}

func TestCalculateCustomValuesAndInvoiceTax(t *testing.T) {
	inv := decode(t, `{
		"invoice_items": [{"cost": 100, "qty": 1}],
		"custom_value1": 50,
		"custom_taxes1": "1",
		"custom_value2": 20,
		"custom_taxes2": "0",
		"tax": {"name": "Sales", "rate": 10}
	}`)

	out := Calculate(inv)

	// tax base is 100 + 50; the untaxed 20 is added afterwards
	assertDec(t, "15", out.TaxAmount, "tax")
	assertDec(t, "185", out.TotalAmount, "total")
}

func TestCalculatePaymentState(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantTotal   string
		wantBalance string
	}{
		{
			name:        "unpaid",
			raw:         `{"invoice_items": [{"cost": 100, "qty": 1}]}`,
			wantTotal:   "100",
			wantBalance: "100",
		},
		{
			name:        "prior payment reduces total",
			raw:         `{"invoice_items": [{"cost": 100, "qty": 1}], "amount": 100, "balance": 60}`,
			wantTotal:   "60",
			wantBalance: "60",
		},
		{
			name:        "partial payment",
			raw:         `{"invoice_items": [{"cost": 100, "qty": 1}], "partial": "25.555"}`,
			wantTotal:   "100",
			wantBalance: "25.56",
		},
		{
			name:        "negative partial ignored",
			raw:         `{"invoice_items": [{"cost": 100, "qty": 1}], "partial": -5}`,
			wantTotal:   "100",
			wantBalance: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Calculate(decode(t, tt.raw))
			assertDec(t, tt.wantTotal, out.TotalAmount, "total")
			assertDec(t, tt.wantBalance, out.BalanceAmount, "balance")
		})
	}
}

func TestCalculateHasProductKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"no keys", `{"invoice_items": [{"cost": 1, "qty": 1}, {"cost": 2, "qty": 1}]}`, false},
		{"one key", `{"invoice_items": [{"cost": 1, "qty": 1}, {"product_key": "SKU", "cost": 2, "qty": 1}]}`, true},
		{"single line blank qty", `{"invoice_items": [{"cost": 10}]}`, true},
		{"no items", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(decode(t, tt.raw)).HasProductKey)
		})
	}
}

func TestCalculateNil(t *testing.T) {
	assert.Nil(t, Calculate(nil))
}
