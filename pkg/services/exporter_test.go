package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"billing/pkg/models"
)

func TestNewTotalsRow(t *testing.T) {
	inv := &models.Invoice{
		PublicID:       7,
		InvoiceNumber:  "0007",
		IsQuote:        true,
		InvoiceDate:    "2024-07-01",
		Amount:         models.AmountFromString("228"),
		Balance:        models.AmountFromString("200"),
		SubtotalAmount: models.AmountFromString("200"),
		DiscountAmount: models.AmountFromString("10"),
		TaxAmount:      models.AmountFromString("0"),
		ItemTaxes: []models.TaxBucket{
			{Name: "VAT", Rate: models.AmountFromString("20"), Amount: models.AmountFromString("38")},
		},
		TotalAmount:   models.AmountFromString("228"),
		BalanceAmount: models.AmountFromString("200"),
		Account:       &models.Account{Currency: &models.Currency{Code: "USD"}},
		Client: &models.Client{
			Name:     "Globex",
			Currency: &models.Currency{Code: "EUR"},
		},
	}

	row := NewTotalsRow("a.json", inv, nil)
	assert.Equal(t, StatusOK, row.Status)
	assert.Equal(t, "quote", row.Entity)
	assert.Equal(t, "Globex", row.Client)
	assert.Equal(t, "EUR", row.Currency)
	assert.InDelta(t, 38, row.Tax, 0.001)
	assert.InDelta(t, 28, row.Paid, 0.001)
	assert.Len(t, row.Values(), len(TotalsHeaders))
}

func TestNewTotalsRowErrors(t *testing.T) {
	failed := NewTotalsRow("broken.json", nil, errors.New("unexpected end of JSON input"))
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "unexpected end of JSON input", failed.Message)
	assert.Empty(t, failed.InvoiceNumber)

	mismatch := NewTotalsRow("b.json", &models.Invoice{InvoiceNumber: "9"}, errors.New("balance mismatch"))
	assert.Equal(t, StatusDiscrepancy, mismatch.Status)
	assert.Equal(t, "invoice", mismatch.Entity)
}
