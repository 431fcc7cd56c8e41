package services

import (
	"context"
	"time"

	"billing/pkg/models"
)

// TotalsExporter writes one row of calculated totals per processed invoice.
type TotalsExporter interface {
	// WriteTotals appends rows to the named sheet, creating it with a header
	// row when it does not exist yet.
	WriteTotals(ctx context.Context, rows []TotalsRow, sheetName string) error
}

// Row status values
const (
	StatusOK          = "ok"
	StatusDiscrepancy = "discrepancy"
	StatusFailed      = "failed"
)

// TotalsRow is the exported summary of one calculated invoice.
type TotalsRow struct {
	Source        string    `json:"source"`
	PublicID      int       `json:"public_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Entity        string    `json:"entity"` // invoice or quote
	Client        string    `json:"client"`
	InvoiceDate   string    `json:"invoice_date"`
	DueDate       string    `json:"due_date"`
	Currency      string    `json:"currency"`
	Subtotal      float64   `json:"subtotal"`
	Discount      float64   `json:"discount"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	Paid          float64   `json:"paid"`
	Balance       float64   `json:"balance"`
	Partial       float64   `json:"partial"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// TotalsHeaders names the exported columns in row order.
var TotalsHeaders = []string{
	"Source", "ID", "Number", "Entity", "Client", "Date", "Due Date", "Currency",
	"Subtotal", "Discount", "Tax", "Total", "Paid", "Balance", "Partial",
	"Status", "Message", "Processed",
}

// NewTotalsRow summarizes a calculated invoice. A nil invoice yields a failed
// row carrying err.
func NewTotalsRow(source string, inv *models.Invoice, err error) TotalsRow {
	row := TotalsRow{
		Source:      source,
		Status:      StatusOK,
		ProcessedAt: time.Now(),
	}
	if err != nil {
		row.Message = err.Error()
		row.Status = StatusFailed
		if inv != nil {
			row.Status = StatusDiscrepancy
		}
	}
	if inv == nil {
		return row
	}

	row.PublicID = inv.PublicID
	row.InvoiceNumber = inv.InvoiceNumber
	row.Entity = "invoice"
	if inv.IsQuote {
		row.Entity = "quote"
	}
	if inv.Client != nil {
		row.Client = inv.Client.DisplayName()
	}
	row.InvoiceDate = inv.InvoiceDate
	row.DueDate = inv.DueDate
	if inv.Account != nil && inv.Account.Currency != nil {
		row.Currency = inv.Account.Currency.Code
	}
	if inv.Client != nil && inv.Client.Currency != nil && inv.Client.Currency.Code != "" {
		row.Currency = inv.Client.Currency.Code
	}

	row.Subtotal = inv.SubtotalAmount.InexactFloat64()
	row.Discount = inv.DiscountAmount.InexactFloat64()
	row.Tax = inv.TaxAmount.InexactFloat64()
	for _, b := range inv.ItemTaxes {
		row.Tax += b.Amount.InexactFloat64()
	}
	row.Total = inv.TotalAmount.InexactFloat64()
	row.Paid = inv.Paid().InexactFloat64()
	row.Balance = inv.BalanceAmount.InexactFloat64()
	row.Partial = inv.Partial.InexactFloat64()
	return row
}

// Values returns the row in TotalsHeaders order.
func (r TotalsRow) Values() []any {
	return []any{
		r.Source,
		r.PublicID,
		r.InvoiceNumber,
		r.Entity,
		r.Client,
		r.InvoiceDate,
		r.DueDate,
		r.Currency,
		r.Subtotal,
		r.Discount,
		r.Tax,
		r.Total,
		r.Paid,
		r.Balance,
		r.Partial,
		r.Status,
		r.Message,
		r.ProcessedAt.Format("2006-01-02 15:04:05"),
	}
}
