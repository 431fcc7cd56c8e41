// Package sections builds the derived node lists a template embeds through
// direct placeholders: account and client blocks, invoice details, the line
// item table, subtotals and the notes/terms block.
//
// Builders never fail. Missing relations yield empty sections and malformed
// numbers have already been read as zero by the model layer.
package sections

import (
	"time"

	"github.com/shopspring/decimal"

	"billing/internal/document"
	"billing/internal/money"
	"billing/pkg/models"
)

// Builder produces the sections of one calculated invoice.
type Builder struct {
	inv    *models.Invoice
	labels map[string]string
	money  *money.Formatter
	now    time.Time
}

// New creates a builder. inv must already be calculated. now drives the date
// variables of recurring invoices.
func New(inv *models.Invoice, labels map[string]string, f *money.Formatter, now time.Time) *Builder {
	if inv == nil {
		inv = &models.Invoice{}
	}
	if f == nil {
		f = money.NewFormatter()
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Builder{inv: inv, labels: labels, money: f, now: now}
}

// Label returns the dictionary entry for key, or "" when there is none.
func (b *Builder) Label(key string) string {
	return b.labels[key]
}

// EntityLabel returns the label for "quote" or "invoice" depending on the
// document type.
func (b *Builder) EntityLabel() string {
	if b.inv.IsQuote {
		return b.Label("quote")
	}
	return b.Label("invoice")
}

func (b *Builder) account() *models.Account {
	if b.inv.Account == nil {
		return &models.Account{}
	}
	return b.inv.Account
}

func (b *Builder) isPro() bool {
	return bool(b.inv.IsPro)
}

// pick returns the quote variant of a label key on quotes.
func (b *Builder) pick(invoiceKey, quoteKey string) string {
	if b.inv.IsQuote {
		return b.Label(quoteKey)
	}
	return b.Label(invoiceKey)
}

func (b *Builder) format(d decimal.Decimal) string {
	return b.money.Format(d, b.inv)
}

// text builds a leaf whose text is dropped by the filters when empty.
func text(s string, styles ...string) *document.Object {
	return document.Text(s, styles...)
}

// orBlank keeps a leaf visible by substituting a single space.
func orBlank(s string) string {
	if s == "" {
		return " "
	}
	return s
}
