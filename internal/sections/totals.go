package sections

import (
	"github.com/shopspring/decimal"

	"billing/internal/document"
	"billing/pkg/models"
)

// freeFooterLength caps the footer of non-pro invoices on the design whose
// footer shares space with the logo.
const freeFooterLength = 200

// Subtotals builds the label/value rows below the line items: subtotal,
// discount, taxable custom charges, item tax buckets, the invoice tax,
// non-taxable custom charges, paid to date and the balance rows. With
// hideBalance set the balance rows are left out unless a partial payment is
// requested.
func (b *Builder) Subtotals(hideBalance bool) document.Array {
	inv := b.inv
	acc := b.account()
	var rows [][]*document.Object
	add := func(label string, amount decimal.Decimal) {
		rows = append(rows, []*document.Object{text(label), text(b.format(amount))})
	}

	add(b.Label("subtotal"), inv.SubtotalAmount.Decimal)
	if !inv.DiscountAmount.IsZero() {
		add(b.Label("discount"), inv.DiscountAmount.Decimal)
	}

	customs := []struct {
		label   string
		value   models.Amount
		taxable bool
	}{
		{acc.CustomInvoiceLabel1, inv.CustomValue1, bool(inv.CustomTaxes1)},
		{acc.CustomInvoiceLabel2, inv.CustomValue2, bool(inv.CustomTaxes2)},
	}
	for _, c := range customs {
		if c.taxable && !c.value.IsZero() {
			add(c.label, c.value.Decimal)
		}
	}

	for _, bucket := range inv.ItemTaxes {
		add(taxLabel(bucket.Name, bucket.Rate), bucket.Amount.Decimal)
	}
	if inv.Tax != nil && inv.Tax.Name != "" {
		add(taxLabel(inv.Tax.Name, inv.Tax.Rate), inv.TaxAmount.Decimal)
	}

	for _, c := range customs {
		if !c.taxable && !c.value.IsZero() {
			add(c.label, c.value.Decimal)
		}
	}

	paid := inv.Paid()
	if !bool(acc.HidePaidToDate) || !paid.IsZero() {
		add(b.Label("paid_to_date"), paid)
	}

	partial := inv.IsPartial()
	if !hideBalance || partial {
		label, value := text(b.Label("balance_due")), text(b.format(inv.TotalAmount.Decimal))
		if !partial {
			document.AddStyle(label, "balanceDueLabel")
			document.AddStyle(value, "balanceDue")
		}
		rows = append(rows, []*document.Object{label, value})
	}
	if !hideBalance && partial {
		rows = append(rows, []*document.Object{
			text(b.Label("partial_due"), "balanceDueLabel"),
			text(b.format(inv.BalanceAmount.Decimal), "balanceDue"),
		})
	}

	return preparePairs(rows, "subtotals")
}

// SubtotalsBalance is the single emphasized row with the amount currently
// due.
func (b *Builder) SubtotalsBalance() document.Array {
	return document.Array{
		document.Array{
			text(b.balanceLabel(), "balanceDueLabel"),
			text(b.format(b.inv.BalanceAmount.Decimal), "balanceDue"),
		},
	}
}

// BalanceDue formats the amount currently due.
func (b *Builder) BalanceDue() string {
	return b.format(b.inv.BalanceAmount.Decimal)
}

// InvoiceDetails builds the label/value rows of the document header: number,
// PO number, dates, custom text values and the balance.
func (b *Builder) InvoiceDetails() document.Array {
	inv := b.inv
	acc := b.account()
	rows := [][]*document.Object{
		{
			text(b.pick("invoice_number", "quote_number"), "invoiceNumberLabel"),
			text(inv.InvoiceNumber, "invoiceNumber"),
		},
		{text(b.Label("po_number")), text(inv.PONumber)},
		{text(b.pick("invoice_date", "quote_date")), text(inv.InvoiceDate)},
		{text(b.pick("due_date", "valid_until")), text(inv.DueDate)},
	}
	if inv.CustomTextValue1 != "" {
		rows = append(rows, []*document.Object{text(acc.CustomInvoiceTextLabel1), text(inv.CustomTextValue1)})
	}
	if inv.CustomTextValue2 != "" {
		rows = append(rows, []*document.Object{text(acc.CustomInvoiceTextLabel2), text(inv.CustomTextValue2)})
	}

	switch {
	case inv.Balance.LessThan(inv.Amount.Decimal):
		rows = append(rows, []*document.Object{text(b.Label("balance_due")), text(b.format(inv.Amount.Decimal))})
	case inv.IsPartial():
		rows = append(rows, []*document.Object{text(b.Label("balance_due")), text(b.format(inv.TotalAmount.Decimal))})
	}

	rows = append(rows, []*document.Object{
		text(b.balanceLabel(), "invoiceDetailBalanceDueLabel"),
		text(b.format(inv.BalanceAmount.Decimal), "invoiceDetailBalanceDue"),
	})
	return preparePairs(rows, "invoiceDetails")
}

// NotesAndTerms lists the public notes followed by the terms.
func (b *Builder) NotesAndTerms() document.Array {
	var items []*document.Object
	if b.inv.PublicNotes != "" {
		items = append(items, document.Stack(text(b.inv.PublicNotes, "notes")), text(" "))
	}
	if b.inv.Terms != "" {
		items = append(items,
			text(b.Label("terms"), "termsLabel"),
			document.Stack(text(b.inv.Terms, "terms")),
		)
	}
	return prepareList(items, "notesAndTerms")
}

// InvoiceFooter returns the footer text, truncated on the free design that
// shares the footer with the logo.
func (b *Builder) InvoiceFooter() string {
	footer := b.inv.InvoiceFooter
	if !b.isPro() && b.inv.InvoiceDesignID == 3 {
		if r := []rune(footer); len(r) > freeFooterLength {
			footer = string(r[:freeFooterLength])
		}
	}
	return orBlank(footer)
}

func (b *Builder) balanceLabel() string {
	if b.inv.IsPartial() {
		return b.Label("partial_due")
	}
	return b.Label("balance_due")
}

func taxLabel(name string, rate models.Amount) string {
	return name + " " + rate.String() + "%"
}
