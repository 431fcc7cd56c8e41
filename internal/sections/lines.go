package sections

import (
	"github.com/shopspring/decimal"

	"billing/internal/document"
	"billing/internal/money"
	"billing/pkg/models"
)

const (
	productKeyWidth = "15%"
	customWidth     = "10%"
	numericWidth    = "14%"
)

// InvoiceLines builds the line item table: a header row followed by one row
// per shown item. Blank items (no notes, no product key, zero cost) are
// rendered at most once.
func (b *Builder) InvoiceLines() document.Array {
	acc := b.account()
	hideQty := bool(acc.HideQuantity)
	showTaxes := bool(acc.ShowItemTaxes)
	custom1 := b.isPro() && acc.CustomInvoiceItemLabel1 != ""
	custom2 := b.isPro() && acc.CustomInvoiceItemLabel2 != ""

	var header []*document.Object
	if b.inv.HasProductKey {
		header = append(header, headerCell(b.Label("item"), "item"))
	}
	header = append(header, headerCell(b.Label("description"), "description"))
	if custom1 {
		header = append(header, headerCell(acc.CustomInvoiceItemLabel1, "custom1"))
	}
	if custom2 {
		header = append(header, headerCell(acc.CustomInvoiceItemLabel2, "custom2"))
	}
	header = append(header, headerCell(b.Label("unit_cost"), "cost"))
	if !hideQty {
		header = append(header, headerCell(b.Label("quantity"), "qty"))
	}
	if showTaxes {
		header = append(header, headerCell(b.Label("tax"), "tax"))
	}
	header = append(header, headerCell(b.Label("line_total"), "lineTotal"))

	grid := [][]*document.Object{header}
	shownBlank := false
	for i, item := range b.inv.Items {
		if isBlankLine(item) {
			if shownBlank {
				continue
			}
			shownBlank = true
		}

		notes, productKey := item.Notes, item.ProductKey
		if b.inv.IsRecurring {
			notes = expandVariables(notes, b.now)
			productKey = expandVariables(productKey, b.now)
		}

		rowStyle := "even"
		if i%2 == 0 {
			rowStyle = "odd"
		}

		var row []*document.Object
		if b.inv.HasProductKey {
			row = append(row, text(orBlank(productKey), "productKey", rowStyle))
		}
		notesCell := document.Stack(text(orBlank(notes)))
		document.AddStyle(notesCell, "notes")
		document.AddStyle(notesCell, rowStyle)
		row = append(row, notesCell)
		if custom1 {
			row = append(row, text(orBlank(item.CustomValue1), "customValue1", rowStyle))
		}
		if custom2 {
			row = append(row, text(orBlank(item.CustomValue2), "customValue2", rowStyle))
		}
		row = append(row, text(b.money.FormatPlain(item.Cost.Decimal, b.inv), "cost", rowStyle))
		if !hideQty {
			row = append(row, text(orBlank(quantity(item.Qty)), "quantity", rowStyle))
		}
		if showTaxes {
			row = append(row, text(orBlank(taxRate(item.Tax)), "tax", rowStyle))
		}
		row = append(row, text(orBlank(b.format(lineTotal(item))), "lineTotal", rowStyle))

		grid = append(grid, row)
	}

	return prepareTable(grid, "invoiceItems")
}

// InvoiceColumns lists the width spec of every line item column, in the
// order InvoiceLines emits them.
func (b *Builder) InvoiceColumns() document.Array {
	acc := b.account()
	var widths document.Array
	if b.inv.HasProductKey {
		widths = append(widths, document.String(productKeyWidth))
	}
	widths = append(widths, document.String("*"))
	if b.isPro() && acc.CustomInvoiceItemLabel1 != "" {
		widths = append(widths, document.String(customWidth))
	}
	if b.isPro() && acc.CustomInvoiceItemLabel2 != "" {
		widths = append(widths, document.String(customWidth))
	}

	count := 3
	if acc.HideQuantity {
		count--
	}
	if acc.ShowItemTaxes {
		count++
	}
	for i := 0; i < count; i++ {
		widths = append(widths, document.String(numericWidth))
	}
	return widths
}

// QuantityWidth is spliced into a template's width list: one entry when the
// quantity column is shown, nothing otherwise.
func (b *Builder) QuantityWidth() document.Splice {
	if b.account().HideQuantity {
		return document.Splice{}
	}
	return document.Splice{document.String(numericWidth)}
}

// TaxWidth is spliced into a template's width list when item taxes are shown.
func (b *Builder) TaxWidth() document.Splice {
	if !b.account().ShowItemTaxes {
		return document.Splice{}
	}
	return document.Splice{document.String(numericWidth)}
}

func headerCell(label, column string) *document.Object {
	return text(label, "tableHeader", column+"TableHeader")
}

func isBlankLine(item models.LineItem) bool {
	return item.Notes == "" && item.ProductKey == "" && money.Round(item.Cost.Decimal).IsZero()
}

func quantity(qty models.Amount) string {
	if qty.IsZero() {
		return ""
	}
	return money.Round(qty.Decimal).String()
}

func taxRate(tax *models.TaxSpec) string {
	if !tax.Active() {
		return ""
	}
	return tax.Rate.String() + "%"
}

func lineTotal(item models.LineItem) decimal.Decimal {
	return money.Round(item.Cost.Decimal).Mul(money.Round(item.Qty.Decimal))
}
