package invoice

import (
	"github.com/shopspring/decimal"

	"billing/internal/money"
	"billing/pkg/models"
)

// Calculate returns a copy of inv with every derived amount filled in. The
// input is not modified. Malformed numbers were already read as zero by the
// model, so the calculation itself cannot fail.
func Calculate(inv *models.Invoice) *models.Invoice {
	if inv == nil {
		return nil
	}
	out := inv.Clone()

	products := make([]decimal.Decimal, len(out.Items))
	subtotal := decimal.Zero
	hasProductKey := false
	for i, item := range out.Items {
		products[i] = money.Round(item.Cost.Decimal).Mul(money.Round(item.Qty.Decimal))
		if lineTotal := money.Round(products[i]); !lineTotal.IsZero() {
			subtotal = subtotal.Add(lineTotal)
		}
		if item.ProductKey != "" {
			hasProductKey = true
		}
	}
	if len(out.Items) == 1 && out.Items[0].Qty.IsZero() {
		hasProductKey = true
	}
	out.HasProductKey = hasProductKey

	out.ItemTaxes = itemTaxes(out, products, subtotal)
	out.SubtotalAmount = models.NewAmount(subtotal)

	total := subtotal
	discount := decimal.Zero
	if !out.Discount.IsZero() {
		if out.IsAmountDiscount {
			discount = money.Round(out.Discount.Decimal)
		} else {
			discount = money.Round(money.Percent(total, out.Discount.Decimal))
		}
		total = total.Sub(discount)
	}
	out.DiscountAmount = models.NewAmount(discount)

	customs := []struct {
		value   models.Amount
		taxable bool
	}{
		{out.CustomValue1, bool(out.CustomTaxes1)},
		{out.CustomValue2, bool(out.CustomTaxes2)},
	}
	for _, c := range customs {
		if c.taxable && !c.value.IsZero() {
			total = total.Add(money.Round(c.value.Decimal))
		}
	}

	tax := decimal.Zero
	if out.Tax.Active() {
		tax = money.Round(money.Percent(total, out.Tax.Rate.Decimal))
		total = total.Add(tax)
	}
	out.TaxAmount = models.NewAmount(tax)

	for _, bucket := range out.ItemTaxes {
		total = total.Add(bucket.Amount.Decimal)
	}

	for _, c := range customs {
		if !c.taxable && !c.value.IsZero() {
			total = total.Add(money.Round(c.value.Decimal))
		}
	}

	paid := money.Round(out.Amount.Decimal).Sub(money.Round(out.Balance.Decimal))
	totalAmount := money.Round(total).Sub(paid)
	out.TotalAmount = models.NewAmount(totalAmount)

	if out.IsPartial() {
		out.BalanceAmount = models.NewAmount(money.Round(out.Partial.Decimal))
	} else {
		out.BalanceAmount = models.NewAmount(totalAmount)
	}

	return out
}

// itemTaxes prorates the invoice discount onto each line and accumulates the
// rounded line tax per name and rate, in first-contribution order.
func itemTaxes(inv *models.Invoice, products []decimal.Decimal, subtotal decimal.Decimal) []models.TaxBucket {
	var buckets []models.TaxBucket
	index := make(map[string]int)

	for i, item := range inv.Items {
		if !item.Tax.Active() {
			continue
		}

		lineTotal := products[i]
		if !inv.Discount.IsZero() {
			if inv.IsAmountDiscount {
				if !subtotal.IsZero() {
					share := lineTotal.Div(subtotal).Mul(inv.Discount.Decimal)
					lineTotal = lineTotal.Sub(money.Round(share))
				}
			} else {
				lineTotal = lineTotal.Sub(money.Round(money.Percent(lineTotal, inv.Discount.Decimal)))
			}
		}

		tax := money.Round(money.Percent(lineTotal, item.Tax.Rate.Decimal))
		key := models.TaxKey(item.Tax.Name, item.Tax.Rate.Decimal)
		if pos, ok := index[key]; ok {
			buckets[pos].Amount = models.NewAmount(buckets[pos].Amount.Add(tax))
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, models.TaxBucket{
			Name:   item.Tax.Name,
			Rate:   item.Tax.Rate,
			Amount: models.NewAmount(tax),
		})
	}

	return buckets
}
