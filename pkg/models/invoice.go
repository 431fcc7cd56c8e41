package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LineItem is a single billable row.
type LineItem struct {
	ProductKey   string   `json:"product_key,omitempty" validate:"max=255"`
	Notes        string   `json:"notes"`
	Cost         Amount   `json:"cost"`
	Qty          Amount   `json:"qty"`
	CustomValue1 string   `json:"custom_value1,omitempty"`
	CustomValue2 string   `json:"custom_value2,omitempty"`
	Tax          *TaxSpec `json:"tax,omitempty"`
}

// UnmarshalJSON accepts both the nested tax object and the legacy flat
// tax_name/tax_rate pair.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	var raw struct {
		plain
		TaxName *string `json:"tax_name"`
		TaxRate *Amount `json:"tax_rate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*li = LineItem(raw.plain)
	li.Tax = foldTax(li.Tax, raw.TaxName, raw.TaxRate)
	return nil
}

// Invoice is the record the calculator and composer operate on. Fields below
// the derived marker are written by invoice.Calculate.
type Invoice struct {
	PublicID        int        `json:"public_id"`
	InvoiceNumber   string     `json:"invoice_number" validate:"max=255"`
	PONumber        string     `json:"po_number,omitempty" validate:"max=255"`
	InvoiceDate     string     `json:"invoice_date,omitempty"`
	DueDate         string     `json:"due_date,omitempty"`
	IsRecurring     Flag       `json:"is_recurring"`
	IsQuote         Flag       `json:"is_quote"`
	IsPro           Flag       `json:"is_pro"`
	InvoiceDesignID int        `json:"invoice_design_id" validate:"gte=0"`
	Items           []LineItem `json:"invoice_items" validate:"dive"`

	Discount         Amount   `json:"discount"`
	IsAmountDiscount Flag     `json:"is_amount_discount"`
	Tax              *TaxSpec `json:"tax,omitempty"`

	CustomValue1     Amount `json:"custom_value1"`
	CustomValue2     Amount `json:"custom_value2"`
	CustomTaxes1     Flag   `json:"custom_taxes1"`
	CustomTaxes2     Flag   `json:"custom_taxes2"`
	CustomTextValue1 string `json:"custom_text_value1,omitempty"`
	CustomTextValue2 string `json:"custom_text_value2,omitempty"`

	Amount  Amount `json:"amount"`
	Balance Amount `json:"balance"`
	Partial Amount `json:"partial"`

	PublicNotes   string `json:"public_notes,omitempty"`
	Terms         string `json:"terms,omitempty"`
	InvoiceFooter string `json:"invoice_footer,omitempty"`

	Account *Account `json:"account,omitempty"`
	Client  *Client  `json:"client,omitempty"`

	// derived
	HasProductKey  bool        `json:"has_product_key"`
	SubtotalAmount Amount      `json:"subtotal_amount"`
	DiscountAmount Amount      `json:"discount_amount"`
	TaxAmount      Amount      `json:"tax_amount"`
	ItemTaxes      []TaxBucket `json:"item_taxes,omitempty"`
	TotalAmount    Amount      `json:"total_amount"`
	BalanceAmount  Amount      `json:"balance_amount"`
}

// UnmarshalJSON folds a legacy flat tax_name/tax_rate pair into Tax.
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	type plain Invoice
	var raw struct {
		plain
		TaxName *string `json:"tax_name"`
		TaxRate *Amount `json:"tax_rate"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*inv = Invoice(raw.plain)
	inv.Tax = foldTax(inv.Tax, raw.TaxName, raw.TaxRate)
	return nil
}

func foldTax(tax *TaxSpec, name *string, rate *Amount) *TaxSpec {
	if tax != nil || (name == nil && rate == nil) {
		return tax
	}
	t := &TaxSpec{}
	if name != nil {
		t.Name = *name
	}
	if rate != nil {
		t.Rate = *rate
	}
	return t
}

// IsPartial reports whether a positive partial payment is requested.
func (inv *Invoice) IsPartial() bool {
	return inv.Partial.IsPositive()
}

// Paid is the amount already paid against the invoice.
func (inv *Invoice) Paid() decimal.Decimal {
	return inv.Amount.Sub(inv.Balance.Decimal)
}

// ItemTax looks up an item tax bucket by name and rate.
func (inv *Invoice) ItemTax(name string, rate decimal.Decimal) (TaxBucket, bool) {
	key := TaxKey(name, rate)
	for _, b := range inv.ItemTaxes {
		if b.Key() == key {
			return b, true
		}
	}
	return TaxBucket{}, false
}

// Clone copies the invoice deeply enough that mutating the copy's items,
// taxes or derived buckets leaves the original untouched. Account and client
// are shared.
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	out := *inv
	if inv.Items != nil {
		out.Items = make([]LineItem, len(inv.Items))
		for i, item := range inv.Items {
			if item.Tax != nil {
				tax := *item.Tax
				item.Tax = &tax
			}
			out.Items[i] = item
		}
	}
	if inv.Tax != nil {
		tax := *inv.Tax
		out.Tax = &tax
	}
	if inv.ItemTaxes != nil {
		out.ItemTaxes = append([]TaxBucket(nil), inv.ItemTaxes...)
	}
	return &out
}

// Currency returns the client currency, then the account currency, or nil.
func (inv *Invoice) Currency() *Currency {
	if inv.Client != nil && inv.Client.Currency != nil {
		return inv.Client.Currency
	}
	if inv.Account != nil {
		return inv.Account.Currency
	}
	return nil
}
