package invoice_test

import (
	"encoding/json"
	"fmt"
	"log"

	"billing/internal/invoice"
	"billing/pkg/models"
)

// Example demonstrates computing the totals of a discounted, taxed invoice.
func Example() {
	raw := `{
		"invoice_items": [{"cost": 100, "qty": 2, "tax": {"name": "VAT", "rate": 20}}],
		"discount": 10,
		"is_amount_discount": true
	}`

	var inv models.Invoice
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		log.Fatal(err)
	}

	out := invoice.Calculate(&inv)

	fmt.Printf("Subtotal: %s\n", out.SubtotalAmount.StringFixed(2))
	fmt.Printf("Discount: %s\n", out.DiscountAmount.StringFixed(2))
	for _, bucket := range out.ItemTaxes {
		fmt.Printf("Tax %s: %s\n", bucket.Key(), bucket.Amount.StringFixed(2))
	}
	fmt.Printf("Total: %s\n", out.TotalAmount.StringFixed(2))
	// Output:
	// Subtotal: 200.00
	// Discount: 10.00
	// Tax VAT20: 38.00
	// Total: 228.00
}

// ExampleValidation_Reconcile demonstrates detecting stale derived totals.
func ExampleValidation_Reconcile() {
	inv := invoice.Calculate(&models.Invoice{
		Items: []models.LineItem{{Cost: models.AmountFromString("50"), Qty: models.AmountFromString("2")}},
	})
	inv.TotalAmount = models.AmountFromString("90")

	result := invoice.NewValidation().Reconcile(inv)
	for _, w := range result.Warnings {
		fmt.Println(w)
	}
	// Output:
	// total_amount is 90, calculation gives 100
	// balance_amount differs from total_amount without a partial payment
}
