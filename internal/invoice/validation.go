package invoice

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"billing/internal/logger"
	"billing/internal/money"
	"billing/pkg/models"
)

// Validation checks invoice input at the boundary and reconciles the derived
// totals of calculated invoices.
type Validation struct {
	validate *validator.Validate
	log      zerolog.Logger
}

// NewValidation creates a new validation service.
func NewValidation() *Validation {
	return &Validation{
		validate: validator.New(),
		log:      logger.WithComponent("invoice-validation"),
	}
}

// ReconciliationResult lists every derived value that disagrees with a fresh
// calculation or with the balance invariants.
type ReconciliationResult struct {
	Invoice        *models.Invoice
	Warnings       []string
	HasDiscrepancy bool
}

// Err returns a *ReconciliationError when any check failed.
func (r *ReconciliationResult) Err() error {
	if !r.HasDiscrepancy {
		return nil
	}
	id := 0
	if r.Invoice != nil {
		id = r.Invoice.PublicID
	}
	return &ReconciliationError{PublicID: id, Warnings: r.Warnings}
}

// ValidateInput rejects structurally unusable invoices. Numeric fields are
// never rejected; they were already read permissively.
func (v *Validation) ValidateInput(inv *models.Invoice) error {
	if inv == nil {
		return ErrNilInvoice
	}

	err := v.validate.Struct(inv)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		v.log.Debug().
			Int("public_id", inv.PublicID).
			Str("field", fe.Namespace()).
			Str("rule", fe.Tag()).
			Msg("Invoice failed input validation")
		return NewValidationError(fe.Namespace(), fe.Value(), fmt.Sprintf("failed '%s' rule", fe.Tag()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
}

// Reconcile compares inv against a fresh calculation of itself.
func (v *Validation) Reconcile(inv *models.Invoice) *ReconciliationResult {
	result := &ReconciliationResult{Invoice: inv}
	if inv == nil {
		return result
	}

	fresh := Calculate(inv)
	checks := []struct {
		field      string
		have, want decimal.Decimal
	}{
		{"subtotal_amount", inv.SubtotalAmount.Decimal, fresh.SubtotalAmount.Decimal},
		{"discount_amount", inv.DiscountAmount.Decimal, fresh.DiscountAmount.Decimal},
		{"tax_amount", inv.TaxAmount.Decimal, fresh.TaxAmount.Decimal},
		{"total_amount", inv.TotalAmount.Decimal, fresh.TotalAmount.Decimal},
		{"balance_amount", inv.BalanceAmount.Decimal, fresh.BalanceAmount.Decimal},
	}
	for _, c := range checks {
		if !c.have.Equal(c.want) {
			v.addWarning(result, fmt.Sprintf("%s is %s, calculation gives %s", c.field, c.have, c.want))
		}
	}

	if len(inv.ItemTaxes) != len(fresh.ItemTaxes) {
		v.addWarning(result, fmt.Sprintf("item_taxes has %d buckets, calculation gives %d",
			len(inv.ItemTaxes), len(fresh.ItemTaxes)))
	}
	for _, want := range fresh.ItemTaxes {
		have, ok := inv.ItemTax(want.Name, want.Rate.Decimal)
		if !ok || !have.Amount.Equal(want.Amount.Decimal) {
			v.addWarning(result, fmt.Sprintf("item tax %s is %s, calculation gives %s",
				want.Key(), have.Amount.String(), want.Amount.String()))
		}
	}

	if inv.IsPartial() {
		if !inv.BalanceAmount.Equal(money.Round(inv.Partial.Decimal)) {
			v.addWarning(result, "balance_amount does not match the partial payment")
		}
	} else if !inv.BalanceAmount.Equal(inv.TotalAmount.Decimal) {
		v.addWarning(result, "balance_amount differs from total_amount without a partial payment")
	}

	log := v.log.Debug()
	if result.HasDiscrepancy {
		log = v.log.Warn()
	}
	log.Int("public_id", inv.PublicID).
		Str("total", inv.TotalAmount.String()).
		Str("balance", inv.BalanceAmount.String()).
		Strs("warnings", result.Warnings).
		Msg("Invoice totals reconciled")

	return result
}

func (v *Validation) addWarning(result *ReconciliationResult, warning string) {
	result.Warnings = append(result.Warnings, warning)
	result.HasDiscrepancy = true
}
