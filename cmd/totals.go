package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"billing/internal/invoice"
	"billing/internal/loader"
	"billing/internal/logger"
	"billing/pkg/models"
	"billing/pkg/services"
)

var totalsCmd = &cobra.Command{
	Use:   "totals [invoice-file]",
	Short: "Calculate the derived amounts of an invoice",
	Long: `Read an invoice JSON file, calculate its subtotal, discount, taxes,
total and balance, and print the result as JSON.

Numeric fields are read permissively: numbers, numeric strings and
malformed values (treated as zero) are all accepted.

With --check the amounts already present in the file are reconciled
against a fresh calculation, and any mismatch is reported.`,
	Example: `  # Print calculated totals
  billing totals invoice.json

  # Save the result to a file
  billing totals invoice.json -o totals.json

  # Verify the stored totals of an exported invoice
  billing totals exported.json --check`,
	Args: cobra.ExactArgs(1),
	RunE: runTotals,
}

// TotalsOutput is the JSON written by the totals command.
type TotalsOutput struct {
	Totals    services.TotalsRow `json:"totals"`
	ItemTaxes []models.TaxBucket `json:"item_taxes"`
	Warnings  []string           `json:"warnings,omitempty"`
	Invoice   *models.Invoice    `json:"invoice,omitempty"`
	Metadata  TotalsMetadata     `json:"metadata"`
}

// TotalsMetadata describes the calculation run.
type TotalsMetadata struct {
	FileName           string        `json:"file_name"`
	FileSize           int64         `json:"file_size_bytes"`
	ProcessedAt        time.Time     `json:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration"`
}

func init() {
	rootCmd.AddCommand(totalsCmd)

	totalsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	totalsCmd.Flags().Bool("check", false, "Reconcile the stored totals instead of replacing them")
	totalsCmd.Flags().Bool("full", false, "Include the calculated invoice in the output")
}

func runTotals(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("totals")

	outputPath, _ := cmd.Flags().GetString("output")
	check, _ := cmd.Flags().GetBool("check")
	full, _ := cmd.Flags().GetBool("full")

	path := args[0]

	log.Info().
		Str("file", path).
		Str("output", outputPath).
		Bool("check", check).
		Msg("Starting totals calculation")

	fileInfo, err := validateInputFile(path, log)
	if err != nil {
		return err
	}

	start := time.Now()
	output, err := calculateTotals(path, check, log)
	if err != nil {
		return handleTotalsError(err, log)
	}
	if !full {
		output.Invoice = nil
	}

	output.Metadata = TotalsMetadata{
		FileName:           filepath.Base(fileInfo.Name()),
		FileSize:           fileInfo.Size(),
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Since(start),
	}

	log.Info().
		Str("invoice_number", output.Totals.InvoiceNumber).
		Float64("total", output.Totals.Total).
		Float64("balance", output.Totals.Balance).
		Int("warnings", len(output.Warnings)).
		Msg("Totals calculation completed")

	return writeJSON(output, outputPath, log)
}

// calculateTotals loads and calculates one invoice. In check mode the stored
// amounts are reconciled and a discrepancy is returned with the output.
func calculateTotals(path string, check bool, log zerolog.Logger) (*TotalsOutput, error) {
	inv, err := loader.LoadInvoice(path)
	if err != nil {
		return nil, err
	}

	validation := invoice.NewValidation()
	if err := validation.ValidateInput(inv); err != nil {
		return nil, err
	}

	var warnings []string
	var rowErr error
	if check {
		result := validation.Reconcile(inv)
		warnings = result.Warnings
		rowErr = result.Err()
	} else {
		inv = invoice.Calculate(inv)
	}

	invLog := logger.WithInvoice(inv.PublicID)
	invLog.Debug().
		Str("file", path).
		Str("total", inv.TotalAmount.String()).
		Msg("Invoice calculated")

	return &TotalsOutput{
		Totals:    services.NewTotalsRow(filepath.Base(path), inv, rowErr),
		ItemTaxes: inv.ItemTaxes,
		Warnings:  warnings,
		Invoice:   inv,
	}, nil
}

// handleTotalsError maps failures to user-facing messages.
func handleTotalsError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Totals calculation failed")

	var verr *invoice.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("invoice field %s is invalid: %w", verr.Field, err)
	case errors.Is(err, invoice.ErrInvalidInvoice):
		return fmt.Errorf("invoice is structurally invalid: %w", err)
	default:
		return fmt.Errorf("totals calculation failed: %w", err)
	}
}
