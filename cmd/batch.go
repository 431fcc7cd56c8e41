package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"billing/internal/composer"
	"billing/internal/config"
	"billing/internal/invoice"
	"billing/internal/loader"
	"billing/internal/logger"
	"billing/internal/render"
	"billing/internal/sheets"
	"billing/internal/template"
	"billing/pkg/models"
	"billing/pkg/services"
)

var batchCmd = &cobra.Command{
	Use:   "batch [folder-path]",
	Short: "Calculate every invoice in a folder and export the totals",
	Long: `Process all invoice JSON files in a folder in parallel. Each invoice is
calculated and, with --render, composed and rendered to PDF.

The totals of every file are exported as one row each:
  --xlsx FILE  appends to a local workbook
  --sheet      appends to the Google Sheet at GOOGLE_SHEET_URL, using the
               service account key in GCS_CREDENTIALS_JSON

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 4)`,
	Example: `  # Print a summary of all invoices in a folder
  billing batch ./invoices

  # Render PDFs and export totals to a workbook
  billing batch ./invoices --render --template templates/clean.json --xlsx totals.xlsx

  # Append totals to Google Sheets
  billing batch ./invoices --sheet`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// BatchResult is the outcome of processing one invoice file.
type BatchResult struct {
	Filename string
	Invoice  *models.Invoice
	Document string
	Error    error
	Status   string
	Index    int
}

// WorkerJob is one invoice file queued for a worker.
type WorkerJob struct {
	FilePath string
	Index    int
}

// batchRun carries what every worker shares. All fields are read-only once
// workers start.
type batchRun struct {
	cfg        *config.Config
	validation *invoice.Validation
	composer   *composer.Composer
	template   *template.Template
	resources  composer.Resources
	render     bool
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("template", "t", "", "Document template JSON file (required with --render)")
	batchCmd.Flags().Bool("render", false, "Render a PDF for each invoice")
	batchCmd.Flags().Bool("upload", false, "Store rendered PDFs in Google Cloud Storage")
	batchCmd.Flags().String("xlsx", "", "Append totals to this XLSX workbook")
	batchCmd.Flags().Bool("sheet", false, "Append totals to Google Sheets")
	batchCmd.Flags().String("sheet-name", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	batchCmd.Flags().Bool("verbose", false, "Show detailed processing information")
}

func runBatch(cmd *cobra.Command, args []string) error {
	batchID := uuid.NewString()
	log := logger.WithJob("batch", batchID, args[0])

	folderPath := args[0]
	templatePath, _ := cmd.Flags().GetString("template")
	renderPDF, _ := cmd.Flags().GetBool("render")
	upload, _ := cmd.Flags().GetBool("upload")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	sheetName, _ := cmd.Flags().GetString("sheet-name")
	verbose, _ := cmd.Flags().GetBool("verbose")

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}
	if renderPDF && templatePath == "" {
		return fmt.Errorf("--template is required with --render")
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if sheetName == "" {
		sheetName = cfg.GoogleSheetWorksheet
	}

	ctx, cancel := createContext(30*time.Minute, log)
	defer cancel()

	run := &batchRun{
		cfg:        cfg,
		validation: invoice.NewValidation(),
		composer:   composer.New(),
		render:     renderPDF,
	}
	if renderPDF {
		if run.template, err = loader.LoadTemplate(templatePath); err != nil {
			return err
		}
		if run.resources, err = loadResources(cfg); err != nil {
			return err
		}
		saver, release, err := newSaver(ctx, cfg, upload)
		if err != nil {
			return err
		}
		defer release()
		run.resources.Backend = render.New(saver)
	}

	exporters, err := createExporters(ctx, cfg, xlsxPath, toSheet)
	if err != nil {
		return err
	}

	files, err := loader.FindInvoices(folderPath)
	if err != nil {
		return fmt.Errorf("failed to find invoice files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No invoice files found in folder.")
		return nil
	}

	log.Info().
		Int("files", len(files)).
		Int("workers", cfg.BatchWorkers).
		Bool("render", renderPDF).
		Msg("Starting batch processing")
	fmt.Printf("Processing %d invoices with %d workers...\n\n", len(files), cfg.BatchWorkers)

	results := processInParallel(ctx, run, files, cfg.BatchWorkers, log, verbose)

	rows := make([]services.TotalsRow, len(results))
	counts := map[string]int{}
	for i, result := range results {
		rows[i] = services.NewTotalsRow(result.Filename, result.Invoice, result.Error)
		counts[result.Status]++
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("OK: %d\n", counts[services.StatusOK])
	if n := counts[services.StatusDiscrepancy]; n > 0 {
		fmt.Printf("Discrepancies: %d\n", n)
	}
	if n := counts[services.StatusFailed]; n > 0 {
		fmt.Printf("Failed: %d\n", n)
	}

	for name, exporter := range exporters {
		if err := exporter.WriteTotals(ctx, rows, sheetName); err != nil {
			return fmt.Errorf("failed to export totals to %s: %w", name, err)
		}
		fmt.Printf("Exported %d rows to %s (%s)\n", len(rows), name, sheetName)
	}

	log.Info().
		Int("total", len(files)).
		Int("ok", counts[services.StatusOK]).
		Int("discrepancies", counts[services.StatusDiscrepancy]).
		Int("failed", counts[services.StatusFailed]).
		Msg("Batch processing completed")
	return nil
}

// createExporters returns the configured totals sinks keyed by display name.
func createExporters(ctx context.Context, cfg *config.Config, xlsxPath string, toSheet bool) (map[string]services.TotalsExporter, error) {
	exporters := make(map[string]services.TotalsExporter)
	if xlsxPath != "" {
		exporters[xlsxPath] = sheets.NewXLSXWriter(xlsxPath)
	}
	if toSheet {
		if cfg.GoogleSheetURL == "" {
			return nil, fmt.Errorf("GOOGLE_SHEET_URL environment variable is required for --sheet")
		}
		svc, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL, []byte(cfg.GCSCredentialsJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to create Google Sheets service: %w", err)
		}
		exporters["Google Sheets"] = svc
	}
	return exporters, nil
}

// processInParallel runs the worker pool. Results keep the order of files.
func processInParallel(ctx context.Context, run *batchRun, files []string, numWorkers int, log zerolog.Logger, verbose bool) []BatchResult {
	jobs := make(chan WorkerJob, len(files))
	results := make([]BatchResult, len(files))

	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.FilePath).
					Int("index", job.Index+1).
					Msg("Worker processing invoice")

				result := run.processFile(ctx, job.FilePath)
				result.Index = job.Index
				result.Filename = filepath.Base(job.FilePath)
				results[job.Index] = result

				mu.Lock()
				processedCount++
				fmt.Printf("[%d/%d] %s - %s", processedCount, len(files), result.Filename, statusMark(result.Status))
				switch {
				case result.Error != nil:
					fmt.Printf(" (%s)", result.Error.Error())
				case result.Invoice != nil:
					fmt.Printf(" (%s)", result.Invoice.TotalAmount.StringFixed(2))
				}
				if verbose && result.Document != "" {
					fmt.Printf(" -> %s", result.Document)
				}
				fmt.Println()
				mu.Unlock()
			}
		}(w)
	}

	for i, file := range files {
		jobs <- WorkerJob{FilePath: file, Index: i}
	}
	close(jobs)

	wg.Wait()
	return results
}

// processFile loads and calculates one invoice and optionally renders it.
// Each call works on its own copies.
func (b *batchRun) processFile(ctx context.Context, path string) BatchResult {
	if err := ctx.Err(); err != nil {
		return BatchResult{Error: err, Status: services.StatusFailed}
	}

	inv, err := loader.LoadInvoice(path)
	if err != nil {
		return BatchResult{Error: err, Status: services.StatusFailed}
	}
	if err := b.validation.ValidateInput(inv); err != nil {
		return BatchResult{Error: err, Status: services.StatusFailed}
	}

	calculated := invoice.Calculate(inv)
	result := BatchResult{Invoice: calculated, Status: services.StatusOK}
	// Exported invoices carry their stored totals; plain drafts do not.
	if !inv.TotalAmount.IsZero() {
		if err := b.validation.Reconcile(inv).Err(); err != nil {
			result.Error, result.Status = err, services.StatusDiscrepancy
		}
	}

	if !b.render {
		return result
	}

	doc, err := b.composer.Compose(inv, b.template, b.resources)
	if err != nil {
		return BatchResult{Invoice: calculated, Error: err, Status: services.StatusFailed}
	}
	entity := "invoice"
	if inv.IsQuote {
		entity = "quote"
	}
	name := documentName(entity, inv.InvoiceNumber, inv.PublicID)
	if err := doc.Save(ctx, name); err != nil {
		return BatchResult{Invoice: calculated, Error: err, Status: services.StatusFailed}
	}
	result.Document = name
	return result
}

func statusMark(status string) string {
	switch status {
	case services.StatusOK:
		return "✅"
	case services.StatusDiscrepancy:
		return "⚠️"
	case services.StatusFailed:
		return "❌"
	default:
		return "❓"
	}
}
