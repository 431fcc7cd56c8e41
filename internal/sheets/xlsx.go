package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"billing/internal/logger"
	"billing/pkg/services"
)

const defaultSheet = "Sheet1"

// XLSXWriter appends totals rows to a local workbook, creating it on first
// use.
type XLSXWriter struct {
	Path string
	log  zerolog.Logger
}

var _ services.TotalsExporter = (*XLSXWriter)(nil)

// NewXLSXWriter creates a writer for the workbook at path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{
		Path: path,
		log:  logger.WithComponent("xlsx"),
	}
}

// WriteTotals appends rows to sheetName. A header row is written when the
// sheet is created.
func (w *XLSXWriter) WriteTotals(ctx context.Context, rows []services.TotalsRow, sheetName string) error {
	const op = "WriteTotals"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, created, err := w.open()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	next, err := w.ensureSheet(f, sheetName, created)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		values := row.Values()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", op, next+i, err)
		}
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("%s: failed to save %s: %w", op, w.Path, err)
	}

	w.log.Info().
		Str("path", w.Path).
		Str("sheet", sheetName).
		Int("rows_written", len(rows)).
		Msg("Totals written to workbook")
	return nil
}

func (w *XLSXWriter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return excelize.NewFile(), true, nil
		}
		return nil, false, err
	}
	f, err := excelize.OpenFile(w.Path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open %s: %w", w.Path, err)
	}
	return f, false, nil
}

// ensureSheet returns the first free row of sheetName, adding the sheet and
// its header when missing.
func (w *XLSXWriter) ensureSheet(f *excelize.File, sheetName string, created bool) (int, error) {
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return 0, err
	}

	if index >= 0 {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return 0, err
		}
		if len(rows) > 0 {
			return len(rows) + 1, nil
		}
	} else if created {
		// a fresh workbook only holds the default sheet
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return 0, err
		}
	} else {
		index, err = f.NewSheet(sheetName)
		if err != nil {
			return 0, err
		}
		f.SetActiveSheet(index)
	}

	headers := make([]any, len(services.TotalsHeaders))
	for i, h := range services.TotalsHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return 0, err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return 0, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return 0, err
	}

	w.log.Debug().Str("sheet", sheetName).Msg("Created sheet with headers")
	return 2, nil
}
