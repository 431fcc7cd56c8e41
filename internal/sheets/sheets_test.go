package sheets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billing/pkg/services"
)

func TestXLSXWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "totals.xlsx")
	w := NewXLSXWriter(path)
	ctx := context.Background()

	require.NoError(t, w.WriteTotals(ctx, []services.TotalsRow{
		{Source: "a.json", InvoiceNumber: "0001", Total: 228, Status: services.StatusOK},
	}, "Totals"))
	require.NoError(t, w.WriteTotals(ctx, []services.TotalsRow{
		{Source: "b.json", InvoiceNumber: "0002", Total: 50, Status: services.StatusOK},
		{Source: "c.json", Status: services.StatusFailed, Message: "bad json"},
	}, "Totals"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Totals"}, f.GetSheetList())

	rows, err := f.GetRows("Totals")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, services.TotalsHeaders, rows[0])
	assert.Equal(t, "a.json", rows[1][0])
	assert.Equal(t, "0002", rows[2][2])
	assert.Equal(t, "228", rows[1][11])
	assert.Equal(t, "bad json", rows[3][16])
}

func TestXLSXWriterAddsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "totals.xlsx")
	w := NewXLSXWriter(path)
	ctx := context.Background()

	require.NoError(t, w.WriteTotals(ctx, []services.TotalsRow{{Source: "a.json"}}, "July"))
	require.NoError(t, w.WriteTotals(ctx, []services.TotalsRow{{Source: "b.json"}}, "August"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.ElementsMatch(t, []string{"July", "August"}, f.GetSheetList())

	rows, err := f.GetRows("August")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestXLSXWriterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewXLSXWriter(filepath.Join(t.TempDir(), "x.xlsx")).WriteTotals(ctx, nil, "Totals")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_9", id)

	_, err = extractSpreadsheetID("https://example.com/sheet")
	assert.ErrorIs(t, err, ErrInvalidSheetURL)
}

func TestNewSheetsServiceRequiresCredentials(t *testing.T) {
	_, err := NewSheetsService(context.Background(), "https://docs.google.com/spreadsheets/d/abc/edit", nil)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestColumnRanges(t *testing.T) {
	assert.Equal(t, "A", columnName(1))
	assert.Equal(t, "Z", columnName(26))
	assert.Equal(t, "AA", columnName(27))
	assert.Equal(t, "A1:R", columnRange(1))
	assert.Equal(t, "A1:R1", rowRange(1))
}
