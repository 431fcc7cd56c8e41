package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"FONT_SIZE", "BATCH_WORKERS", "OUTPUT_DIR", "PRIMARY_COLOR", "GOOGLE_SHEET_URL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "Invoice_Totals", cfg.GoogleSheetWorksheet)
	assert.Equal(t, "info", cfg.GetLoggerConfig().Level)
	assert.False(t, cfg.UploadsToGCS())
}

func TestLoadProjections(t *testing.T) {
	t.Setenv("PRIMARY_COLOR", "#336699")
	t.Setenv("FONT_SIZE", "11")
	t.Setenv("BODY_FONT", "Lato")
	t.Setenv("GCS_BUCKET", "invoices")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "#336699", cfg.Branding().PrimaryColor)
	assert.Equal(t, 11, cfg.Typography().FontSize)
	assert.Equal(t, "Lato", cfg.Typography().BodyFont)
	assert.True(t, cfg.UploadsToGCS())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "color", key: "PRIMARY_COLOR", value: "blue"},
		{name: "font size", key: "FONT_SIZE", value: "large"},
		{name: "workers", key: "BATCH_WORKERS", value: "0"},
		{name: "log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "sheet url", key: "GOOGLE_SHEET_URL", value: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
