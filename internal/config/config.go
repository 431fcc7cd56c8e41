package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"billing/internal/composer"
	"billing/internal/logger"
)

type Config struct {
	// Resources
	LabelsPath string
	FontsPath  string
	FontDir    string
	LogoPath   string

	// Branding and typography
	PrimaryColor   string `validate:"omitempty,hexcolor"`
	SecondaryColor string `validate:"omitempty,hexcolor"`
	FontSize       int    `validate:"gte=0,lte=72"`
	BodyFont       string
	HeaderFont     string

	// Output
	OutputDir          string `validate:"required"`
	GCSBucket          string
	GCSPrefix          string
	GCSCredentialsJSON string

	// Google Sheets Configuration
	GoogleSheetURL       string `validate:"omitempty,url"`
	GoogleSheetWorksheet string

	BatchWorkers int `validate:"gte=1,lte=64"`

	// Logging Configuration
	LogLevel      string `validate:"oneof=trace debug info warn error fatal panic"`
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		LabelsPath:           getEnv("LABELS_PATH", ""),
		FontsPath:            getEnv("FONTS_PATH", ""),
		FontDir:              getEnv("FONT_DIR", "fonts"),
		LogoPath:             getEnv("LOGO_PATH", ""),
		PrimaryColor:         getEnv("PRIMARY_COLOR", ""),
		SecondaryColor:       getEnv("SECONDARY_COLOR", ""),
		BodyFont:             getEnv("BODY_FONT", ""),
		HeaderFont:           getEnv("HEADER_FONT", ""),
		OutputDir:            getEnv("OUTPUT_DIR", "out"),
		GCSBucket:            getEnv("GCS_BUCKET", ""),
		GCSPrefix:            getEnv("GCS_PREFIX", ""),
		GCSCredentialsJSON:   getEnv("GCS_CREDENTIALS_JSON", ""),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Invoice_Totals"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stdout"),
	}

	var err error
	if config.FontSize, err = getEnvInt("FONT_SIZE", 0); err != nil {
		return nil, err
	}
	if config.BatchWorkers, err = getEnvInt("BATCH_WORKERS", 4); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	var verrs validator.ValidationErrors
	if err := validator.New().Struct(c); err != nil {
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s is invalid (%s)", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// Branding returns the configured colors. Logos are read by the caller.
func (c *Config) Branding() composer.Branding {
	return composer.Branding{
		PrimaryColor:   c.PrimaryColor,
		SecondaryColor: c.SecondaryColor,
	}
}

func (c *Config) Typography() composer.Typography {
	return composer.Typography{
		FontSize:   c.FontSize,
		BodyFont:   c.BodyFont,
		HeaderFont: c.HeaderFont,
	}
}

// UploadsToGCS reports whether rendered documents go to a bucket.
func (c *Config) UploadsToGCS() bool {
	return c.GCSBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
