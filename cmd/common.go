package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"billing/internal/composer"
	"billing/internal/config"
	"billing/internal/loader"
	"billing/internal/storage"
)

// maxInvoiceFileBytes bounds the size of invoice and template inputs.
const maxInvoiceFileBytes = 10 << 20

// loadConfig reads the environment configuration. The .env file has already
// been loaded by main.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return nil, fmt.Errorf("invalid configuration. Please check your .env file: %w", err)
	}
	return cfg, nil
}

// validateInputFile checks that path is a readable, non-empty JSON file.
func validateInputFile(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Input file not found")
			return nil, fmt.Errorf("input file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing input file")
			return nil, fmt.Errorf("permission denied accessing input file: %s", path)
		}
		return nil, fmt.Errorf("error accessing input file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		log.Warn().Str("file", path).Msg("File does not have .json extension")
	}
	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("input file is empty: %s", path)
	}
	if fileInfo.Size() > maxInvoiceFileBytes {
		return nil, fmt.Errorf("input file too large (%d bytes). Maximum size is %d bytes",
			fileInfo.Size(), maxInvoiceFileBytes)
	}
	return fileInfo, nil
}

// createContext returns a context cancelled on timeout or on SIGINT/SIGTERM.
func createContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// loadResources gathers labels, fonts, logo and styling for the composer.
func loadResources(cfg *config.Config) (composer.Resources, error) {
	labels, err := loader.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return composer.Resources{}, fmt.Errorf("failed to load labels: %w", err)
	}
	fonts, err := loader.LoadFonts(cfg.FontsPath)
	if err != nil {
		return composer.Resources{}, fmt.Errorf("failed to load fonts: %w", err)
	}
	logo, err := loader.ReadLogo(cfg.LogoPath)
	if err != nil {
		return composer.Resources{}, fmt.Errorf("failed to load logo: %w", err)
	}

	branding := cfg.Branding()
	branding.Logo = logo
	branding.AccountLogo = logo

	res := composer.Resources{
		Labels:     labels,
		Fonts:      fonts,
		Branding:   branding,
		Typography: cfg.Typography(),
	}
	if cfg.FontDir != "" {
		res.FontFS = os.DirFS(cfg.FontDir)
	}
	return res, nil
}

// newSaver returns the GCS saver when upload is set, the local output
// directory otherwise. The returned func releases the saver.
func newSaver(ctx context.Context, cfg *config.Config, upload bool) (storage.Saver, func(), error) {
	if !upload {
		return storage.NewFileSaver(cfg.OutputDir), func() {}, nil
	}
	if !cfg.UploadsToGCS() {
		return nil, nil, fmt.Errorf("GCS_BUCKET is required for --upload")
	}
	saver, err := storage.NewGCSSaver(ctx, cfg.GCSBucket, cfg.GCSPrefix, cfg.GCSCredentialsJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCS saver: %w", err)
	}
	return saver, func() { _ = saver.Close() }, nil
}

// writeJSON pretty-prints v to outputPath, or to stdout when it is empty.
func writeJSON(v any, outputPath string, log zerolog.Logger) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output as JSON: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		log.Error().Err(err).Str("output", outputPath).Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info().Str("output", outputPath).Int("bytes", len(data)).Msg("Output written")
	return nil
}

// documentName is the stored file name for an invoice, e.g. "invoice-0007.pdf".
func documentName(entity, number string, publicID int) string {
	if number == "" {
		number = fmt.Sprintf("%d", publicID)
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return fmt.Sprintf("%s-%s.pdf", entity, replacer.Replace(number))
}
