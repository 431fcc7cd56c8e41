// Package loader reads invoices, templates, label dictionaries and font
// lists from disk.
package loader

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"billing/internal/composer"
	"billing/internal/template"
	"billing/pkg/models"
)

//go:embed labels/*.json
var labelFS embed.FS

// ErrUnknownLocale is returned when no embedded dictionary exists for a
// locale.
var ErrUnknownLocale = errors.New("no labels for locale")

// LoadInvoice decodes an invoice JSON file. Numeric fields are read
// permissively.
func LoadInvoice(path string) (*models.Invoice, error) {
	const op = "LoadInvoice"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var inv models.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", op, path, err)
	}
	return &inv, nil
}

// LoadTemplate parses a template file.
func LoadTemplate(path string) (*template.Template, error) {
	const op = "LoadTemplate"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tpl, err := template.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	return tpl, nil
}

// DefaultLabels returns the embedded dictionary for locale, e.g. "en" or
// "en_US".
func DefaultLabels(locale string) (map[string]string, error) {
	const op = "DefaultLabels"

	lang, _, _ := strings.Cut(strings.ReplaceAll(locale, "-", "_"), "_")
	if lang == "" {
		lang = "en"
	}

	data, err := labelFS.ReadFile("labels/" + strings.ToLower(lang) + ".json")
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnknownLocale, locale)
	}

	labels := make(map[string]string)
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return labels, nil
}

// LoadLabels returns the English defaults overlaid with the entries of the
// file at path. An empty path yields the defaults.
func LoadLabels(path string) (map[string]string, error) {
	const op = "LoadLabels"

	labels, err := DefaultLabels("en")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if path == "" {
		return labels, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	overrides := make(map[string]string)
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", op, path, err)
	}

	maps.Copy(labels, overrides)
	return labels, nil
}

// LoadFonts reads a JSON list of font families. An empty path yields no
// fonts.
func LoadFonts(path string) ([]composer.FontResource, error) {
	const op = "LoadFonts"

	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var fonts []composer.FontResource
	if err := json.Unmarshal(data, &fonts); err != nil {
		return nil, fmt.Errorf("%s: failed to decode %s: %w", op, path, err)
	}
	return fonts, nil
}

// FindInvoices lists the .json files directly inside dir, sorted by name.
func FindInvoices(dir string) ([]string, error) {
	const op = "FindInvoices"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// ReadLogo loads an image file as a data URI. An empty path yields "".
func ReadLogo(path string) (string, error) {
	const op = "ReadLogo"

	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
