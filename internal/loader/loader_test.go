package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/template"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadInvoicePermissive(t *testing.T) {
	path := write(t, t.TempDir(), "inv.json", `{
		"invoice_number": "0007",
		"invoice_items": [{"cost": 1e2, "qty": "2", "tax_name": "VAT", "tax_rate": "2.0E1"}],
		"discount": "oops",
		"is_quote": "1"
	}`)

	inv, err := LoadInvoice(path)
	require.NoError(t, err)
	assert.Equal(t, "0007", inv.InvoiceNumber)
	assert.True(t, bool(inv.IsQuote))
	assert.True(t, inv.Discount.IsZero())
	require.Len(t, inv.Items, 1)
	require.NotNil(t, inv.Items[0].Tax)
	assert.Equal(t, "VAT", inv.Items[0].Tax.Name)
	assert.Equal(t, "100", inv.Items[0].Cost.String())
	assert.Equal(t, "20", inv.Items[0].Tax.Rate.String())
}

func TestLoadInvoiceErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadInvoice(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadInvoice(write(t, dir, "bad.json", `{"invoice_number":`))
	assert.Error(t, err)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()

	tpl, err := LoadTemplate(write(t, dir, "clean.json", `{"content": ["$accountDetails"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"$accountDetails"}, tpl.Placeholders())

	_, err = LoadTemplate(write(t, dir, "broken.json", `["not an object"]`))
	assert.ErrorIs(t, err, template.ErrInvalidTemplate)
}

func TestDefaultLabels(t *testing.T) {
	labels, err := DefaultLabels("en_US")
	require.NoError(t, err)
	assert.Equal(t, "Balance Due", labels["balance_due"])
	assert.Equal(t, "Quote", labels["quote"])

	_, err = DefaultLabels("xx")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}

func TestLoadLabelsOverlaysDefaults(t *testing.T) {
	path := write(t, t.TempDir(), "de.json", `{"balance_due": "Offener Betrag", "custom": "Extra"}`)

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, "Offener Betrag", labels["balance_due"])
	assert.Equal(t, "Extra", labels["custom"])
	assert.Equal(t, "Subtotal", labels["subtotal"])

	defaults, err := LoadLabels("")
	require.NoError(t, err)
	assert.Equal(t, "Balance Due", defaults["balance_due"])
}

func TestLoadFonts(t *testing.T) {
	path := write(t, t.TempDir(), "fonts.json", `[
		{"name": "Roboto", "folder": "roboto", "normal": "Roboto-Regular.ttf", "bold": "Roboto-Medium.ttf"}
	]`)

	fonts, err := LoadFonts(path)
	require.NoError(t, err)
	require.Len(t, fonts, 1)
	assert.Equal(t, "Roboto-Medium.ttf", fonts[0].Bold)

	fonts, err = LoadFonts("")
	require.NoError(t, err)
	assert.Nil(t, fonts)
}

func TestFindInvoices(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.json", "{}")
	write(t, dir, "a.JSON", "{}")
	write(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	paths, err := FindInvoices(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")}, paths)
}

func TestReadLogo(t *testing.T) {
	path := write(t, t.TempDir(), "logo.jpg", "jpeg")

	uri, err := ReadLogo(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	uri, err = ReadLogo("")
	require.NoError(t, err)
	assert.Empty(t, uri)
}
