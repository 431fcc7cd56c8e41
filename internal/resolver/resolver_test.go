package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/document"
	"billing/internal/template"
	"billing/pkg/models"
)

var labels = map[string]string{
	"balance_due":    "Balance Due",
	"partial_due":    "Partial Due",
	"invoice_number": "Invoice Number",
	"quote_number":   "Quote Number",
	"po_number":      "PO Number",
	"due_date":       "Due Date",
}

func resolveText(t *testing.T, token string, b Bindings) document.Value {
	t.Helper()
	tpl, err := template.Parse([]byte(`{"content": [{"text": "` + token + `"}]}`))
	require.NoError(t, err)

	root, err := Resolve(tpl, b)
	require.NoError(t, err)

	content, ok := root.GetArray("content")
	require.True(t, ok)
	v, ok := content[0].(*document.Object).Get("text")
	require.True(t, ok)
	return v
}

func TestResolveLabels(t *testing.T) {
	partial := &models.Invoice{Partial: models.AmountFromString("50")}
	quote := &models.Invoice{IsQuote: true, Partial: models.AmountFromString("0")}
	plain := &models.Invoice{PONumber: "PO-7"}

	tests := []struct {
		name  string
		token string
		inv   *models.Invoice
		want  string
	}{
		{"plain label", "$balanceDueLabel", plain, "Balance Due"},
		{"partial renames balance due", "$balanceDueLabel", partial, "Partial Due"},
		{"quote rewrites invoice", "$invoiceNumberLabel", quote, "Quote Number"},
		{"upper case", "$invoiceNumberLabelUC", plain, "INVOICE NUMBER"},
		{"colon", "$dueDateLabel:", plain, "Due Date:"},
		{"upper case with colon", "$dueDateLabelUC:", plain, "DUE DATE:"},
		{"optional present", "$poNumberLabel?", plain, "PO Number"},
		{"optional empty", "$dueDateLabel?", plain, " "},
		{"optional zero amount", "$partialLabel?", quote, " "},
		{"missing label", "$shippingLabel", plain, " "},
		{"no invoice", "$dueDateLabel", nil, "Due Date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveText(t, tt.token, Bindings{Labels: labels, Invoice: tt.inv})
			assert.Equal(t, document.String(tt.want), got)
		})
	}
}

func TestResolveValues(t *testing.T) {
	inv := &models.Invoice{
		PONumber: "PO $100",
		Discount: models.AmountFromString("12.5"),
		Client: &models.Client{
			Name:     "Acme",
			Contacts: []models.Contact{{FirstName: "Jane"}, {FirstName: "Joe"}},
		},
		Items: []models.LineItem{{Notes: "Consulting"}},
	}

	tests := []struct {
		token string
		want  string
	}{
		{"$client.name", "Acme"},
		{"$client.contacts.1.firstName", "Joe"},
		{"$invoiceItems.0.notes", "Consulting"},
		{"$poNumberValue", "PO $100"},
		{"$discount", "12.5"},
		{"$partial", " "},
		{"$client.missing", " "},
		{"$account.name", " "},
		{"$client.contacts.9.email", " "},
		{"$client", " "},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := resolveText(t, tt.token, Bindings{Invoice: inv})
			assert.Equal(t, document.String(tt.want), got)
		})
	}
}

func TestResolveDirectAndFunctional(t *testing.T) {
	tpl, err := template.Parse([]byte(`{
		"content": [
			"$accountDetails",
			{"table": {"widths": ["*", "$quantityWidth", "$taxWidth", "10%"]}},
			{"layout": {"hLineWidth": "$firstAndLast:.5", "vLineWidth": "$none", "paddingLeft": "$amount:x"}},
			{"fillColor": "$primaryColor:#299CC1", "color": "$secondaryColor:#AAAAAA"},
			{"fillColor": "$primaryColor", "color": "$secondaryColor"},
			"$future:thing",
			"$accountName"
		]
	}`))
	require.NoError(t, err)

	details := document.Array{document.Text("Acme Ltd", "accountDetails")}
	root, err := Resolve(tpl, Bindings{
		Direct: map[string]document.Value{
			"accountDetails": details,
			"quantityWidth":  document.Splice{document.String("14%")},
			"taxWidth":       document.Splice{},
		},
		Colors: Colors{Primary: "#123456"},
	})
	require.NoError(t, err)

	data, err := document.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"content": [
			[{"text": "Acme Ltd", "style": ["accountDetails"]}],
			{"table": {"widths": ["*", "14%", "10%"]}},
			{"layout": {
				"hLineWidth": {"rule": "firstAndLast", "amount": 0.5},
				"vLineWidth": {"rule": "none", "amount": 0},
				"paddingLeft": {"rule": "amount", "amount": 0}
			}},
			{"fillColor": "#123456", "color": "#AAAAAA"},
			{"fillColor": "#123456", "color": ""},
			"$future:thing",
			" "
		]
	}`, string(data))
}

func TestResolveMarkdown(t *testing.T) {
	got := resolveText(t, "Pay **now** or *later*", Bindings{})
	data, err := document.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `["Pay ", {"text": "now", "bold": true}, " or ", {"text": "later", "italics": true}]`, string(data))

	assert.Equal(t, document.String("plain text"), resolveText(t, "plain text", Bindings{}))
}

func TestMarkdownHeadings(t *testing.T) {
	data, err := document.Marshal(Markdown("# Title\nbody\n### note"))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"text": "Title", "style": "header"},
		"\nbody\n",
		{"text": "note", "style": "help"}
	]`, string(data))

	data, err = document.Marshal(Markdown("**Net**#30 days\n## Terms *apply*"))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"text": "Net", "bold": true},
		"#30 days\n",
		{"text": "Terms *apply*", "style": "subheader"}
	]`, string(data))
}

func TestResolveNilTemplate(t *testing.T) {
	_, err := Resolve(nil, Bindings{})
	assert.ErrorIs(t, err, ErrNoTemplate)
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "balance_due", SnakeCase("balanceDue"))
	assert.Equal(t, "client.first_name", SnakeCase("client.firstName"))
	assert.Equal(t, "po_number", SnakeCase("poNumber"))
}
