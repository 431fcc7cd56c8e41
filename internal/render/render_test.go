package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/composer"
	"billing/internal/document"
	"billing/internal/resolver"
	"billing/internal/template"
	"billing/pkg/models"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

type memorySaver struct {
	saved map[string][]byte
}

func (m *memorySaver) Save(_ context.Context, name string, data []byte) error {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = data
	return nil
}

func definition(t *testing.T, raw string) *document.Object {
	t.Helper()
	tpl, err := template.Parse([]byte(raw))
	require.NoError(t, err)
	doc, err := resolver.Resolve(tpl, resolver.Bindings{})
	require.NoError(t, err)
	return doc
}

func TestRenderProducesPDF(t *testing.T) {
	def := definition(t, `{
		"info": {"title": "Invoice 0007"},
		"content": [
			{"text": "Invoice", "style": "heading"},
			{"columns": [{"text": "Left"}, {"text": "Right", "alignment": "right"}], "columnGap": 10},
			{"table": {"widths": ["*", "20%"], "body": [["Item", "Total"], ["Consulting", "$228.00"]]},
			 "layout": {"hLineWidth": 0.5}},
			{"text": ["Plain ", {"text": "bold", "bold": true}]},
			{"image": "`+pixelPNG+`", "width": 40, "alignment": "center"}
		],
		"styles": {"heading": {"fontSize": 18, "bold": true, "color": "#333"}},
		"defaultStyle": {"fontSize": 10}
	}`)

	data, err := New(nil).Render(document.New(def, nil, nil, nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderComposedInvoice(t *testing.T) {
	tpl, err := template.Parse([]byte(`{
		"content": [
			{"columns": [{"text": "$entityTypeUC"}, {"text": "$invoiceNumber"}]},
			{"columns": ["$accountDetails", "$clientDetails"]},
			{"table": {"widths": "$invoiceLineItemColumns", "body": "$invoiceLineItems"},
			 "layout": {"hLineWidth": "$firstAndLast:1", "vLineWidth": "$none", "paddingLeft": "$amount:8"}},
			{"table": {"body": "$subtotals"}}
		],
		"footer": {"columns": [{"text": "$invoiceFooter"}]}
	}`))
	require.NoError(t, err)

	inv := &models.Invoice{
		InvoiceNumber: "0007",
		InvoiceFooter: "Thank you",
		Items: []models.LineItem{{
			ProductKey: "Consulting",
			Cost:       models.AmountFromString("100"),
			Qty:        models.AmountFromString("2"),
		}},
		Account: &models.Account{Name: "Acme Ltd"},
		Client:  &models.Client{Name: "Globex"},
	}

	saver := &memorySaver{}
	doc, err := composer.New().Compose(inv, tpl, composer.Resources{
		Labels:   map[string]string{"invoice": "Invoice"},
		Branding: composer.Branding{Logo: pixelPNG},
		Backend:  New(saver),
	})
	require.NoError(t, err)

	require.NoError(t, doc.Save(context.Background(), "invoice-0007.pdf"))
	assert.True(t, bytes.HasPrefix(saver.saved["invoice-0007.pdf"], []byte("%PDF-")))
}

func TestRenderLastPageFooter(t *testing.T) {
	rows := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, `{"text": "Line of filler text"}`)
	}
	def := definition(t, `{"content": [`+strings.Join(rows, ",")+`]}`)
	def.Set("footer", &document.Paged{Scope: document.LastPage, Content: document.Text("Last page only")})

	data, err := New(nil).Render(document.New(def, nil, nil, nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/Count 2")
}

func TestRenderColumnsInHeaderAndFooter(t *testing.T) {
	def := definition(t, `{
		"content": [{"text": "body"}],
		"footer": {"columns": [{"text": "Thanks"}]}
	}`)

	data, err := New(nil).Render(document.New(def, nil, nil, nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/Count 1")

	rows := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, `{"text": "Line of filler text"}`)
	}
	def = definition(t, `{
		"content": [`+strings.Join(rows, ",")+`],
		"header": {"columns": [{"text": "Acme Ltd"}, {"text": "Invoice", "alignment": "right"}]},
		"footer": [
			{"columns": [{"image": "`+pixelPNG+`", "width": 20}, {"text": "Page footer"}]},
			{"table": {"body": [["Bank", "IBAN"]]}, "pageBreak": "after"}
		]
	}`)

	data, err = New(nil).Render(document.New(def, nil, nil, nil))
	require.NoError(t, err)
	assert.Contains(t, string(data), "/Count 2")
}

func TestRenderSkipsBrokenImages(t *testing.T) {
	def := definition(t, `{"content": [
		{"image": "data:image/png;base64,AAAA"},
		{"image": "https://example.com/logo.png"},
		{"text": "still rendered"}
	]}`)

	data, err := New(nil).Render(document.New(def, nil, nil, nil))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderEmptyDocument(t *testing.T) {
	_, err := New(nil).Render(nil)
	assert.Error(t, err)

	_, err = New(nil).Render(&document.Document{})
	assert.Error(t, err)
}

func TestSaveWithoutSaver(t *testing.T) {
	err := New(nil).Save(context.Background(), []byte("%PDF-"), "x.pdf")
	assert.ErrorIs(t, err, ErrNoSaver)
}

func TestColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		specs []document.Value
		n     int
		want  []float64
	}{
		{
			name:  "all flexible",
			specs: nil,
			n:     4,
			want:  []float64{100, 100, 100, 100},
		},
		{
			name:  "mixed",
			specs: []document.Value{document.String("*"), document.String("25%"), document.Number(50)},
			n:     3,
			want:  []float64{250, 100, 50},
		},
		{
			name:  "numeric strings and auto",
			specs: []document.Value{document.String("120"), document.String("auto")},
			n:     2,
			want:  []float64{120, 280},
		},
		{
			name:  "overfull leaves no share",
			specs: []document.Value{document.Number(500), document.String("*")},
			n:     2,
			want:  []float64{500, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, columnWidths(tt.specs, tt.n, 400), 0.001)
		})
	}
}

func TestParseColor(t *testing.T) {
	r, g, b, ok := parseColor("#ff8000")
	require.True(t, ok)
	assert.Equal(t, []int{255, 128, 0}, []int{r, g, b})

	r, g, b, ok = parseColor("#fff")
	require.True(t, ok)
	assert.Equal(t, []int{255, 255, 255}, []int{r, g, b})

	_, _, _, ok = parseColor("ff8000")
	assert.False(t, ok)
	_, _, _, ok = parseColor("#zzzzzz")
	assert.False(t, ok)
	_, _, _, ok = parseColor("")
	assert.False(t, ok)
}

func TestMargins(t *testing.T) {
	assert.Equal(t, [4]float64{5, 5, 5, 5}, margins(document.Number(5)))
	assert.Equal(t, [4]float64{10, 20, 10, 20}, margins(document.Array{document.Number(10), document.Number(20)}))
	assert.Equal(t, [4]float64{1, 2, 3, 4}, margins(document.Array{
		document.Number(1), document.Number(2), document.Number(3), document.Number(4),
	}))
	assert.Equal(t, [4]float64{}, margins(document.String("wide")))
}

func TestStyleResolution(t *testing.T) {
	r := &renderer{styles: map[string]*document.Object{
		"tableHeader": document.NewObject().Set("bold", document.Bool(true)).Set("fillColor", document.String("#eee")),
	}}
	parent := style{font: "Roboto", size: 9, fillColor: "#000", margin: [4]float64{1, 1, 1, 1}}

	st := r.styleOf(document.Text("Item", "tableHeader"), parent)
	assert.True(t, st.bold)
	assert.Equal(t, "#eee", st.fillColor)
	assert.Equal(t, [4]float64{}, st.margin)
	assert.Equal(t, "Roboto", st.font)
	assert.Equal(t, "B", st.fontStyle())
}
