package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassifiesPlaceholders(t *testing.T) {
	tpl, err := Parse([]byte(`{
		"content": [
			{"text": "$accountName"},
			{"text": "$balanceDueLabelUC:"},
			{"text": "$poNumberLabel?"},
			{"text": "$client.name"},
			{"text": "$poNumberValue"},
			{"text": "Total $balanceDue"},
			{"text": "$unknown:thing"},
			{"layout": {"hLineWidth": "$firstAndLast:.5", "paddingLeft": "$amount:8", "vLineWidth": "$none"}},
			{"fillColor": "$primaryColor:#299CC1", "color": "$secondaryColor"}
		]
	}`))
	require.NoError(t, err)

	content, ok := tpl.Root.Get("content")
	require.True(t, ok)
	items := content.(*Array).Items
	leaf := func(i int, key string) Node {
		v, ok := items[i].(*Object).Get(key)
		require.True(t, ok)
		return v
	}

	assert.Equal(t, &Direct{Name: "accountName"}, leaf(0, "text"))
	assert.Equal(t, &Label{Field: "balanceDue", Upper: true, Colon: true, Token: "$balanceDueLabelUC:"}, leaf(1, "text"))
	assert.Equal(t, &Label{Field: "poNumber", Optional: true, Token: "$poNumberLabel?"}, leaf(2, "text"))
	assert.Equal(t, &ValueRef{Path: "client.name", Token: "$client.name"}, leaf(3, "text"))
	assert.Equal(t, &ValueRef{Path: "poNumber", Token: "$poNumberValue"}, leaf(4, "text"))
	assert.Equal(t, &Literal{Value: "Total $balanceDue"}, leaf(5, "text"))
	assert.Equal(t, &Literal{Value: "$unknown:thing"}, leaf(6, "text"))

	layout := leaf(7, "layout").(*Object)
	h, _ := layout.Get("hLineWidth")
	assert.Equal(t, &Functional{Op: "firstAndLast", Arg: ".5", Token: "$firstAndLast:.5"}, h)
	v, _ := layout.Get("vLineWidth")
	assert.Equal(t, &Functional{Op: "none", Token: "$none"}, v)

	assert.Equal(t, &Functional{Op: "primaryColor", Arg: "#299CC1", Token: "$primaryColor:#299CC1"}, leaf(8, "fillColor"))
	assert.Equal(t, &Functional{Op: "secondaryColor", Token: "$secondaryColor"}, leaf(8, "color"))
}

func TestParseKeepsKeyOrder(t *testing.T) {
	tpl, err := Parse([]byte(`{"z": 1, "a": 2, "m": {"y": true, "b": null}, "a": 3}`))
	require.NoError(t, err)

	var keys []string
	for _, f := range tpl.Root.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	a, _ := tpl.Root.Get("a")
	assert.Equal(t, &Literal{Value: float64(3)}, a)
}

func TestParseWithDirectNames(t *testing.T) {
	tpl, err := Parse([]byte(`{"content": ["$logo", "$accountName"]}`), WithDirectNames("logo"))
	require.NoError(t, err)

	content, _ := tpl.Root.Get("content")
	items := content.(*Array).Items
	assert.Equal(t, &Direct{Name: "logo"}, items[0])
	assert.Equal(t, &ValueRef{Path: "accountName", Token: "$accountName"}, items[1])
}

func TestParseRejectsInvalidTemplates(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPath string
	}{
		{"empty", ``, "$"},
		{"malformed", `{"content": [}`, "$.content"},
		{"root array", `[{"text": "x"}]`, "$"},
		{"trailing data", `{"content": []} {}`, "$"},
		{"content scalar", `{"content": "text"}`, "$.content"},
		{"styles array", `{"styles": []}`, "$.styles"},
		{"style scalar", `{"styles": {"header": 12}}`, "$.styles.header"},
		{"margins string", `{"pageMargins": "wide"}`, "$.pageMargins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTemplate)

			var tplErr *TemplateError
			require.True(t, errors.As(err, &tplErr))
			assert.Equal(t, tt.wantPath, tplErr.Path)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	tpl, err := Parse([]byte(`{"content": [{"text": "$invoiceNumber"}, {"text": "$dueDateLabel"}, "plain", "$amount:2"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"$invoiceNumber", "$dueDateLabel", "$amount:2"}, tpl.Placeholders())
}
