// Package resolver turns a parsed template into a document tree by binding
// its placeholders to precomputed sections, labels and invoice fields.
package resolver

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"billing/internal/document"
	"billing/internal/template"
	"billing/pkg/models"
)

// blank stands in for anything that resolves to nothing, so that layouts
// keep their shape.
const blank = " "

// ErrNoTemplate is returned when Resolve is called without a template.
var ErrNoTemplate = errors.New("resolver: no template")

// Colors carries the branding colors functional color placeholders resolve to.
type Colors struct {
	Primary   string
	Secondary string
}

// Bindings is everything a template can refer to.
type Bindings struct {
	Direct  map[string]document.Value
	Labels  map[string]string
	Invoice *models.Invoice
	Colors  Colors
}

// Resolve substitutes every placeholder of tpl in a single pass. Inserted
// values are never scanned again, so they may contain dollar signs freely.
func Resolve(tpl *template.Template, b Bindings) (*document.Object, error) {
	if tpl == nil || tpl.Root == nil {
		return nil, ErrNoTemplate
	}

	r := &resolver{b: b, upper: cases.Upper(language.English)}
	if b.Invoice != nil && b.Invoice.Account != nil && b.Invoice.Account.Locale != "" {
		if tag, err := language.Parse(strings.ReplaceAll(b.Invoice.Account.Locale, "_", "-")); err == nil {
			r.upper = cases.Upper(tag)
		}
	}

	root := r.object(tpl.Root)
	applyMarkdown(root)
	return root, nil
}

type resolver struct {
	b     Bindings
	upper cases.Caser
}

func (r *resolver) node(n template.Node) document.Value {
	switch t := n.(type) {
	case *template.Object:
		return r.object(t)
	case *template.Array:
		return r.array(t)
	case *template.Literal:
		return literal(t.Value)
	case *template.Direct:
		if v, ok := r.b.Direct[t.Name]; ok && v != nil {
			return v
		}
		return document.String(blank)
	case *template.Label:
		return document.String(r.label(t))
	case *template.ValueRef:
		return document.String(r.value(t.Path))
	case *template.Functional:
		return r.functional(t)
	}
	return document.Null{}
}

func (r *resolver) object(o *template.Object) *document.Object {
	out := document.NewObject()
	for _, f := range o.Fields {
		out.Set(f.Key, r.node(f.Value))
	}
	return out
}

func (r *resolver) array(a *template.Array) document.Array {
	out := make(document.Array, 0, len(a.Items))
	for _, item := range a.Items {
		v := r.node(item)
		if splice, ok := v.(document.Splice); ok {
			out = append(out, splice...)
			continue
		}
		out = append(out, v)
	}
	return out
}

func literal(v any) document.Value {
	switch t := v.(type) {
	case string:
		return document.String(t)
	case float64:
		return document.Number(t)
	case bool:
		return document.Bool(t)
	}
	return document.Null{}
}

// label resolves a label placeholder against the dictionary.
func (r *resolver) label(l *template.Label) string {
	field := SnakeCase(l.Field)
	inv := r.b.Invoice

	if l.Optional {
		v, ok := Lookup(inv, field)
		if !ok || IsEmpty(v) {
			return blank
		}
	}

	if inv != nil {
		switch {
		case inv.IsPartial() && field == "balance_due":
			field = "partial_due"
		case bool(inv.IsQuote):
			field = strings.ReplaceAll(field, "invoice", "quote")
		}
	}

	label, ok := r.b.Labels[field]
	if !ok {
		return blank
	}
	if l.Upper {
		label = r.upper.String(label)
	}
	if l.Colon {
		label += ":"
	}
	return label
}

// value resolves a dotted invoice path to display text.
func (r *resolver) value(path string) string {
	v, ok := Lookup(r.b.Invoice, SnakeCase(path))
	if !ok || IsEmpty(v) {
		return blank
	}
	s, ok := display(v)
	if !ok || s == "" {
		return blank
	}
	return s
}

func (r *resolver) functional(f *template.Functional) document.Value {
	switch f.Op {
	case "primaryColor":
		if r.b.Colors.Primary != "" {
			return document.String(r.b.Colors.Primary)
		}
		return document.String(f.Arg)
	case "secondaryColor":
		if r.b.Colors.Secondary != "" {
			return document.String(r.b.Colors.Secondary)
		}
		return document.String(f.Arg)
	}

	if !document.IsRuleOp(f.Op) {
		return document.String(f.Token)
	}
	amount, err := strconv.ParseFloat(f.Arg, 64)
	if err != nil {
		amount = 0
	}
	return document.Rule{Op: document.RuleOp(f.Op), Amount: amount}
}
