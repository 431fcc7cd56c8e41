package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DirectNames is the default vocabulary of direct placeholders.
var DirectNames = []string{
	"accountName",
	"accountLogo",
	"accountDetails",
	"accountAddress",
	"invoiceDetails",
	"invoiceDetailsHeight",
	"invoiceLineItems",
	"invoiceLineItemColumns",
	"quantityWidth",
	"taxWidth",
	"clientDetails",
	"notesAndTerms",
	"subtotals",
	"subtotalsHeight",
	"subtotalsWithoutBalance",
	"subtotalsBalance",
	"balanceDue",
	"invoiceFooter",
	"invoiceNumber",
	"entityType",
	"entityTypeUC",
	"fontSize",
	"fontSizeLarger",
	"fontSizeLargest",
	"fontSizeSmaller",
	"bodyFont",
	"headerFont",
}

var (
	labelPattern = regexp.MustCompile(`^\$(\w*?)Label(UC)?(:)?(\?)?$`)
	valuePattern = regexp.MustCompile(`^\$[a-z][\w.]*$`)
)

var functionalOps = map[string]bool{
	"firstAndLast":          true,
	"notFirstAndLastColumn": true,
	"notFirst":              true,
	"amount":                true,
	"none":                  true,
	"primaryColor":          true,
	"secondaryColor":        true,
}

// Option configures Parse.
type Option func(*parser)

// WithDirectNames replaces the direct placeholder vocabulary.
func WithDirectNames(names ...string) Option {
	return func(p *parser) {
		p.direct = make(map[string]bool, len(names))
		for _, n := range names {
			p.direct[n] = true
		}
	}
}

type parser struct {
	dec    *json.Decoder
	direct map[string]bool
}

// Parse decodes a JSON template. It fails with a *TemplateError when the input
// is not JSON, the root is not an object, or a well-known document key holds
// a value of the wrong shape.
func Parse(raw []byte, opts ...Option) (*Template, error) {
	p := &parser{}
	WithDirectNames(DirectNames...)(p)
	for _, opt := range opts {
		opt(p)
	}

	p.dec = json.NewDecoder(bytes.NewReader(raw))
	p.dec.UseNumber()

	root, err := p.value("$")
	if err != nil {
		return nil, err
	}
	if _, err := p.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newTemplateError("$", "unexpected data after the root object", err)
	}

	obj, ok := root.(*Object)
	if !ok {
		return nil, newTemplateError("$", "root must be an object", nil)
	}
	if err := validate(obj); err != nil {
		return nil, err
	}
	return &Template{Root: obj}, nil
}

func (p *parser) value(path string) (Node, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newTemplateError(path, "unexpected end of template", err)
		}
		return nil, newTemplateError(path, "malformed JSON", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.object(path)
		case '[':
			return p.array(path)
		}
		return nil, newTemplateError(path, fmt.Sprintf("unexpected %q", t.String()), nil)
	case string:
		return p.classify(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, newTemplateError(path, "number out of range", err)
		}
		return &Literal{Value: f}, nil
	case bool:
		return &Literal{Value: t}, nil
	case nil:
		return &Literal{Value: nil}, nil
	}
	return nil, newTemplateError(path, fmt.Sprintf("unexpected token %v", tok), nil)
}

func (p *parser) object(path string) (*Object, error) {
	obj := &Object{}
	index := make(map[string]int)
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, newTemplateError(path, "malformed JSON", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, newTemplateError(path, "object key must be a string", nil)
		}

		child, err := p.value(path + "." + key)
		if err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			obj.Fields[i].Value = child
			continue
		}
		index[key] = len(obj.Fields)
		obj.Fields = append(obj.Fields, Field{Key: key, Value: child})
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, newTemplateError(path, "unterminated object", err)
	}
	return obj, nil
}

func (p *parser) array(path string) (*Array, error) {
	arr := &Array{}
	for i := 0; p.dec.More(); i++ {
		child, err := p.value(fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, child)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, newTemplateError(path, "unterminated array", err)
	}
	return arr, nil
}

// classify turns a whole string value into a placeholder node. Strings that
// merely contain a token are literals.
func (p *parser) classify(s string) Node {
	if len(s) < 2 || s[0] != '$' {
		return &Literal{Value: s}
	}
	name := s[1:]

	if p.direct[name] {
		return &Direct{Name: name}
	}

	if m := labelPattern.FindStringSubmatch(s); m != nil && m[1] != "" {
		return &Label{
			Field:    m[1],
			Upper:    m[2] != "",
			Colon:    m[3] != "",
			Optional: m[4] != "",
			Token:    s,
		}
	}

	op, arg, _ := strings.Cut(name, ":")
	if functionalOps[op] {
		return &Functional{Op: op, Arg: arg, Token: s}
	}

	if valuePattern.MatchString(s) {
		path := name
		if trimmed := strings.TrimSuffix(path, "Value"); trimmed != "" && trimmed != path {
			path = trimmed
		}
		return &ValueRef{Path: path, Token: s}
	}

	return &Literal{Value: s}
}

// validate checks the shape of the document keys a renderer depends on.
func validate(root *Object) error {
	shapes := []struct {
		key   string
		check func(Node) bool
		want  string
	}{
		{"content", isContainer, "an array or object"},
		{"styles", isObjectOrPlaceholder, "an object"},
		{"defaultStyle", isObjectOrPlaceholder, "an object"},
		{"pageMargins", isMargins, "a number or an array of numbers"},
		{"pageSize", isPageSize, "a string or an object"},
	}

	for _, shape := range shapes {
		n, ok := root.Get(shape.key)
		if !ok {
			continue
		}
		if !shape.check(n) {
			return newTemplateError("$."+shape.key, "must be "+shape.want, nil)
		}
	}

	if styles, ok := root.Get("styles"); ok {
		if obj, ok := styles.(*Object); ok {
			for _, f := range obj.Fields {
				if !isObjectOrPlaceholder(f.Value) {
					return newTemplateError("$.styles."+f.Key, "style must be an object", nil)
				}
			}
		}
	}
	return nil
}

func isPlaceholder(n Node) bool {
	switch n.(type) {
	case *Direct, *Label, *ValueRef, *Functional:
		return true
	}
	return false
}

func isContainer(n Node) bool {
	switch n.(type) {
	case *Array, *Object:
		return true
	}
	return isPlaceholder(n)
}

func isObjectOrPlaceholder(n Node) bool {
	if _, ok := n.(*Object); ok {
		return true
	}
	return isPlaceholder(n)
}

func isMargins(n Node) bool {
	switch t := n.(type) {
	case *Literal:
		_, ok := t.Value.(float64)
		return ok
	case *Array:
		for _, item := range t.Items {
			if !isMargins(item) {
				return false
			}
		}
		return true
	}
	return isPlaceholder(n)
}

func isPageSize(n Node) bool {
	switch t := n.(type) {
	case *Literal:
		_, ok := t.Value.(string)
		return ok
	case *Object:
		return true
	}
	return isPlaceholder(n)
}
