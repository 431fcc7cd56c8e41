// Package template parses designer-authored document templates into a typed
// tree in which every placeholder token is its own node variant.
package template

// Node is a parsed template node.
type Node interface {
	node()
}

// Object is a JSON object with its keys in source order.
type Object struct {
	Fields []Field
}

// Field is one key of an Object.
type Field struct {
	Key   string
	Value Node
}

// Array is a JSON array.
type Array struct {
	Items []Node
}

// Literal is a plain JSON scalar: string, float64, bool or nil.
type Literal struct {
	Value any
}

// Direct is a placeholder bound to a precomputed value, e.g. $accountName.
type Direct struct {
	Name string
}

// Label is a placeholder resolved against the label dictionary, e.g.
// $balanceDueLabelUC: or $poNumberLabel?.
type Label struct {
	Field    string // camel-case prefix before "Label"
	Upper    bool
	Colon    bool
	Optional bool
	Token    string
}

// ValueRef is a placeholder resolved by a dotted path into the invoice,
// e.g. $client.name or the legacy $poNumberValue.
type ValueRef struct {
	Path  string
	Token string
}

// Functional is a placeholder that becomes a layout rule or a color.
type Functional struct {
	Op    string
	Arg   string
	Token string
}

func (*Object) node()     {}
func (*Array) node()      {}
func (*Literal) node()    {}
func (*Direct) node()     {}
func (*Label) node()      {}
func (*ValueRef) node()   {}
func (*Functional) node() {}

// Template is a parsed template whose root is always an object.
type Template struct {
	Root *Object
}

// Get returns the top-level field named key.
func (o *Object) Get(key string) (Node, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Walk calls fn for every node in depth-first order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	switch t := n.(type) {
	case *Object:
		for _, f := range t.Fields {
			Walk(f.Value, fn)
		}
	case *Array:
		for _, item := range t.Items {
			Walk(item, fn)
		}
	}
}

// Placeholders lists every placeholder token in t, in document order.
func (t *Template) Placeholders() []string {
	var tokens []string
	Walk(t.Root, func(n Node) {
		switch p := n.(type) {
		case *Direct:
			tokens = append(tokens, "$"+p.Name)
		case *Label:
			tokens = append(tokens, p.Token)
		case *ValueRef:
			tokens = append(tokens, p.Token)
		case *Functional:
			tokens = append(tokens, p.Token)
		}
	})
	return tokens
}
