package document

import (
	"bytes"
	"encoding/json"
)

// Marshal encodes a tree as JSON. Rules encode as {"rule","amount"} objects
// and page-scoped blocks as {"pages","content"}.
func Marshal(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// MarshalJSON keeps insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := Marshal(o.fields[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rule   RuleOp  `json:"rule"`
		Amount float64 `json:"amount"`
	}{r.Op, r.Amount})
}

func (p *Paged) MarshalJSON() ([]byte, error) {
	content, err := Marshal(p.Content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Pages   PageScope       `json:"pages"`
		Content json.RawMessage `json:"content"`
	}{p.Scope, content})
}
