package document

// Text builds a text leaf. Styles are optional.
func Text(text string, styles ...string) *Object {
	o := NewObject().Set("text", String(text))
	for _, s := range styles {
		AddStyle(o, s)
	}
	return o
}

// Stack builds a vertical group.
func Stack(children ...Value) *Object {
	return NewObject().Set("stack", Array(children))
}

// Image builds an image leaf from a data URI or a path.
func Image(src string) *Object {
	return NewObject().Set("image", String(src))
}

// Styles returns the style tags of a leaf.
func Styles(o *Object) []string {
	arr, ok := o.GetArray("style")
	if !ok {
		if s, ok := o.GetString("style"); ok && s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// AddStyle appends a style tag. Empty tags are ignored.
func AddStyle(o *Object, style string) {
	if style == "" {
		return
	}
	styles := Styles(o)
	arr := make(Array, 0, len(styles)+1)
	for _, s := range styles {
		arr = append(arr, String(s))
	}
	o.Set("style", append(arr, String(style)))
}

// HasContent reports whether a leaf carries visible text or a sub-stack.
func HasContent(o *Object) bool {
	if o == nil {
		return false
	}
	if _, ok := o.Get("stack"); ok {
		return true
	}
	v, ok := o.Get("text")
	if !ok {
		return false
	}
	switch t := v.(type) {
	case String:
		return t != ""
	case Array:
		return len(t) > 0
	case Null:
		return false
	case Bool:
		return bool(t)
	default:
		return true
	}
}
