package render

import (
	"strconv"
	"strings"

	"billing/internal/document"
)

// style is the resolved look of a node. Margins and fill colors apply to the
// node itself and are not inherited.
type style struct {
	font       string
	size       float64
	bold       bool
	italics    bool
	color      string
	fillColor  string
	alignment  string
	lineHeight float64
	margin     [4]float64
}

// inherit returns the part of st a child starts from.
func (st style) inherit() style {
	st.fillColor = ""
	st.margin = [4]float64{}
	return st
}

// apply overlays the properties set on props.
func (st *style) apply(props *document.Object) {
	if props == nil {
		return
	}
	if s, ok := props.GetString("font"); ok && s != "" {
		st.font = s
	}
	if n, ok := props.GetNumber("fontSize"); ok && n > 0 {
		st.size = n
	}
	if v, ok := props.Get("bold"); ok {
		st.bold = truthy(v)
	}
	if v, ok := props.Get("italics"); ok {
		st.italics = truthy(v)
	}
	if s, ok := props.GetString("color"); ok {
		st.color = s
	}
	if s, ok := props.GetString("fillColor"); ok {
		st.fillColor = s
	}
	if s, ok := props.GetString("alignment"); ok {
		st.alignment = s
	}
	if n, ok := props.GetNumber("lineHeight"); ok && n > 0 {
		st.lineHeight = n
	}
	if v, ok := props.Get("margin"); ok {
		st.margin = margins(v)
	}
}

// fontStyle is the fpdf style string: "", "B", "I" or "BI".
func (st style) fontStyle() string {
	s := ""
	if st.bold {
		s += "B"
	}
	if st.italics {
		s += "I"
	}
	return s
}

func (st style) leading() float64 {
	lh := st.lineHeight
	if lh <= 0 {
		lh = 1
	}
	return st.size * 1.2 * lh
}

func (st style) align() string {
	switch st.alignment {
	case "right":
		return "R"
	case "center":
		return "C"
	case "justify":
		return "J"
	}
	return "L"
}

func truthy(v document.Value) bool {
	switch t := v.(type) {
	case document.Bool:
		return bool(t)
	case document.Number:
		return t != 0
	case document.String:
		return t != ""
	}
	return false
}

// margins reads [all], [horizontal, vertical] or [left, top, right, bottom].
func margins(v document.Value) [4]float64 {
	var out [4]float64
	switch t := v.(type) {
	case document.Number:
		n := float64(t)
		return [4]float64{n, n, n, n}
	case document.Array:
		nums := make([]float64, 0, len(t))
		for _, item := range t {
			if n, ok := item.(document.Number); ok {
				nums = append(nums, float64(n))
			}
		}
		switch len(nums) {
		case 1:
			return [4]float64{nums[0], nums[0], nums[0], nums[0]}
		case 2:
			return [4]float64{nums[0], nums[1], nums[0], nums[1]}
		case 4:
			copy(out[:], nums)
		}
	}
	return out
}

// parseColor reads "#RGB" and "#RRGGBB" plus a few common names.
func parseColor(s string) (r, g, b int, ok bool) {
	switch strings.ToLower(s) {
	case "black":
		return 0, 0, 0, true
	case "white":
		return 255, 255, 255, true
	case "gray", "grey":
		return 128, 128, 128, true
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// columnWidths distributes total over n columns. Specs are point values,
// percentages of total, or "*"/"auto" which share what is left.
func columnWidths(specs []document.Value, n int, total float64) []float64 {
	widths := make([]float64, n)
	flexible := make([]bool, n)
	used, stars := 0.0, 0

	for i := 0; i < n; i++ {
		var spec document.Value
		if i < len(specs) {
			spec = specs[i]
		}
		switch t := spec.(type) {
		case document.Number:
			widths[i] = float64(t)
		case document.String:
			s := string(t)
			if strings.HasSuffix(s, "%") {
				if p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
					widths[i] = total * p / 100
					break
				}
			}
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				widths[i] = v
				break
			}
			flexible[i] = true
		default:
			flexible[i] = true
		}
		if flexible[i] {
			stars++
		} else {
			used += widths[i]
		}
	}

	if stars > 0 {
		share := (total - used) / float64(stars)
		if share < 0 {
			share = 0
		}
		for i := range widths {
			if flexible[i] {
				widths[i] = share
			}
		}
	}
	return widths
}
