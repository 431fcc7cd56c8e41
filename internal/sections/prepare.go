package sections

import (
	"github.com/samber/lo"

	"billing/internal/document"
)

// prepareList drops leaves without text or stack and tags the rest with the
// section style.
func prepareList(items []*document.Object, section string) document.Array {
	kept := lo.Filter(items, func(item *document.Object, _ int) bool {
		document.AddStyle(item, section)
		return document.HasContent(item)
	})
	return toArray(kept)
}

// prepareTable drops blank cells, then rows left without cells.
func prepareTable(rows [][]*document.Object, section string) document.Array {
	out := make(document.Array, 0, len(rows))
	for _, row := range rows {
		cells := prepareList(row, section)
		if len(cells) == 0 {
			continue
		}
		out = append(out, cells)
	}
	return out
}

// preparePairs drops a label/value row when either side is blank. The value
// side is additionally tagged with the section's value style.
func preparePairs(rows [][]*document.Object, section string) document.Array {
	out := make(document.Array, 0, len(rows))
	for _, row := range rows {
		blank := false
		for i, item := range row {
			document.AddStyle(item, section)
			if i == 1 {
				document.AddStyle(item, section+"Value")
			}
			if !hasText(item) {
				blank = true
			}
		}
		if blank {
			continue
		}
		out = append(out, toArray(row))
	}
	return out
}

// hasText is stricter than document.HasContent: a pair side needs text, a
// sub-stack alone does not count.
func hasText(o *document.Object) bool {
	v, ok := o.Get("text")
	if !ok {
		return false
	}
	return document.HasContent(document.NewObject().Set("text", v))
}

func toArray(items []*document.Object) document.Array {
	return lo.Map(items, func(item *document.Object, _ int) document.Value {
		return item
	})
}
