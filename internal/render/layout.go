package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"billing/internal/document"
)

const (
	defaultLineWidth  = 1.0
	defaultPaddingX   = 4.0
	defaultPaddingY   = 2.0
	defaultColumnGap  = 0.0
	defaultImageWidth = 100.0
)

// renderer holds the state of one layout pass. Every node is drawn into a
// horizontal box [x, x+w) starting at the current y position.
type renderer struct {
	pdf       *fpdf.Fpdf
	log       zerolog.Logger
	fonts     map[string]bool
	images    map[string]string
	styles    map[string]*document.Object
	base      style
	margins   [4]float64
	pageCount int
	tr        func(string) string
	core      bool

	// set while a header or footer is drawn from fpdf's page callbacks;
	// those run below the page-break line and must not start pages
	inPageBlock bool
}

func (r *renderer) contentWidth() float64 {
	pageW, _ := r.pdf.GetPageSize()
	return pageW - r.margins[0] - r.margins[2]
}

// box confines text flow to [x, x+w).
func (r *renderer) box(x, w float64) {
	pageW, _ := r.pdf.GetPageSize()
	r.pdf.SetLeftMargin(x)
	r.pdf.SetRightMargin(pageW - x - w)
	r.pdf.SetX(x)
}

// styleOf resolves named styles, then inline properties, on top of the
// parent's inherited style.
func (r *renderer) styleOf(o *document.Object, parent style) style {
	st := parent.inherit()
	for _, name := range document.Styles(o) {
		st.apply(r.styles[name])
	}
	st.apply(o)
	return st
}

func (r *renderer) setFont(st style) {
	family, variant := st.font, st.fontStyle()
	switch {
	case r.fonts[family+"|"+variant]:
	case r.fonts[family+"|"]:
		variant = ""
	default:
		family = coreFont
	}
	r.core = family == coreFont
	r.pdf.SetFont(family, variant, st.size)

	if cr, cg, cb, ok := parseColor(st.color); ok {
		r.pdf.SetTextColor(cr, cg, cb)
	} else {
		r.pdf.SetTextColor(0, 0, 0)
	}
}

// encode prepares text for the current font.
func (r *renderer) encode(s string) string {
	if r.core {
		return r.tr(s)
	}
	return s
}

func (r *renderer) fits(h float64) bool {
	if r.inPageBlock {
		return true
	}
	_, pageH := r.pdf.GetPageSize()
	return r.pdf.GetY()+h <= pageH-r.margins[3]
}

func (r *renderer) fitsPage(h float64) bool {
	_, pageH := r.pdf.GetPageSize()
	return h <= pageH-r.margins[1]-r.margins[3]
}

// keepTogether starts a new page when a block of height h does not fit on
// the current one but would fit on an empty page.
func (r *renderer) keepTogether(h float64) {
	if r.inPageBlock {
		return
	}
	if !r.fits(h) && r.fitsPage(h) && r.pdf.GetY() > r.margins[1] {
		r.pdf.AddPage()
	}
}

// newPage starts a page unless a header or footer is being drawn.
func (r *renderer) newPage() {
	if !r.inPageBlock {
		r.pdf.AddPage()
	}
}

// autoBreak toggles automatic page breaks. It stays off inside page blocks.
func (r *renderer) autoBreak(on bool) {
	r.pdf.SetAutoPageBreak(on && !r.inPageBlock, r.margins[3])
}

func (r *renderer) node(v document.Value, st style, x, w float64) {
	switch t := v.(type) {
	case nil, document.Null:
	case document.String, document.Number:
		r.box(x, w)
		r.text(t, st, w)
	case document.Array:
		for _, item := range t {
			r.node(item, st, x, w)
		}
	case document.Splice:
		r.node(document.Array(t), st, x, w)
	case *document.Paged:
		r.node(t.Content, st, x, w)
	case *document.Object:
		r.object(t, st, x, w)
	}
}

func (r *renderer) object(o *document.Object, parent style, x, w float64) {
	st := r.styleOf(o, parent)

	if s, _ := o.GetString("pageBreak"); s == "before" {
		r.newPage()
	}

	m := st.margin
	x, w = x+m[0], w-m[0]-m[2]
	if m[1] != 0 {
		r.pdf.SetY(r.pdf.GetY() + m[1])
	}

	if v, ok := o.Get("text"); ok {
		r.box(x, w)
		r.text(v, st, w)
	} else if v, ok := o.Get("stack"); ok {
		r.node(v, st, x, w)
	} else if v, ok := o.GetArray("columns"); ok {
		gap, ok := o.GetNumber("columnGap")
		if !ok {
			gap = defaultColumnGap
		}
		r.columns(v, st, x, w, gap)
	} else if t, ok := o.GetObject("table"); ok {
		layout, _ := o.GetObject("layout")
		r.table(t, layout, st, x, w)
	} else if src, ok := o.GetString("image"); ok {
		r.image(o, src, st, x, w)
	}

	if m[3] != 0 {
		r.pdf.SetY(r.pdf.GetY() + m[3])
	}
	r.box(x-m[0], w+m[0]+m[2])

	if s, _ := o.GetString("pageBreak"); s == "after" {
		r.newPage()
	}
}

// text writes a plain string with the style's alignment, or an array of
// inline runs.
func (r *renderer) text(v document.Value, st style, w float64) {
	switch t := v.(type) {
	case document.String:
		r.setFont(st)
		fill := r.setFill(st)
		r.pdf.MultiCell(w, st.leading(), r.encode(string(t)), "", st.align(), fill)
	case document.Number:
		r.text(document.String(strconv.FormatFloat(float64(t), 'f', -1, 64)), st, w)
	case document.Array:
		lh := st.leading()
		for _, run := range t {
			runStyle, s := st, ""
			switch rt := run.(type) {
			case document.String:
				s = string(rt)
			case *document.Object:
				runStyle = r.styleOf(rt, st)
				s = plainText(rt)
			}
			r.setFont(runStyle)
			r.pdf.Write(lh, r.encode(s))
		}
		r.pdf.Ln(lh)
	}
}

func (r *renderer) setFill(st style) bool {
	cr, cg, cb, ok := parseColor(st.fillColor)
	if ok {
		r.pdf.SetFillColor(cr, cg, cb)
	}
	return ok
}

func (r *renderer) columns(cols document.Array, st style, x, w, gap float64) {
	if len(cols) == 0 {
		return
	}

	specs := make([]document.Value, len(cols))
	for i, col := range cols {
		if o, ok := col.(*document.Object); ok {
			specs[i], _ = o.Get("width")
		}
	}
	widths := columnWidths(specs, len(cols), w-gap*float64(len(cols)-1))

	height := 0.0
	for i, col := range cols {
		height = max(height, r.measure(col, st, widths[i]))
	}
	r.keepTogether(height)

	// content taller than a page is stacked instead of placed side by side
	if !r.fits(height) {
		r.node(cols, st, x, w)
		return
	}

	top := r.pdf.GetY()
	bottom := top
	r.autoBreak(false)
	cx := x
	for i, col := range cols {
		r.box(cx, widths[i])
		r.pdf.SetXY(cx, top)
		r.node(col, st, cx, widths[i])
		bottom = max(bottom, r.pdf.GetY())
		cx += widths[i] + gap
	}
	r.autoBreak(true)
	r.box(x, w)
	r.pdf.SetY(bottom)
}

// lineRule returns the width or padding of line i out of n for a layout key.
func lineRule(layout *document.Object, key string, def float64) func(i, n int) float64 {
	v, ok := layout.Get(key)
	if ok {
		switch t := v.(type) {
		case document.Rule:
			return t.Eval
		case document.Number:
			return func(int, int) float64 { return float64(t) }
		}
	}
	return func(int, int) float64 { return def }
}

func (r *renderer) table(t, layout *document.Object, st style, x, w float64) {
	body, ok := t.GetArray("body")
	if !ok || len(body) == 0 {
		return
	}

	rows := make([]document.Array, 0, len(body))
	ncols := 0
	for _, row := range body {
		cells, ok := row.(document.Array)
		if !ok {
			continue
		}
		rows = append(rows, cells)
		ncols = max(ncols, len(cells))
	}
	if ncols == 0 {
		return
	}

	specs, _ := t.GetArray("widths")
	widths := columnWidths(specs, ncols, w)

	hLine := lineRule(layout, "hLineWidth", defaultLineWidth)
	vLine := lineRule(layout, "vLineWidth", defaultLineWidth)
	padLeft := lineRule(layout, "paddingLeft", defaultPaddingX)
	padRight := lineRule(layout, "paddingRight", defaultPaddingX)
	padTop := lineRule(layout, "paddingTop", defaultPaddingY)
	padBottom := lineRule(layout, "paddingBottom", defaultPaddingY)
	hColor, _ := layout.GetString("hLineColor")
	vColor, _ := layout.GetString("vLineColor")

	n := len(rows)
	for i, cells := range rows {
		pt, pb := padTop(i, n), padBottom(i, n)

		height := 0.0
		cellStyles := make([]style, len(cells))
		for j, cell := range cells {
			cellStyles[j] = st
			if o, ok := cell.(*document.Object); ok {
				cellStyles[j] = r.styleOf(o, st)
			}
			inner := widths[j] - padLeft(j, ncols) - padRight(j, ncols)
			height = max(height, r.measure(cell, st, inner))
		}
		height += pt + pb
		r.keepTogether(height)

		top := r.pdf.GetY()
		r.autoBreak(false)

		cx := x
		for j := range cells {
			if r.setFill(cellStyles[j]) {
				r.pdf.Rect(cx, top, widths[j], height, "F")
			}
			cx += widths[j]
		}

		cx = x
		for j, cell := range cells {
			pl, pr := padLeft(j, ncols), padRight(j, ncols)
			inner := widths[j] - pl - pr
			r.box(cx+pl, inner)
			r.pdf.SetXY(cx+pl, top+pt)
			// the fill was drawn for the whole cell already
			if o, ok := cell.(*document.Object); ok {
				cell = withoutFill(o)
			}
			r.node(cell, st, cx+pl, inner)
			cx += widths[j]
		}

		r.line(hLine(i, n), hColor, x, top, x+sum(widths), top)
		if i == n-1 {
			r.line(hLine(n, n), hColor, x, top+height, x+sum(widths), top+height)
		}
		cx = x
		for j := 0; j <= ncols; j++ {
			r.line(vLine(j, ncols), vColor, cx, top, cx, top+height)
			if j < ncols {
				cx += widths[j]
			}
		}

		r.autoBreak(true)
		r.box(x, w)
		r.pdf.SetY(top + height)
	}
}

func (r *renderer) line(width float64, color string, x1, y1, x2, y2 float64) {
	if width <= 0 {
		return
	}
	if cr, cg, cb, ok := parseColor(color); ok {
		r.pdf.SetDrawColor(cr, cg, cb)
	} else {
		r.pdf.SetDrawColor(0, 0, 0)
	}
	r.pdf.SetLineWidth(width)
	r.pdf.Line(x1, y1, x2, y2)
}

func (r *renderer) image(o *document.Object, src string, st style, x, w float64) {
	name, ok := r.registerImage(src)
	if !ok {
		return
	}
	info := r.pdf.GetImageInfo(name)
	if info == nil || info.Width() == 0 {
		return
	}

	width, ok := o.GetNumber("width")
	if !ok || width <= 0 {
		width = min(defaultImageWidth, w)
	}
	height := info.Height() * width / info.Width()
	if h, ok := o.GetNumber("height"); ok && h > 0 {
		height = h
	}

	ix := x
	switch st.alignment {
	case "right":
		ix = x + w - width
	case "center":
		ix = x + (w-width)/2
	}

	r.keepTogether(height)
	y := r.pdf.GetY()
	r.pdf.ImageOptions(name, ix, y, width, height, false, fpdf.ImageOptions{}, 0, "")
	r.pdf.SetY(y + height)
}

// registerImage decodes a data URI once per pass. Other sources are not
// supported and are skipped.
func (r *renderer) registerImage(src string) (string, bool) {
	if name, ok := r.images[src]; ok {
		return name, name != ""
	}

	name := ""
	defer func() { r.images[src] = name }()

	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasPrefix(src, "data:") || !strings.HasSuffix(meta, ";base64") {
		r.log.Warn().Str("source", truncate(src, 32)).Msg("Unsupported image source, skipping")
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		r.log.Warn().Err(err).Msg("Image data is not valid base64, skipping")
		return "", false
	}

	imageType := strings.ToUpper(strings.TrimPrefix(strings.TrimSuffix(meta, ";base64"), "image/"))
	if imageType == "JPEG" {
		imageType = "JPG"
	}
	candidate := fmt.Sprintf("image%d", len(r.images))
	r.pdf.RegisterImageOptionsReader(candidate, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(raw))
	if r.pdf.Err() {
		r.log.Warn().Err(r.pdf.Error()).Str("type", imageType).Msg("Image could not be decoded, skipping")
		r.pdf.ClearError()
		return "", false
	}
	name = candidate
	return name, true
}

// pageBlock draws a header or footer at y. Page-scoped blocks are only
// drawn on their pages.
func (r *renderer) pageBlock(v document.Value, y float64) {
	if paged, ok := v.(*document.Paged); ok {
		v = paged.On(r.pdf.PageNo(), r.pageCount)
		if v == nil {
			return
		}
	}

	left, top, right, _ := r.pdf.GetMargins()
	auto, breakMargin := r.pdf.GetAutoPageBreak()
	r.inPageBlock = true
	r.pdf.SetAutoPageBreak(false, breakMargin)
	defer func() {
		r.inPageBlock = false
		r.pdf.SetAutoPageBreak(auto, breakMargin)
	}()

	r.box(r.margins[0], r.contentWidth())
	r.pdf.SetY(y)
	r.node(v, r.base, r.margins[0], r.contentWidth())

	r.pdf.SetLeftMargin(left)
	r.pdf.SetRightMargin(right)
	r.pdf.SetXY(left, top)
}

// measure estimates the height v takes in a box of width w.
func (r *renderer) measure(v document.Value, st style, w float64) float64 {
	switch t := v.(type) {
	case document.String:
		return r.measureText(string(t), st, w)
	case document.Number:
		return st.leading()
	case document.Array:
		h := 0.0
		for _, item := range t {
			h += r.measure(item, st, w)
		}
		return h
	case document.Splice:
		return r.measure(document.Array(t), st, w)
	case *document.Object:
		cs := r.styleOf(t, st)
		m := cs.margin
		inner := w - m[0] - m[2]
		h := 0.0
		if v, ok := t.Get("text"); ok {
			if arr, ok := v.(document.Array); ok {
				h = r.measureText(plainText(document.NewObject().Set("text", arr)), cs, inner)
			} else {
				h = r.measure(v, cs, inner)
			}
		} else if v, ok := t.Get("stack"); ok {
			h = r.measure(v, cs, inner)
		} else if cols, ok := t.GetArray("columns"); ok {
			for _, col := range cols {
				h = max(h, r.measure(col, cs, inner/float64(len(cols))))
			}
		} else if tbl, ok := t.GetObject("table"); ok {
			body, _ := tbl.GetArray("body")
			for _, row := range body {
				rowH := 0.0
				if cells, ok := row.(document.Array); ok && len(cells) > 0 {
					for _, cell := range cells {
						rowH = max(rowH, r.measure(cell, cs, inner/float64(len(cells))))
					}
				}
				h += rowH + 2*defaultPaddingY
			}
		} else if _, ok := t.GetString("image"); ok {
			if hh, ok := t.GetNumber("height"); ok {
				h = hh
			} else if ww, ok := t.GetNumber("width"); ok {
				h = ww
			}
		}
		return h + m[1] + m[3]
	}
	return 0
}

func (r *renderer) measureText(s string, st style, w float64) float64 {
	if w <= 0 {
		return 0
	}
	r.setFont(st)
	lines := len(r.pdf.SplitText(r.encode(s), w))
	if lines == 0 {
		lines = 1
	}
	return float64(lines) * st.leading()
}

// plainText flattens a leaf's text, including inline runs.
func plainText(o *document.Object) string {
	v, _ := o.Get("text")
	switch t := v.(type) {
	case document.String:
		return string(t)
	case document.Number:
		return strconv.FormatFloat(float64(t), 'f', -1, 64)
	case document.Array:
		var b strings.Builder
		for _, run := range t {
			switch rt := run.(type) {
			case document.String:
				b.WriteString(string(rt))
			case *document.Object:
				b.WriteString(plainText(rt))
			}
		}
		return b.String()
	}
	return ""
}

func withoutFill(o *document.Object) *document.Object {
	if _, ok := o.Get("fillColor"); !ok {
		return o
	}
	out := document.NewObject()
	for _, k := range o.Keys() {
		if k == "fillColor" {
			continue
		}
		v, _ := o.Get(k)
		out.Set(k, v)
	}
	return out
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
