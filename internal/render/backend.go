// Package render lays out document trees as PDF with fpdf and hands the
// bytes to a storage.Saver.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"billing/internal/document"
	"billing/internal/logger"
	"billing/internal/storage"
)

// ErrNoSaver is returned by Save on a backend created without a saver.
var ErrNoSaver = errors.New("render: no saver configured")

const coreFont = "Helvetica"

// Backend implements document.Backend.
type Backend struct {
	saver storage.Saver
	cfg   config
	log   zerolog.Logger
}

var _ document.Backend = (*Backend)(nil)

// New creates a PDF backend. saver may be nil when documents are only
// rendered.
func New(saver storage.Saver, opts ...Option) *Backend {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Backend{
		saver: saver,
		cfg:   cfg,
		log:   logger.WithComponent("pdf-renderer"),
	}
}

// Render lays out doc and returns the PDF bytes. Headers and footers scoped
// to the last page need the page count, so the document is laid out twice.
func (b *Backend) Render(doc *document.Document) ([]byte, error) {
	const op = "Render"

	if doc == nil || doc.Definition == nil {
		return nil, fmt.Errorf("%s: empty document", op)
	}

	fonts := b.loadFonts(doc)

	first, err := b.layout(doc, fonts, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pages := first.PageCount()

	pdf, err := b.layout(doc, fonts, pages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: failed to write pdf: %w", op, err)
	}

	b.log.Debug().Int("pages", pages).Int("bytes", buf.Len()).Msg("Document rendered")
	return buf.Bytes(), nil
}

// Save stores rendered bytes through the configured saver.
func (b *Backend) Save(ctx context.Context, data []byte, filename string) error {
	const op = "Save"

	if b.saver == nil {
		return fmt.Errorf("%s: %w", op, ErrNoSaver)
	}
	if err := b.saver.Save(ctx, filename, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// fontData holds the file contents of one registered family, keyed by fpdf
// style string.
type fontData map[string][]byte

// loadFonts reads the registered font files once for both layout passes.
// Unreadable variants are skipped.
func (b *Backend) loadFonts(doc *document.Document) map[string]fontData {
	out := make(map[string]fontData)
	if doc.FontFS == nil {
		return out
	}

	for name, files := range doc.Fonts {
		variants := map[string]string{
			"":   files.Normal,
			"I":  files.Italics,
			"B":  files.Bold,
			"BI": files.BoldItalics,
		}
		data := make(fontData)
		for variant, file := range variants {
			if file == "" {
				continue
			}
			raw, err := fs.ReadFile(doc.FontFS, file)
			if err != nil {
				b.log.Warn().Err(err).Str("font", name).Str("file", file).Msg("Font file not readable")
				continue
			}
			data[variant] = raw
		}
		if _, ok := data[""]; ok {
			out[name] = data
		}
	}
	return out
}

func (b *Backend) layout(doc *document.Document, fonts map[string]fontData, pageCount int) (*fpdf.Fpdf, error) {
	def := doc.Definition

	orientation := b.cfg.orientation
	if s, ok := def.GetString("pageOrientation"); ok && s != "" {
		orientation = s
	}
	size := b.cfg.pageSize
	if s, ok := def.GetString("pageSize"); ok && s != "" {
		size = s
	}

	pdf := fpdf.New(orientationCode(orientation), "pt", size, "")
	r := &renderer{
		pdf:       pdf,
		log:       b.log,
		fonts:     make(map[string]bool),
		images:    make(map[string]string),
		styles:    make(map[string]*document.Object),
		pageCount: pageCount,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
	}

	for name, data := range fonts {
		for variant, raw := range data {
			pdf.AddUTF8FontFromBytes(name, variant, raw)
			r.fonts[name+"|"+variant] = true
		}
	}

	if styles, ok := def.GetObject("styles"); ok {
		for _, key := range styles.Keys() {
			if st, ok := styles.GetObject(key); ok {
				r.styles[key] = st
			}
		}
	}

	r.base = style{font: coreFont, size: b.cfg.fontSize}
	if ds, ok := def.GetObject("defaultStyle"); ok {
		r.base.apply(ds)
		r.base.margin = [4]float64{}
		r.base.fillColor = ""
	}

	r.margins = b.cfg.margins
	if v, ok := def.Get("pageMargins"); ok {
		r.margins = margins(v)
	}
	if info, ok := def.GetObject("info"); ok {
		if s, ok := info.GetString("title"); ok {
			pdf.SetTitle(s, true)
		}
		if s, ok := info.GetString("author"); ok {
			pdf.SetAuthor(s, true)
		}
	}

	pdf.SetMargins(r.margins[0], r.margins[1], r.margins[2])
	pdf.SetAutoPageBreak(true, r.margins[3])
	pdf.SetCellMargin(0)

	if header, ok := def.Get("header"); ok {
		pdf.SetHeaderFunc(func() { r.pageBlock(header, r.margins[1]/3) })
	}
	if footer, ok := def.Get("footer"); ok {
		_, pageH := pdf.GetPageSize()
		pdf.SetFooterFunc(func() { r.pageBlock(footer, pageH-r.margins[3]+r.margins[3]/4) })
	}

	pdf.AddPage()
	content, _ := def.Get("content")
	r.node(content, r.base, r.margins[0], r.contentWidth())

	if pdf.Err() {
		return nil, pdf.Error()
	}
	return pdf, nil
}

func orientationCode(s string) string {
	if s == "landscape" || s == "L" {
		return "L"
	}
	return "P"
}
