package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// ErrNoBackend is returned by Render and Save on a document without a backend.
var ErrNoBackend = errors.New("document has no rendering backend")

// Backend lays out a document and stores the produced bytes.
type Backend interface {
	Render(doc *Document) ([]byte, error)
	Save(ctx context.Context, data []byte, filename string) error
}

// FontFiles lists the font file of each style, relative to the font FS.
type FontFiles struct {
	Normal      string `json:"normal"`
	Italics     string `json:"italics"`
	Bold        string `json:"bold"`
	BoldItalics string `json:"bolditalics"`
}

// Document is a fully resolved document definition with its registered fonts.
type Document struct {
	Definition *Object
	Fonts      map[string]FontFiles
	FontFS     fs.FS

	backend Backend
}

// New creates a document. backend may be nil for documents that are only
// inspected or serialized.
func New(definition *Object, fonts map[string]FontFiles, fontFS fs.FS, backend Backend) *Document {
	if fonts == nil {
		fonts = make(map[string]FontFiles)
	}
	return &Document{
		Definition: definition,
		Fonts:      fonts,
		FontFS:     fontFS,
		backend:    backend,
	}
}

// Render produces the rendered bytes, typically a PDF.
func (d *Document) Render() ([]byte, error) {
	const op = "Render"

	if d.backend == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoBackend)
	}
	data, err := d.backend.Render(d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// Save renders the document and stores it under filename.
func (d *Document) Save(ctx context.Context, filename string) error {
	const op = "Save"

	data, err := d.Render()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := d.backend.Save(ctx, data, filename); err != nil {
		return fmt.Errorf("%s: failed to store %s: %w", op, filename, err)
	}
	return nil
}

// MarshalJSON writes the definition together with the font registrations.
func (d *Document) MarshalJSON() ([]byte, error) {
	def, err := Marshal(d.Definition)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Fonts      map[string]FontFiles `json:"fonts"`
		Definition json.RawMessage      `json:"definition"`
	}{d.Fonts, def})
}
