package composer

import (
	"errors"
	"io/fs"
	"time"

	"billing/internal/document"
)

// ErrInvalidResources is returned when the injected resources fail
// validation.
var ErrInvalidResources = errors.New("invalid composer resources")

// BlankImage is a transparent 1x1 PNG used when the account has no logo.
const BlankImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVQYV2NgYAAAAAMAAWgmWQ0AAAAASUVORK5CYII="

const (
	defaultFontSize = 9
	defaultFont     = "Roboto"
)

// FontResource describes a font family stored in a folder of the font FS.
type FontResource struct {
	Name        string `json:"name" validate:"required"`
	Folder      string `json:"folder" validate:"required"`
	Normal      string `json:"normal" validate:"required"`
	Italics     string `json:"italics"`
	Bold        string `json:"bold"`
	BoldItalics string `json:"bolditalics"`
}

// Branding holds the colors and images a template may refer to.
type Branding struct {
	PrimaryColor   string `validate:"omitempty,hexcolor"`
	SecondaryColor string `validate:"omitempty,hexcolor"`

	// Logo is spliced into the footer of non-pro invoices.
	Logo string

	// AccountLogo is bound to $accountLogo.
	AccountLogo string
}

// Typography sets the base font size and the body and header families.
type Typography struct {
	FontSize   int `validate:"gte=0"`
	BodyFont   string
	HeaderFont string
}

func (t Typography) withDefaults() Typography {
	if t.FontSize == 0 {
		t.FontSize = defaultFontSize
	}
	if t.BodyFont == "" {
		t.BodyFont = defaultFont
	}
	if t.HeaderFont == "" {
		t.HeaderFont = t.BodyFont
	}
	return t
}

// Resources is everything Compose reads besides the invoice and the
// template. Nothing is taken from global state.
type Resources struct {
	Labels     map[string]string `validate:"required"`
	Fonts      []FontResource    `validate:"dive"`
	FontFS     fs.FS
	Branding   Branding
	Typography Typography

	// Now drives the date variables of recurring invoices. Zero means the
	// current time.
	Now time.Time

	// Backend renders and stores the composed document. It may be nil when
	// the document is only inspected.
	Backend document.Backend
}
