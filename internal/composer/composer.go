// Package composer assembles a document from a calculated invoice, a parsed
// template and explicitly injected resources.
package composer

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"billing/internal/document"
	"billing/internal/invoice"
	"billing/internal/logger"
	"billing/internal/money"
	"billing/internal/resolver"
	"billing/internal/sections"
	"billing/internal/template"
	"billing/pkg/models"
)

// rowHeight approximates the height of a details or subtotals row.
const rowHeight = 16

// Composer builds documents. It is safe for concurrent use.
type Composer struct {
	validate *validator.Validate
	money    *money.Formatter
	log      zerolog.Logger
}

// New creates a composer.
func New() *Composer {
	return &Composer{
		validate: validator.New(),
		money:    money.NewFormatter(),
		log:      logger.WithComponent("composer"),
	}
}

// Compose calculates inv, resolves tpl against the derived sections and
// returns the finished document. Neither inv nor tpl is modified.
func (c *Composer) Compose(inv *models.Invoice, tpl *template.Template, res Resources) (*document.Document, error) {
	const op = "Compose"

	if inv == nil {
		return nil, fmt.Errorf("%s: %w", op, invoice.ErrNilInvoice)
	}
	if err := c.validate.Struct(res); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidResources, err)
	}

	calc := invoice.Calculate(inv)
	typo := res.Typography.withDefaults()
	log := logger.WithInvoice(calc.PublicID).With().Str("component", "composer").Logger()

	b := sections.New(calc, res.Labels, c.money, res.Now)
	root, err := resolver.Resolve(tpl, resolver.Bindings{
		Direct:  directBindings(b, calc, res.Branding, typo),
		Labels:  res.Labels,
		Invoice: calc,
		Colors: resolver.Colors{
			Primary:   res.Branding.PrimaryColor,
			Secondary: res.Branding.SecondaryColor,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !calc.IsPro {
		if res.Branding.Logo == "" {
			log.Debug().Msg("No branding logo configured, footer left unchanged")
		} else if err := spliceLogo(root, calc.InvoiceDesignID, res.Branding.Logo); err != nil {
			log.Warn().Err(err).Int("design_id", calc.InvoiceDesignID).Msg("Branding logo not placed")
		}
	} else {
		scopeHeaderFooter(root, calc.Account)
	}

	fonts := registerFonts(res.Fonts, res.FontFS, log)
	setDefaultFont(root, typo.BodyFont)

	log.Debug().
		Int("design_id", calc.InvoiceDesignID).
		Int("fonts", len(fonts)).
		Msg("Document composed")

	return document.New(root, fonts, res.FontFS, res.Backend), nil
}

func directBindings(b *sections.Builder, inv *models.Invoice, brand Branding, typo Typography) map[string]document.Value {
	accountName := ""
	if inv.Account != nil {
		accountName = inv.Account.Name
	}
	accountLogo := brand.AccountLogo
	if accountLogo == "" {
		accountLogo = BlankImage
	}

	details := b.InvoiceDetails()
	subtotals := b.Subtotals(false)
	entity := b.EntityLabel()

	return map[string]document.Value{
		"accountName":             document.String(orBlank(accountName)),
		"accountLogo":             document.String(accountLogo),
		"accountDetails":          b.AccountDetails(),
		"accountAddress":          b.AccountAddress(),
		"invoiceDetails":          details,
		"invoiceDetailsHeight":    document.Number(len(details)*rowHeight + rowHeight),
		"invoiceLineItems":        b.InvoiceLines(),
		"invoiceLineItemColumns":  b.InvoiceColumns(),
		"quantityWidth":           b.QuantityWidth(),
		"taxWidth":                b.TaxWidth(),
		"clientDetails":           b.ClientDetails(),
		"notesAndTerms":           b.NotesAndTerms(),
		"subtotals":               subtotals,
		"subtotalsHeight":         document.Number(len(subtotals)*rowHeight + rowHeight),
		"subtotalsWithoutBalance": b.Subtotals(true),
		"subtotalsBalance":        b.SubtotalsBalance(),
		"balanceDue":              document.String(b.BalanceDue()),
		"invoiceFooter":           document.String(b.InvoiceFooter()),
		"invoiceNumber":           document.String(orBlank(inv.InvoiceNumber)),
		"entityType":              document.String(entity),
		"entityTypeUC":            document.String(strings.ToUpper(entity)),
		"fontSize":                document.Number(typo.FontSize),
		"fontSizeLarger":          document.Number(typo.FontSize + 1),
		"fontSizeLargest":         document.Number(typo.FontSize + 2),
		"fontSizeSmaller":         document.Number(typo.FontSize - 1),
		"bodyFont":                document.String(typo.BodyFont),
		"headerFont":              document.String(typo.HeaderFont),
	}
}

// logoAnchors maps a design id to the array in the resolved footer that the
// branding logo is appended to, and the placement of the logo there.
var logoAnchors = map[int]struct {
	path      []string
	alignment string
	margin    [4]float64
}{
	1: {[]string{"footer", "columns"}, "right", [4]float64{0, 0, 0, 0}},
	4: {[]string{"footer", "columns"}, "right", [4]float64{0, 0, 0, 0}},
	2: {[]string{"footer", "1", "columns"}, "right", [4]float64{0, -20, 20, 0}},
	3: {[]string{"footer", "1", "columns", "0", "stack"}, "left", [4]float64{40, 6, 0, 0}},
}

var errNoAnchor = errors.New("logo anchor not found")

// spliceLogo appends the branding logo at the design's anchor. Designs
// without an anchor are left alone.
func spliceLogo(root *document.Object, designID int, logo string) error {
	anchor, ok := logoAnchors[designID]
	if !ok {
		return nil
	}

	parent, ok := walk(root, anchor.path[:len(anchor.path)-1])
	if !ok {
		return fmt.Errorf("%w: %s", errNoAnchor, strings.Join(anchor.path, "."))
	}
	key := anchor.path[len(anchor.path)-1]
	list, ok := parent.GetArray(key)
	if !ok {
		return fmt.Errorf("%w: %s", errNoAnchor, strings.Join(anchor.path, "."))
	}

	margin := make(document.Array, len(anchor.margin))
	for i, m := range anchor.margin {
		margin[i] = document.Number(m)
	}
	image := document.Image(logo).
		Set("alignment", document.String(anchor.alignment)).
		Set("width", document.Number(130)).
		Set("margin", margin)

	parent.Set(key, append(list, image))
	return nil
}

// walk follows object keys and array indexes down to an object.
func walk(root *document.Object, steps []string) (*document.Object, bool) {
	var cur document.Value = root
	for _, step := range steps {
		switch v := cur.(type) {
		case *document.Object:
			next, ok := v.Get(step)
			if !ok {
				return nil, false
			}
			cur = next
		case document.Array:
			i, err := strconv.Atoi(step)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	obj, ok := cur.(*document.Object)
	return obj, ok
}

// scopeHeaderFooter prints the header on the first page and the footer on
// the last page unless the account asks for them on every page.
func scopeHeaderFooter(root *document.Object, acc *models.Account) {
	if acc == nil {
		acc = &models.Account{}
	}
	scope := func(key string, all bool, only document.PageScope) {
		v, ok := root.Get(key)
		if !ok {
			return
		}
		s := only
		if all {
			s = document.AllPages
		}
		root.Set(key, &document.Paged{Scope: s, Content: v})
	}
	scope("header", bool(acc.AllPagesHeader), document.FirstPage)
	scope("footer", bool(acc.AllPagesFooter), document.LastPage)
}

// registerFonts keeps the fonts whose folder exists in fsys.
func registerFonts(fonts []FontResource, fsys fs.FS, log zerolog.Logger) map[string]document.FontFiles {
	out := make(map[string]document.FontFiles, len(fonts))
	if fsys == nil {
		if len(fonts) > 0 {
			log.Warn().Int("fonts", len(fonts)).Msg("No font filesystem, fonts not registered")
		}
		return out
	}

	for _, f := range fonts {
		info, err := fs.Stat(fsys, f.Folder)
		if err != nil || !info.IsDir() {
			log.Warn().Str("font", f.Name).Str("folder", f.Folder).Msg("Font folder not available, skipping")
			continue
		}
		out[f.Name] = document.FontFiles{
			Normal:      path.Join(f.Folder, f.Normal),
			Italics:     fontFile(f.Folder, f.Italics),
			Bold:        fontFile(f.Folder, f.Bold),
			BoldItalics: fontFile(f.Folder, f.BoldItalics),
		}
	}
	return out
}

func fontFile(folder, file string) string {
	if file == "" {
		return ""
	}
	return path.Join(folder, file)
}

func setDefaultFont(root *document.Object, font string) {
	style, ok := root.GetObject("defaultStyle")
	if !ok {
		root.Set("defaultStyle", document.NewObject().Set("font", document.String(font)))
		return
	}
	if s, ok := style.GetString("font"); !ok || s == "" {
		style.Set("font", document.String(font))
	}
}

func orBlank(s string) string {
	if s == "" {
		return " "
	}
	return s
}
