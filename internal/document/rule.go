package document

// RuleOp names a layout rule a template attaches to table line widths and
// paddings.
type RuleOp string

const (
	RuleNone                  RuleOp = "none"
	RuleFirstAndLast          RuleOp = "firstAndLast"
	RuleNotFirstAndLastColumn RuleOp = "notFirstAndLastColumn"
	RuleNotFirst              RuleOp = "notFirst"
	RuleAmount                RuleOp = "amount"
)

// Rule is evaluated by the layout engine once per table line or column.
type Rule struct {
	Op     RuleOp
	Amount float64
}

func (Rule) Kind() Kind { return KindRule }

// Eval returns the rule's value at index i of a run whose last index is n.
// For horizontal lines n is the number of body rows; for vertical lines and
// column paddings it is the number of columns.
func (r Rule) Eval(i, n int) float64 {
	edge := i == 0 || i == n
	switch r.Op {
	case RuleFirstAndLast:
		if edge {
			return r.Amount
		}
		return 0
	case RuleNotFirstAndLastColumn:
		if edge {
			return 0
		}
		return r.Amount
	case RuleNotFirst:
		if i == 0 {
			return 0
		}
		return r.Amount
	case RuleAmount:
		return r.Amount
	default:
		return 0
	}
}

// IsRuleOp reports whether op names a layout rule.
func IsRuleOp(op string) bool {
	switch RuleOp(op) {
	case RuleNone, RuleFirstAndLast, RuleNotFirstAndLastColumn, RuleNotFirst, RuleAmount:
		return true
	}
	return false
}

// PageScope selects the pages a header or footer is printed on.
type PageScope string

const (
	AllPages  PageScope = "all"
	FirstPage PageScope = "first"
	LastPage  PageScope = "last"
)

// Paged wraps header or footer content with the pages it appears on.
type Paged struct {
	Scope   PageScope
	Content Value
}

func (*Paged) Kind() Kind { return KindPaged }

// On returns the content for page (1-based) of pageCount, or nil when the
// content is not printed there.
func (p *Paged) On(page, pageCount int) Value {
	switch p.Scope {
	case FirstPage:
		if page != 1 {
			return nil
		}
	case LastPage:
		if page != pageCount {
			return nil
		}
	}
	return p.Content
}
