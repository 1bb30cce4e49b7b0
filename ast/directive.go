package ast

// Directive is one instruction parsed from the ledger text. It is a closed
// set of fourteen kinds; the reconciliation pass switches exhaustively over
// them rather than relying on deep type hierarchies.
type Directive interface {
	// Span returns the directive's source location.
	Span() Span
	// Kind returns the directive keyword ("open", "txn", "balance", ...).
	Kind() string
}

// Dated is implemented by every directive kind that carries a date.
// Option, Include, and Comment do not.
type Dated interface {
	Directive
	When() Date
}

// Open declares the opening of an account at a specific date, marking the
// beginning of its lifetime in the ledger. Constraint currencies are
// optional; the first one becomes the account's operating currency.
//
// Example:
//
//	2014-05-01 open Assets:US:BofA:Checking USD
type Open struct {
	Pos        Span
	Date       Date
	Account    Account
	Currencies []string
	Meta       Metadata
}

var _ Dated = (*Open)(nil)

func (o *Open) Span() Span   { return o.Pos }
func (o *Open) Kind() string { return "open" }
func (o *Open) When() Date   { return o.Date }

// Close declares the closing of an account, marking the end of its lifetime.
//
// Example:
//
//	2015-09-23 close Assets:US:BofA:Checking
type Close struct {
	Pos     Span
	Date    Date
	Account Account
}

var _ Dated = (*Close)(nil)

func (c *Close) Span() Span   { return c.Pos }
func (c *Close) Kind() string { return "close" }
func (c *Close) When() Date   { return c.Date }

// Balance asserts that an account holds a specific balance at the beginning
// of a given date, typically reconciled against an external statement.
//
// Example:
//
//	2014-08-09 balance Assets:US:BofA:Checking 562.00 USD
type Balance struct {
	Pos     Span
	Date    Date
	Account Account
	Amount  Amount
}

var _ Dated = (*Balance)(nil)

func (b *Balance) Span() Span   { return b.Pos }
func (b *Balance) Kind() string { return "balance" }
func (b *Balance) When() Date   { return b.Date }

// Pad inserts an implicit balancing transaction between a target account and
// a source account so that a subsequent balance assertion holds. The padding
// amount is solved for during reconciliation, not stated in the text.
//
// Example:
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
//	2014-08-09 balance Assets:US:BofA:Checking 562.00 USD
type Pad struct {
	Pos     Span
	Date    Date
	Account Account
	Source  Account
}

var _ Dated = (*Pad)(nil)

func (p *Pad) Span() Span   { return p.Pos }
func (p *Pad) Kind() string { return "pad" }
func (p *Pad) When() Date   { return p.Date }

// Commodity declares a currency or commodity. Optional, but the attached
// metadata is the usual place for display names and precision hints.
//
// Example:
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
type Commodity struct {
	Pos      Span
	Date     Date
	Currency string
	Meta     Metadata
}

var _ Dated = (*Commodity)(nil)

func (c *Commodity) Span() Span   { return c.Pos }
func (c *Commodity) Kind() string { return "commodity" }
func (c *Commodity) When() Date   { return c.Date }

// PriceDecl records the market price of one commodity in another at a date.
//
// Example:
//
//	2014-07-09 price HOOL 579.18 USD
type PriceDecl struct {
	Pos      Span
	Date     Date
	Currency string
	Amount   Amount
}

var _ Dated = (*PriceDecl)(nil)

func (p *PriceDecl) Span() Span   { return p.Pos }
func (p *PriceDecl) Kind() string { return "price" }
func (p *PriceDecl) When() Date   { return p.Date }

// Document associates an external file with an account at a date.
type Document struct {
	Pos     Span
	Date    Date
	Account Account
	Path    string
}

var _ Dated = (*Document)(nil)

func (d *Document) Span() Span   { return d.Pos }
func (d *Document) Kind() string { return "document" }
func (d *Document) When() Date   { return d.Date }

// Event records a dated named value, such as a change of location or status.
//
// Example:
//
//	2014-07-09 event "location" "Paris, France"
type Event struct {
	Pos   Span
	Date  Date
	Name  string
	Value string
}

var _ Dated = (*Event)(nil)

func (e *Event) Span() Span   { return e.Pos }
func (e *Event) Kind() string { return "event" }
func (e *Event) When() Date   { return e.Date }

// Note attaches a dated comment to an account.
type Note struct {
	Pos     Span
	Date    Date
	Account Account
	Comment string
}

var _ Dated = (*Note)(nil)

func (n *Note) Span() Span   { return n.Pos }
func (n *Note) Kind() string { return "note" }
func (n *Note) When() Date   { return n.Date }

// Option sets a ledger-wide option such as the operating currency.
//
// Example:
//
//	option "operating_currency" "CNY"
type Option struct {
	Pos   Span
	Name  string
	Value string
}

var _ Directive = (*Option)(nil)

func (o *Option) Span() Span   { return o.Pos }
func (o *Option) Kind() string { return "option" }

// Include pulls another ledger file into this one. The path is resolved
// relative to the including file's directory and may contain glob patterns.
// The loader consumes Include directives when following includes.
type Include struct {
	Pos  Span
	Path string
}

var _ Directive = (*Include)(nil)

func (i *Include) Span() Span   { return i.Pos }
func (i *Include) Kind() string { return "include" }

// Custom is an extension directive with a type name and free-form values.
type Custom struct {
	Pos    Span
	Date   Date
	Type   string
	Values []string
}

var _ Dated = (*Custom)(nil)

func (c *Custom) Span() Span   { return c.Pos }
func (c *Custom) Kind() string { return "custom" }
func (c *Custom) When() Date   { return c.Date }

// Comment preserves a line the parser recognized but does not act on, or a
// line it could not classify at all. Keeping these around gives round-trip
// fidelity and means a malformed line degrades to a no-op instead of
// aborting the file.
type Comment struct {
	Pos  Span
	Text string
}

var _ Directive = (*Comment)(nil)

func (c *Comment) Span() Span   { return c.Pos }
func (c *Comment) Kind() string { return "comment" }
