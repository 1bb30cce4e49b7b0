// Package ast defines the directive vocabulary produced by the parser and
// consumed by the ledger. Directives are immutable once parsed; a reload
// discards the whole list and rebuilds it from source text.
package ast

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD). All dated
// directives carry one; dates order directives chronologically and anchor
// balance assertions.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return Date{t}, nil
}

// MustDate parses a YYYY-MM-DD string and panics on failure. Test helper.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// AccountType is the category derived from an account name's first segment.
type AccountType int

const (
	Assets AccountType = iota
	Liabilities
	Equity
	Income
	Expenses
)

func (t AccountType) String() string {
	switch t {
	case Assets:
		return "Assets"
	case Liabilities:
		return "Liabilities"
	case Equity:
		return "Equity"
	case Income:
		return "Income"
	case Expenses:
		return "Expenses"
	}
	return "Unknown"
}

// AccountTypeFromName returns the type for an account name's leading segment.
// Unrecognized prefixes default to Assets; this is deliberate leniency, not
// a validation error.
func AccountTypeFromName(name string) AccountType {
	first, _, _ := strings.Cut(name, ":")
	switch first {
	case "Assets":
		return Assets
	case "Liabilities":
		return Liabilities
	case "Equity":
		return Equity
	case "Income":
		return Income
	case "Expenses":
		return Expenses
	}
	return Assets
}

// ParseAccountType resolves a canonical type name, reporting whether it was
// recognized.
func ParseAccountType(name string) (AccountType, bool) {
	switch name {
	case "Assets":
		return Assets, true
	case "Liabilities":
		return Liabilities, true
	case "Equity":
		return Equity, true
	case "Income":
		return Income, true
	case "Expenses":
		return Expenses, true
	}
	return Assets, false
}

// Account represents a colon-delimited hierarchical account name such as
// Assets:Checking:Chase. Segments after the first may contain any non-space
// characters, including non-ASCII ones:
//
//	Assets:DebitCard:中国银行:6295
type Account string

// Type returns the account category derived from the first segment.
func (a Account) Type() AccountType {
	return AccountTypeFromName(string(a))
}

// Components returns the colon-separated name segments.
func (a Account) Components() []string {
	return strings.Split(string(a), ":")
}

// HasCanonicalPrefix reports whether the first segment is one of the five
// canonical account categories. The parser uses this to tell posting lines
// apart from metadata lines.
func (a Account) HasCanonicalPrefix() bool {
	first, _, _ := strings.Cut(string(a), ":")
	switch first {
	case "Assets", "Liabilities", "Equity", "Income", "Expenses":
		return true
	}
	return false
}

// Amount is a numeric value with its currency. Raw preserves the exact source
// spelling (thousands separators included) for round-trip rendering; Number
// is the parsed decimal used for arithmetic.
type Amount struct {
	Number   decimal.Decimal
	Raw      string
	Currency string
}

// NewAmount builds an Amount from a decimal, rendering Raw from it.
func NewAmount(n decimal.Decimal, currency string) *Amount {
	return &Amount{Number: n, Raw: n.String(), Currency: currency}
}

func (a *Amount) String() string {
	return a.Raw + " " + a.Currency
}

// MetaEntry is one metadata key/value pair attached to a directive.
type MetaEntry struct {
	Key   string
	Value string
}

// Metadata is an ordered key/value list. Insertion order is preserved so the
// canonical rendering of a directive is stable.
type Metadata []MetaEntry

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Set appends or replaces the value for key.
func (m *Metadata) Set(key, value string) {
	for i, e := range *m {
		if e.Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MetaEntry{Key: key, Value: value})
}

// Span locates a directive in its source file: the file identifier, the
// 1-indexed line the directive starts on, and the byte offset just past its
// last line.
type Span struct {
	Source string
	Line   int
	End    int
}
