package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ast"
)

// Status is an account's lifecycle state. Accounts only ever move from Open
// to Closed; Paused exists for externally managed state and is never set by
// reconciliation itself.
type Status int

const (
	StatusOpen Status = iota
	StatusClosed
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusPaused:
		return "paused"
	}
	return "unknown"
}

// Snapshot is an account's latest asserted balance: the amount and currency
// of the most recent Balance directive by date. It is updated monotonically;
// a Balance directive replaces the snapshot only when its date is strictly
// later than the stored one, regardless of file order.
type Snapshot struct {
	Number   decimal.Decimal
	Raw      string
	Currency string
	Date     ast.Date
}

// Account is the derived model for one ledger account. The type never
// changes after creation; it is fixed by the name's first segment.
type Account struct {
	Name      string
	Type      ast.AccountType
	Status    Status
	Currency  string
	OpenDate  *ast.Date
	CloseDate *ast.Date
	Balance   *Snapshot
	Meta      ast.Metadata
}

// ShortName returns the last name segment.
func (a *Account) ShortName() string {
	parts := strings.Split(a.Name, ":")
	return parts[len(parts)-1]
}

// ParentName returns the name without its last segment, or "" for a root
// account.
func (a *Account) ParentName() string {
	i := strings.LastIndex(a.Name, ":")
	if i < 0 {
		return ""
	}
	return a.Name[:i]
}

// Depth returns the number of name segments.
func (a *Account) Depth() int {
	return strings.Count(a.Name, ":") + 1
}

// IsRoot reports whether the account sits directly under its type segment,
// e.g. Assets:Cash but not Assets:Cash:Wallet.
func (a *Account) IsRoot() bool {
	return a.Depth() == 2
}

// BalanceEntry is one Balance directive, kept as an append-only historical
// log distinct from the account's latest snapshot.
type BalanceEntry struct {
	Account  string
	Number   decimal.Decimal
	Raw      string
	Currency string
	Date     ast.Date
}

// PadEntry is one Pad directive: the padded account, the source account the
// padding is booked against, and the date. It is a lightweight record
// distinct from the synthetic transaction it produces.
type PadEntry struct {
	Account string
	Source  string
	Date    ast.Date
}
