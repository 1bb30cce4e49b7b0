// Package ledger reconstructs a consistent in-memory financial ledger from
// a parsed directive stream: the account registry with its open/close
// lifecycle, the transaction list including synthesized pad transactions,
// the balance-assertion history, and the query and report surface on top of
// them.
//
// All derived state is rebuilt wholesale on every load; nothing mutates a
// Ledger after Process returns. Concurrent access is the Service's job.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/telemetry"
)

// defaultCurrency is the fallback when neither an operating_currency option
// nor a balance assertion supplies one.
const defaultCurrency = "CNY"

// Tolerance for the explicit-postings zero-sum check.
var balanceTolerance = decimal.NewFromFloat(0.005)

// Ledger is one immutable reconciliation result. Collections keep file
// order: accounts in first-appearance order, transactions and balances in
// directive order with pad transactions appended last.
type Ledger struct {
	Accounts     map[string]*Account
	Transactions []*Transaction
	Balances     []*BalanceEntry
	Pads         []*PadEntry
	Commodities  []string
	Options      map[string]string

	// Errors collects validation findings. They never fail the load; the
	// numbers are suspect but the ledger stays queryable.
	Errors []error

	accountOrder []string
}

// Process reconciles a directive list into a new Ledger. It runs three
// passes:
//
//  1. collect Pad directives (their amounts depend on Balance directives
//     that may appear later in file order),
//  2. materialize accounts, transactions, and balance history in directive
//     order,
//  3. synthesize one transaction per Pad.
//
// The only error is context cancellation; bad input degrades into Errors.
func Process(ctx context.Context, directives []ast.Directive) (*Ledger, error) {
	timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("ledger.process (%d directives)", len(directives)))
	defer timer.End()

	l := &Ledger{
		Accounts: make(map[string]*Account),
		Options:  make(map[string]string),
	}

	// First pass. Also the natural place to pick up options, which may
	// influence later conversion.
	var pads []*ast.Pad
	for _, d := range directives {
		switch d := d.(type) {
		case *ast.Pad:
			pads = append(pads, d)
		case *ast.Option:
			l.Options[d.Name] = d.Value
		}
	}

	seenCommodities := make(map[string]bool)

	for i, d := range directives {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		switch d := d.(type) {
		case *ast.Open:
			l.processOpen(d)
		case *ast.Close:
			l.processClose(d)
		case *ast.Transaction:
			l.processTransaction(d)
		case *ast.Balance:
			l.processBalance(d)
		case *ast.Commodity:
			if !seenCommodities[d.Currency] {
				l.Commodities = append(l.Commodities, d.Currency)
				seenCommodities[d.Currency] = true
			}
		case *ast.Pad, *ast.Option:
			// Handled in the first pass.
		default:
			// Price, document, event, note, custom, and comment directives
			// are not materialized into queryable state.
		}
	}

	padTimer := timer.Child(fmt.Sprintf("ledger.pads (%d)", len(pads)))
	l.synthesizePads(pads)
	padTimer.End()

	return l, nil
}

// OperatingCurrency returns the ledger's single reporting currency.
func (l *Ledger) OperatingCurrency() string {
	if c, ok := l.Options["operating_currency"]; ok && c != "" {
		return c
	}
	return defaultCurrency
}

// ensureAccount returns the named account, creating an open one on first
// reference. Accounts referenced by postings before any Open directive are
// still queryable.
func (l *Ledger) ensureAccount(name string) *Account {
	if a, ok := l.Accounts[name]; ok {
		return a
	}
	a := &Account{
		Name:   name,
		Type:   ast.AccountTypeFromName(name),
		Status: StatusOpen,
	}
	l.Accounts[name] = a
	l.accountOrder = append(l.accountOrder, name)
	return a
}

// processOpen creates the account. Opens are idempotent per name; the first
// one wins and later ones are ignored.
func (l *Ledger) processOpen(d *ast.Open) {
	if _, ok := l.Accounts[string(d.Account)]; ok {
		return
	}
	a := l.ensureAccount(string(d.Account))
	date := d.Date
	a.OpenDate = &date
	a.Meta = d.Meta
	if len(d.Currencies) > 0 {
		a.Currency = d.Currencies[0]
	}
}

func (l *Ledger) processClose(d *ast.Close) {
	a := l.ensureAccount(string(d.Account))
	date := d.Date
	a.Status = StatusClosed
	a.CloseDate = &date
}

func (l *Ledger) processTransaction(d *ast.Transaction) {
	txn := convert(d)

	omitted := 0
	explicitSum := decimal.Zero
	currencies := make(map[string]bool)
	for _, p := range txn.Postings {
		l.ensureAccount(p.Account)
		if p.Inferred {
			omitted++
			continue
		}
		explicitSum = explicitSum.Add(p.Number)
		if p.Currency != "" {
			currencies[p.Currency] = true
		}
	}

	if omitted > 1 {
		l.Errors = append(l.Errors, &ValidationError{
			Pos:     d.Pos,
			Message: fmt.Sprintf("transaction has %d postings without amounts; at most one may be omitted", omitted),
		})
	}
	if omitted == 0 {
		if len(currencies) <= 1 {
			if explicitSum.Abs().GreaterThan(balanceTolerance) {
				l.Errors = append(l.Errors, &ValidationError{
					Pos:     d.Pos,
					Message: fmt.Sprintf("transaction does not balance: residual %s", explicitSum.String()),
				})
			}
		} else if sum, ok := priceConvertedSum(txn, l.OperatingCurrency()); ok && sum.Abs().GreaterThan(balanceTolerance) {
			l.Errors = append(l.Errors, &ValidationError{
				Pos:     d.Pos,
				Message: fmt.Sprintf("transaction does not balance in %s: residual %s", l.OperatingCurrency(), sum.String()),
			})
		}
	}

	l.Transactions = append(l.Transactions, txn)
}

// priceConvertedSum resolves every posting into the operating currency
// through its explicit @/@@ price. ok is false when any posting in another
// currency carries no price into the operating currency; such transactions
// stay unvalidated.
func priceConvertedSum(txn *Transaction, operating string) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for _, p := range txn.Postings {
		if p.Currency != "" && p.Currency != operating {
			if p.Price == nil || p.Price.Currency != operating {
				return decimal.Zero, false
			}
		}
		sum = sum.Add(p.TotalValue(operating))
	}
	return sum, true
}

// processBalance appends to the history unconditionally and updates the
// account snapshot monotonically: only a strictly later date replaces it,
// regardless of directive order in the source.
func (l *Ledger) processBalance(d *ast.Balance) {
	a := l.ensureAccount(string(d.Account))

	entry := &BalanceEntry{
		Account:  string(d.Account),
		Number:   d.Amount.Number,
		Raw:      d.Amount.Raw,
		Currency: d.Amount.Currency,
		Date:     d.Date,
	}
	l.Balances = append(l.Balances, entry)

	if a.Balance == nil || d.Date.After(a.Balance.Date.Time) {
		a.Balance = &Snapshot{
			Number:   d.Amount.Number,
			Raw:      d.Amount.Raw,
			Currency: d.Amount.Currency,
			Date:     d.Date,
		}
		if a.Currency == "" {
			a.Currency = d.Amount.Currency
		}
	}
}
