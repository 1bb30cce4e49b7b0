package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanledger/ast"
)

// synthesizePads runs after all Balance directives are materialized and
// produces exactly one synthetic transaction per Pad directive: two inverse
// postings dated at the Pad's date, tagged "pad", narrated
// "<account> from <source>".
func (l *Ledger) synthesizePads(pads []*ast.Pad) {
	usedIDs := make(map[string]bool)

	for _, pad := range pads {
		account := string(pad.Account)
		source := string(pad.Source)

		l.Pads = append(l.Pads, &PadEntry{
			Account: account,
			Source:  source,
			Date:    pad.Date,
		})

		amount, currency := l.padDifference(pad)
		if currency == "" {
			currency = l.OperatingCurrency()
		}

		// The difference is stated for the source side of the pair: income
		// received books negative there, so the padded account gains the
		// inverse.
		id := fmt.Sprintf("pad-%s", pad.Date)
		for n := 2; usedIDs[id]; n++ {
			id = fmt.Sprintf("pad-%s-%d", pad.Date, n)
		}
		usedIDs[id] = true

		accountNumber := amount.Neg()
		txn := &Transaction{
			ID:        id,
			Date:      pad.Date,
			Narration: fmt.Sprintf("%s from %s", account, source),
			Tags:      []string{"pad"},
			Meta: ast.Metadata{
				{Key: "pad_source", Value: source},
				{Key: "pad_date", Value: pad.Date.String()},
			},
			Postings: []*Posting{
				{
					Account:  account,
					Amount:   FormatNumber(accountNumber),
					Number:   accountNumber,
					Currency: currency,
				},
				{
					Account:  source,
					Amount:   FormatNumber(amount),
					Number:   amount,
					Currency: currency,
				},
			},
		}

		l.ensureAccount(account)
		l.ensureAccount(source)
		l.Transactions = append(l.Transactions, txn)
	}
}

// padDifference solves for the padding amount of one Pad directive. The
// returned value is the amount booked on the source posting; the padded
// account receives its inverse.
func (l *Ledger) padDifference(pad *ast.Pad) (decimal.Decimal, string) {
	account := string(pad.Account)
	source := string(pad.Source)
	sourceType := ast.AccountTypeFromName(source)

	if sourceType == ast.Income || sourceType == ast.Expenses {
		if amount, currency, ok := l.inferredPadDifference(pad); ok {
			return amount, currency
		}
	} else {
		// The padded account asserts its own balance at or after the pad
		// date; the difference is read directly from that assertion.
		for _, b := range l.Balances {
			if b.Account == account && !b.Date.Before(pad.Date.Time) {
				return b.Number, b.Currency
			}
		}
	}

	// Fall back to the padded account's snapshot, then to zero.
	if a, ok := l.Accounts[account]; ok && a.Balance != nil {
		return a.Balance.Number, a.Balance.Currency
	}
	return decimal.Zero, ""
}

// inferredPadDifference handles pads against Income/Expenses accounts,
// which carry no Balance directives of their own. The difference is read
// off the padded account instead: the balance change across the pad date,
// minus every other transaction touching the padded account strictly
// between the two bracketing assertions. Whether a transaction is "other"
// is decided by checking if it posts to the pad's source account at all —
// a heuristic that can misclassify an unrelated transaction touching the
// same account in the same window.
func (l *Ledger) inferredPadDifference(pad *ast.Pad) (decimal.Decimal, string, bool) {
	account := string(pad.Account)
	source := string(pad.Source)

	var history []*BalanceEntry
	for _, b := range l.Balances {
		if b.Account == account {
			history = append(history, b)
		}
	}
	slices.SortStableFunc(history, func(a, b *BalanceEntry) int {
		return a.Date.Compare(b.Date.Time)
	})

	currIdx := -1
	for i, b := range history {
		if !b.Date.Before(pad.Date.Time) {
			currIdx = i
			break
		}
	}
	if currIdx <= 0 {
		// No assertion after the pad date, or nothing before it to diff
		// against.
		return decimal.Zero, "", false
	}

	curr := history[currIdx]
	prev := history[currIdx-1]
	balanceChange := curr.Number.Sub(prev.Number)

	// Sum the other postings to the padded account strictly between the two
	// assertion dates. Assertions hold at the start of their day, so
	// transactions on either boundary date are outside the window.
	otherSum := decimal.Zero
	for _, tx := range l.Transactions {
		if !tx.Date.After(prev.Date.Time) || !tx.Date.Before(curr.Date.Time) {
			continue
		}
		if tx.InvolvesAccount(source) {
			continue
		}
		for _, p := range tx.Postings {
			if p.Account == account {
				otherSum = otherSum.Add(p.Number)
			}
		}
	}

	difference := balanceChange.Sub(otherSum)

	// Book the inverse on the source: income received shows up negative on
	// the Income account.
	return difference.Neg(), curr.Currency, true
}
