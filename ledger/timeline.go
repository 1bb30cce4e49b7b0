package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanledger/ast"
)

// TimelineItemType tags one event in an account's balance timeline.
type TimelineItemType string

const (
	TimelineBalance     TimelineItemType = "balance"
	TimelinePad         TimelineItemType = "pad"
	TimelineTransaction TimelineItemType = "transaction"
)

// TimelineItem is one event in an account's running-balance history.
// Balance events set the running balance to the asserted amount; pad and
// transaction events add their signed posting amount to it.
type TimelineItem struct {
	Type           TimelineItemType
	Date           ast.Date
	Time           string
	Description    string
	TransactionID  string
	Amount         decimal.Decimal
	Currency       string
	RunningBalance decimal.Decimal
}

// Timeline computes the single chronologically ordered, running-balance
// annotated event sequence for one account, then reverses it for
// most-recent-first display and applies offset/limit pagination. A limit of
// zero means no limit. The second return value is the total number of
// events before pagination.
//
// The same sequence backs the account detail view and the reconciliation of
// balance assertions against the transaction stream; there is deliberately
// only one implementation of it.
func (l *Ledger) Timeline(account string, offset, limit int) ([]*TimelineItem, int) {
	var items []*TimelineItem

	for _, b := range l.Balances {
		if b.Account != account {
			continue
		}
		items = append(items, &TimelineItem{
			Type:        TimelineBalance,
			Date:        b.Date,
			Description: "Balance assertion",
			Amount:      b.Number,
			Currency:    b.Currency,
		})
	}

	for _, tx := range l.Transactions {
		if !tx.InvolvesAccount(account) {
			continue
		}

		amount := decimal.Zero
		currency := ""
		for _, p := range tx.Postings {
			if p.Account == account {
				amount = amount.Add(p.Number)
				if currency == "" {
					currency = p.Currency
				}
			}
		}

		item := &TimelineItem{
			Type:          TimelineTransaction,
			Date:          tx.Date,
			Time:          tx.Time,
			Description:   tx.Summary(),
			TransactionID: tx.ID,
			Amount:        amount,
			Currency:      currency,
		}
		if tx.HasTag("pad") {
			item.Type = TimelinePad
			item.Description = padDescription(tx, account)
		}
		items = append(items, item)
	}

	// Balance events were appended first, so the stable sort keeps an
	// assertion ahead of same-day activity: it states the balance at the
	// start of its day.
	slices.SortStableFunc(items, func(a, b *TimelineItem) int {
		if c := a.Date.Compare(b.Date.Time); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})

	running := decimal.Zero
	for _, item := range items {
		if item.Type == TimelineBalance {
			running = item.Amount
		} else {
			running = running.Add(item.Amount)
		}
		item.RunningBalance = running
	}

	slices.Reverse(items)

	total := len(items)
	if offset >= total {
		return nil, total
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, total
}

// padDescription labels a pad event from the viewed account's side: the
// padded account sees where the padding came from, the source sees where it
// went.
func padDescription(tx *Transaction, account string) string {
	padded := ""
	if len(tx.Postings) > 0 {
		padded = tx.Postings[0].Account
	}
	if account == padded {
		if source, ok := tx.Meta.Get("pad_source"); ok {
			return "Pad from " + source
		}
		return "Pad"
	}
	return "Pad to " + padded
}
