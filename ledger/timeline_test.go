package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func timelineBalances(items []*TimelineItem) []string {
	balances := make([]string, len(items))
	for i, item := range items {
		balances[i] = item.RunningBalance.String()
	}
	return balances
}

func TestTimelineRunningBalance(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 balance Assets:Checking 100.00 CNY
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
2024-01-20 * "Refund"
  Assets:Checking  5.00 CNY
  Expenses:Food
`)

	items, total := l.Timeline("Assets:Checking", 0, 0)
	assert.Equal(t, 3, total)

	// Chronological running balances are 100, 80, 85; the result is
	// newest-first.
	assert.Equal(t, []string{"85", "80", "100"}, timelineBalances(items))
	assert.Equal(t, TimelineTransaction, items[0].Type)
	assert.Equal(t, TimelineBalance, items[2].Type)
	assert.Equal(t, "Balance assertion", items[2].Description)
}

func TestTimelineBalanceResetsRunning(t *testing.T) {
	l := mustLedger(t, `
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
2024-02-01 balance Assets:Checking 500.00 CNY
2024-02-10 * "Dinner"
  Assets:Checking  -30.00 CNY
  Expenses:Food
`)

	items, _ := l.Timeline("Assets:Checking", 0, 0)

	// Chronological: -20 (running -20), assertion sets 500, then 470.
	assert.Equal(t, []string{"470", "500", "-20"}, timelineBalances(items))
}

func TestTimelineSameDayBalanceFirst(t *testing.T) {
	l := mustLedger(t, `
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
2024-01-10 balance Assets:Checking 100.00 CNY
`)

	items, _ := l.Timeline("Assets:Checking", 0, 0)

	// An assertion states the balance at the start of its day, so the
	// same-day transaction applies after it.
	assert.Equal(t, []string{"80", "100"}, timelineBalances(items))
}

func TestTimelineOrdersByTimeWithinDay(t *testing.T) {
	l := mustLedger(t, `
2024-01-10 * "Dinner"
  time: "19:00:00"
  Assets:Checking  -30.00 CNY
  Expenses:Food
2024-01-10 * "Lunch"
  time: "12:00:00"
  Assets:Checking  -20.00 CNY
  Expenses:Food
`)

	items, _ := l.Timeline("Assets:Checking", 0, 0)
	assert.Equal(t, "Dinner", items[0].Description)
	assert.Equal(t, "-50", items[0].RunningBalance.String())
	assert.Equal(t, "Lunch", items[1].Description)
	assert.Equal(t, "-20", items[1].RunningBalance.String())
}

func TestTimelinePadEvents(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 balance Assets:Checking 100.00 CNY
2024-01-15 pad Assets:Checking Income:Gift
2024-02-01 balance Assets:Checking 150.00 CNY
`)

	items, _ := l.Timeline("Assets:Checking", 0, 0)
	var pad *TimelineItem
	for _, item := range items {
		if item.Type == TimelinePad {
			pad = item
		}
	}
	assert.NotZero(t, pad)
	assert.Equal(t, "Pad from Income:Gift", pad.Description)

	// Viewed from the source account, the direction flips.
	items, _ = l.Timeline("Income:Gift", 0, 0)
	assert.Equal(t, "Pad to Assets:Checking", items[0].Description)
}

func TestTimelinePagination(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 * "One"
  Assets:Checking  1.00 CNY
  Income:Misc
2024-01-02 * "Two"
  Assets:Checking  1.00 CNY
  Income:Misc
2024-01-03 * "Three"
  Assets:Checking  1.00 CNY
  Income:Misc
`)

	items, total := l.Timeline("Assets:Checking", 1, 1)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Two", items[0].Description)

	items, total = l.Timeline("Assets:Checking", 5, 1)
	assert.Equal(t, 3, total)
	assert.Equal(t, 0, len(items))
}

func TestTimelineUnknownAccountEmpty(t *testing.T) {
	l := mustLedger(t, "")
	items, total := l.Timeline("Assets:Nope", 0, 0)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, len(items))
}
