package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPadFromIncomeInfersDifference(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 open Assets:Checking
2024-01-01 balance Assets:Checking 100.00 CNY
2024-01-15 pad Assets:Checking Income:Gift
2024-02-01 balance Assets:Checking 150.00 CNY
`)

	padTxn := findPadTransaction(t, l)
	assert.Equal(t, "pad-2024-01-15", padTxn.ID)
	assert.Equal(t, "Assets:Checking from Income:Gift", padTxn.Narration)
	assert.Equal(t, []string{"pad"}, padTxn.Tags)

	// The 50.00 gap between the two assertions books as income received:
	// negative on the Income account, positive on the padded account.
	assert.Equal(t, 2, len(padTxn.Postings))
	assert.Equal(t, "Assets:Checking", padTxn.Postings[0].Account)
	assert.Equal(t, "50.00", padTxn.Postings[0].Amount)
	assert.Equal(t, "Income:Gift", padTxn.Postings[1].Account)
	assert.Equal(t, "-50.00", padTxn.Postings[1].Amount)
}

func TestPadInferenceExcludesIntermediateTransactions(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 balance Assets:Checking 100.00 CNY
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
2024-01-15 pad Assets:Checking Income:Gift
2024-02-01 balance Assets:Checking 150.00 CNY
`)

	// Balance change is 50, of which -20 is explained by the lunch, so the
	// pad must account for 70.
	padTxn := findPadTransaction(t, l)
	assert.Equal(t, "70.00", padTxn.Postings[0].Amount)
	assert.Equal(t, "-70.00", padTxn.Postings[1].Amount)
}

func TestPadFromEquityReadsAssertionDirectly(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 pad Assets:Checking Equity:Opening-Balances
2024-01-02 balance Assets:Checking 562.00 CNY
`)

	padTxn := findPadTransaction(t, l)
	assert.Equal(t, "Assets:Checking", padTxn.Postings[0].Account)
	assert.Equal(t, "-562.00", padTxn.Postings[0].Amount)
	assert.Equal(t, "Equity:Opening-Balances", padTxn.Postings[1].Account)
	assert.Equal(t, "562.00", padTxn.Postings[1].Amount)
}

func TestPadPostingsAreInverse(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 balance Assets:Checking 100.00 CNY
2024-01-15 pad Assets:Checking Income:Gift
2024-02-01 balance Assets:Checking 150.00 CNY
`)

	padTxn := findPadTransaction(t, l)
	sum := padTxn.Postings[0].Number.Add(padTxn.Postings[1].Number)
	assert.True(t, sum.IsZero())
}

func TestPadWithoutBracketingAssertionIsZero(t *testing.T) {
	l := mustLedger(t, `
2024-01-15 pad Assets:Checking Income:Gift
`)

	padTxn := findPadTransaction(t, l)
	assert.True(t, padTxn.Postings[0].Number.IsZero())
	assert.Equal(t, "CNY", padTxn.Postings[0].Currency)
}

func TestPadIdentifierCollision(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 balance Assets:A 100.00 CNY
2024-01-01 balance Assets:B 100.00 CNY
2024-01-15 pad Assets:A Income:Gift
2024-01-15 pad Assets:B Income:Gift
2024-02-01 balance Assets:A 150.00 CNY
2024-02-01 balance Assets:B 180.00 CNY
`)

	var ids []string
	for _, tx := range l.Transactions {
		if tx.HasTag("pad") {
			ids = append(ids, tx.ID)
		}
	}
	assert.Equal(t, []string{"pad-2024-01-15", "pad-2024-01-15-2"}, ids)
}

func TestPadEntriesRecorded(t *testing.T) {
	l := mustLedger(t, `
2024-01-15 pad Assets:Checking Equity:Opening-Balances
`)

	assert.Equal(t, 1, len(l.Pads))
	assert.Equal(t, "Assets:Checking", l.Pads[0].Account)
	assert.Equal(t, "Equity:Opening-Balances", l.Pads[0].Source)

	assert.Equal(t, 1, len(l.PadsByAccount("Assets:Checking")))
	assert.Equal(t, 1, len(l.PadsBySource("Equity:Opening-Balances")))
}

func TestPadMetadata(t *testing.T) {
	l := mustLedger(t, `
2024-01-01 balance Assets:Checking 100.00 CNY
2024-01-15 pad Assets:Checking Income:Gift
2024-02-01 balance Assets:Checking 150.00 CNY
`)

	padTxn := findPadTransaction(t, l)
	source, ok := padTxn.Meta.Get("pad_source")
	assert.True(t, ok)
	assert.Equal(t, "Income:Gift", source)
	date, ok := padTxn.Meta.Get("pad_date")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-15", date)
}

func findPadTransaction(t *testing.T, l *Ledger) *Transaction {
	t.Helper()
	for _, tx := range l.Transactions {
		if tx.HasTag("pad") {
			return tx
		}
	}
	t.Fatal("no pad transaction synthesized")
	return nil
}
