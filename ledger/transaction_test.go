package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/parser"
)

func TestTransactionIDStableAcrossReloads(t *testing.T) {
	source := `
2024-01-15 * "Lunch"
  Expenses:Food  10.00 CNY
  Assets:Cash
`

	first := mustLedger(t, source)
	second := mustLedger(t, source)

	assert.Equal(t, first.Transactions[0].ID, second.Transactions[0].ID)
}

func TestTransactionIDChangesWithContent(t *testing.T) {
	a := mustLedger(t, `
2024-01-15 * "Lunch"
  Expenses:Food  10.00 CNY
  Assets:Cash
`)
	b := mustLedger(t, `
2024-01-15 * "Dinner"
  Expenses:Food  10.00 CNY
  Assets:Cash
`)

	assert.NotEqual(t, a.Transactions[0].ID, b.Transactions[0].ID)
}

func TestTransactionIDShape(t *testing.T) {
	directives, err := parser.Parse(context.Background(), "books/2024/main.bean", []byte(`2024-01-15 * "Lunch"
  Expenses:Food  10.00 CNY
  Assets:Cash
`))
	assert.NoError(t, err)
	l, err := Process(context.Background(), directives)
	assert.NoError(t, err)

	id := l.Transactions[0].ID
	// Path separators flatten to dashes so identifiers are URL-safe.
	assert.True(t, strings.HasPrefix(id, "txn-books-2024-main.bean:1:"))
	assert.Equal(t, len("txn-books-2024-main.bean:1:")+8, len(id))
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		name string
		meta ast.Metadata
		want string
	}{
		{"plain time", ast.Metadata{{Key: "time", Value: "18:32:11"}}, "18:32:11"},
		{"minutes only", ast.Metadata{{Key: "time", Value: "18:32"}}, "18:32:00"},
		{"datetime", ast.Metadata{{Key: "trade_time", Value: "2024-01-15 09:30:01"}}, "09:30:01"},
		{"iso datetime", ast.Metadata{{Key: "created_at", Value: "2024-01-15T09:30:01"}}, "09:30:01"},
		{"fractional seconds", ast.Metadata{{Key: "payTime", Value: "18:32:11.123"}}, "18:32:11"},
		{"tgbot", ast.Metadata{{Key: "tgbot_time", Value: "12:00:00"}}, "12:00:00"},
		{"unrelated keys", ast.Metadata{{Key: "note", Value: "18:32:11"}}, ""},
		{"unparseable", ast.Metadata{{Key: "time", Value: "sometime"}}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, extractTime(test.meta))
		})
	}
}

func TestExtractTimeKeyPriority(t *testing.T) {
	meta := ast.Metadata{
		{Key: "trade_time", Value: "09:00:00"},
		{Key: "time", Value: "10:00:00"},
	}
	// "time" is checked before "trade_time" regardless of metadata order.
	assert.Equal(t, "10:00:00", extractTime(meta))
}

func TestTransactionSummary(t *testing.T) {
	tx := &Transaction{Payee: "Acme", Narration: "Supplies"}
	assert.Equal(t, "Acme | Supplies", tx.Summary())

	tx = &Transaction{Payee: "Acme"}
	assert.Equal(t, "Acme", tx.Summary())

	tx = &Transaction{Narration: "Supplies"}
	assert.Equal(t, "Supplies", tx.Summary())
}

func TestPostingTotalValueWithPrice(t *testing.T) {
	l := mustLedger(t, `
2024-01-15 * "FX"
  Assets:EUR  100.00 EUR @ 7.80 CNY
  Assets:CNY  -780.00 CNY
`)

	p := l.Transactions[0].Postings[0]
	assert.Equal(t, "780", p.TotalValue("CNY").String())

	// In its own currency the posting is used as is.
	assert.Equal(t, "100", p.TotalValue("EUR").String())
}

func TestPostingTotalValueWithTotalPrice(t *testing.T) {
	l := mustLedger(t, `
2024-01-15 * "FX"
  Assets:EUR  -100.00 EUR @@ 780.00 CNY
  Assets:CNY  780.00 CNY
`)

	p := l.Transactions[0].Postings[0]
	// A total price carries the sign of the posting.
	assert.Equal(t, "-780", p.TotalValue("CNY").String())
}
