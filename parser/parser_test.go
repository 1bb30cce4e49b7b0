package parser

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ast"
)

func parseOne(t *testing.T, source string) ast.Directive {
	t.Helper()
	directives, err := Parse(context.Background(), "test.bean", []byte(source))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(directives))
	return directives[0]
}

func TestParseTransaction(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "Acme" "Office supplies" #work ^invoice-42
  Assets:Checking  -45.60 USD
  Expenses:Office   45.60 USD
`)

	txn, ok := d.(*ast.Transaction)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-15", txn.Date.String())
	assert.Equal(t, "*", txn.Flag)
	assert.Equal(t, "Acme", txn.Payee)
	assert.Equal(t, "Office supplies", txn.Narration)
	assert.Equal(t, []string{"work"}, txn.Tags)
	assert.Equal(t, []string{"invoice-42"}, txn.Links)
	assert.Equal(t, 2, len(txn.Postings))

	first := txn.Postings[0]
	assert.Equal(t, "Assets:Checking", string(first.Account))
	assert.Equal(t, "-45.6", first.Amount.Number.String())
	assert.Equal(t, "USD", first.Amount.Currency)
}

func TestParseTransactionNarrationOnly(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "Lunch"
  Expenses:Food  20.00 CNY
  Assets:Cash
`)

	txn := d.(*ast.Transaction)
	assert.Equal(t, "", txn.Payee)
	assert.Equal(t, "Lunch", txn.Narration)

	// The second posting omits its amount; the parser leaves it nil for the
	// ledger to infer.
	assert.Zero(t, txn.Postings[1].Amount)
}

func TestParseTransactionTxnKeyword(t *testing.T) {
	d := parseOne(t, `2024-01-15 txn "Lunch"
  Expenses:Food  20.00 CNY
  Assets:Cash   -20.00 CNY
`)
	assert.Equal(t, "*", d.(*ast.Transaction).Flag)
}

func TestParseTransactionMetadata(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "Taxi"
  time: "18:32:11"
  payTime: 2024-01-15 18:32:11
  Expenses:Transport  30.00 CNY
  Assets:Cash        -30.00 CNY
`)

	txn := d.(*ast.Transaction)
	value, ok := txn.Meta.Get("time")
	assert.True(t, ok)
	assert.Equal(t, "18:32:11", value)
	value, ok = txn.Meta.Get("payTime")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-15 18:32:11", value)
	assert.Equal(t, 2, len(txn.Postings))
}

func TestParseUnicodeAccounts(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "转账"
  Assets:DebitCard:中国银行:6295  -100.00 CNY
  Assets:Cash:现金                100.00 CNY
`)

	txn := d.(*ast.Transaction)
	assert.Equal(t, "Assets:DebitCard:中国银行:6295", string(txn.Postings[0].Account))
	assert.Equal(t, "Assets:Cash:现金", string(txn.Postings[1].Account))
}

func TestParsePostingPriceAndCost(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "Buy shares"
  Assets:Broker:AAPL  10 AAPL {150.00 USD} @ 151.00 USD
  Assets:Checking
`)

	p := d.(*ast.Transaction).Postings[0]
	assert.NotZero(t, p.Cost)
	assert.Equal(t, "150", p.Cost.Number.String())
	assert.NotZero(t, p.Price)
	assert.Equal(t, "151", p.Price.Number.String())
	assert.False(t, p.PriceTotal)
}

func TestParsePostingTotalPrice(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "FX"
  Assets:EUR  100.00 EUR @@ 108.50 USD
  Assets:USD
`)

	p := d.(*ast.Transaction).Postings[0]
	assert.True(t, p.PriceTotal)
	assert.Equal(t, "108.5", p.Price.Number.String())
}

func TestParseNumberWithThousandsSeparators(t *testing.T) {
	d := parseOne(t, `2024-01-15 * "Salary"
  Assets:Checking  12,345.67 CNY
  Income:Salary
`)

	p := d.(*ast.Transaction).Postings[0]
	assert.True(t, p.Amount.Number.Equal(decimal.RequireFromString("12345.67")))
	assert.Equal(t, "12,345.67", p.Amount.Raw)
}

func TestParseOpen(t *testing.T) {
	d := parseOne(t, "2024-01-01 open Assets:Checking USD,CNY\n")

	open := d.(*ast.Open)
	assert.Equal(t, "Assets:Checking", string(open.Account))
	assert.Equal(t, []string{"USD", "CNY"}, open.Currencies)
}

func TestParseClose(t *testing.T) {
	d := parseOne(t, "2024-06-01 close Assets:OldCard\n")
	assert.Equal(t, "Assets:OldCard", string(d.(*ast.Close).Account))
}

func TestParseBalance(t *testing.T) {
	d := parseOne(t, "2024-02-01 balance Assets:Checking 1,250.00 CNY\n")

	b := d.(*ast.Balance)
	assert.Equal(t, "Assets:Checking", string(b.Account))
	assert.Equal(t, "1250", b.Amount.Number.String())
	assert.Equal(t, "CNY", b.Amount.Currency)
}

func TestParsePad(t *testing.T) {
	d := parseOne(t, "2024-01-15 pad Assets:Checking Equity:Opening-Balances\n")

	pad := d.(*ast.Pad)
	assert.Equal(t, "Assets:Checking", string(pad.Account))
	assert.Equal(t, "Equity:Opening-Balances", string(pad.Source))
}

func TestParsePrice(t *testing.T) {
	d := parseOne(t, "2024-01-15 price USD 7.10 CNY\n")

	price := d.(*ast.PriceDecl)
	assert.Equal(t, "USD", price.Currency)
	assert.Equal(t, "7.1", price.Amount.Number.String())
}

func TestParseDocumentNoteEvent(t *testing.T) {
	directives, err := Parse(context.Background(), "test.bean", []byte(`
2024-01-15 document Assets:Checking "statements/jan.pdf"
2024-01-16 note Assets:Checking "called the bank"
2024-01-17 event "location" "Shanghai"
`))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(directives))

	doc := directives[0].(*ast.Document)
	assert.Equal(t, "statements/jan.pdf", doc.Path)

	note := directives[1].(*ast.Note)
	assert.Equal(t, "called the bank", note.Comment)

	event := directives[2].(*ast.Event)
	assert.Equal(t, "location", event.Name)
	assert.Equal(t, "Shanghai", event.Value)
}

func TestParseCustom(t *testing.T) {
	d := parseOne(t, `2024-01-15 custom "budget" "Expenses:Food" "500.00"`+"\n")

	custom := d.(*ast.Custom)
	assert.Equal(t, "budget", custom.Type)
	assert.Equal(t, []string{"Expenses:Food", "500.00"}, custom.Values)
}

func TestParseOptionAndInclude(t *testing.T) {
	directives, err := Parse(context.Background(), "test.bean", []byte(`
option "operating_currency" "CNY"
include "accounts.bean"
`))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(directives))

	option := directives[0].(*ast.Option)
	assert.Equal(t, "operating_currency", option.Name)
	assert.Equal(t, "CNY", option.Value)

	include := directives[1].(*ast.Include)
	assert.Equal(t, "accounts.bean", include.Path)
}

func TestParseCommodityWithMetadata(t *testing.T) {
	d := parseOne(t, `2024-01-01 commodity BTC
  name: "Bitcoin"
  precision: 8
`)

	c := d.(*ast.Commodity)
	assert.Equal(t, "BTC", c.Currency)
	name, ok := c.Meta.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Bitcoin", name)
}

func TestUnknownDatedDirectiveDegradesToComment(t *testing.T) {
	d := parseOne(t, "2024-01-15 frobnicate Assets:Checking\n")

	comment, ok := d.(*ast.Comment)
	assert.True(t, ok)
	assert.Contains(t, comment.Text, "frobnicate")
}

func TestPushtagPoptagPreservedAsComments(t *testing.T) {
	directives, err := Parse(context.Background(), "test.bean", []byte(`
pushtag #travel
poptag #travel
`))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(directives))
	for _, d := range directives {
		_, ok := d.(*ast.Comment)
		assert.True(t, ok)
	}
}

func TestSkipsCommentsAndOrgHeaders(t *testing.T) {
	directives, err := Parse(context.Background(), "test.bean", []byte(`
; a comment
# another comment
* Accounts
** Bank

2024-01-01 open Assets:Checking
`))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(directives))
	_, ok := directives[0].(*ast.Open)
	assert.True(t, ok)
}

func TestMalformedLinesNeverFailTheFile(t *testing.T) {
	directives, err := Parse(context.Background(), "test.bean", []byte(`
2024-01-01 open
2024-01-02 balance Assets:Checking
garbage that matches nothing
2024-01-03 open Assets:Checking
`))
	assert.NoError(t, err)

	// The malformed dated lines degrade to comments, the undated garbage is
	// dropped, and the valid directive still parses.
	assert.Equal(t, 3, len(directives))
	_, ok := directives[0].(*ast.Comment)
	assert.True(t, ok)
	_, ok = directives[1].(*ast.Comment)
	assert.True(t, ok)
	open, ok := directives[2].(*ast.Open)
	assert.True(t, ok)
	assert.Equal(t, 5, open.Pos.Line)
}

func TestParseCRLF(t *testing.T) {
	source := "2024-01-15 * \"Lunch\"\r\n  Expenses:Food  20.00 CNY\r\n  Assets:Cash  -20.00 CNY\r\n"
	d := parseOne(t, source)
	txn := d.(*ast.Transaction)
	assert.Equal(t, 2, len(txn.Postings))

	// End offsets count the original bytes, carriage returns included; only
	// the final newline falls outside the span.
	assert.Equal(t, len(source)-1, txn.Pos.End)
}

func TestParseCRLFOffsets(t *testing.T) {
	source := "2024-01-01 open Assets:Checking\r\n2024-01-02 close Assets:Checking\r\n"
	directives, err := Parse(context.Background(), "main.bean", []byte(source))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(directives))

	assert.Equal(t, len("2024-01-01 open Assets:Checking"), directives[0].Span().End)
	secondStart := len("2024-01-01 open Assets:Checking\r\n")
	assert.Equal(t, secondStart+len("2024-01-02 close Assets:Checking"), directives[1].Span().End)
}

func TestParseBareTxnKeyword(t *testing.T) {
	d := parseOne(t, "2024-01-01 txn\n  Assets:Cash  10.00 CNY\n  Income:Misc\n")
	txn, ok := d.(*ast.Transaction)
	assert.True(t, ok)
	assert.Equal(t, "*", txn.Flag)
	assert.Equal(t, "", txn.Narration)
	assert.Equal(t, 2, len(txn.Postings))
}

func TestSpanPositions(t *testing.T) {
	directives, err := Parse(context.Background(), "books/main.bean", []byte(`2024-01-01 open Assets:Checking
2024-01-02 * "Lunch"
  Expenses:Food  20.00 CNY
  Assets:Cash
`))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(directives))
	assert.Equal(t, "books/main.bean", directives[0].Span().Source)
	assert.Equal(t, 1, directives[0].Span().Line)
	assert.Equal(t, 2, directives[1].Span().Line)
}
