package cli

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/output"
)

type TransactionsCmd struct {
	File    FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Account string      `help:"Show only transactions posting to this account." short:"a"`
	Search  string      `help:"Filter by payee, narration, tag, link, or account substring." short:"s"`
	Limit   int         `help:"Maximum number of transactions to show." default:"25"`
}

func (cmd *TransactionsCmd) Run(ctx *kong.Context, globals *Globals) error {
	l, err := loadLedger(context.Background(), &cmd.File, globals, ctx)
	if err != nil {
		return err
	}

	var txns []*ledger.Transaction
	if cmd.Search != "" {
		txns = l.SearchTransactions(cmd.Search)
		if cmd.Limit > 0 && len(txns) > cmd.Limit {
			txns = txns[:cmd.Limit]
		}
	} else {
		txns, _ = l.QueryTransactions(time.Now(), ledger.TransactionQuery{
			Account: cmd.Account,
			Limit:   cmd.Limit,
		})
	}

	// Narrations can be arbitrarily long; cap them to keep rows on one line.
	descWidth := output.TerminalWidth() - 40
	if descWidth < 20 {
		descWidth = 20
	}

	table := output.NewTable(
		output.Column{Header: "Date"},
		output.Column{Header: "Flag"},
		output.Column{Header: "Description"},
		output.Column{Header: "Postings", Align: output.AlignRight},
	)
	for _, tx := range txns {
		date := tx.Date.String()
		if tx.HasTime() {
			date += " " + tx.Time
		}
		table.AddRow(date, tx.Flag, output.Truncate(tx.Summary(), descWidth), ledger.FormatNumber(postingTotal(tx)))
	}
	table.Render(ctx.Stdout)

	return nil
}

// postingTotal sums the positive legs, a rough "size" of the transaction.
func postingTotal(tx *ledger.Transaction) (total decimal.Decimal) {
	for _, p := range tx.Postings {
		if p.Number.IsPositive() {
			total = total.Add(p.Number)
		}
	}
	return total
}
