package cli

import (
	"context"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/output"
)

type BalancesCmd struct {
	File    FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Account string      `help:"Show only the named account." short:"a"`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	l, err := loadLedger(context.Background(), &cmd.File, globals, ctx)
	if err != nil {
		return err
	}

	balances := l.AccountBalances()

	names := make([]string, 0, len(balances))
	for name := range balances {
		if cmd.Account != "" && name != cmd.Account {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	if cmd.Account != "" && len(names) == 0 {
		printError(ctx.Stderr, "account not found: "+cmd.Account)
		return NewCommandError(1)
	}

	table := output.NewTable(
		output.Column{Header: "Account"},
		output.Column{Header: "Balance", Align: output.AlignRight},
		output.Column{Header: "Currency"},
	)
	for _, name := range names {
		currency := l.OperatingCurrency()
		if a, ok := l.Account(name); ok && a.Currency != "" {
			currency = a.Currency
		}
		table.AddRow(name, ledger.FormatNumber(balances[name]), currency)
	}
	table.Render(ctx.Stdout)

	return nil
}
