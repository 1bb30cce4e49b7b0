package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/output"
)

type AccountsCmd struct {
	File   FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Type   string      `help:"Filter by account type (Assets, Liabilities, Equity, Income, Expenses)."`
	Search string      `help:"Filter by case-insensitive name substring." short:"s"`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	l, err := loadLedger(context.Background(), &cmd.File, globals, ctx)
	if err != nil {
		return err
	}

	accounts := l.AccountList()
	if cmd.Search != "" {
		accounts = l.SearchAccounts(cmd.Search)
	}
	if cmd.Type != "" {
		accountType, ok := ast.ParseAccountType(cmd.Type)
		if !ok {
			printError(ctx.Stderr, "invalid account type: "+cmd.Type)
			return NewCommandError(1)
		}
		filtered := accounts[:0:0]
		for _, a := range accounts {
			if a.Type == accountType {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}

	// Cells stay unstyled; ANSI escapes would throw off width alignment.
	table := output.NewTable(
		output.Column{Header: "Account"},
		output.Column{Header: "Type"},
		output.Column{Header: "Status"},
		output.Column{Header: "Opened"},
		output.Column{Header: "Balance", Align: output.AlignRight},
	)

	for _, a := range accounts {
		opened := ""
		if a.OpenDate != nil {
			opened = a.OpenDate.String()
		}
		balance := ""
		if a.Balance != nil {
			balance = ledger.FormatNumber(a.Balance.Number) + " " + a.Balance.Currency
		}
		table.AddRow(a.Name, a.Type.String(), a.Status.String(), opened, balance)
	}
	table.Render(ctx.Stdout)

	return nil
}
