package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check        CheckCmd        `cmd:"" help:"Parse, reconcile and validate a ledger file."`
	Accounts     AccountsCmd     `cmd:"" help:"List the accounts of a ledger file."`
	Balances     BalancesCmd     `cmd:"" help:"Show computed account balances."`
	Transactions TransactionsCmd `cmd:"" help:"List transactions, newest first."`
	Format       FormatCmd       `cmd:"" name:"fmt" help:"Render a ledger file in canonical form."`
	Web          WebCmd          `cmd:"" help:"Start the query API server."`
}
