package ast

// Transaction records a financial transaction with a date, flag, optional
// payee and narration, and a list of postings. The flag indicates status:
// '*' for cleared transactions, '!' for pending ones. The sum of all posting
// amounts must balance to zero; at most one posting may omit its amount, in
// which case its value is the additive inverse of the sum of the others.
//
// Example:
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine" #dining
//	  Liabilities:CreditCard:CapitalOne  -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	Pos       Span
	Date      Date
	Flag      string
	Payee     string
	Narration string
	Tags      []string
	Links     []string
	Meta      Metadata
	Postings  []*Posting
}

var _ Dated = (*Transaction)(nil)

func (t *Transaction) Span() Span   { return t.Pos }
func (t *Transaction) Kind() string { return "txn" }
func (t *Transaction) When() Date   { return t.Date }

// Accounts returns the distinct posting accounts in posting order.
func (t *Transaction) Accounts() []Account {
	seen := make(map[Account]bool, len(t.Postings))
	accounts := make([]Account, 0, len(t.Postings))
	for _, p := range t.Postings {
		if !seen[p.Account] {
			accounts = append(accounts, p.Account)
			seen[p.Account] = true
		}
	}
	return accounts
}

// Posting is a single leg of a transaction: an account plus an optional
// amount, cost, and price. A nil Amount is inferred during reconciliation.
//
// Example postings:
//
//	Assets:Investments:Brokerage  10 HOOL {518.73 USD}
//	Assets:Investments:Cash       200 EUR @ 1.35 USD
//	Assets:Checking                                      ; amount inferred
type Posting struct {
	Flag       string
	Account    Account
	Amount     *Amount
	Cost       *Amount
	Price      *Amount
	PriceTotal bool
}
