package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanledger/ast"
)

// AccountList returns all accounts in first-appearance order.
func (l *Ledger) AccountList() []*Account {
	accounts := make([]*Account, 0, len(l.accountOrder))
	for _, name := range l.accountOrder {
		accounts = append(accounts, l.Accounts[name])
	}
	return accounts
}

// Account looks up one account by its full name.
func (l *Ledger) Account(name string) (*Account, bool) {
	a, ok := l.Accounts[name]
	return a, ok
}

// AccountsByType returns all accounts of one canonical type, in
// first-appearance order.
func (l *Ledger) AccountsByType(t ast.AccountType) []*Account {
	var accounts []*Account
	for _, name := range l.accountOrder {
		if a := l.Accounts[name]; a.Type == t {
			accounts = append(accounts, a)
		}
	}
	return accounts
}

// AccountsByStatus returns all accounts with the given lifecycle status, in
// first-appearance order.
func (l *Ledger) AccountsByStatus(s Status) []*Account {
	var accounts []*Account
	for _, name := range l.accountOrder {
		if a := l.Accounts[name]; a.Status == s {
			accounts = append(accounts, a)
		}
	}
	return accounts
}

// SearchAccounts returns accounts whose name contains the query,
// case-insensitively, in first-appearance order.
func (l *Ledger) SearchAccounts(query string) []*Account {
	query = strings.ToLower(query)
	var accounts []*Account
	for _, name := range l.accountOrder {
		if strings.Contains(strings.ToLower(name), query) {
			accounts = append(accounts, l.Accounts[name])
		}
	}
	return accounts
}

// RootAccounts returns accounts whose parent is not itself an account.
// These are the top-level entries of the flat hierarchy view.
func (l *Ledger) RootAccounts() []*Account {
	var accounts []*Account
	for _, name := range l.accountOrder {
		a := l.Accounts[name]
		if _, ok := l.Accounts[a.ParentName()]; !ok {
			accounts = append(accounts, a)
		}
	}
	return accounts
}

// ChildAccounts returns the direct children of the named account.
func (l *Ledger) ChildAccounts(parent string) []*Account {
	prefix := parent + ":"
	var accounts []*Account
	for _, name := range l.accountOrder {
		if strings.HasPrefix(name, prefix) && !strings.Contains(name[len(prefix):], ":") {
			accounts = append(accounts, l.Accounts[name])
		}
	}
	return accounts
}

// TreeNode is one node in the hierarchical account view. Intermediate
// components that never appear as accounts themselves get a node with a nil
// Account.
type TreeNode struct {
	Name     string // full name up to this component
	Account  *Account
	Children []*TreeNode
}

// AccountTree folds the flat account list into its colon-separated
// hierarchy. Siblings are sorted by name.
func (l *Ledger) AccountTree() []*TreeNode {
	byName := make(map[string]*TreeNode)
	var roots []*TreeNode

	node := func(name string) *TreeNode {
		if n, ok := byName[name]; ok {
			return n
		}
		n := &TreeNode{Name: name}
		byName[name] = n
		if i := strings.LastIndexByte(name, ':'); i >= 0 {
			parent := byName[name[:i]]
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
		return n
	}

	for _, name := range l.accountOrder {
		components := strings.Split(name, ":")
		for i := range components {
			node(strings.Join(components[:i+1], ":"))
		}
		byName[name].Account = l.Accounts[name]
	}

	var sortChildren func(nodes []*TreeNode)
	sortChildren = func(nodes []*TreeNode) {
		slices.SortFunc(nodes, func(a, b *TreeNode) int {
			return strings.Compare(a.Name, b.Name)
		})
		for _, n := range nodes {
			sortChildren(n.Children)
		}
	}
	sortChildren(roots)

	return roots
}

// Transaction looks up one transaction by its stable identifier.
func (l *Ledger) Transaction(id string) (*Transaction, bool) {
	for _, tx := range l.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return nil, false
}

// TransactionsByAccount returns all transactions with a posting to the named
// account, in ledger order.
func (l *Ledger) TransactionsByAccount(name string) []*Transaction {
	var txns []*Transaction
	for _, tx := range l.Transactions {
		if tx.InvolvesAccount(name) {
			txns = append(txns, tx)
		}
	}
	return txns
}

// SearchTransactions matches the query case-insensitively against payee,
// narration, tags, links, and posting account names.
func (l *Ledger) SearchTransactions(query string) []*Transaction {
	query = strings.ToLower(query)
	var txns []*Transaction
	for _, tx := range l.Transactions {
		if transactionMatches(tx, query) {
			txns = append(txns, tx)
		}
	}
	return txns
}

func transactionMatches(tx *Transaction, query string) bool {
	if strings.Contains(strings.ToLower(tx.Payee), query) ||
		strings.Contains(strings.ToLower(tx.Narration), query) {
		return true
	}
	for _, tag := range tx.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, link := range tx.Links {
		if strings.Contains(strings.ToLower(link), query) {
			return true
		}
	}
	for _, p := range tx.Postings {
		if strings.Contains(strings.ToLower(p.Account), query) {
			return true
		}
	}
	return false
}

// TransactionQuery filters and paginates the transaction list. A nil Window
// means no date filtering; a Limit of zero means no limit.
type TransactionQuery struct {
	Account string
	Window  *TimeContext
	Offset  int
	Limit   int
}

// QueryTransactions applies the query and returns the page newest-first
// along with the total match count before pagination. Same-day transactions
// keep their relative ledger order.
func (l *Ledger) QueryTransactions(today time.Time, q TransactionQuery) ([]*Transaction, int) {
	var matched []*Transaction
	for _, tx := range l.Transactions {
		if q.Account != "" && !tx.InvolvesAccount(q.Account) {
			continue
		}
		if q.Window != nil && !q.Window.Contains(today, tx.Date.Time) {
			continue
		}
		matched = append(matched, tx)
	}

	slices.SortStableFunc(matched, func(a, b *Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})

	total := len(matched)
	if q.Offset >= total {
		return nil, total
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total
}

// RecentTransactions returns the n newest transactions.
func (l *Ledger) RecentTransactions(today time.Time, n int) []*Transaction {
	txns, _ := l.QueryTransactions(today, TransactionQuery{Limit: n})
	return txns
}

// TransactionsByDateRange returns transactions dated inside the inclusive
// span, in ledger order.
func (l *Ledger) TransactionsByDateRange(start, end ast.Date) []*Transaction {
	var txns []*Transaction
	for _, tx := range l.Transactions {
		if tx.Date.Before(start.Time) || tx.Date.After(end.Time) {
			continue
		}
		txns = append(txns, tx)
	}
	return txns
}

// TransactionStats summarizes the transaction list.
type TransactionStats struct {
	TotalTransactions int
	TotalPostings     int
	DateRangeStart    *ast.Date
	DateRangeEnd      *ast.Date
}

// Stats computes counts and the covered date span.
func (l *Ledger) Stats() TransactionStats {
	stats := TransactionStats{TotalTransactions: len(l.Transactions)}
	for _, tx := range l.Transactions {
		stats.TotalPostings += len(tx.Postings)
		date := tx.Date
		if stats.DateRangeStart == nil || date.Before(stats.DateRangeStart.Time) {
			stats.DateRangeStart = &date
		}
		if stats.DateRangeEnd == nil || date.After(stats.DateRangeEnd.Time) {
			stats.DateRangeEnd = &date
		}
	}
	return stats
}

// BalancesByAccount returns the account's assertion history in ledger order.
func (l *Ledger) BalancesByAccount(name string) []*BalanceEntry {
	var entries []*BalanceEntry
	for _, b := range l.Balances {
		if b.Account == name {
			entries = append(entries, b)
		}
	}
	return entries
}

// PadsByAccount returns the pads targeting the named account.
func (l *Ledger) PadsByAccount(name string) []*PadEntry {
	var pads []*PadEntry
	for _, p := range l.Pads {
		if p.Account == name {
			pads = append(pads, p)
		}
	}
	return pads
}

// PadsBySource returns the pads booked against the named source account.
func (l *Ledger) PadsBySource(name string) []*PadEntry {
	var pads []*PadEntry
	for _, p := range l.Pads {
		if p.Source == name {
			pads = append(pads, p)
		}
	}
	return pads
}

// AccountBalances computes the current balance of every account: the latest
// assertion snapshot where one exists, plus all postings dated on or after
// it. Accounts without any assertion sum their postings from the beginning.
func (l *Ledger) AccountBalances() map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(l.Accounts))
	for name, a := range l.Accounts {
		if a.Balance != nil {
			balances[name] = a.Balance.Number
		} else {
			balances[name] = decimal.Zero
		}
	}

	for _, tx := range l.Transactions {
		for _, p := range tx.Postings {
			a := l.Accounts[p.Account]
			if a != nil && a.Balance != nil && tx.Date.Before(a.Balance.Date.Time) {
				continue
			}
			balances[p.Account] = balances[p.Account].Add(p.Number)
		}
	}

	return balances
}
