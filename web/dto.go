package web

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ledger"
)

// AccountView is the JSON shape of one account.
type AccountView struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Status    string        `json:"status"`
	Currency  string        `json:"currency,omitempty"`
	OpenDate  string        `json:"openDate,omitempty"`
	CloseDate string        `json:"closeDate,omitempty"`
	Balance   *SnapshotView `json:"balance,omitempty"`
}

// SnapshotView is the JSON shape of an account's latest balance assertion.
type SnapshotView struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Date     string          `json:"date"`
}

func accountView(a *ledger.Account) *AccountView {
	view := &AccountView{
		Name:     a.Name,
		Type:     a.Type.String(),
		Status:   a.Status.String(),
		Currency: a.Currency,
	}
	if a.OpenDate != nil {
		view.OpenDate = a.OpenDate.String()
	}
	if a.CloseDate != nil {
		view.CloseDate = a.CloseDate.String()
	}
	if a.Balance != nil {
		view.Balance = &SnapshotView{
			Amount:   a.Balance.Number,
			Currency: a.Balance.Currency,
			Date:     a.Balance.Date.String(),
		}
	}
	return view
}

func accountViews(accounts []*ledger.Account) []*AccountView {
	views := make([]*AccountView, len(accounts))
	for i, a := range accounts {
		views[i] = accountView(a)
	}
	return views
}

// TreeNodeView is one node of the hierarchical account listing.
type TreeNodeView struct {
	Name     string          `json:"name"`
	Account  *AccountView    `json:"account,omitempty"`
	Children []*TreeNodeView `json:"children,omitempty"`
}

func treeNodeViews(nodes []*ledger.TreeNode) []*TreeNodeView {
	views := make([]*TreeNodeView, len(nodes))
	for i, n := range nodes {
		view := &TreeNodeView{Name: n.Name, Children: treeNodeViews(n.Children)}
		if n.Account != nil {
			view.Account = accountView(n.Account)
		}
		views[i] = view
	}
	return views
}

// PostingView is one transaction leg.
type PostingView struct {
	Account  string          `json:"account"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Inferred bool            `json:"inferred,omitempty"`
}

// TransactionView is the JSON shape of one transaction.
type TransactionView struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`
	Time      string            `json:"time,omitempty"`
	Flag      string            `json:"flag,omitempty"`
	Payee     string            `json:"payee,omitempty"`
	Narration string            `json:"narration,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Links     []string          `json:"links,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Postings  []*PostingView    `json:"postings"`
	Source    string            `json:"source,omitempty"`
	Line      int               `json:"line,omitempty"`
}

func transactionView(tx *ledger.Transaction) *TransactionView {
	view := &TransactionView{
		ID:        tx.ID,
		Date:      tx.Date.String(),
		Time:      tx.Time,
		Flag:      tx.Flag,
		Payee:     tx.Payee,
		Narration: tx.Narration,
		Tags:      tx.Tags,
		Links:     tx.Links,
		Source:    tx.Source,
		Line:      tx.Line,
	}
	if len(tx.Meta) > 0 {
		view.Metadata = make(map[string]string, len(tx.Meta))
		for _, entry := range tx.Meta {
			view.Metadata[entry.Key] = entry.Value
		}
	}
	for _, p := range tx.Postings {
		view.Postings = append(view.Postings, &PostingView{
			Account:  p.Account,
			Amount:   p.Number,
			Currency: p.Currency,
			Inferred: p.Inferred,
		})
	}
	return view
}

func transactionViews(txns []*ledger.Transaction) []*TransactionView {
	views := make([]*TransactionView, len(txns))
	for i, tx := range txns {
		views[i] = transactionView(tx)
	}
	return views
}

// TimelineItemView is one running-balance event.
type TimelineItemView struct {
	Type           string          `json:"type"`
	Date           string          `json:"date"`
	Time           string          `json:"time,omitempty"`
	Description    string          `json:"description"`
	TransactionID  string          `json:"transactionId,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

func timelineItemViews(items []*ledger.TimelineItem) []*TimelineItemView {
	views := make([]*TimelineItemView, len(items))
	for i, item := range items {
		views[i] = &TimelineItemView{
			Type:           string(item.Type),
			Date:           item.Date.String(),
			Time:           item.Time,
			Description:    item.Description,
			TransactionID:  item.TransactionID,
			Amount:         item.Amount,
			Currency:       item.Currency,
			RunningBalance: item.RunningBalance,
		}
	}
	return views
}

// BalanceEntryView is one assertion in an account's history.
type BalanceEntryView struct {
	Account  string          `json:"account"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Date     string          `json:"date"`
}

func balanceEntryViews(entries []*ledger.BalanceEntry) []*BalanceEntryView {
	views := make([]*BalanceEntryView, len(entries))
	for i, b := range entries {
		views[i] = &BalanceEntryView{
			Account:  b.Account,
			Amount:   b.Number,
			Currency: b.Currency,
			Date:     b.Date.String(),
		}
	}
	return views
}

// PadView is one pad directive.
type PadView struct {
	Account string `json:"account"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

func padViews(pads []*ledger.PadEntry) []*PadView {
	views := make([]*PadView, len(pads))
	for i, p := range pads {
		views[i] = &PadView{Account: p.Account, Source: p.Source, Date: p.Date.String()}
	}
	return views
}
