package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/beanledger/ast"
)

var hundred = decimal.NewFromInt(100)

// BalanceSheetEntry is one account line on the balance sheet. The percentage
// is relative to total assets.
type BalanceSheetEntry struct {
	Account    string
	Number     decimal.Decimal
	Currency   string
	Percentage decimal.Decimal
}

// BalanceSheetReport is the point-in-time position: open asset and liability
// accounts valued at their latest balance assertion.
type BalanceSheetReport struct {
	Assets           []*BalanceSheetEntry
	Liabilities      []*BalanceSheetEntry
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	Currency         string
}

// BalanceSheet builds the position report from account snapshots. Only open
// accounts with at least one balance assertion contribute; net worth is
// assets minus liabilities.
func (l *Ledger) BalanceSheet() *BalanceSheetReport {
	report := &BalanceSheetReport{Currency: l.OperatingCurrency()}

	for _, name := range l.accountOrder {
		a := l.Accounts[name]
		if a.Status != StatusOpen || a.Balance == nil {
			continue
		}
		entry := &BalanceSheetEntry{
			Account:  a.Name,
			Number:   a.Balance.Number,
			Currency: a.Balance.Currency,
		}
		switch a.Type {
		case ast.Assets:
			report.Assets = append(report.Assets, entry)
			report.TotalAssets = report.TotalAssets.Add(entry.Number)
		case ast.Liabilities:
			report.Liabilities = append(report.Liabilities, entry)
			report.TotalLiabilities = report.TotalLiabilities.Add(entry.Number)
		}
	}

	if !report.TotalAssets.IsZero() {
		for _, entry := range report.Assets {
			entry.Percentage = entry.Number.Mul(hundred).Div(report.TotalAssets)
		}
		for _, entry := range report.Liabilities {
			entry.Percentage = entry.Number.Mul(hundred).Div(report.TotalAssets)
		}
	}

	report.NetWorth = report.TotalAssets.Sub(report.TotalLiabilities)
	return report
}

// CategoryAmount is one category line in the income/expense breakdown. The
// percentage is relative to the side's own total.
type CategoryAmount struct {
	Category   string
	Number     decimal.Decimal
	Percentage decimal.Decimal
}

// IncomeExpenseReport breaks down flows inside the reporting window by the
// second account name component, e.g. Expenses:Food:Lunch under "Food".
type IncomeExpenseReport struct {
	Income        []*CategoryAmount
	Expenses      []*CategoryAmount
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	Currency      string
	PeriodStart   *ast.Date
	PeriodEnd     *ast.Date
	Description   string
}

// IncomeExpenses sums posting flows to Income and Expenses accounts for
// transactions dated inside the window. Both sides are reported as positive
// magnitudes; net is income minus expenses.
func (l *Ledger) IncomeExpenses(today time.Time, window TimeContext) *IncomeExpenseReport {
	operating := l.OperatingCurrency()
	report := &IncomeExpenseReport{
		Currency:    operating,
		Description: window.Description(today),
	}
	if start, ok := window.StartDate(today); ok {
		report.PeriodStart = &ast.Date{Time: start}
	}
	if end, ok := window.EndDate(today); ok {
		report.PeriodEnd = &ast.Date{Time: end}
	}

	income := make(map[string]decimal.Decimal)
	expenses := make(map[string]decimal.Decimal)

	for _, tx := range l.Transactions {
		if !window.Contains(today, tx.Date.Time) {
			continue
		}
		for _, p := range tx.Postings {
			value := p.TotalValue(operating).Abs()
			switch {
			case strings.HasPrefix(p.Account, "Income:"):
				income[categoryOf(p.Account)] = income[categoryOf(p.Account)].Add(value)
				report.TotalIncome = report.TotalIncome.Add(value)
			case strings.HasPrefix(p.Account, "Expenses:"):
				expenses[categoryOf(p.Account)] = expenses[categoryOf(p.Account)].Add(value)
				report.TotalExpenses = report.TotalExpenses.Add(value)
			}
		}
	}

	report.Income = categoryLines(income, report.TotalIncome)
	report.Expenses = categoryLines(expenses, report.TotalExpenses)
	report.Net = report.TotalIncome.Sub(report.TotalExpenses)
	return report
}

// categoryOf extracts the second account name component, falling back to the
// whole name for single-component accounts.
func categoryOf(account string) string {
	parts := strings.SplitN(account, ":", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return account
}

// categoryLines orders categories largest-first, ties broken by name.
func categoryLines(sums map[string]decimal.Decimal, total decimal.Decimal) []*CategoryAmount {
	lines := make([]*CategoryAmount, 0, len(sums))
	for category, number := range sums {
		line := &CategoryAmount{Category: category, Number: number}
		if !total.IsZero() {
			line.Percentage = number.Mul(hundred).Div(total)
		}
		lines = append(lines, line)
	}
	slices.SortFunc(lines, func(a, b *CategoryAmount) int {
		if c := b.Number.Cmp(a.Number); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})
	return lines
}
