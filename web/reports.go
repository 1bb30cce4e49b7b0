package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ledger"
)

// BalanceSheetEntryView is one account line of the balance sheet.
type BalanceSheetEntryView struct {
	Account    string          `json:"account"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Percentage decimal.Decimal `json:"percentage"`
}

// BalanceSheetView is the JSON shape of the position report.
type BalanceSheetView struct {
	Assets           []*BalanceSheetEntryView `json:"assets"`
	Liabilities      []*BalanceSheetEntryView `json:"liabilities"`
	TotalAssets      decimal.Decimal          `json:"totalAssets"`
	TotalLiabilities decimal.Decimal          `json:"totalLiabilities"`
	NetWorth         decimal.Decimal          `json:"netWorth"`
	Currency         string                   `json:"currency"`
}

// handleBalanceSheet handles GET /api/reports/balance-sheet.
func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}

	report := l.BalanceSheet()
	writeJSON(w, http.StatusOK, &BalanceSheetView{
		Assets:           balanceSheetEntryViews(report.Assets),
		Liabilities:      balanceSheetEntryViews(report.Liabilities),
		TotalAssets:      report.TotalAssets,
		TotalLiabilities: report.TotalLiabilities,
		NetWorth:         report.NetWorth,
		Currency:         report.Currency,
	})
}

func balanceSheetEntryViews(entries []*ledger.BalanceSheetEntry) []*BalanceSheetEntryView {
	views := make([]*BalanceSheetEntryView, len(entries))
	for i, e := range entries {
		views[i] = &BalanceSheetEntryView{
			Account:    e.Account,
			Amount:     e.Number,
			Currency:   e.Currency,
			Percentage: e.Percentage,
		}
	}
	return views
}

// CategoryView is one category line of the income/expense breakdown.
type CategoryView struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// IncomeExpenseView is the JSON shape of the flow report.
type IncomeExpenseView struct {
	Income        []*CategoryView `json:"income"`
	Expenses      []*CategoryView `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
	Currency      string          `json:"currency"`
	PeriodStart   string          `json:"periodStart,omitempty"`
	PeriodEnd     string          `json:"periodEnd,omitempty"`
	Description   string          `json:"description"`
}

// handleIncomeExpense handles GET /api/reports/income-expense. The report
// covers the active time context.
func (s *Server) handleIncomeExpense(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}

	report := l.IncomeExpenses(s.service.Today(), s.service.TimeContext())
	view := &IncomeExpenseView{
		Income:        categoryViews(report.Income),
		Expenses:      categoryViews(report.Expenses),
		TotalIncome:   report.TotalIncome,
		TotalExpenses: report.TotalExpenses,
		Net:           report.Net,
		Currency:      report.Currency,
		Description:   report.Description,
	}
	if report.PeriodStart != nil {
		view.PeriodStart = report.PeriodStart.String()
	}
	if report.PeriodEnd != nil {
		view.PeriodEnd = report.PeriodEnd.String()
	}
	writeJSON(w, http.StatusOK, view)
}

func categoryViews(lines []*ledger.CategoryAmount) []*CategoryView {
	views := make([]*CategoryView, len(lines))
	for i, line := range lines {
		views[i] = &CategoryView{
			Category:   line.Category,
			Amount:     line.Number,
			Percentage: line.Percentage,
		}
	}
	return views
}
