package web

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/beanledger/ast"
)

// handleListAccounts handles GET /api/accounts.
//
// Query parameters:
//   - q: substring filter on the account name, case-insensitive.
//   - type: canonical account type (Assets, Liabilities, Equity, Income,
//     Expenses).
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}

	accounts := l.AccountList()
	if q := r.URL.Query().Get("q"); q != "" {
		accounts = l.SearchAccounts(q)
	}
	if typeName := r.URL.Query().Get("type"); typeName != "" {
		accountType, ok := ast.ParseAccountType(typeName)
		if !ok {
			writeBadRequest(w, "invalid account type: "+typeName)
			return
		}
		filtered := accounts[:0:0]
		for _, a := range accounts {
			if a.Type == accountType {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": accountViews(accounts),
		"total":    len(accounts),
	})
}

// handleAccountTree handles GET /api/accounts/tree.
func (s *Server) handleAccountTree(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roots": treeNodeViews(l.AccountTree()),
	})
}

// handleGetAccount handles GET /api/accounts/{name}.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.service.AccountDetail(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountView(a))
}

// handleAccountTimeline handles GET /api/accounts/{name}/timeline.
//
// Query parameters:
//   - offset: events to skip from the newest end.
//   - limit: page size, defaulting to the configured records per page.
func (s *Server) handleAccountTimeline(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := s.pagination(w, r)
	if !ok {
		return
	}

	items, total, err := s.service.AccountTimeline(r.PathValue("name"), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  timelineItemViews(items),
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// handleAccountBalances handles GET /api/accounts/{name}/balances, the
// account's assertion history in file order.
func (s *Server) handleAccountBalances(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}
	name := r.PathValue("name")
	if _, err := s.service.AccountDetail(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balances": balanceEntryViews(l.BalancesByAccount(name)),
	})
}

// handleAccountPads handles GET /api/accounts/{name}/pads. Both directions
// are returned: pads targeting the account and pads booked against it.
func (s *Server) handleAccountPads(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}
	name := r.PathValue("name")
	writeJSON(w, http.StatusOK, map[string]any{
		"asTarget": padViews(l.PadsByAccount(name)),
		"asSource": padViews(l.PadsBySource(name)),
	})
}

// handleBalances handles GET /api/balances: the computed current balance of
// every account.
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]map[string]decimal.Decimal{
		"balances": l.AccountBalances(),
	})
}

// pagination parses offset/limit query parameters, applying the configured
// page size as the default limit.
func (s *Server) pagination(w http.ResponseWriter, r *http.Request) (offset, limit int, ok bool) {
	limit = s.RecordsPerPage

	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "invalid offset: "+raw)
			return 0, 0, false
		}
		offset = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "invalid limit: "+raw)
			return 0, 0, false
		}
		limit = n
	}
	return offset, limit, true
}
