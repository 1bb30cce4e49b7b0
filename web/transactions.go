package web

import (
	"net/http"

	"github.com/robinvdvleuten/beanledger/ledger"
)

// handleQueryTransactions handles GET /api/transactions.
//
// Query parameters:
//   - account: restrict to transactions posting to this account.
//   - all: when "true", bypass the active time context.
//   - offset, limit: pagination over the newest-first result.
func (s *Server) handleQueryTransactions(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}

	offset, limit, ok := s.pagination(w, r)
	if !ok {
		return
	}

	query := ledger.TransactionQuery{
		Account: r.URL.Query().Get("account"),
		Offset:  offset,
		Limit:   limit,
	}
	if r.URL.Query().Get("all") != "true" {
		window := s.service.TimeContext()
		query.Window = &window
	}

	txns, total := l.QueryTransactions(s.service.Today(), query)

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": transactionViews(txns),
		"total":        total,
		"offset":       offset,
		"limit":        limit,
	})
}

// handleSearchTransactions handles GET /api/transactions/search?q=. The
// query matches payee, narration, tags, links, and posting accounts.
func (s *Server) handleSearchTransactions(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeBadRequest(w, "missing query parameter q")
		return
	}

	txns := l.SearchTransactions(q)
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": transactionViews(txns),
		"total":        len(txns),
	})
}

// handleTransactionStats handles GET /api/transactions/stats.
func (s *Server) handleTransactionStats(w http.ResponseWriter, r *http.Request) {
	l, err := s.service.Ledger()
	if err != nil {
		writeError(w, err)
		return
	}

	stats := l.Stats()
	body := map[string]any{
		"totalTransactions": stats.TotalTransactions,
		"totalPostings":     stats.TotalPostings,
	}
	if stats.DateRangeStart != nil {
		body["dateRangeStart"] = stats.DateRangeStart.String()
	}
	if stats.DateRangeEnd != nil {
		body["dateRangeEnd"] = stats.DateRangeEnd.String()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleGetTransaction handles GET /api/transactions/{id}.
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.service.TransactionDetail(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactionView(tx))
}
