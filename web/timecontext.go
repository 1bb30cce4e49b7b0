package web

import (
	"encoding/json"
	"net/http"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/ledger"
)

// TimeContextView is the JSON shape of the active reporting window.
type TimeContextView struct {
	Range       string `json:"range"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Description string `json:"description"`
}

// handleGetTimeContext handles GET /api/timecontext.
func (s *Server) handleGetTimeContext(w http.ResponseWriter, r *http.Request) {
	tc := s.service.TimeContext()
	today := s.service.Today()

	view := &TimeContextView{
		Range:       tc.Range.String(),
		Description: tc.Description(today),
	}
	if start, ok := tc.StartDate(today); ok {
		view.Start = ast.Date{Time: start}.String()
	}
	if end, ok := tc.EndDate(today); ok {
		view.End = ast.Date{Time: end}.String()
	}
	writeJSON(w, http.StatusOK, view)
}

// handlePutTimeContext handles PUT /api/timecontext. The body names a
// rolling range, or "custom" with explicit start and end dates:
//
//	{"range": "quarter"}
//	{"range": "custom", "start": "2024-01-01", "end": "2024-03-31"}
func (s *Server) handlePutTimeContext(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Range string `json:"range"`
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rng, err := ledger.ParseRange(body.Range)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if rng != ledger.RangeCustom {
		s.service.SetRange(rng)
		s.handleGetTimeContext(w, r)
		return
	}

	start, err := ast.ParseDate(body.Start)
	if err != nil {
		writeBadRequest(w, "invalid start date: "+body.Start)
		return
	}
	end, err := ast.ParseDate(body.End)
	if err != nil {
		writeBadRequest(w, "invalid end date: "+body.End)
		return
	}
	if end.Before(start.Time) {
		writeBadRequest(w, "end date precedes start date")
		return
	}

	s.service.SetCustomRange(ledger.CustomTimeContext(start, end))
	s.handleGetTimeContext(w, r)
}
