package web

import (
	"encoding/json"
	"net/http"

	"github.com/robinvdvleuten/beanledger/ledger"
)

// errorBody is the JSON envelope for every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to an HTTP status and renders the
// envelope.
func writeError(w http.ResponseWriter, err error) {
	code := ledger.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case ledger.CodeNotLoaded:
		status = http.StatusServiceUnavailable
	case ledger.CodeAccountNotFound, ledger.CodeTransactionNotFound:
		status = http.StatusNotFound
	case ledger.CodeParseError, ledger.CodeValidationError:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: err.Error(),
	}})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "BAD_REQUEST",
		Message: message,
	}})
}
