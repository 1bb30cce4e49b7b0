package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/parser"
)

// ErrNotLoaded is returned by queries issued before the first successful
// load, and by reload when the entry file has gone missing.
var ErrNotLoaded = errors.New("ledger not loaded")

// AccountNotFoundError reports a query for an account the ledger does not
// know about.
type AccountNotFoundError struct {
	Name string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %s", e.Name)
}

// TransactionNotFoundError reports a query for an unknown transaction
// identifier.
type TransactionNotFoundError struct {
	ID string
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("transaction not found: %s", e.ID)
}

// ValidationError reports a bookkeeping inconsistency found during
// reconciliation. These are collected on the ledger rather than failing the
// load; the text stays usable while the numbers are suspect.
type ValidationError struct {
	Pos     ast.Span
	Message string
}

func (e *ValidationError) Error() string {
	if e.Pos.Source == "" {
		return e.Message
	}
	return fmt.Sprintf("%s:%d: %s", e.Pos.Source, e.Pos.Line, e.Message)
}

// LoadErrors bundles every validation error found in one reconciliation
// pass.
type LoadErrors struct {
	Errors []error
}

func (e *LoadErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation error(s):\n%s", len(e.Errors), strings.Join(msgs, "\n"))
}

func (e *LoadErrors) Unwrap() []error { return e.Errors }

// Code identifies an error class for API consumers.
type Code string

const (
	CodeNotLoaded           Code = "NOT_LOADED"
	CodeAccountNotFound     Code = "ACCOUNT_NOT_FOUND"
	CodeTransactionNotFound Code = "TRANSACTION_NOT_FOUND"
	CodeParseError          Code = "PARSE_ERROR"
	CodeValidationError     Code = "VALIDATION_ERROR"
	CodeIOError             Code = "IO_ERROR"
	CodeInternalError       Code = "INTERNAL_ERROR"
)

// CodeOf maps an error to its taxonomy code.
func CodeOf(err error) Code {
	var accountErr *AccountNotFoundError
	var txnErr *TransactionNotFoundError
	var parseErr *parser.ParseError
	var validationErr *ValidationError
	var loadErrs *LoadErrors
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, ErrNotLoaded):
		return CodeNotLoaded
	case errors.As(err, &accountErr):
		return CodeAccountNotFound
	case errors.As(err, &txnErr):
		return CodeTransactionNotFound
	case errors.As(err, &parseErr):
		return CodeParseError
	case errors.As(err, &validationErr), errors.As(err, &loadErrs):
		return CodeValidationError
	case errors.As(err, &pathErr), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return CodeIOError
	}
	return CodeInternalError
}
