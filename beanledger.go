// Package beanledger is the façade over the parsing and reconciliation
// pipeline: text in, queryable ledger out.
//
//	l, err := beanledger.Load(ctx, "main.bean")
//	if err != nil { ... }
//	balances := l.AccountBalances()
package beanledger

import (
	"context"

	"github.com/robinvdvleuten/beanledger/ast"
	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/loader"
	"github.com/robinvdvleuten/beanledger/parser"
)

// Parse parses ledger source text into its directive list. The name labels
// directive positions and identifiers; it does not need to be a real path.
func Parse(ctx context.Context, name string, source []byte) ([]ast.Directive, error) {
	return parser.Parse(ctx, name, source)
}

// Load reads the entry file, resolves its includes, and reconciles the
// result into a ledger. Validation findings are collected on the returned
// ledger, not returned as an error.
func Load(ctx context.Context, filename string) (*ledger.Ledger, error) {
	result, err := loader.New(loader.WithFollowIncludes()).Load(ctx, filename)
	if err != nil {
		return nil, err
	}
	return ledger.Process(ctx, result.Directives)
}
