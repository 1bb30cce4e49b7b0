package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/loader"
	"github.com/robinvdvleuten/beanledger/telemetry"
)

// loadLedger is the shared load-and-reconcile path for the read-only
// commands. Validation errors are printed as warnings; the ledger stays
// usable.
func loadLedger(runCtx context.Context, file *FileOrStdin, globals *Globals, ctx *kong.Context) (*ledger.Ledger, error) {
	if err := file.EnsureContents(); err != nil {
		return nil, err
	}

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
	}

	ldr := loader.New(loader.WithFollowIncludes())
	result, err := file.Load(runCtx, ldr)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return nil, NewCommandError(1)
	}

	l, err := ledger.Process(runCtx, result.Directives)
	if err != nil {
		return nil, err
	}

	if collector != nil {
		collector.Report(ctx.Stderr)
		_, _ = fmt.Fprintln(ctx.Stderr)
	}

	for _, verr := range l.Errors {
		printError(ctx.Stderr, verr.Error())
	}

	return l, nil
}
