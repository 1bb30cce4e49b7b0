package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/beanledger/config"
	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/telemetry"
	"github.com/robinvdvleuten/beanledger/web"
)

type WebCmd struct {
	File   string `help:"Ledger entry file to serve (overrides the config file)." arg:"" optional:""`
	Config string `help:"Path to the YAML configuration file." default:"beanledger.yaml"`
	Host   string `help:"Host to bind to (overrides the config file)."`
	Port   int    `help:"Port to listen on (overrides the config file)."`
	Create bool   `help:"Automatically create the entry file if it doesn't exist (no confirmation prompt)." short:"c"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Host != "" {
		cfg.Server.Host = cmd.Host
	}
	if cmd.Port != 0 {
		cfg.Server.Port = cmd.Port
	}

	entryFile := cfg.MainFilePath()
	if cmd.File != "" {
		entryFile = cmd.File
	}
	entryFile, err = filepath.Abs(entryFile)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(entryFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access file: %w", err)
		}

		shouldCreate := cmd.Create
		if !shouldCreate {
			confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q does not exist. Create it?", entryFile))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			shouldCreate = confirmed
		}
		if !shouldCreate {
			return fmt.Errorf("file does not exist: %s", entryFile)
		}

		if err := os.MkdirAll(filepath.Dir(entryFile), 0755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err := os.WriteFile(entryFile, []byte(""), 0600); err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}

		printInfof(ctx.Stdout, "Created empty ledger file: %s", pathStyle.Render(entryFile))
	}

	defaultRange, err := ledger.ParseRange(cfg.Display.DefaultTimeRange)
	if err != nil {
		return err
	}
	service := ledger.NewService(entryFile, ledger.NewTimeContext(defaultRange))

	server := web.New(service, cfg.Server.Host, cfg.Server.Port)
	server.WatchEnabled = cfg.Data.WatchEnable
	server.RecordsPerPage = cfg.Display.RecordsPerPage

	server.Version = Version
	if server.Version == "" {
		server.Version = "dev"
	}
	server.CommitSHA = CommitSHA
	if server.CommitSHA == "" {
		server.CommitSHA = "local"
	}

	printInfof(ctx.Stdout, "Starting server on %s", cfg.Addr())
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(entryFile))
	if cfg.Data.WatchEnable {
		printInfof(ctx.Stdout, "Watching for file changes")
	}

	return server.Start(runCtx)
}
