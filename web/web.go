// Package web serves the ledger query API over HTTP.
//
// The API is read-only: it exposes accounts, transactions, balance
// timelines, and reports as JSON, plus a Server-Sent Events stream that
// notifies clients when the ledger files change on disk and have been
// reloaded.
//
// SECURITY WARNING: the server has no authentication. Bind it to localhost
// unless the network is trusted.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/beanledger/ledger"
	"github.com/robinvdvleuten/beanledger/telemetry"
)

type Server struct {
	Host           string
	Port           int
	Version        string
	CommitSHA      string
	WatchEnabled   bool
	RecordsPerPage int

	service *ledger.Service

	// Watched files from the most recent successful load: the entry file
	// plus every include.
	watchMu    sync.RWMutex
	watchFiles []string

	// SSE clients for broadcasting reload events.
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

// New creates a server around a ledger service. The service does not need
// to be loaded yet; Start performs the initial load.
func New(service *ledger.Service, host string, port int) *Server {
	return &Server{
		Host:           host,
		Port:           port,
		RecordsPerPage: 50,
		service:        service,
		sseClients:     make(map[chan string]struct{}),
	}
}

// Start loads the ledger, optionally starts the file watcher, and serves
// until the listener fails.
func (s *Server) Start(ctx context.Context) error {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	loadTimer := timer.Child(fmt.Sprintf("web.load %s", filepath.Base(s.service.Path())))
	if err := s.reload(ctx); err != nil {
		loadTimer.End()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	return http.ListenAndServe(addr, s.Router())
}

// Router builds the API route table.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/accounts/tree", s.handleAccountTree)
	mux.HandleFunc("GET /api/accounts/{name}", s.handleGetAccount)
	mux.HandleFunc("GET /api/accounts/{name}/timeline", s.handleAccountTimeline)
	mux.HandleFunc("GET /api/accounts/{name}/balances", s.handleAccountBalances)
	mux.HandleFunc("GET /api/accounts/{name}/pads", s.handleAccountPads)
	mux.HandleFunc("GET /api/balances", s.handleBalances)

	mux.HandleFunc("GET /api/transactions", s.handleQueryTransactions)
	mux.HandleFunc("GET /api/transactions/search", s.handleSearchTransactions)
	mux.HandleFunc("GET /api/transactions/stats", s.handleTransactionStats)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)

	mux.HandleFunc("GET /api/reports/balance-sheet", s.handleBalanceSheet)
	mux.HandleFunc("GET /api/reports/income-expense", s.handleIncomeExpense)

	mux.HandleFunc("GET /api/timecontext", s.handleGetTimeContext)
	mux.HandleFunc("PUT /api/timecontext", s.handlePutTimeContext)

	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	loaded := true
	if _, err := s.service.Ledger(); err != nil {
		status = "loading"
		loaded = false
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"loaded":  loaded,
		"version": s.Version,
		"commit":  s.CommitSHA,
	})
}

// reload rebuilds the ledger through the service and refreshes the watch
// list. A failed reload keeps the previous ledger serving.
func (s *Server) reload(ctx context.Context) error {
	result, err := s.service.Load(ctx)
	if err != nil {
		return err
	}

	s.watchMu.Lock()
	s.watchFiles = append([]string{result.Root}, result.Includes...)
	s.watchMu.Unlock()

	return nil
}

// startWatcher watches the entry file and all includes, reloading and
// broadcasting on change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.watchMu.RLock()
	files := append([]string(nil), s.watchFiles...)
	s.watchMu.RUnlock()

	for _, file := range files {
		if err := watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	// Editors often write files in multiple steps.
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Remove/Rename are common in atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.handleFileChange(ctx, watcher)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// handleFileChange reloads the ledger and updates the watch list, since the
// set of included files may have changed.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	s.watchMu.RLock()
	oldFiles := make(map[string]bool, len(s.watchFiles))
	for _, f := range s.watchFiles {
		oldFiles[f] = true
	}
	s.watchMu.RUnlock()

	if err := s.reload(ctx); err != nil {
		log.Printf("Failed to reload ledger: %v", err)
		return
	}

	s.watchMu.RLock()
	newFiles := make(map[string]bool, len(s.watchFiles))
	for _, f := range s.watchFiles {
		newFiles[f] = true
	}
	s.watchMu.RUnlock()

	for file := range oldFiles {
		if !newFiles[file] {
			_ = watcher.Remove(file)
		}
	}

	// Re-add everything to catch files recreated by atomic saves.
	for file := range newFiles {
		if err := watcher.Add(file); err != nil {
			log.Printf("Warning: failed to watch %s: %v", file, err)
		}
	}

	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for reload notifications.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan string, 10)

	s.sseMu.Lock()
	s.sseClients[clientChan] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseClients, clientChan)
		s.sseMu.Unlock()
		close(clientChan)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-clientChan:
			_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// broadcast sends an event to all connected SSE clients.
func (s *Server) broadcast(event string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()

	for clientChan := range s.sseClients {
		select {
		case clientChan <- event:
		default:
			// Client buffer full, skip.
		}
	}
}
