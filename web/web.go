// Package web provides a read-only HTTP inspector for SIE files.
//
// The server loads one file and exposes its header, chart of accounts,
// vouchers, account reconciliation and collected errors as JSON. With
// watching enabled the file is reloaded when it changes on disk and
// connected clients receive a "reload" event.
//
// SECURITY WARNING: This server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/loader"
	"github.com/robinvdvleuten/sie/telemetry"
)

type Server struct {
	Port         int
	Host         string
	Version      string
	CommitSHA    string
	WatchEnabled bool

	// Loader reads the file. Defaults to a PC8 loader.
	Loader *loader.Loader

	// LedgerConfig drives the reconciliation. Defaults to ledger.NewConfig().
	LedgerConfig *ledger.Config

	mu       sync.RWMutex
	document *ast.Document
	ledger   *ledger.Ledger
	file     string // absolute path of the inspected file

	// inputFile is the path passed to New, used only for the first load.
	inputFile string

	// SSE clients for broadcasting reload events
	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

func New(port int, file string) *Server {
	return NewWithVersion(port, file, "", "")
}

func NewWithVersion(port int, file, version, commitSHA string) *Server {
	return &Server{
		Port:       port,
		Host:       "127.0.0.1",
		Version:    version,
		CommitSHA:  commitSHA,
		inputFile:  file,
		sseClients: make(map[chan string]struct{}),
	}
}

// Start loads the file and serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	if s.inputFile == "" {
		return fmt.Errorf("SIE file is required")
	}

	loadTimer := timer.Child(fmt.Sprintf("web.load %s", filepath.Base(s.inputFile)))
	if err := s.reload(ctx); err != nil {
		loadTimer.End()
		return fmt.Errorf("failed to load %s: %w", s.inputFile, err)
	}
	loadTimer.End()

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.Host, s.Port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zerolog.Ctx(ctx).Info().Str("addr", srv.Addr).Str("file", s.file).Msg("inspector listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/document", s.handleGetDocument)
	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("GET /api/vouchers", s.handleGetVouchers)
	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/errors", s.handleGetErrors)
	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

func (s *Server) loader() *loader.Loader {
	if s.Loader != nil {
		return s.Loader
	}
	return loader.New()
}

func (s *Server) ledgerConfig() *ledger.Config {
	if s.LedgerConfig != nil {
		return s.LedgerConfig
	}
	return ledger.NewConfig()
}

// reload reads the file and reconciles it. Collected irregularities stay
// on the document; only an unreadable file is an error.
// Caller must NOT hold the mutex - this method acquires it internally.
func (s *Server) reload(ctx context.Context) error {
	file, err := filepath.Abs(s.inputFile)
	if err != nil {
		return err
	}

	doc, err := s.loader().Load(ctx, file)
	var verrs *ledger.ValidationErrors
	if err != nil && !errors.As(err, &verrs) {
		return err
	}

	l := ledger.New()
	_ = l.Process(s.ledgerConfig().WithContext(ctx), doc) // mismatches in l.Errors()

	s.mu.Lock()
	s.document = doc
	s.ledger = l
	s.file = file
	s.mu.Unlock()

	return nil
}

// startWatcher watches the file and reloads it on change.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	s.mu.RLock()
	file := s.file
	s.mu.RUnlock()

	if err := watcher.Add(file); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	go s.runWatcher(ctx, watcher)

	return nil
}

// runWatcher processes file system events with debouncing.
func (s *Server) runWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	log := zerolog.Ctx(ctx)

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

			// Remove and Rename are common in atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("file changed")

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
			log.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// handleFileChange reloads the file, re-arms the watch and notifies clients.
func (s *Server) handleFileChange(ctx context.Context, watcher *fsnotify.Watcher) {
	log := zerolog.Ctx(ctx)

	if err := s.reload(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to reload")
		return
	}

	s.mu.RLock()
	file := s.file
	errs := len(s.document.Errors) + len(s.ledger.Errors())
	s.mu.RUnlock()

	// Re-add to catch files re-created by atomic saves.
	if err := watcher.Add(file); err != nil {
		log.Warn().Err(err).Str("file", file).Msg("failed to watch")
	}

	log.Info().Str("file", file).Int("errors", errs).Msg("reloaded")
	s.broadcast("reload")
}

// handleSSE handles Server-Sent Events connections for real-time updates.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

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
			// Client buffer full, skip
		}
	}
}
