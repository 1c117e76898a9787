// quantum-fen-server serves the game over SSH. Every connection is a tab;
// all tabs share one store, so what one player sees, every other player
// sees too. Build:
//
//	go build -o quantum-fen-server ./cmd/server
//
// Usage:
//
//	./quantum-fen-server [--port 2222] [--key host_ed25519] [--db quantum.db]
//
// Connect from as many terminals as you like:
//
//	ssh -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	mrand "math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"

	"quantum-fen/internal/config"
	"quantum-fen/internal/game"
	"quantum-fen/internal/journal"
	"quantum-fen/internal/quantum"
	internalssh "quantum-fen/internal/ssh"
	"quantum-fen/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.SSHAddr, "addr", cfg.SSHAddr, "SSH listen address")
	flag.IntVar(&cfg.SSHPort, "port", cfg.SSHPort, "SSH server port")
	flag.StringVar(&cfg.HostKey, "key", cfg.HostKey, "Path to the PEM-encoded host key (auto-generated if absent)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the shared SQLite store")
	flag.BoolVar(&cfg.Memory, "memory", cfg.Memory, "Keep the store in memory; progress is lost on exit")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	logger := cfg.NewLogger(os.Stderr)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	signer, err := loadOrCreateHostKey(cfg.HostKey, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := newHub(ctx, st, journal.New(cfg.DataDir, logger), logger, cfg)
	srv := &gossh.Server{
		Addr:    cfg.ListenAddr(),
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// No authentication handler: any client may connect.
		HostSigners: []gossh.Signer{signer},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("quantum-fen SSH server listening", "addr", srv.Addr, "store", storeName(cfg))
	logger.Info(fmt.Sprintf("connect with:  ssh -p %d -o StrictHostKeyChecking=no localhost", cfg.SSHPort))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down", "tabs", h.Count())
	h.Wait(5 * time.Second)
	if err := srv.Close(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	return nil
}

func storeName(cfg config.Config) string {
	if cfg.Memory {
		return "memory"
	}
	return cfg.DBPath
}

// openStore returns the shared store and a func that releases it.
func openStore(cfg config.Config) (store.Store, func(), error) {
	if cfg.Memory {
		return store.NewMemoryStore(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create store dir: %w", err)
	}
	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

// ─── hub ────────────────────────────────────────────────────────────────────

// hub runs one tab per SSH session and tracks the open ones so shutdown can
// wait for them to remove their records.
type hub struct {
	ctx     context.Context
	store   store.Store
	journal journal.Recorder
	logger  *slog.Logger
	retry   quantum.RetryPolicy
	seed    int64

	mu   sync.Mutex
	tabs map[string]string // tab ID → remote address
	next int64
	wg   sync.WaitGroup
}

func newHub(ctx context.Context, st store.Store, j journal.Recorder, logger *slog.Logger, cfg config.Config) *hub {
	return &hub{
		ctx:     ctx,
		store:   st,
		journal: j,
		logger:  logger,
		retry:   quantum.RetryPolicy{MaxAttempts: cfg.CollapseRetries},
		seed:    cfg.Seed,
		tabs:    make(map[string]string),
	}
}

// handleSession is the gliderlabs SSH handler for one connection.
// It blocks for the duration of the connection so the SSH session stays open.
func (h *hub) handleSession(s gossh.Session) {
	screen, err := internalssh.NewScreen(s)
	if errors.Is(err, internalssh.ErrNoPTY) {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}
	if err != nil {
		fmt.Fprintf(s, "%v\n", err)
		return
	}
	defer screen.Fini()

	id := quantum.NewTabID()
	tab, err := game.New(screen, game.Deps{
		Store:   h.store,
		Journal: h.journal,
		Logger:  h.logger.With("remote", s.RemoteAddr().String()),
		Rand:    h.rand(),
		Retry:   h.retry,
		TabID:   id,
	})
	if err != nil {
		fmt.Fprintf(s, "%v\n", err)
		return
	}

	h.add(id, s.RemoteAddr().String())
	defer h.remove(id)

	ctx, cancel := context.WithCancel(s.Context())
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	if err := tab.Run(ctx); err != nil {
		h.logger.Warn("tab failed", "tab", id, "error", err)
	}
}

// rand returns a tab's random source: derived from the configured seed when
// there is one, from the clock otherwise.
func (h *hub) rand() *mrand.Rand {
	h.mu.Lock()
	h.next++
	n := h.next
	h.mu.Unlock()
	if h.seed != 0 {
		return mrand.New(mrand.NewSource(h.seed + n))
	}
	return mrand.New(mrand.NewSource(time.Now().UnixNano() + n))
}

func (h *hub) add(id, remote string) {
	h.wg.Add(1)
	h.mu.Lock()
	h.tabs[id] = remote
	n := len(h.tabs)
	h.mu.Unlock()
	h.logger.Info("tab connected", "tab", id, "remote", remote, "tabs", n)
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	delete(h.tabs, id)
	n := len(h.tabs)
	h.mu.Unlock()
	h.wg.Done()
	h.logger.Info("tab disconnected", "tab", id, "tabs", n)
}

// Count returns the number of open tabs.
func (h *hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.tabs)
}

// Wait blocks until every tab has closed or timeout passes, and reports
// whether they all closed.
func (h *hub) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer, nil
		}
	}

	logger.Info("generating new ed25519 host key", "path", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persist for next run (non-fatal if it fails).
	pemBlock, err := xssh.MarshalPrivateKey(key, "quantum-fen server")
	if err != nil {
		logger.Warn("cannot encode host key", "error", err)
		return signer, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger.Warn("cannot create host key dir", "error", err)
		return signer, nil
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
		logger.Warn("cannot save host key", "error", err)
	}
	return signer, nil
}
