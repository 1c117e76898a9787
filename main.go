package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"quantum-fen/internal/config"
	"quantum-fen/internal/game"
	"quantum-fen/internal/journal"
	"quantum-fen/internal/quantum"
	"quantum-fen/internal/store"
)

// logName is the local tab's log file; the terminal belongs to the game.
const logName = "quantum-fen.log"

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
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the shared SQLite store")
	flag.BoolVar(&cfg.Memory, "memory", cfg.Memory, "Keep the store in memory; no other tab can see it")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one from the clock)")
	flag.Parse()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := cfg.NewLogger(logFile)

	var st store.Store
	if cfg.Memory {
		st = store.NewMemoryStore()
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		st = db
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	tab, err := game.New(screen, game.Deps{
		Store:   st,
		Journal: journal.New(cfg.DataDir, logger),
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(seed)),
		Retry:   quantum.RetryPolicy{MaxAttempts: cfg.CollapseRetries},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("local tab started", "tab", tab.TabID(), "seed", seed)
	return tab.Run(ctx)
}
