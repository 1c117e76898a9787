package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"quantum-fen/internal/config"
	"quantum-fen/internal/journal"
	"quantum-fen/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadOrCreateHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "host_ed25519")

	first, err := loadOrCreateHostKey(path, discardLogger())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := loadOrCreateHostKey(path, discardLogger())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(first.PublicKey().Marshal(), second.PublicKey().Marshal()) {
		t.Error("reloaded host key differs from the generated one")
	}
	if first.PublicKey().Type() != "ssh-ed25519" {
		t.Errorf("key type = %q", first.PublicKey().Type())
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	mem, closeMem, err := openStore(config.Config{Memory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer closeMem()
	if _, ok := mem.(*store.MemoryStore); !ok {
		t.Errorf("memory config opened %T", mem)
	}

	path := filepath.Join(t.TempDir(), "nested", "quantum.db")
	st, closeDB, err := openStore(config.Config{DBPath: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	closeDB()

	again, closeAgain, err := openStore(config.Config{DBPath: path})
	if err != nil {
		t.Fatal(err)
	}
	defer closeAgain()
	if v, ok, _ := again.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("value did not survive reopening: %q %v", v, ok)
	}
}

func TestHubTracksTabs(t *testing.T) {
	h := newHub(context.Background(), store.NewMemoryStore(), journal.Discard, discardLogger(), config.Config{CollapseRetries: 8})
	h.add("TAB_a", "127.0.0.1:1")
	h.add("TAB_b", "127.0.0.1:2")
	if h.Count() != 2 {
		t.Errorf("Count = %d, want 2", h.Count())
	}
	if h.Wait(10 * time.Millisecond) {
		t.Error("Wait should time out while tabs are open")
	}
	h.remove("TAB_a")
	h.remove("TAB_b")
	if !h.Wait(time.Second) {
		t.Error("Wait should return once every tab has closed")
	}
}

func TestHubRandIsSeeded(t *testing.T) {
	a := newHub(context.Background(), nil, journal.Discard, discardLogger(), config.Config{Seed: 7})
	b := newHub(context.Background(), nil, journal.Discard, discardLogger(), config.Config{Seed: 7})
	firstA, firstB := a.rand().Int63(), b.rand().Int63()
	if firstA != firstB {
		t.Error("same seed should give the same first tab source")
	}
	if a.rand().Int63() == firstA {
		t.Error("each tab should get its own source")
	}
}
