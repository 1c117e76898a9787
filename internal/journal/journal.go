// Package journal keeps an append-only record of riddle guesses and level
// completions as JSON lines.
package journal

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileName is the journal file inside the data directory.
const FileName = "guesses.jsonl"

// Events written to the journal.
const (
	EventGuess    = "guess"
	EventComplete = "complete"
)

// Entry is one journal line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Tab       string    `json:"tab,omitempty"`
	Level     int       `json:"level"`
	Guess     string    `json:"guess,omitempty"`
	Correct   bool      `json:"correct"`
	Event     string    `json:"event"`
}

// Recorder accepts journal entries. Implementations must not fail loudly:
// a disk problem never interrupts play.
type Recorder interface {
	Record(e Entry)
}

// Discard drops every entry.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(Entry) {}

// Journal appends entries to a file, creating its directory on first use.
type Journal struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Journal writing to dir/FileName.
func New(dir string, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		path:   filepath.Join(dir, FileName),
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the journal file location.
func (j *Journal) Path() string { return j.path }

// Record appends e as a single JSON line. Errors are logged but never
// returned.
func (j *Journal) Record(e Entry) {
	if j == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = j.now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		j.logger.Warn("journal: cannot marshal JSON", "error", err)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		j.logger.Warn("journal: cannot create data dir", "error", err)
		return
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		j.logger.Warn("journal: cannot open file", "error", err)
		return
	}
	defer f.Close()
	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		j.logger.Warn("journal: write failed", "error", err)
	}
}

// DataDir returns the directory where quantum-fen keeps its files.
// Follows XDG Base Directory spec: $XDG_DATA_HOME/quantum-fen,
// defaulting to ~/.local/share/quantum-fen.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quantum-fen"), nil
}
