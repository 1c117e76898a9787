package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDataDirXDGEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir returned error: %v", err)
	}
	want := filepath.Join(tmp, "quantum-fen")
	if dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}
}

func TestDataDirDefaultFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "") // force the fallback path

	dir, err := DataDir()
	if err != nil {
		t.Skip("skipping: no user home directory available in test environment")
	}
	suffix := filepath.Join(".local", "share", "quantum-fen")
	if !strings.HasSuffix(dir, suffix) {
		t.Errorf("dir %q does not end with %q", dir, suffix)
	}
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("journal not created: %v", err)
	}
	defer f.Close()
	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("bad journal line %q: %v", sc.Text(), err)
		}
		out = append(out, e)
	}
	return out
}

func TestRecordAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	j := New(dir, nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Record(Entry{Tab: "TAB_1", Level: 1, Guess: "rain", Correct: true, Event: EventGuess})
	j.Record(Entry{Tab: "TAB_1", Level: 1, Correct: true, Event: EventComplete})

	got := readEntries(t, j.Path())
	if len(got) != 2 {
		t.Fatalf("expected 2 journal lines, got %d", len(got))
	}
	if got[0].Guess != "rain" || !got[0].Correct || got[0].Event != EventGuess {
		t.Errorf("first entry = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v; want %v", got[0].Timestamp, fixed)
	}
	if got[1].Event != EventComplete {
		t.Errorf("second event = %q", got[1].Event)
	}
}

func TestRecordConcurrent(t *testing.T) {
	j := New(t.TempDir(), nil)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Record(Entry{Level: i%4 + 1, Event: EventGuess})
		}()
	}
	wg.Wait()
	if n := len(readEntries(t, j.Path())); n != 20 {
		t.Errorf("expected 20 lines, got %d", n)
	}
}

func TestRecordUnwritableDirIsSilent(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	j := New(filepath.Join(blocker, "sub"), nil)
	j.Record(Entry{Level: 1, Event: EventGuess}) // must not panic

	var nilJournal *Journal
	nilJournal.Record(Entry{Level: 1})
	Discard.Record(Entry{Level: 1})
}
