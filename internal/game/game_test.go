package game

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"quantum-fen/assets"
	"quantum-fen/internal/page"
	"quantum-fen/internal/progress"
	"quantum-fen/internal/quantum"
	"quantum-fen/internal/slot"
	"quantum-fen/internal/store"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func newSimScreen(t *testing.T) tcell.Screen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	t.Cleanup(ss.Fini)
	return ss
}

func newTestTab(t *testing.T, st store.Store, id string) *Tab {
	t.Helper()
	tab, err := New(newSimScreen(t), Deps{
		Store:  st,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Rand:   rand.New(rand.NewSource(42)),
		TabID:  id,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tab
}

func loadedTab(t *testing.T, st store.Store, id string) *Tab {
	t.Helper()
	tab := newTestTab(t, st, id)
	if err := tab.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tab
}

func mustSet(t *testing.T, st store.Store, key, value string) {
	t.Helper()
	if err := st.Set(context.Background(), key, value); err != nil {
		t.Fatal(err)
	}
}

func blockText(t *testing.T, tab *Tab, id string) string {
	t.Helper()
	b, ok := tab.Page().Block(id)
	if !ok {
		t.Fatalf("no block %q", id)
	}
	return b.Text
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func typeText(ctx context.Context, tab *Tab, s string) {
	for _, r := range s {
		tab.HandleEvent(ctx, runeKey(r))
	}
}

func record(t *testing.T, st store.Store, id string) quantum.Record {
	t.Helper()
	raw, ok, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		return nil
	}
	r, err := quantum.DecodeRecord(raw)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func rainbowRecord(level int) string {
	r := quantum.Record{}
	for i, name := range assets.RainbowSlots[level] {
		r[name] = assets.Rainbow[i]
	}
	return r.Encode()
}

// ─── load and navigation ──────────────────────────────────────────────────────

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(newSimScreen(t), Deps{}); err == nil {
		t.Error("expected error without a store")
	}
}

func TestLoadShowsSeededSelector(t *testing.T) {
	st := store.NewMemoryStore()
	tab := loadedTab(t, st, "TAB_a")

	if !tab.Page().Shown(assets.LevelNames[0]) || tab.Level() != 0 {
		t.Fatal("selector not shown after load")
	}
	if got := blockText(t, tab, slot.NameSelector); got != assets.SelectorButtons[0] {
		t.Errorf("selector shows %q, want %q", got, assets.SelectorButtons[0])
	}
	if rec := record(t, st, "TAB_a"); rec[slot.NameSelector] != assets.SelectorButtons[0] {
		t.Errorf("tab record = %v", rec)
	}
	if f := tab.Page().Focused(); f == nil || f.ID != slot.NameSelector {
		t.Error("selector button should have focus")
	}
}

func TestLoadAdoptsOtherTabsSelector(t *testing.T) {
	st := store.NewMemoryStore()
	mustSet(t, st, "TAB_other", quantum.Record{slot.NameSelector: assets.SelectorButtons[2]}.Encode())
	tab := loadedTab(t, st, "TAB_a")
	if got := blockText(t, tab, slot.NameSelector); got != assets.SelectorButtons[2] {
		t.Errorf("selector shows %q, want the other tab's %q", got, assets.SelectorButtons[2])
	}
}

func TestLockedLevel(t *testing.T) {
	ctx := context.Background()
	tab := loadedTab(t, store.NewMemoryStore(), "TAB_a")
	if err := tab.GoToLevel(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if tab.Level() != 0 {
		t.Error("locked level should leave the selector up")
	}
	if got := blockText(t, tab, page.IDSelectorStatus); got != progress.LockedMessage(3) {
		t.Errorf("status = %q", got)
	}
	if err := tab.GoToLevel(ctx, 9); err == nil {
		t.Error("expected error for a level that does not exist")
	}
}

func TestSolveLevelOneWithKeys(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tab := loadedTab(t, st, "TAB_a")

	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	if tab.Level() != 1 {
		t.Fatalf("Enter on the selector opened level %d", tab.Level())
	}
	if got := blockText(t, tab, slot.NameClue); got != assets.Clues[0] {
		t.Errorf("clue = %q, want the first clue", got)
	}
	if f := tab.Page().Focused(); f == nil || f.ID != page.IDAnswer1 {
		t.Fatal("answer input should have focus")
	}

	typeText(ctx, tab, "Rainx")
	tab.HandleEvent(ctx, key(tcell.KeyBackspace2))
	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	if got := blockText(t, tab, page.IDResponse1); got != "Yes! My name is rain. See you in Level Two." {
		t.Errorf("response = %q", got)
	}
	if v, _, _ := st.Get(ctx, progress.CompleteKey(1)); v != "true" {
		t.Error("level 1 flag not set")
	}

	tab.HandleEvent(ctx, key(tcell.KeyEscape))
	if tab.Level() != 0 || !tab.Page().Shown(assets.LevelNames[0]) {
		t.Error("Esc should return to the selector")
	}
	if tab.Page().Shown(assets.LevelNames[1]) {
		t.Error("level one should be hidden again")
	}
}

func TestWrongGuess(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tab := loadedTab(t, st, "TAB_a")
	if err := tab.GoToLevel(ctx, 1); err != nil {
		t.Fatal(err)
	}
	typeText(ctx, tab, "Snow!")
	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	if got := blockText(t, tab, page.IDResponse1); got != "I am not a snow." {
		t.Errorf("response = %q", got)
	}
	if ok, _ := progress.New(st, assets.Questions, nil).Unlocked(ctx, 2); ok {
		t.Error("a wrong guess unlocked level 2")
	}
}

func TestSelectorRecollapsesAfterScrollingAway(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	mustSet(t, st, progress.CompleteKey(1), "true")
	tab := loadedTab(t, st, "TAB_a")

	tab.HandleEvent(ctx, key(tcell.KeyPgDn))
	if _, ok := record(t, st, "TAB_a")[slot.NameSelector]; ok {
		t.Fatal("selector out of view should leave the tab record")
	}
	tab.HandleEvent(ctx, key(tcell.KeyHome))
	got := blockText(t, tab, slot.NameSelector)
	if got == assets.SelectorButtons[0] {
		t.Fatalf("selector should collapse to a new button, still %q", got)
	}

	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	switch got {
	case assets.SelectorButtons[1]:
		if tab.Level() != 2 {
			t.Errorf("pressing %q opened level %d", got, tab.Level())
		}
		if blockText(t, tab, slot.NameClue2) != assets.Clues2[0] {
			t.Error("level two clue not seeded")
		}
	default:
		if tab.Level() != 0 || !strings.HasPrefix(blockText(t, tab, page.IDSelectorStatus), "Locked.") {
			t.Errorf("pressing %q should report the level as locked", got)
		}
	}
}

// ─── multi-tab levels ─────────────────────────────────────────────────────────

func TestLevelThreeSolvedByAnotherTabsFruit(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	mustSet(t, st, progress.CompleteKey(1), "true")
	mustSet(t, st, progress.CompleteKey(2), "true")
	mustSet(t, st, "TAB_other", rainbowRecord(3))

	tab := loadedTab(t, st, "TAB_a")
	if err := tab.GoToLevel(ctx, 3); err != nil {
		t.Fatal(err)
	}
	for i, name := range assets.RainbowSlots[3] {
		if got := blockText(t, tab, name); got != assets.Rainbow[i] {
			t.Errorf("%s = %q, want %q", name, got, assets.Rainbow[i])
		}
	}
	if got := blockText(t, tab, page.IDChecker3); !strings.HasPrefix(got, "Success!") {
		t.Errorf("checker = %q", got)
	}
	if v, _, _ := st.Get(ctx, progress.CompleteKey(3)); v != "true" {
		t.Error("level 3 flag not set")
	}

	// The other tab lets go of the fruit; the success message stays.
	if err := st.Remove(ctx, "TAB_other"); err != nil {
		t.Fatal(err)
	}
	tab.HandleEvent(ctx, key(tcell.KeyEnd))
	tab.HandleEvent(ctx, key(tcell.KeyHome))
	if got := blockText(t, tab, page.IDChecker3); !strings.HasPrefix(got, "Success!") {
		t.Errorf("checker after release = %q", got)
	}
}

func TestLevelFourShowsFinalCode(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	for level := 1; level <= 3; level++ {
		mustSet(t, st, progress.CompleteKey(level), "true")
	}
	mustSet(t, st, progress.AnswerKey(1), "rain")
	mustSet(t, st, progress.AnswerKey(2), "bow")
	mustSet(t, st, "TAB_other", rainbowRecord(4))

	tab := loadedTab(t, st, "TAB_a")
	if err := tab.GoToLevel(ctx, 4); err != nil {
		t.Fatal(err)
	}
	want := "Success! Congratulations. You have solved the riddles of the SPHINGES."
	if got := blockText(t, tab, page.IDChecker4); got != want {
		t.Errorf("checker = %q", got)
	}
}

func TestCheckersIdleWhileLevelHidden(t *testing.T) {
	st := store.NewMemoryStore()
	mustSet(t, st, "TAB_other", rainbowRecord(3))
	tab := loadedTab(t, st, "TAB_a")
	if blockText(t, tab, page.IDChecker3) != "" {
		t.Error("level three checker ran while hidden")
	}
	if v, _, _ := st.Get(context.Background(), progress.CompleteKey(3)); v != "" {
		t.Error("hidden level was marked complete")
	}
}

// ─── events ───────────────────────────────────────────────────────────────────

func TestFocusEventsToggleObservation(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tab := loadedTab(t, st, "TAB_a")

	tab.HandleEvent(ctx, tcell.NewEventFocus(false))
	if tab.Page().Visible() {
		t.Fatal("page should be in the background")
	}
	if rec := record(t, st, "TAB_a"); len(rec) != 0 {
		t.Errorf("background tab still holds %v", rec)
	}
	tab.HandleEvent(ctx, tcell.NewEventFocus(true))
	if rec := record(t, st, "TAB_a"); rec[slot.NameSelector] == "" {
		t.Errorf("foreground tab should observe the selector again, record %v", rec)
	}
}

func TestQuitKeys(t *testing.T) {
	ctx := context.Background()
	tab := loadedTab(t, store.NewMemoryStore(), "TAB_a")
	if !tab.HandleEvent(ctx, key(tcell.KeyCtrlC)) {
		t.Error("Ctrl-C should quit")
	}
	if !tab.HandleEvent(ctx, runeKey('q')) {
		t.Error("q should quit outside an input")
	}
	if err := tab.GoToLevel(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if tab.HandleEvent(ctx, runeKey('q')) {
		t.Error("q typed into an input should not quit")
	}
	if blockText(t, tab, page.IDAnswer1) != "q" {
		t.Error("q should land in the input")
	}
}

func TestHelpOverlay(t *testing.T) {
	ctx := context.Background()
	tab := loadedTab(t, store.NewMemoryStore(), "TAB_a")
	tab.HandleEvent(ctx, runeKey('?'))
	if !tab.help {
		t.Fatal("? should open help")
	}
	tab.Draw()
	if tab.HandleEvent(ctx, runeKey('q')) {
		t.Error("a key while help is open only closes help")
	}
	if tab.help {
		t.Error("help should be closed")
	}
}

func TestCommandPrompt(t *testing.T) {
	ctx := context.Background()
	tab := loadedTab(t, store.NewMemoryStore(), "TAB_a")

	tab.HandleEvent(ctx, runeKey(':'))
	typeText(ctx, tab, "lvl 1")
	if !tab.editing || tab.prompt != "lvl 1" {
		t.Fatalf("prompt = %q editing=%v", tab.prompt, tab.editing)
	}
	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	if tab.Level() != 1 {
		t.Fatalf("level = %d, want 1", tab.Level())
	}

	tab.HandleEvent(ctx, key(tcell.KeyTab))
	tab.HandleEvent(ctx, key(tcell.KeyTab))
	tab.page.Focus(nil)
	tab.HandleEvent(ctx, runeKey(':'))
	typeText(ctx, tab, "guess rain")
	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	if !strings.HasPrefix(blockText(t, tab, page.IDResponse1), "Yes!") {
		t.Errorf("response = %q", blockText(t, tab, page.IDResponse1))
	}

	tab.HandleEvent(ctx, runeKey(':'))
	typeText(ctx, tab, "bogus")
	tab.HandleEvent(ctx, key(tcell.KeyEnter))
	if !strings.Contains(tab.lastMessage(), "unknown command") {
		t.Errorf("message = %q", tab.lastMessage())
	}

	tab.HandleEvent(ctx, runeKey(':'))
	typeText(ctx, tab, "quit")
	if !tab.HandleEvent(ctx, key(tcell.KeyEnter)) {
		t.Error("quit command should close the tab")
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line    string
		verb    string
		arg     string
		level   int
		wantErr bool
	}{
		{line: "level 3", verb: VerbLevel, arg: "3", level: 3},
		{line: "lvl 2", verb: VerbLevel, arg: "2", level: 2},
		{line: "LEVEL 1", verb: VerbLevel, arg: "1", level: 1},
		{line: "gues  Rain  Drop", verb: VerbGuess, arg: "Rain Drop"},
		{line: "ba", verb: VerbBack},
		{line: "qiut", verb: VerbQuit},
		{line: "help me", verb: VerbHelp, arg: "me"},
		{line: "level two", wantErr: true},
		{line: "guess", wantErr: true},
		{line: "xyzzy", wantErr: true},
		{line: "   ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			cmd, err := ParseCommand(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", cmd)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cmd.Verb != tc.verb || cmd.Arg != tc.arg || cmd.Level != tc.level {
				t.Errorf("ParseCommand(%q) = %+v", tc.line, cmd)
			}
		})
	}
}

// ─── lifecycle ────────────────────────────────────────────────────────────────

func TestRunStopsOnCancelAndRemovesRecord(t *testing.T) {
	st := store.NewMemoryStore()
	tab := newTestTab(t, st, "TAB_run")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- tab.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for record(t, st, "TAB_run") == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok, _ := st.Get(context.Background(), "TAB_run"); ok {
		t.Error("tab record should be removed when the tab closes")
	}
}

func TestDrawShowsSelector(t *testing.T) {
	tab := loadedTab(t, store.NewMemoryStore(), "TAB_a")
	tab.Draw()
	w, _ := tab.screen.Size()
	var row strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, _ := tab.screen.GetContent(x, 3)
		row.WriteRune(mainc)
	}
	if !strings.Contains(row.String(), assets.SelectorButtons[0]) {
		t.Errorf("row 3 = %q", strings.TrimRight(row.String(), " "))
	}
}
