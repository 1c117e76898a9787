// Package game runs one tab: it owns a screen, the page shown on it and the
// quantum session that keeps the page consistent with every other tab.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"

	"quantum-fen/assets"
	"quantum-fen/internal/journal"
	"quantum-fen/internal/page"
	"quantum-fen/internal/progress"
	"quantum-fen/internal/quantum"
	"quantum-fen/internal/render"
	"quantum-fen/internal/riddle"
	"quantum-fen/internal/slot"
	"quantum-fen/internal/store"
)

// Deps are the collaborators a tab needs. Store is required; everything else
// has a default.
type Deps struct {
	Store     store.Store
	Registry  *slot.Registry
	Questions map[int]riddle.Question
	Journal   journal.Recorder
	Logger    *slog.Logger
	Rand      *rand.Rand
	Retry     quantum.RetryPolicy
	TabID     string
}

// Tab is one terminal view of the game.
type Tab struct {
	screen   tcell.Screen
	renderer *render.Renderer
	page     *page.Page
	session  *quantum.Session
	gate     *progress.Gate
	registry *slot.Registry
	logger   *slog.Logger

	level    int // 0 while the selector is shown
	messages []string
	prompt   string
	editing  bool
	help     bool
}

// New builds a tab on screen. Nothing is read or written until Load.
func New(screen tcell.Screen, deps Deps) (*Tab, error) {
	if deps.Store == nil {
		return nil, errors.New("game: a store is required")
	}
	if deps.Registry == nil {
		deps.Registry = slot.Default()
	}
	if deps.Questions == nil {
		deps.Questions = assets.Questions
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Retry.MaxAttempts == 0 {
		deps.Retry = quantum.DefaultRetryPolicy
	}
	if deps.TabID == "" {
		deps.TabID = quantum.NewTabID()
	}

	pg, err := page.Standard()
	if err != nil {
		return nil, fmt.Errorf("build page: %w", err)
	}
	rules, err := levelRules()
	if err != nil {
		return nil, err
	}

	logger := deps.Logger.With("tab", deps.TabID)
	t := &Tab{
		screen:   screen,
		renderer: render.NewRenderer(screen),
		page:     pg,
		registry: deps.Registry,
		logger:   logger,
	}
	t.session = quantum.NewSession(deps.Store, deps.Registry, pg,
		quantum.WithTabID(deps.TabID),
		quantum.WithRand(deps.Rand),
		quantum.WithRetryPolicy(deps.Retry),
		quantum.WithLogger(logger),
		quantum.WithHook(t.runCheckers),
	)
	t.gate = progress.New(deps.Store, deps.Questions, rules,
		progress.WithJournal(deps.Journal),
		progress.WithLogger(logger),
		progress.WithTab(deps.TabID),
	)

	screen.EnableMouse()
	screen.EnableFocus()
	pg.Resize(t.renderer.ViewSize())
	return t, nil
}

// levelRules compiles the fruit rules of levels three and four.
func levelRules() ([]*progress.Rule, error) {
	var rules []*progress.Rule
	for _, level := range []int{3, 4} {
		r, err := progress.CompileRule(level, assets.RainbowSlots[level], assets.Rainbow)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// TabID returns the key of this tab's record in the shared store.
func (t *Tab) TabID() string { return t.session.TabID() }

// Page exposes the tab's document.
func (t *Tab) Page() *page.Page { return t.page }

// Level returns the level on screen, 0 for the selector.
func (t *Tab) Level() int { return t.level }

// Load hides every container, registers the tab and shows the selector.
func (t *Tab) Load(ctx context.Context) error {
	t.page.HideAll()
	if err := t.session.Open(ctx); err != nil {
		return fmt.Errorf("open tab: %w", err)
	}
	t.logger.Info("tab opened")
	return t.GoToLevelSelector(ctx)
}

// Close removes this tab's record from the shared store.
func (t *Tab) Close(ctx context.Context) error {
	t.logger.Info("tab closed")
	return t.session.Close(ctx)
}

// Run loads the tab and handles events until the player quits, the screen
// goes away or ctx is cancelled. The tab record is removed on the way out.
func (t *Tab) Run(ctx context.Context) error {
	if err := t.Load(ctx); err != nil {
		return err
	}
	defer func() {
		if err := t.Close(context.WithoutCancel(ctx)); err != nil {
			t.logger.Warn("close tab", "error", err)
		}
	}()
	t.Draw()

	// Start an async input reader goroutine.
	eventCh := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			select {
			case eventCh <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-eventCh:
			if !ok {
				return nil // screen closed / disconnected
			}
			if t.HandleEvent(ctx, ev) {
				return nil
			}
			t.Draw()
		}
	}
}

// Draw renders the page, the status rows and any overlay.
func (t *Tab) Draw() {
	t.renderer.DrawPage(t.page)
	t.renderer.DrawStatus(render.Status{
		Tab:     t.TabID(),
		Level:   assets.LevelNames[t.level],
		Message: t.lastMessage(),
		Prompt:  t.prompt,
		Editing: t.editing,
	})
	if t.help {
		t.renderer.DrawOverlay(" Controls ", helpLines)
	}
}

// Refresh runs the collapse pass. Failures are logged; the page keeps what
// it shows.
func (t *Tab) Refresh(ctx context.Context) {
	if _, err := t.session.Refresh(ctx); err != nil {
		t.logger.Warn("refresh failed", "error", err)
	}
}

// runCheckers is the refresh hook: it evaluates the fruit rule of each
// level that is on screen.
func (t *Tab) runCheckers(ctx context.Context, merged map[string]string) {
	for _, level := range []int{3, 4} {
		if !t.page.Shown(assets.LevelNames[level]) {
			continue
		}
		out, err := t.gate.Check(ctx, level, merged)
		if err != nil {
			t.logger.Warn("level check failed", "level", level, "error", err)
			continue
		}
		if out.Solved {
			t.setResponse(level, out.Message)
		}
	}
}

func (t *Tab) setResponse(level int, msg string) {
	if b, ok := t.page.Block(page.ResponseID(level)); ok && b.Text != msg {
		b.SetContent(msg)
	}
}

func (t *Tab) addMessage(msg string) {
	t.messages = append(t.messages, msg)
	if len(t.messages) > 50 {
		t.messages = t.messages[len(t.messages)-50:]
	}
}

func (t *Tab) lastMessage() string {
	if len(t.messages) == 0 {
		return ""
	}
	return t.messages[len(t.messages)-1]
}
