package quantum

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"quantum-fen/internal/slot"
	"quantum-fen/internal/store"
)

// RefreshHook runs after every refresh with the merged view that includes
// this tab's freshly persisted record.
type RefreshHook func(ctx context.Context, merged map[string]string)

// Option configures a Session.
type Option func(*Session)

// WithTabID overrides the generated tab key.
func WithTabID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.tabID = id
		}
	}
}

// WithRand sets the source used for collapses.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithRetryPolicy sets the anti-repeat bound.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Session) { s.retry = p }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHook registers a hook run after each refresh.
func WithHook(h RefreshHook) Option {
	return func(s *Session) {
		if h != nil {
			s.hooks = append(s.hooks, h)
		}
	}
}

// Session is one tab's view of the shared slot state.
type Session struct {
	mu       sync.Mutex
	tabID    string
	store    store.Store
	registry *slot.Registry
	surface  Surface
	rng      *rand.Rand
	retry    RetryPolicy
	logger   *slog.Logger
	hooks    []RefreshHook
}

// NewSession builds a Session for one tab. Nothing is written until Open.
func NewSession(st store.Store, registry *slot.Registry, surface Surface, opts ...Option) *Session {
	s := &Session{
		tabID:    NewTabID(),
		store:    st,
		registry: registry,
		surface:  surface,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		retry:    DefaultRetryPolicy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// TabID returns the store key of this tab's record.
func (s *Session) TabID() string { return s.tabID }

// AddHook registers a refresh hook after construction.
func (s *Session) AddHook(h RefreshHook) {
	if h == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

// Open sweeps abandoned empty records and runs the first refresh.
func (s *Session) Open(ctx context.Context) error {
	removed, err := Sweep(ctx, s.store)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Debug("swept empty tab records", "count", removed)
	}
	_, err = s.Refresh(ctx)
	return err
}

// Merged returns the current global view for slots present on this page.
func (s *Session) Merged(ctx context.Context) (map[string]string, error) {
	return Merge(ctx, s.store, s.surface.Has)
}

// Refresh re-evaluates every rendered slot: adopt known values, collapse
// observed unknown ones, leave the rest. It then persists the slots this tab
// can see and runs the hooks.
func (s *Session) Refresh(ctx context.Context) (map[string]string, error) {
	merged, hooks, err := s.collapse(ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range hooks {
		h(ctx, merged)
	}
	return merged, nil
}

func (s *Session) collapse(ctx context.Context) (map[string]string, []RefreshHook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := Merge(ctx, s.store, s.surface.Has)
	if err != nil {
		return nil, nil, err
	}

	visible := s.surface.Visible()
	own := Record{}
	for _, el := range s.surface.Elements() {
		name := el.Name()
		sl, ok := s.registry.Lookup(name)
		if !ok {
			continue
		}
		known, hasKnown := merged[name]
		observed := visible && el.Observed()
		current := el.Content()
		choice := Decide(Input{
			Palette:  sl.Values,
			Current:  current,
			Known:    known,
			HasKnown: hasKnown,
			Observed: observed,
		}, s.rng, s.retry)
		if choice.Changed(current) {
			el.SetContent(choice.Value)
			s.logger.Debug("slot updated", "tab", s.tabID, "slot", name, "action", choice.Action.String())
		}
		if observed {
			own[name] = el.Content()
		}
	}

	if err := s.store.Set(ctx, s.tabID, own.Encode()); err != nil {
		return nil, nil, fmt.Errorf("persist tab record: %w", err)
	}

	merged, err = Merge(ctx, s.store, s.surface.Has)
	if err != nil {
		return nil, nil, err
	}
	hooks := make([]RefreshHook, len(s.hooks))
	copy(hooks, s.hooks)
	return merged, hooks, nil
}

// Seed writes a sequence slot's first value into this tab's record unless
// some tab already holds a value for it. The next Refresh displays it.
func (s *Session) Seed(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("seed: unknown slot %q", name)
	}
	merged, err := Merge(ctx, s.store, s.surface.Has)
	if err != nil {
		return err
	}
	if _, known := merged[name]; known {
		return nil
	}
	own, err := loadRecord(ctx, s.store, s.tabID, s.logger)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	own[name] = sl.First()
	if err := s.store.Set(ctx, s.tabID, own.Encode()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

// Close removes this tab's record. A record left behind by a crashed tab
// keeps pinning its slots until it is removed by hand.
func (s *Session) Close(ctx context.Context) error {
	if err := s.store.Remove(ctx, s.tabID); err != nil {
		return fmt.Errorf("close tab: %w", err)
	}
	return nil
}
