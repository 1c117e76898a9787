// Package progress tracks which levels a player has completed. Flags and
// accepted answers live in the shared store so every tab sees them and they
// survive restarts.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quantum-fen/internal/journal"
	"quantum-fen/internal/riddle"
	"quantum-fen/internal/store"
)

// MaxLevel is the last level.
const MaxLevel = 4

// ErrUnknownLevel is returned for levels the gate has no question or rule for.
var ErrUnknownLevel = errors.New("progress: unknown level")

var positionWords = [...]string{"Zero", "One", "Two", "Three", "Four"}

// CompleteKey is the store key of a level's completion flag.
func CompleteKey(level int) string { return fmt.Sprintf("GAME_Level_%d_Complete", level) }

// AnswerKey is the store key of a level's accepted answer.
func AnswerKey(level int) string { return fmt.Sprintf("GAME_Level_%d_Answer", level) }

// GuessResult is the outcome of one submitted answer.
type GuessResult struct {
	Correct bool
	Answer  string // normalised guess
	Message string
}

// Outcome is the result of a pattern check.
type Outcome struct {
	Matched bool
	Solved  bool
	Code    string // final code, level 4 only
	Message string // empty while unsolved
}

// Option configures a Gate.
type Option func(*Gate)

// WithJournal records guesses and completions.
func WithJournal(r journal.Recorder) Option {
	return func(g *Gate) {
		if r != nil {
			g.journal = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTab tags journal entries with the tab that produced them.
func WithTab(id string) Option {
	return func(g *Gate) { g.tab = id }
}

// Gate reads and writes level progress.
type Gate struct {
	store     store.Store
	questions map[int]riddle.Question
	rules     map[int]*Rule
	journal   journal.Recorder
	logger    *slog.Logger
	tab       string
}

// New returns a Gate over st. questions covers the guessable levels and
// rules the pattern levels.
func New(st store.Store, questions map[int]riddle.Question, rules []*Rule, opts ...Option) *Gate {
	g := &Gate{
		store:     st,
		questions: questions,
		rules:     make(map[int]*Rule, len(rules)),
		journal:   journal.Discard,
		logger:    slog.Default(),
	}
	for _, r := range rules {
		g.rules[r.Level] = r
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete reports whether level's flag is set.
func (g *Gate) Complete(ctx context.Context, level int) (bool, error) {
	v, ok, err := g.store.Get(ctx, CompleteKey(level))
	if err != nil {
		return false, fmt.Errorf("read level %d flag: %w", level, err)
	}
	return ok && v == "true", nil
}

// Answer returns level's accepted answer, if any.
func (g *Gate) Answer(ctx context.Context, level int) (string, error) {
	v, _, err := g.store.Get(ctx, AnswerKey(level))
	if err != nil {
		return "", fmt.Errorf("read level %d answer: %w", level, err)
	}
	return v, nil
}

// Unlocked reports whether level may be entered: level 1 always, any other
// level once its predecessor is complete.
func (g *Gate) Unlocked(ctx context.Context, level int) (bool, error) {
	if level < 1 || level > MaxLevel {
		return false, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	if level == 1 {
		return true, nil
	}
	return g.Complete(ctx, level-1)
}

// LockedMessage is shown when a locked level is chosen.
func LockedMessage(level int) string {
	return fmt.Sprintf("Locked. Complete Level %s first. (Your progress will be saved.)", position(level-1))
}

func position(level int) string {
	if level >= 0 && level < len(positionWords) {
		return positionWords[level]
	}
	return fmt.Sprint(level)
}

// Guess submits raw as the answer to level. A correct guess sets the level's
// flag and stores the normalised answer; a wrong one changes nothing.
func (g *Gate) Guess(ctx context.Context, level int, raw string) (GuessResult, error) {
	q, ok := g.questions[level]
	if !ok {
		return GuessResult{}, fmt.Errorf("%w: no question for level %d", ErrUnknownLevel, level)
	}
	norm, correct := q.Accepts(raw)
	g.journal.Record(journal.Entry{Tab: g.tab, Level: level, Guess: norm, Correct: correct, Event: journal.EventGuess})
	if !correct {
		return GuessResult{Answer: norm, Message: "I am not a " + norm + "."}, nil
	}

	if err := g.store.Set(ctx, AnswerKey(level), norm); err != nil {
		return GuessResult{}, fmt.Errorf("store level %d answer: %w", level, err)
	}
	if err := g.markComplete(ctx, level); err != nil {
		return GuessResult{}, err
	}
	res := GuessResult{Correct: true, Answer: norm}
	switch level {
	case 1:
		res.Message = "Yes! My name is " + norm + ". See you in Level Two."
	case 2:
		res.Message = "Yes! My last name is " + norm + ". Make me appear in Levels Three and Four."
	default:
		res.Message = "Yes! " + norm + " is right."
	}
	return res, nil
}

// Check evaluates level's pattern rule against the merged slot view.
// Callers run it only while the level is on screen. Once a level is complete
// it stays solved whatever the slots show later.
func (g *Gate) Check(ctx context.Context, level int, merged map[string]string) (Outcome, error) {
	rule, ok := g.rules[level]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: no rule for level %d", ErrUnknownLevel, level)
	}
	done, err := g.Complete(ctx, level)
	if err != nil {
		return Outcome{}, err
	}
	if done {
		out, err := g.finish(ctx, level, Outcome{Matched: true})
		if err != nil {
			return Outcome{}, err
		}
		out.Solved = true
		return out, nil
	}

	matched, err := rule.Match(merged)
	if err != nil {
		return Outcome{}, err
	}
	if !matched {
		return Outcome{}, nil
	}
	out, err := g.finish(ctx, level, Outcome{Matched: true})
	if err != nil || !out.Solved {
		return out, err
	}
	if err := g.markComplete(ctx, level); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// finish fills in the success text, deriving the final code on level 4.
// out.Solved is true on return unless the final code cannot be derived.
func (g *Gate) finish(ctx context.Context, level int, out Outcome) (Outcome, error) {
	if level != MaxLevel {
		out.Solved = true
		out.Message = "Success! (For your convenience, this message won't disappear if the fruit changes.)"
		return out, nil
	}
	a1, err := g.Answer(ctx, 1)
	if err != nil {
		return Outcome{}, err
	}
	a2, err := g.Answer(ctx, 2)
	if err != nil {
		return Outcome{}, err
	}
	code, err := riddle.Derive(a1, a2)
	if errors.Is(err, riddle.ErrMissingAnswer) {
		g.logger.Warn("final level matched without stored answers", "tab", g.tab)
		out.Solved = false
		return out, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	out.Solved = true
	out.Code = code
	out.Message = "Success! Congratulations. You have solved the riddles of the " + code + "."
	return out, nil
}

func (g *Gate) markComplete(ctx context.Context, level int) error {
	done, err := g.Complete(ctx, level)
	if err != nil {
		return err
	}
	if err := g.store.Set(ctx, CompleteKey(level), "true"); err != nil {
		return fmt.Errorf("store level %d flag: %w", level, err)
	}
	if !done {
		g.logger.Info("level complete", "tab", g.tab, "level", level)
		g.journal.Record(journal.Entry{Tab: g.tab, Level: level, Correct: true, Event: journal.EventComplete})
	}
	return nil
}
