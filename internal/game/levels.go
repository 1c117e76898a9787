package game

import (
	"context"
	"fmt"

	"quantum-fen/assets"
	"quantum-fen/internal/page"
	"quantum-fen/internal/progress"
	"quantum-fen/internal/slot"
)

// seedSlots names the sequence slot each container starts from.
var seedSlots = map[int]string{
	0: slot.NameSelector,
	1: slot.NameClue,
	2: slot.NameClue2,
}

// GoToLevelSelector shows the selector in place of any level.
func (t *Tab) GoToLevelSelector(ctx context.Context) error {
	return t.show(ctx, 0)
}

// GoToLevel moves to level n when it is unlocked. A locked level leaves the
// selector up and explains what is missing.
func (t *Tab) GoToLevel(ctx context.Context, n int) error {
	ok, err := t.gate.Unlocked(ctx, n)
	if err != nil {
		return err
	}
	if !ok {
		msg := progress.LockedMessage(n)
		t.setResponse(0, msg)
		t.addMessage(msg)
		return nil
	}
	return t.show(ctx, n)
}

// show swaps the shown container, seeds its sequence slot if no tab knows
// it yet and refreshes.
func (t *Tab) show(ctx context.Context, level int) error {
	for _, name := range assets.LevelNames {
		t.page.Hide(name)
	}
	t.page.Show(assets.LevelNames[level])
	t.level = level
	t.page.FocusFirst()
	t.page.ScrollTo(0)

	if name, ok := seedSlots[level]; ok {
		if err := t.session.Seed(ctx, name); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	t.logger.Debug("container shown", "level", level)
	t.Refresh(ctx)
	return nil
}

// activate acts on the focused block: a selector button opens its level, an
// answer input submits its guess.
func (t *Tab) activate(ctx context.Context) error {
	b := t.page.Focused()
	if b == nil {
		return nil
	}
	switch b.Kind {
	case page.KindSlot:
		return t.press(ctx, b)
	case page.KindInput:
		return t.guess(ctx, b.Level, b.Text)
	}
	return nil
}

// press opens the level named by the selector button currently showing.
func (t *Tab) press(ctx context.Context, b *page.Block) error {
	sl, ok := t.registry.Lookup(b.ID)
	if !ok {
		return nil
	}
	idx := sl.Index(b.Text)
	if idx < 0 {
		t.addMessage("Nothing to press until you have seen it.")
		return nil
	}
	return t.GoToLevel(ctx, idx+1)
}

// guess submits text as the answer to level and shows the reply.
func (t *Tab) guess(ctx context.Context, level int, text string) error {
	res, err := t.gate.Guess(ctx, level, text)
	if err != nil {
		return err
	}
	t.setResponse(level, res.Message)
	if res.Correct {
		t.logger.Info("riddle solved", "level", level)
	}
	return nil
}
