package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"quantum-fen/internal/page"
)

// HandleEvent applies one screen event and reports whether the tab should
// close.
func (t *Tab) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
		t.page.Resize(t.renderer.ViewSize())
		t.Refresh(ctx)
	case *tcell.EventFocus:
		t.page.SetVisible(ev.Focused)
		t.Refresh(ctx)
	case *tcell.EventMouse:
		if d := wheelDelta(ev); d != 0 && t.page.Scroll(d) {
			t.Refresh(ctx)
		}
	case *tcell.EventKey:
		return t.handleKey(ctx, ev)
	}
	return false
}

func (t *Tab) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if t.help {
		t.help = false
		return ev.Key() == tcell.KeyCtrlC
	}
	if t.editing {
		return t.handlePromptKey(ctx, ev)
	}

	focused := t.page.Focused()
	typing := focused != nil && focused.Kind == page.KindInput
	action := keyToAction(ev, typing)
	if action == ActionNone && typing {
		switch ev.Key() {
		case tcell.KeyRune:
			focused.Insert(ev.Rune())
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			focused.Backspace()
		}
		return false
	}
	return t.apply(ctx, action)
}

// apply performs action and reports whether the tab should close.
func (t *Tab) apply(ctx context.Context, action Action) bool {
	_, viewH := t.page.Size()
	moved := false
	switch action {
	case ActionScrollUp:
		moved = t.page.Scroll(-1)
	case ActionScrollDown:
		moved = t.page.Scroll(1)
	case ActionPageUp:
		moved = t.page.Scroll(-viewH)
	case ActionPageDown:
		moved = t.page.Scroll(viewH)
	case ActionTop:
		moved = t.page.ScrollTo(0)
	case ActionBottom:
		moved = t.page.ScrollEnd()
	case ActionFocusNext, ActionFocusPrev:
		before := t.page.ScrollOffset()
		t.page.FocusNext(action == ActionFocusPrev)
		moved = t.page.ScrollOffset() != before
	case ActionActivate:
		t.report(t.activate(ctx))
	case ActionBack:
		if t.level != 0 {
			t.report(t.GoToLevelSelector(ctx))
		}
	case ActionCommand:
		t.editing, t.prompt = true, ""
	case ActionHelp:
		t.help = true
	case ActionQuit:
		return true
	}
	if moved {
		t.Refresh(ctx)
	}
	return false
}

func (t *Tab) handlePromptKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		t.editing, t.prompt = false, ""
	case tcell.KeyEnter:
		line := t.prompt
		t.editing, t.prompt = false, ""
		return t.runCommand(ctx, line)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(t.prompt); len(r) > 0 {
			t.prompt = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		t.prompt += string(ev.Rune())
	}
	return false
}

// runCommand executes a prompt line and reports whether the tab should close.
func (t *Tab) runCommand(ctx context.Context, line string) bool {
	cmd, err := ParseCommand(line)
	if err != nil {
		if !errors.Is(err, errEmptyCommand) {
			t.addMessage(err.Error())
		}
		return false
	}
	switch cmd.Verb {
	case VerbLevel:
		t.report(t.GoToLevel(ctx, cmd.Level))
	case VerbGuess:
		if t.level != 1 && t.level != 2 {
			t.addMessage("There is no question to answer here.")
			return false
		}
		t.report(t.guess(ctx, t.level, cmd.Arg))
	case VerbBack:
		t.report(t.GoToLevelSelector(ctx))
	case VerbHelp:
		t.help = true
	case VerbQuit:
		return true
	}
	return false
}

// report logs err and shows it in the status line.
func (t *Tab) report(err error) {
	if err == nil {
		return
	}
	t.logger.Warn("action failed", "error", err)
	t.addMessage(fmt.Sprintf("Error: %v", err))
}
