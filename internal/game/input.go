package game

import "github.com/gdamore/tcell/v2"

// Action represents a player-requested tab action.
type Action uint8

const (
	ActionNone Action = iota
	ActionScrollUp
	ActionScrollDown
	ActionPageUp
	ActionPageDown
	ActionTop
	ActionBottom
	ActionFocusNext
	ActionFocusPrev
	ActionActivate
	ActionBack
	ActionCommand
	ActionHelp
	ActionQuit
)

// keyToAction maps a tcell key event to a tab action. typing is set while an
// answer input has focus, so printable keys are left for the input.
func keyToAction(ev *tcell.EventKey, typing bool) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionScrollUp
	case tcell.KeyDown:
		return ActionScrollDown
	case tcell.KeyPgUp:
		return ActionPageUp
	case tcell.KeyPgDn:
		return ActionPageDown
	case tcell.KeyHome:
		return ActionTop
	case tcell.KeyEnd:
		return ActionBottom
	case tcell.KeyTab:
		return ActionFocusNext
	case tcell.KeyBacktab:
		return ActionFocusPrev
	case tcell.KeyEnter:
		return ActionActivate
	case tcell.KeyEscape:
		return ActionBack
	case tcell.KeyCtrlC:
		return ActionQuit
	}
	if typing || ev.Key() != tcell.KeyRune {
		return ActionNone
	}

	// Rune keys.
	switch ev.Rune() {
	case 'k', 'K':
		return ActionScrollUp
	case 'j', 'J':
		return ActionScrollDown
	case ' ':
		return ActionPageDown
	case 'g':
		return ActionTop
	case 'G':
		return ActionBottom
	case ':':
		return ActionCommand
	case '?':
		return ActionHelp
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// wheelDelta converts a mouse event into a scroll distance.
func wheelDelta(ev *tcell.EventMouse) int {
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		return -wheelStep
	case ev.Buttons()&tcell.WheelDown != 0:
		return wheelStep
	}
	return 0
}

const wheelStep = 3
