package ssh

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// DefaultTerm is used when the client sends no TERM or an unknown one.
const DefaultTerm = "xterm-256color"

// allowedTerms are the terminal types a client may ask for. Anything else
// falls back to DefaultTerm so a client cannot point terminfo at arbitrary
// names.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
	"alacritty":             true,
}

// ErrNoPTY is returned for sessions that did not request a terminal.
var ErrNoPTY = errors.New("ssh: session has no PTY")

// Term picks the terminal type for a session from its pty request, then its
// environment.
func Term(pty gossh.Pty, environ []string) string {
	if allowedTerms[pty.Term] {
		return pty.Term
	}
	for _, env := range environ {
		if v, ok := strings.CutPrefix(env, "TERM="); ok && allowedTerms[v] {
			return v
		}
	}
	return DefaultTerm
}

// termMu serialises the TERM swap around screen creation; terminfo lookup
// reads the process environment.
var termMu sync.Mutex

// NewScreen creates and initialises a tcell screen drawing to s.
func NewScreen(s gossh.Session) (tcell.Screen, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPTY
	}
	tty := NewSessionTty(s, pty, winCh)

	termMu.Lock()
	prev, had := os.LookupEnv("TERM")
	_ = os.Setenv("TERM", Term(pty, s.Environ()))
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	if had {
		_ = os.Setenv("TERM", prev)
	} else {
		_ = os.Unsetenv("TERM")
	}
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}
