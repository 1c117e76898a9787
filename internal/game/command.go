package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Command verbs understood by the ':' prompt.
const (
	VerbLevel = "level"
	VerbGuess = "guess"
	VerbBack  = "back"
	VerbHelp  = "help"
	VerbQuit  = "quit"
)

var verbs = []string{VerbLevel, VerbGuess, VerbBack, VerbHelp, VerbQuit}

// maxTypos is how far a typed verb may be from a real one.
const maxTypos = 2

var errEmptyCommand = errors.New("empty command")

// Command is a parsed prompt line.
type Command struct {
	Verb  string
	Arg   string
	Level int // VerbLevel only
}

// ParseCommand splits line into a verb and its argument. Verbs are matched
// fuzzily; a tie between two verbs is an error.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errEmptyCommand
	}
	verb, err := matchVerb(strings.ToLower(fields[0]))
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: verb, Arg: strings.Join(fields[1:], " ")}
	switch verb {
	case VerbLevel:
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return Command{}, fmt.Errorf("level wants a number, got %q", cmd.Arg)
		}
		cmd.Level = n
	case VerbGuess:
		if cmd.Arg == "" {
			return Command{}, errors.New("guess what?")
		}
	}
	return cmd, nil
}

func matchVerb(word string) (string, error) {
	best, bestDist, tied := "", maxTypos+1, false
	for _, v := range verbs {
		if v == word {
			return v, nil
		}
		if strings.HasPrefix(v, word) && len(word) >= 2 {
			return v, nil
		}
		d := levenshtein.ComputeDistance(word, v)
		switch {
		case d < bestDist:
			best, bestDist, tied = v, d, false
		case d == bestDist:
			tied = true
		}
	}
	if best == "" || tied {
		return "", fmt.Errorf("unknown command %q (try help)", word)
	}
	return best, nil
}

// helpLines is the body of the help overlay.
var helpLines = []string{
	"── Moving around ─────────────────────",
	"  ↑ ↓ / j k           Scroll a line",
	"  PgUp PgDn / Space   Scroll a page",
	"  Home End / g G      Top / bottom",
	"  Mouse wheel         Scroll",
	"",
	"── Acting ────────────────────────────",
	"  Tab / Shift-Tab     Next / previous",
	"  Enter               Press / submit",
	"  Esc                 Level selector",
	"",
	"── Commands (:) ──────────────────────",
	"  level N  guess TEXT  back  help  quit",
	"",
	"  Nothing is decided until it is seen.",
	"  [any key to close]",
}
