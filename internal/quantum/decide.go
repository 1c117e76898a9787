package quantum

import "math/rand"

// Action is what a refresh does to one slot.
type Action uint8

const (
	// Keep leaves the slot as it is: nobody knows it and nobody is looking.
	Keep Action = iota
	// Adopt copies the globally known value.
	Adopt
	// Collapse assigns a fresh palette value.
	Collapse
)

func (a Action) String() string {
	switch a {
	case Keep:
		return "keep"
	case Adopt:
		return "adopt"
	case Collapse:
		return "collapse"
	}
	return "unknown"
}

// RetryPolicy bounds the re-roll that keeps a fresh collapse from landing on
// the value that was showing before. It is cosmetic: it does not stop two
// slots, or two separate collapses, from showing the same value.
type RetryPolicy struct {
	MaxAttempts int
}

// DefaultRetryPolicy is used when a Session is built without one.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 32}

// Input is everything Decide needs to know about one slot.
type Input struct {
	Palette  []string
	Current  string // value displayed before this refresh
	Known    string // merged global value, when HasKnown
	HasKnown bool
	Observed bool // in view in this tab while the page is visible
}

// Choice is the outcome of Decide.
type Choice struct {
	Action Action
	Value  string
}

// Changed reports whether applying c alters the displayed value.
func (c Choice) Changed(current string) bool {
	return c.Action != Keep && c.Value != current
}

// Decide picks the value for one slot without touching any store or screen.
func Decide(in Input, rng *rand.Rand, policy RetryPolicy) Choice {
	if in.HasKnown {
		return Choice{Action: Adopt, Value: in.Known}
	}
	if !in.Observed || len(in.Palette) == 0 {
		return Choice{Action: Keep, Value: in.Current}
	}
	return Choice{Action: Collapse, Value: pickDifferent(in.Palette, in.Current, rng, policy)}
}

// pickDifferent draws uniformly from palette, retrying while the draw equals
// prior. Once the attempts run out it falls back to the first entry that
// differs from prior, or to the last draw when every entry equals prior.
func pickDifferent(palette []string, prior string, rng *rand.Rand, policy RetryPolicy) string {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var pick string
	for i := 0; i < attempts; i++ {
		pick = palette[rng.Intn(len(palette))]
		if pick != prior {
			return pick
		}
	}
	for _, v := range palette {
		if v != prior {
			return v
		}
	}
	return pick
}
