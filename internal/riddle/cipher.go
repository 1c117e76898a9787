package riddle

import (
	"errors"
	"strings"
)

// ErrMissingAnswer is returned by Derive when either answer is empty.
var ErrMissingAnswer = errors.New("riddle: both answers are required")

// shifts is added to each code point of the joined answers, cycling.
var shifts = [...]int{1, 15, -1, -5, 12, -8, -18}

// Derive joins a1 and a2, repeats the first character at the end, shifts every
// code point by the repeating delta table and upper-cases the result.
func Derive(a1, a2 string) (string, error) {
	if a1 == "" || a2 == "" {
		return "", ErrMissingAnswer
	}
	chars := []rune(a1 + a2)
	chars = append(chars, chars[0])
	for i, r := range chars {
		chars[i] = r + rune(shifts[i%len(shifts)])
	}
	return strings.ToUpper(string(chars)), nil
}
