// Package riddle checks free-text answers against hashed secrets and derives
// the final code from two accepted answers.
package riddle

import (
	"strings"
	"unicode/utf16"
)

// MaxHash is the exclusive upper bound of Hash results (2^53).
const MaxHash uint64 = 1 << 53

// Normalize lower-cases s and drops everything outside [a-z0-9].
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Hash is a 53-bit cyrb53 mix of s seeded by seed. Characters are consumed as
// UTF-16 code units so results match the hashes baked into the questions.
func Hash(s string, seed uint32) uint64 {
	h1 := uint32(0xdeadbeef) ^ seed
	h2 := uint32(0x41c6ce57) ^ seed
	for _, ch := range utf16.Encode([]rune(s)) {
		h1 = (h1 ^ uint32(ch)) * 2654435761
		h2 = (h2 ^ uint32(ch)) * 1597334677
	}
	h1 = (h1 ^ (h1 >> 16)) * 2246822507
	h1 ^= (h2 ^ (h2 >> 13)) * 3266489909
	h2 = (h2 ^ (h2 >> 16)) * 2246822507
	h2 ^= (h1 ^ (h1 >> 13)) * 3266489909

	return uint64(h2&0x1fffff)<<32 | uint64(h1)
}

// Verify normalises candidate and hashes it with salt.
func Verify(candidate string, salt uint32) uint64 {
	return Hash(Normalize(candidate), salt)
}

// Question is one guessable riddle: a guess is accepted when its normalised
// hash equals Expected.
type Question struct {
	Level    int
	Salt     uint32
	Expected uint64
}

// Accepts reports whether guess answers q, returning the normalised guess
// either way.
func (q Question) Accepts(guess string) (string, bool) {
	norm := Normalize(guess)
	return norm, Hash(norm, q.Salt) == q.Expected
}
