package assets

import "quantum-fen/internal/riddle"

// AnswerSalt seeds the answer hashes.
const AnswerSalt = 69

// Questions holds the hashed answers for the two guessable levels.
var Questions = map[int]riddle.Question{
	1: {Level: 1, Salt: AnswerSalt, Expected: 2299988651807677},
	2: {Level: 2, Salt: AnswerSalt, Expected: 640892351636463},
}

// SelectorButtons is the level selector slot: one button per level, shown one
// at a time.
var SelectorButtons = []string{
	"[ Level One ]",
	"[ Level Two ]",
	"[ Level Three ]",
	"[ Level Four (Final) ]",
}

// LevelNames are the display names of each level container, indexed by level.
var LevelNames = [5]string{
	"Level Selector",
	"Level One",
	"Level Two",
	"Level Three",
	"Level Four",
}

// LevelIntro is the prose shown at the top of each level container.
var LevelIntro = [5]string{
	"Look around. Nothing here is settled until somebody sees it.",
	"Who am I? Every clue below is true, but you can only read one at a time.",
	"What is my last name? The clue changes when nobody is watching it.",
	"Make me appear. Line the fruit up from top to bottom.",
	"Make me appear again, here.",
}
