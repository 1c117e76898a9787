package assets

// Clues is the level-one clue slot. Only the first line is seeded; the rest
// appear when nobody is looking.
var Clues = []string{
	"My name starts with an R.",
	"My name is not man-made.",
	"My name is not solid.",
	"My name is four letters long.",
	"My name moves vertically.",
	"My name ruins plans.",
	"My name is frequently predicted.",
}

// Clues2 is the level-two clue slot.
var Clues2 = []string{
	"My name is a weapon.",
	"My name follows a performance.",
	"My name can be used to play music.",
	"My name is a type of knot.",
}
