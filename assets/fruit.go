package assets

// Fruit glyphs drawn by the quantum slots on levels three and four.
const (
	GlyphApple       = "🍎"
	GlyphTangerine   = "🍊"
	GlyphLemon       = "🍋"
	GlyphAvocado     = "🥑"
	GlyphBlueberries = "🫐"
	GlyphEggplant    = "🍆"
)

// Rainbow is the fruit palette in the order the level checkers look for:
// red, orange, yellow, green, blue, violet.
var Rainbow = []string{
	GlyphApple,
	GlyphTangerine,
	GlyphLemon,
	GlyphAvocado,
	GlyphBlueberries,
	GlyphEggplant,
}

// RainbowSlots are the slot names whose fruit must line up per level.
var RainbowSlots = map[int][]string{
	3: {"C1", "C2", "C3", "C4", "C5", "C6"},
	4: {"D1", "D2", "D3", "D4", "D5", "D6"},
}
