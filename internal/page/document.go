package page

import (
	"quantum-fen/assets"
	"quantum-fen/internal/slot"
)

// Block IDs of the game document.
const (
	IDSelectorStatus = "selector status"
	IDAnswer1        = "Ans1"
	IDResponse1      = "Response1"
	IDAnswer2        = "Ans2"
	IDResponse2      = "Response2"
	IDChecker3       = "level 3 checker"
	IDChecker4       = "level 4 checker"
)

// ResponseID returns the block that answers a guess or check on level.
func ResponseID(level int) string {
	switch level {
	case 1:
		return IDResponse1
	case 2:
		return IDResponse2
	case 3:
		return IDChecker3
	case 4:
		return IDChecker4
	}
	return IDSelectorStatus
}

// Spacer heights. The gaps are tall enough that a slot can be scrolled out
// of an ordinary terminal and back.
const (
	tailRows   = 48
	rainbowGap = 6
	finalGap   = 12
)

// Standard builds the game document: the level selector and the four level
// containers.
func Standard() (*Page, error) {
	containers := []*Container{
		{
			Name: assets.LevelNames[0],
			Blocks: []*Block{
				{Kind: KindHeading, Text: "Quantum Fen"},
				{Kind: KindText, Text: assets.LevelIntro[0]},
				{Kind: KindSpacer, Rows: 1},
				{ID: slot.NameSelector, Kind: KindSlot, Action: true},
				{ID: IDSelectorStatus, Kind: KindResponse},
				{Kind: KindSpacer, Rows: tailRows},
				{Kind: KindText, Text: "Still here? Scroll back up."},
			},
		},
		riddleLevel(1, slot.NameClue, IDAnswer1, IDResponse1),
		riddleLevel(2, slot.NameClue2, IDAnswer2, IDResponse2),
		rainbowLevel(3, rainbowGap, IDChecker3),
		rainbowLevel(4, finalGap, IDChecker4),
	}
	return New(containers...)
}

func riddleLevel(level int, clue, answer, response string) *Container {
	return &Container{
		Name:  assets.LevelNames[level],
		Level: level,
		Blocks: []*Block{
			{Kind: KindHeading, Text: assets.LevelNames[level]},
			{Kind: KindText, Text: assets.LevelIntro[level]},
			{Kind: KindSpacer, Rows: 1},
			{ID: clue, Kind: KindSlot},
			{Kind: KindSpacer, Rows: 1},
			{ID: answer, Kind: KindInput, Level: level},
			{ID: response, Kind: KindResponse},
			{Kind: KindSpacer, Rows: tailRows},
			{Kind: KindText, Text: "Nothing down here but fog."},
		},
	}
}

func rainbowLevel(level, gap int, checker string) *Container {
	blocks := []*Block{
		{Kind: KindHeading, Text: assets.LevelNames[level]},
		{Kind: KindText, Text: assets.LevelIntro[level]},
		{Kind: KindSpacer, Rows: 1},
	}
	for i, name := range assets.RainbowSlots[level] {
		if i > 0 {
			blocks = append(blocks, &Block{Kind: KindSpacer, Rows: gap})
		}
		blocks = append(blocks, &Block{ID: name, Kind: KindSlot})
	}
	blocks = append(blocks,
		&Block{Kind: KindSpacer, Rows: 1},
		&Block{ID: checker, Kind: KindResponse},
		&Block{Kind: KindSpacer, Rows: tailRows},
	)
	return &Container{Name: assets.LevelNames[level], Level: level, Blocks: blocks}
}
