package content

import (
	"botpool/internal/model"
	"botpool/pkg/constants"
)

// builtinRequirements the stock content table. Content ids are host map ids.
var builtinRequirements = []model.Requirement{
	// Dungeons: 1 tank, 1 healer, 3 dps
	{
		Kind: constants.ContentKindDungeon, ContentID: 36, Name: "The Deadmines",
		MinSize: 3, MaxSize: 5,
		Composition:       model.NewComposition(1, 1, 3),
		PreferredBrackets: []constants.Bracket{constants.Bracket10, constants.Bracket20},
	},
	{
		Kind: constants.ContentKindDungeon, ContentID: 34, Name: "The Stockade",
		MinSize: 3, MaxSize: 5,
		Composition:       model.NewComposition(1, 1, 3),
		PreferredBrackets: []constants.Bracket{constants.Bracket20, constants.Bracket30},
	},
	{
		Kind: constants.ContentKindDungeon, ContentID: 329, Name: "Stratholme",
		MinSize: 3, MaxSize: 5,
		Composition:       model.NewComposition(1, 1, 3),
		PreferredBrackets: []constants.Bracket{constants.Bracket50, constants.Bracket60},
		GearScoreFloor:    80,
	},
	{
		Kind: constants.ContentKindDungeon, ContentID: 574, Name: "Utgarde Keep",
		MinSize: 3, MaxSize: 5,
		Composition:       model.NewComposition(1, 1, 3),
		PreferredBrackets: []constants.Bracket{constants.Bracket70, constants.Bracket80},
		GearScoreFloor:    120,
	},

	// Raids
	{
		Kind: constants.ContentKindRaid, ContentID: 409, Name: "Molten Core",
		MinSize: 25, MaxSize: 40,
		Composition:       model.NewComposition(4, 10, 26),
		PreferredBrackets: []constants.Bracket{constants.Bracket60},
		GearScoreFloor:    100,
	},
	{
		Kind: constants.ContentKindRaid, ContentID: 533, Name: "Naxxramas",
		MinSize: 10, MaxSize: 25,
		Composition:       model.NewComposition(3, 6, 16),
		PreferredBrackets: []constants.Bracket{constants.Bracket80},
		GearScoreFloor:    180,
	},
	{
		Kind: constants.ContentKindRaid, ContentID: 603, Name: "Ulduar",
		MinSize: 10, MaxSize: 10,
		Composition:       model.NewComposition(2, 2, 6),
		PreferredBrackets: []constants.Bracket{constants.Bracket80},
		GearScoreFloor:    200,
	},

	// Battlegrounds: composition is per team; split is the team size pair
	{
		Kind: constants.ContentKindBattleground, ContentID: 489, Name: "Warsong Gulch",
		MinSize: 6, MaxSize: 20,
		Composition: model.NewComposition(1, 2, 7),
		Split:       model.FactionSplit{A: 10, B: 10},
	},
	{
		Kind: constants.ContentKindBattleground, ContentID: 529, Name: "Arathi Basin",
		MinSize: 10, MaxSize: 30,
		Composition: model.NewComposition(1, 3, 11),
		Split:       model.FactionSplit{A: 15, B: 15},
	},
	{
		Kind: constants.ContentKindBattleground, ContentID: 30, Name: "Alterac Valley",
		MinSize: 20, MaxSize: 80,
		Composition:       model.NewComposition(4, 10, 26),
		Split:             model.FactionSplit{A: 40, B: 40},
		PreferredBrackets: []constants.Bracket{constants.Bracket50, constants.Bracket60, constants.Bracket70, constants.Bracket80},
	},
	{
		Kind: constants.ContentKindBattleground, ContentID: 566, Name: "Eye of the Storm",
		MinSize: 10, MaxSize: 30,
		Composition:       model.NewComposition(1, 3, 11),
		Split:             model.FactionSplit{A: 15, B: 15},
		PreferredBrackets: []constants.Bracket{constants.Bracket60, constants.Bracket70, constants.Bracket80},
	},

	// Arenas: flat dps teams, any bracket
	{
		Kind: constants.ContentKindArena, ContentID: 559, Name: "Nagrand Arena 2v2",
		MinSize: 2, MaxSize: 4,
		Composition: model.NewComposition(0, 0, 2),
		Split:       model.FactionSplit{A: 2, B: 2},
	},
	{
		Kind: constants.ContentKindArena, ContentID: 562, Name: "Blade's Edge 3v3",
		MinSize: 3, MaxSize: 6,
		Composition: model.NewComposition(0, 1, 2),
		Split:       model.FactionSplit{A: 3, B: 3},
	},
	{
		Kind: constants.ContentKindArena, ContentID: 572, Name: "Ruins of Lordaeron 5v5",
		MinSize: 5, MaxSize: 10,
		Composition: model.NewComposition(1, 1, 3),
		Split:       model.FactionSplit{A: 5, B: 5},
	},
}
