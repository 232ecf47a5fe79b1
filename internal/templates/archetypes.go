package templates

import (
	"botpool/internal/model"
	"botpool/pkg/constants"
)

// archetype static class/spec definition. Thirteen classes; each playable
// spec is its own archetype. Gear tiers and action bars are indicative host
// item/spell ids, enough for the host to dress and drive the bot.
type archetype struct {
	classID        uint8
	specID         uint8
	name           string
	role           constants.Role
	healthPerLevel int
	manaPerLevel   int
	gearTiers      []model.GearTier
	actionBars     []uint32
}

var racesA = []uint8{1, 3, 4, 7, 11}
var racesB = []uint8{2, 5, 6, 8, 10}

func tiers(base uint32) []model.GearTier {
	return []model.GearTier{
		{MinItemLevel: 0, ItemIDs: []uint32{base, base + 1, base + 2, base + 3}},
		{MinItemLevel: 150, ItemIDs: []uint32{base + 100, base + 101, base + 102, base + 103}},
		{MinItemLevel: 250, ItemIDs: []uint32{base + 200, base + 201, base + 202, base + 203}},
	}
}

func bars(base uint32) []uint32 {
	return []uint32{base, base + 1, base + 2, base + 3, base + 4, base + 5}
}

var archetypes = []archetype{
	// Warrior
	{classID: 1, specID: 0, name: "warrior-arms", role: constants.RoleDPS, healthPerLevel: 110, gearTiers: tiers(12000), actionBars: bars(100)},
	{classID: 1, specID: 1, name: "warrior-fury", role: constants.RoleDPS, healthPerLevel: 108, gearTiers: tiers(12010), actionBars: bars(110)},
	{classID: 1, specID: 2, name: "warrior-protection", role: constants.RoleTank, healthPerLevel: 130, gearTiers: tiers(12020), actionBars: bars(120)},
	// Paladin
	{classID: 2, specID: 0, name: "paladin-holy", role: constants.RoleHealer, healthPerLevel: 95, manaPerLevel: 80, gearTiers: tiers(12100), actionBars: bars(200)},
	{classID: 2, specID: 1, name: "paladin-protection", role: constants.RoleTank, healthPerLevel: 128, manaPerLevel: 40, gearTiers: tiers(12110), actionBars: bars(210)},
	{classID: 2, specID: 2, name: "paladin-retribution", role: constants.RoleDPS, healthPerLevel: 105, manaPerLevel: 40, gearTiers: tiers(12120), actionBars: bars(220)},
	// Hunter
	{classID: 3, specID: 0, name: "hunter-marksmanship", role: constants.RoleDPS, healthPerLevel: 98, manaPerLevel: 50, gearTiers: tiers(12200), actionBars: bars(300)},
	{classID: 3, specID: 1, name: "hunter-beastmastery", role: constants.RoleDPS, healthPerLevel: 98, manaPerLevel: 50, gearTiers: tiers(12210), actionBars: bars(310)},
	// Rogue
	{classID: 4, specID: 0, name: "rogue-combat", role: constants.RoleDPS, healthPerLevel: 96, gearTiers: tiers(12300), actionBars: bars(400)},
	// Priest
	{classID: 5, specID: 0, name: "priest-discipline", role: constants.RoleHealer, healthPerLevel: 88, manaPerLevel: 95, gearTiers: tiers(12400), actionBars: bars(500)},
	{classID: 5, specID: 1, name: "priest-holy", role: constants.RoleHealer, healthPerLevel: 88, manaPerLevel: 95, gearTiers: tiers(12410), actionBars: bars(510)},
	{classID: 5, specID: 2, name: "priest-shadow", role: constants.RoleDPS, healthPerLevel: 90, manaPerLevel: 90, gearTiers: tiers(12420), actionBars: bars(520)},
	// Death knight
	{classID: 6, specID: 0, name: "deathknight-blood", role: constants.RoleTank, healthPerLevel: 135, gearTiers: tiers(12500), actionBars: bars(600)},
	{classID: 6, specID: 1, name: "deathknight-frost", role: constants.RoleDPS, healthPerLevel: 112, gearTiers: tiers(12510), actionBars: bars(610)},
	// Shaman
	{classID: 7, specID: 0, name: "shaman-elemental", role: constants.RoleDPS, healthPerLevel: 94, manaPerLevel: 85, gearTiers: tiers(12600), actionBars: bars(700)},
	{classID: 7, specID: 1, name: "shaman-restoration", role: constants.RoleHealer, healthPerLevel: 92, manaPerLevel: 92, gearTiers: tiers(12610), actionBars: bars(710)},
	// Mage
	{classID: 8, specID: 0, name: "mage-frost", role: constants.RoleDPS, healthPerLevel: 85, manaPerLevel: 100, gearTiers: tiers(12700), actionBars: bars(800)},
	// Warlock
	{classID: 9, specID: 0, name: "warlock-affliction", role: constants.RoleDPS, healthPerLevel: 88, manaPerLevel: 95, gearTiers: tiers(12800), actionBars: bars(900)},
	// Monk
	{classID: 10, specID: 0, name: "monk-brewmaster", role: constants.RoleTank, healthPerLevel: 126, gearTiers: tiers(12900), actionBars: bars(1000)},
	{classID: 10, specID: 1, name: "monk-mistweaver", role: constants.RoleHealer, healthPerLevel: 92, manaPerLevel: 90, gearTiers: tiers(12910), actionBars: bars(1010)},
	// Druid
	{classID: 11, specID: 0, name: "druid-balance", role: constants.RoleDPS, healthPerLevel: 92, manaPerLevel: 88, gearTiers: tiers(13000), actionBars: bars(1100)},
	{classID: 11, specID: 1, name: "druid-guardian", role: constants.RoleTank, healthPerLevel: 132, manaPerLevel: 40, gearTiers: tiers(13010), actionBars: bars(1110)},
	{classID: 11, specID: 2, name: "druid-restoration", role: constants.RoleHealer, healthPerLevel: 90, manaPerLevel: 92, gearTiers: tiers(13020), actionBars: bars(1120)},
	// Demon hunter
	{classID: 12, specID: 0, name: "demonhunter-havoc", role: constants.RoleDPS, healthPerLevel: 108, gearTiers: tiers(13100), actionBars: bars(1200)},
	{classID: 12, specID: 1, name: "demonhunter-vengeance", role: constants.RoleTank, healthPerLevel: 129, gearTiers: tiers(13110), actionBars: bars(1210)},
	// Evoker
	{classID: 13, specID: 0, name: "evoker-devastation", role: constants.RoleDPS, healthPerLevel: 100, manaPerLevel: 85, gearTiers: tiers(13200), actionBars: bars(1300)},
	{classID: 13, specID: 1, name: "evoker-preservation", role: constants.RoleHealer, healthPerLevel: 96, manaPerLevel: 92, gearTiers: tiers(13210), actionBars: bars(1310)},
}
