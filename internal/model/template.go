package model

import "botpool/pkg/constants"

// GearTier one serialized gear set, applicable from MinItemLevel upward
type GearTier struct {
	MinItemLevel int      `json:"min_item_level"`
	ItemIDs      []uint32 `json:"item_ids"`
}

// Template read-only class/spec/faction archetype. Built once at process
// start from static tables, never mutated afterwards; the repository hands
// out pointers and relies on callers not writing through them.
type Template struct {
	ClassID uint8             `json:"class_id"`
	SpecID  uint8             `json:"spec_id"`
	Faction constants.Faction `json:"faction"`
	Role    constants.Role    `json:"role"`

	GearTiers    []GearTier `json:"gear_tiers"`
	TalentBuild  string     `json:"talent_build"` // Serialized talent string, host-side format
	ActionBars   []uint32   `json:"action_bars"`  // Spell ids laid out on the bars
	AllowedRaces []uint8    `json:"allowed_races"`

	// Base stats per level used to seed a freshly warmed bot
	BaseHealthPerLevel int `json:"base_health_per_level"`
	BaseManaPerLevel   int `json:"base_mana_per_level"`
}

// GearFor picks the highest tier whose floor the target item level clears
func (t *Template) GearFor(itemLevel int) *GearTier {
	var best *GearTier
	for i := range t.GearTiers {
		tier := &t.GearTiers[i]
		if itemLevel >= tier.MinItemLevel && (best == nil || tier.MinItemLevel > best.MinItemLevel) {
			best = tier
		}
	}
	return best
}
