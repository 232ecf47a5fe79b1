package templates

import (
	"fmt"

	"github.com/google/uuid"

	"botpool/internal/model"
	"botpool/pkg/constants"
)

// RollSeed fabricates a bot seed for a (role, faction, bracket) slice by
// cloning the next eligible archetype. Safe to call from the factory worker;
// it touches only atomic cursors and fresh values.
func (r *Repository) RollSeed(role constants.Role, faction constants.Faction, bracket constants.Bracket) (model.BotSeed, error) {
	return r.RollSeedGeared(role, faction, bracket, 0)
}

// RollSeedGeared rolls a seed whose gear score clears minGear, dressing the
// bot from the cheapest gear tier that meets the floor. Zero minGear keeps
// the bracket's baseline gear.
func (r *Repository) RollSeedGeared(role constants.Role, faction constants.Faction, bracket constants.Bracket, minGear int) (model.BotSeed, error) {
	t := r.PickForRole(role, faction)
	if t == nil {
		return model.BotSeed{}, fmt.Errorf("no archetype fills role %s for faction %s", role, faction)
	}

	level := rollLevel(bracket)
	gear := level * 2
	if gear < minGear {
		gear = tierGear(t, minGear)
	}
	accountID := uuid.NewString()
	return model.BotSeed{
		AccountID: accountID,
		Name:      fmt.Sprintf("bot-%s-%s", role, accountID[:8]),
		Role:      role,
		Faction:   faction,
		ClassID:   t.ClassID,
		SpecID:    t.SpecID,
		Bracket:   bracket,
		Level:     level,
		GearScore: gear,
		MaxHealth: t.BaseHealthPerLevel * level,
		MaxMana:   t.BaseManaPerLevel * level,
	}, nil
}

// tierGear the floor of the cheapest gear tier meeting minGear; when no tier
// reaches it the requirement itself is the score.
func tierGear(t *model.Template, minGear int) int {
	for _, tier := range t.GearTiers {
		if tier.MinItemLevel >= minGear {
			return tier.MinItemLevel
		}
	}
	return minGear
}

// rollLevel bots are rolled at the top of their bracket; the cap bracket
// rolls at the cap itself.
func rollLevel(bracket constants.Bracket) int {
	if bracket == constants.Bracket80 {
		return bracket.MinLevel()
	}
	return bracket.MaxLevel()
}
