package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpool/pkg/constants"
)

func TestRepositoryCoversEveryRoleAndFaction(t *testing.T) {
	r := NewRepository()
	require.Positive(t, r.Count())

	for _, role := range constants.Roles() {
		for _, faction := range constants.Factions() {
			tpl := r.PickForRole(role, faction)
			require.NotNil(t, tpl, "no archetype fills %s/%s", role, faction)
			assert.Equal(t, role, tpl.Role)
			assert.Equal(t, faction, tpl.Faction)
			assert.NotEmpty(t, tpl.AllowedRaces)
			assert.Positive(t, tpl.BaseHealthPerLevel)
		}
	}
}

func TestPickForRoleRotates(t *testing.T) {
	r := NewRepository()

	first := r.PickForRole(constants.RoleDPS, constants.FactionA)
	second := r.PickForRole(constants.RoleDPS, constants.FactionA)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second, "successive picks should rotate archetypes")

	// the ring wraps: walking it far enough returns to the start
	start := r.PickForRole(constants.RoleTank, constants.FactionB)
	ringSize := 1
	for {
		next := r.PickForRole(constants.RoleTank, constants.FactionB)
		if next == start {
			break
		}
		ringSize++
		require.Less(t, ringSize, 100, "ring never wrapped")
	}
	assert.Positive(t, ringSize)
}

func TestGetByClassSpec(t *testing.T) {
	r := NewRepository()
	tpl := r.PickForRole(constants.RoleHealer, constants.FactionA)
	require.NotNil(t, tpl)

	got, ok := r.Get(tpl.ClassID, tpl.SpecID, constants.FactionA)
	require.True(t, ok)
	assert.Same(t, tpl, got)

	_, ok = r.Get(200, 200, constants.FactionA)
	assert.False(t, ok)
}

func TestRollSeedShape(t *testing.T) {
	r := NewRepository()

	seed, err := r.RollSeed(constants.RoleTank, constants.FactionB, constants.Bracket60)
	require.NoError(t, err)

	assert.Equal(t, constants.RoleTank, seed.Role)
	assert.Equal(t, constants.FactionB, seed.Faction)
	assert.Equal(t, constants.Bracket60, seed.Bracket)
	assert.Equal(t, 69, seed.Level, "bots roll at the top of their bracket")
	assert.Equal(t, seed.Level*2, seed.GearScore)
	assert.Positive(t, seed.MaxHealth)
	assert.NotEmpty(t, seed.AccountID)
	assert.Contains(t, seed.Name, "bot-TANK-")
	assert.True(t, constants.Bracket60.Contains(seed.Level))
}

func TestRollSeedCapBracket(t *testing.T) {
	r := NewRepository()
	seed, err := r.RollSeed(constants.RoleDPS, constants.FactionA, constants.Bracket80)
	require.NoError(t, err)
	assert.Equal(t, 80, seed.Level)
}

func TestRollSeedGearedMeetsFloor(t *testing.T) {
	r := NewRepository()

	// baseline gear already clears a low floor and is kept
	seed, err := r.RollSeedGeared(constants.RoleDPS, constants.FactionA, constants.Bracket60, 120)
	require.NoError(t, err)
	assert.Equal(t, seed.Level*2, seed.GearScore)

	// a floor above baseline dresses the bot from the next gear tier up
	seed, err = r.RollSeedGeared(constants.RoleTank, constants.FactionA, constants.Bracket80, 200)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seed.GearScore, 200)
	assert.Equal(t, 250, seed.GearScore, "tiers run 0/150/250; 250 is the cheapest one clearing 200")

	seed, err = r.RollSeedGeared(constants.RoleHealer, constants.FactionB, constants.Bracket80, 180)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seed.GearScore, 180)
}

func TestRollSeedDistinctAccounts(t *testing.T) {
	r := NewRepository()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seed, err := r.RollSeed(constants.RoleDPS, constants.FactionA, constants.Bracket70)
		require.NoError(t, err)
		assert.False(t, seen[seed.AccountID], "account ids must be unique")
		seen[seed.AccountID] = true
	}
}
