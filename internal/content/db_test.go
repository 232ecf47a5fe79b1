package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpool/internal/model"
	"botpool/pkg/constants"
	"botpool/pkg/outcome"
)

func TestBuiltinLookups(t *testing.T) {
	db := NewDB()
	require.Positive(t, db.Count())

	req, err := db.Get(constants.ContentKindDungeon, 574)
	require.NoError(t, err)
	assert.Equal(t, "Utgarde Keep", req.Name)
	assert.Equal(t, model.NewComposition(1, 1, 3), req.Composition)
	assert.Equal(t, 120, req.GearScoreFloor)

	bg, err := db.Get(constants.ContentKindBattleground, 30)
	require.NoError(t, err)
	assert.Equal(t, model.FactionSplit{A: 40, B: 40}, bg.Split)
	assert.True(t, bg.Split.IsPvP())

	arena, err := db.Get(constants.ContentKindArena, 559)
	require.NoError(t, err)
	assert.Equal(t, 2, arena.Composition.Total())
}

func TestUnknownContent(t *testing.T) {
	db := NewDB()

	_, err := db.Get(constants.ContentKindDungeon, 99999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, outcome.ErrUnknownContent))

	// same id under a different kind is a different record
	_, err = db.Get(constants.ContentKindRaid, 574)
	assert.True(t, errors.Is(err, outcome.ErrUnknownContent))
}

func TestCustomRequirements(t *testing.T) {
	db := NewDBWith([]model.Requirement{
		{
			Kind: constants.ContentKindDungeon, ContentID: 1, Name: "Test Hall",
			MinSize: 2, MaxSize: 3,
			Composition:       model.NewComposition(1, 0, 2),
			PreferredBrackets: []constants.Bracket{constants.Bracket60},
		},
	})
	assert.Equal(t, 1, db.Count())

	req, err := db.Get(constants.ContentKindDungeon, 1)
	require.NoError(t, err)
	assert.Equal(t, "Test Hall", req.Name)
	assert.True(t, req.SupportsBracket(constants.Bracket60))
	assert.False(t, req.SupportsBracket(constants.Bracket10))
}

func TestSupportsBracketDefaultsToAll(t *testing.T) {
	req := &model.Requirement{}
	for _, b := range constants.Brackets() {
		assert.True(t, req.SupportsBracket(b))
	}
}
