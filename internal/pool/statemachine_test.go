package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"botpool/pkg/constants"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]constants.SlotState]bool{
		{constants.SlotStateEmpty, constants.SlotStateCreating}:       true,
		{constants.SlotStateCreating, constants.SlotStateWarming}:     true,
		{constants.SlotStateWarming, constants.SlotStateReady}:        true,
		{constants.SlotStateWarming, constants.SlotStateEmpty}:        true,
		{constants.SlotStateReady, constants.SlotStateReserved}:       true,
		{constants.SlotStateReady, constants.SlotStateAssigned}:       true,
		{constants.SlotStateReady, constants.SlotStateEmpty}:          true,
		{constants.SlotStateReserved, constants.SlotStateAssigned}:    true,
		{constants.SlotStateReserved, constants.SlotStateReady}:       true,
		{constants.SlotStateAssigned, constants.SlotStateCooldown}:    true,
		{constants.SlotStateCooldown, constants.SlotStateReady}:       true,
		{constants.SlotStateCooldown, constants.SlotStateMaintenance}: true,
		{constants.SlotStateMaintenance, constants.SlotStateReady}:    true,
	}

	states := []constants.SlotState{
		constants.SlotStateEmpty, constants.SlotStateCreating, constants.SlotStateWarming,
		constants.SlotStateReady, constants.SlotStateReserved, constants.SlotStateAssigned,
		constants.SlotStateCooldown, constants.SlotStateMaintenance,
	}

	// exhaustive: everything not in the table is illegal
	for _, from := range states {
		for _, to := range states {
			want := allowed[[2]constants.SlotState{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestUnknownStateHasNoTransitions(t *testing.T) {
	assert.False(t, CanTransition(constants.SlotState("BOGUS"), constants.SlotStateReady))
}
