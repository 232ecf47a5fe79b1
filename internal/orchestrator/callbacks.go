package orchestrator

import (
	"botpool/internal/model"
	"botpool/pkg/constants"
)

// Callbacks consumer-facing notification surface. All callbacks fire on the
// main loop during a tick; consumers must not re-enter the orchestrator with
// blocking work from inside them.
type Callbacks struct {
	// OnBotsAssigned a PvE reservation resolved
	OnBotsAssigned func(ids []model.SlotID)

	// OnBotsAssignedPvP a PvP reservation resolved, both sides at once
	OnBotsAssignedPvP func(a, b []model.SlotID)

	// OnAssignmentFailed a request could not be served
	OnAssignmentFailed func(kind constants.ContentKind, contentID uint32, reason error)

	// OnOverflowNeeded back-pressure signal: the pool came up short and the
	// factory was asked to cover the deficit
	OnOverflowNeeded func(role constants.Role, faction constants.Faction, bracket constants.Bracket, count int)
}

func (c Callbacks) assigned(ids []model.SlotID) {
	if c.OnBotsAssigned != nil {
		c.OnBotsAssigned(ids)
	}
}

func (c Callbacks) assignedPvP(a, b []model.SlotID) {
	if c.OnBotsAssignedPvP != nil {
		c.OnBotsAssignedPvP(a, b)
	}
}

func (c Callbacks) assignmentFailed(kind constants.ContentKind, contentID uint32, reason error) {
	if c.OnAssignmentFailed != nil {
		c.OnAssignmentFailed(kind, contentID, reason)
	}
}

func (c Callbacks) overflowNeeded(role constants.Role, faction constants.Faction, bracket constants.Bracket, count int) {
	if c.OnOverflowNeeded != nil {
		c.OnOverflowNeeded(role, faction, bracket, count)
	}
}
