package pool

import "botpool/pkg/constants"

// bracketCounters denormalized counts mirroring the ready index and store,
// kept in lock-step with transitions so capacity predicates never traverse.
type bracketCounters struct {
	ready      [constants.NumBrackets][constants.NumFactions][constants.NumRoles]uint32
	readyTotal [constants.NumBrackets][constants.NumFactions]uint32
	capacity   [constants.NumBrackets][constants.NumFactions]uint32
}

func (bc *bracketCounters) readyAdd(coord indexCoord, delta int32) {
	bc.ready[coord.Bracket][coord.Faction][coord.Role] = addU32(bc.ready[coord.Bracket][coord.Faction][coord.Role], delta)
	bc.readyTotal[coord.Bracket][coord.Faction] = addU32(bc.readyTotal[coord.Bracket][coord.Faction], delta)
}

func (bc *bracketCounters) capacityAdd(bracket constants.Bracket, faction constants.Faction, delta int32) {
	bc.capacity[bracket][faction] = addU32(bc.capacity[bracket][faction], delta)
}

func (bc *bracketCounters) readyCount(coord indexCoord) uint32 {
	return bc.ready[coord.Bracket][coord.Faction][coord.Role]
}

func (bc *bracketCounters) reset() {
	*bc = bracketCounters{}
}

// addU32 saturating signed add; counters never wrap below zero
func addU32(v uint32, delta int32) uint32 {
	if delta >= 0 {
		return v + uint32(delta)
	}
	d := uint32(-delta)
	if d > v {
		return 0
	}
	return v - d
}
