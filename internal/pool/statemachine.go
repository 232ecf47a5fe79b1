package pool

import (
	"botpool/pkg/constants"
)

// legalTransitions bounded transition table. Anything not listed is rejected.
//
//	Empty       -> Creating                    factory allocates id
//	Creating    -> Warming                     character record persisted
//	Warming     -> Ready | Empty               login complete / retry budget exhausted
//	Ready       -> Reserved | Assigned | Empty soft-hold / fast-path / retirement
//	Reserved    -> Assigned | Ready            fulfilled / cancelled or expired
//	Assigned    -> Cooldown                    consumer releases
//	Cooldown    -> Ready | Maintenance         cooldown elapsed / anomaly
//	Maintenance -> Ready                       repair complete
var legalTransitions = map[constants.SlotState][]constants.SlotState{
	constants.SlotStateEmpty:    {constants.SlotStateCreating},
	constants.SlotStateCreating: {constants.SlotStateWarming},
	constants.SlotStateWarming:  {constants.SlotStateReady, constants.SlotStateEmpty},
	constants.SlotStateReady: {
		constants.SlotStateReserved,
		constants.SlotStateAssigned,
		constants.SlotStateEmpty,
	},
	constants.SlotStateReserved: {constants.SlotStateAssigned, constants.SlotStateReady},
	constants.SlotStateAssigned: {constants.SlotStateCooldown},
	constants.SlotStateCooldown: {constants.SlotStateReady, constants.SlotStateMaintenance},
	constants.SlotStateMaintenance: {constants.SlotStateReady},
}

// CanTransition reports whether from -> to is a legal lifecycle transition
func CanTransition(from, to constants.SlotState) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
