package constants

// SlotState lifecycle state of a pool slot
type SlotState string

const (
	SlotStateEmpty       SlotState = "EMPTY"       // No bot identity behind the slot
	SlotStateCreating    SlotState = "CREATING"    // Factory allocated an id, character not yet persisted
	SlotStateWarming     SlotState = "WARMING"     // Character persisted, login in progress
	SlotStateReady       SlotState = "READY"       // Logged in, stats populated, assignable
	SlotStateReserved    SlotState = "RESERVED"    // Soft-held by an open reservation
	SlotStateAssigned    SlotState = "ASSIGNED"    // Shipped into a content instance
	SlotStateCooldown    SlotState = "COOLDOWN"    // Post-assignment rest interval
	SlotStateMaintenance SlotState = "MAINTENANCE" // Anomaly detected, awaiting repair
)

func (s SlotState) String() string {
	return string(s)
}
