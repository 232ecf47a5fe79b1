package model

import (
	"time"

	"botpool/pkg/constants"
)

// SlotID opaque bot identity, stable across the slot's lifetime
type SlotID uint64

// InstanceID host-side content instance identifier
type InstanceID uint64

// ReservationID ledger-issued soft-hold identifier
type ReservationID uint64

// Assignment context populated only while a slot is Reserved or Assigned
type Assignment struct {
	InstanceID    InstanceID              `json:"instance_id"`
	ContentID     uint32                  `json:"content_id"`
	Kind          constants.ContentKind   `json:"kind,omitempty"`
	ReservationID ReservationID           `json:"reservation_id"`
	Requester     string                  `json:"requester,omitempty"` // Human who triggered the request, empty for pure-bot fills
	TargetLevel   int                     `json:"target_level"`
}

// Clear resets the assignment context to its zero value
func (a *Assignment) Clear() {
	*a = Assignment{}
}

// SlotStats lifetime aggregate counters
type SlotStats struct {
	TotalAssignments uint32        `json:"total_assignments"`
	TotalAssigned    time.Duration `json:"total_assigned"`
	Completions      uint32        `json:"completions"`
	EarlyExits       uint32        `json:"early_exits"`
}

// SuccessRate completions over assignments, 0 for an untested slot
func (s SlotStats) SuccessRate() float64 {
	if s.TotalAssignments == 0 {
		return 0
	}
	return float64(s.Completions) / float64(s.TotalAssignments)
}

// Slot authoritative per-bot lifecycle record. The pool store owns all Slot
// values; every other component refers to slots by id and reads projections.
type Slot struct {
	// Identity
	ID        SlotID `json:"id"`
	AccountID string `json:"account_id"` // External account id issued at creation
	Name      string `json:"name"`

	// Classification, immutable once Creating completes
	Role    constants.Role    `json:"role"`
	Faction constants.Faction `json:"faction"`
	ClassID uint8             `json:"class_id"`
	SpecID  uint8             `json:"spec_id"`
	Bracket constants.Bracket `json:"bracket"`

	// Stats, populated during warmup
	Level     int `json:"level"`
	GearScore int `json:"gear_score"`
	MaxHealth int `json:"max_health"`
	MaxMana   int `json:"max_mana"`

	// State
	State constants.SlotState `json:"state"`

	// Time points
	LastStateChange     time.Time `json:"last_state_change"`
	LastAssignmentStart time.Time `json:"last_assignment_start"`
	LastAssignmentEnd   time.Time `json:"last_assignment_end"`

	Assignment Assignment `json:"assignment"`
	Stats      SlotStats  `json:"stats"`
}

// CooldownRemaining time left before a cooled slot may return to Ready.
// Monotonically non-increasing within Cooldown until it reaches zero.
func (s *Slot) CooldownRemaining(cooldown time.Duration, now time.Time) time.Duration {
	if s.State != constants.SlotStateCooldown {
		return 0
	}
	remaining := cooldown - now.Sub(s.LastStateChange)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsAvailable reports whether the slot can be handed to a request right now
func (s *Slot) IsAvailable() bool {
	return s.State == constants.SlotStateReady
}

// TimeSinceLastAssignment time since the slot last left an instance; a slot
// that never served reports the time since it entered the pool.
func (s *Slot) TimeSinceLastAssignment(now time.Time) time.Duration {
	if s.LastAssignmentEnd.IsZero() {
		return now.Sub(s.LastStateChange)
	}
	return now.Sub(s.LastAssignmentEnd)
}
