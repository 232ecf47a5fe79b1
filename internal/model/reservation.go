package model

import (
	"time"

	"botpool/pkg/constants"
)

// Reservation a time-bounded soft-hold associating a set of slots with a
// pending content instance. The ledger exclusively owns Reservation values.
type Reservation struct {
	ID          ReservationID         `json:"id"`
	ExternalID  string                `json:"external_id"` // UUID handed to consumers for correlation
	Kind        constants.ContentKind `json:"kind"`
	ContentID   uint32                `json:"content_id"`
	TargetLevel int                   `json:"target_level"`
	Requester   string                `json:"requester,omitempty"`

	// Composition requested per faction. Single-faction requests populate
	// only their side.
	Required [constants.NumFactions]Composition `json:"required"`

	// Held slot ids currently soft-held, all in state Reserved
	Held []SlotID `json:"held"`

	CreatedAt time.Time                   `json:"created_at"`
	Deadline  time.Time                   `json:"deadline"`
	Status    constants.ReservationStatus `json:"status"`
}

// Holds reports whether the reservation currently holds the slot
func (r *Reservation) Holds(id SlotID) bool {
	for _, held := range r.Held {
		if held == id {
			return true
		}
	}
	return false
}

// Drop removes a slot from the held set, preserving order of the rest
func (r *Reservation) Drop(id SlotID) bool {
	for i, held := range r.Held {
		if held == id {
			r.Held = append(r.Held[:i], r.Held[i+1:]...)
			return true
		}
	}
	return false
}

// RequiredTotal full roster size across factions
func (r *Reservation) RequiredTotal() int {
	total := 0
	for _, comp := range r.Required {
		total += comp.Total()
	}
	return total
}

// Complete reports whether the held set covers the full requirement
func (r *Reservation) Complete() bool {
	return len(r.Held) >= r.RequiredTotal()
}

// Expired reports whether the deadline has passed
func (r *Reservation) Expired(now time.Time) bool {
	return now.After(r.Deadline)
}
