package constants

// ContentKind the four request families the orchestrator distinguishes
type ContentKind string

const (
	ContentKindDungeon      ContentKind = "DUNGEON"
	ContentKindRaid         ContentKind = "RAID"
	ContentKindBattleground ContentKind = "BATTLEGROUND"
	ContentKindArena        ContentKind = "ARENA"
)

func (k ContentKind) String() string {
	return string(k)
}

// Valid reports whether k is a known content kind
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindDungeon, ContentKindRaid, ContentKindBattleground, ContentKindArena:
		return true
	}
	return false
}

// ReleaseOutcome how an assignment ended
type ReleaseOutcome string

const (
	ReleaseOutcomeSuccess   ReleaseOutcome = "SUCCESS"
	ReleaseOutcomeEarlyExit ReleaseOutcome = "EARLY_EXIT"
)

func (o ReleaseOutcome) String() string {
	return string(o)
}

// ReservationStatus fulfillment status of a reservation
type ReservationStatus string

const (
	ReservationStatusOpen            ReservationStatus = "OPEN"
	ReservationStatusPartiallyFilled ReservationStatus = "PARTIALLY_FILLED"
	ReservationStatusFulfilled       ReservationStatus = "FULFILLED"
	ReservationStatusExpired         ReservationStatus = "EXPIRED"
	ReservationStatusCancelled       ReservationStatus = "CANCELLED"
)

func (s ReservationStatus) String() string {
	return string(s)
}

// Open reports whether the reservation still holds its slots
func (s ReservationStatus) Open() bool {
	return s == ReservationStatusOpen || s == ReservationStatusPartiallyFilled
}
