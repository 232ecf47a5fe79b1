package factory

import (
	"sync/atomic"

	"github.com/Workiva/go-datastructures/queue"

	"botpool/internal/model"
	"botpool/pkg/constants"
)

// Priority dispatch urgency class. Lower values are served first.
type Priority int

const (
	// PriorityNearExpiry the request blocks a reservation whose deadline is
	// close
	PriorityNearExpiry Priority = iota
	// PriorityLargeContent large rosters (40v40 battlegrounds and the like)
	PriorityLargeContent
	// PriorityBackground pool replenishment
	PriorityBackground
)

func (p Priority) String() string {
	switch p {
	case PriorityNearExpiry:
		return "NEAR_EXPIRY"
	case PriorityLargeContent:
		return "LARGE_CONTENT"
	default:
		return "BACKGROUND"
	}
}

// ProgressFunc invoked on the main loop as batch chunks land, at a
// granularity of at least 10% of the batch
type ProgressFunc func(done, total int)

// CompleteFunc invoked on the main loop once the batch finishes. delivered
// lists the slot ids that entered the pool on the request's behalf; residue
// is the undelivered remainder.
type CompleteFunc func(delivered []model.SlotID, residue int)

// Request one fabrication order for the JIT factory
type Request struct {
	ID      uint64
	Role    constants.Role
	Faction constants.Faction
	Bracket constants.Bracket
	Count   int

	// MinGearScore gear floor of the content waiting on the batch; fabricated
	// bots are dressed to clear it. Zero keeps the bracket baseline.
	MinGearScore int

	Priority      Priority
	ReservationID model.ReservationID // 0 for background replenishment

	Progress ProgressFunc
	Complete CompleteFunc

	seq       uint64
	cancelled atomic.Bool

	// integration bookkeeping, main loop only
	delivered []model.SlotID
}

// Cancelled reports whether the consumer withdrew the request
func (r *Request) Cancelled() bool {
	return r.cancelled.Load()
}

// Compare orders requests by priority class, then FIFO within a class.
// Implements queue.Item; the priority queue serves the smallest item first.
func (r *Request) Compare(other queue.Item) int {
	o := other.(*Request)
	if r.Priority != o.Priority {
		if r.Priority < o.Priority {
			return -1
		}
		return 1
	}
	switch {
	case r.seq < o.seq:
		return -1
	case r.seq > o.seq:
		return 1
	default:
		return 0
	}
}
