// Package reservation tracks soft-holds on pool slots for pending content.
// A reservation papers over the latency between "the system decided which
// bots will go" and "the system actually ships them into an instance"; a
// short deadline prevents leaks when a consumer misbehaves.
package reservation

import (
	"time"

	"github.com/google/uuid"

	"botpool/internal/clock"
	"botpool/internal/model"
	"botpool/internal/pool"
	"botpool/pkg/constants"
	"botpool/pkg/logger"
	"botpool/pkg/outcome"

	"go.uber.org/zap"
)

// Request what a reservation must hold
type Request struct {
	Kind        constants.ContentKind
	ContentID   uint32
	TargetLevel int
	Requester   string
	Bracket     constants.Bracket

	// Faction used for single-faction (PvE) requests
	Faction constants.Faction

	// Composition per-team roster requirement
	Composition model.Composition

	// Split populated for PvP: both factions get Composition-shaped teams
	// sized by the split
	Split model.FactionSplit

	MinGearScore int
	Timeout      time.Duration
}

// required per-faction composition the request expands to
func (r Request) required() [constants.NumFactions]model.Composition {
	var out [constants.NumFactions]model.Composition
	if r.Split.IsPvP() {
		for _, f := range constants.Factions() {
			out[f] = scaleComposition(r.Composition, r.Split.Count(f))
		}
		return out
	}
	out[r.Faction] = r.Composition
	return out
}

// scaleComposition stretches a per-team composition shape to the requested
// team size, dumping any remainder into DPS.
func scaleComposition(shape model.Composition, size int) model.Composition {
	if shape.Total() == size || shape.Total() == 0 {
		if shape.Total() == 0 && size > 0 {
			return model.NewComposition(0, 0, size)
		}
		return shape
	}
	var out model.Composition
	assigned := 0
	for _, role := range constants.Roles() {
		n := shape.Need(role) * size / shape.Total()
		out.Counts[role] = n
		assigned += n
	}
	out.Counts[constants.RoleDPS] += size - assigned
	return out
}

// Ledger owner of all reservations
type Ledger struct {
	clk    clock.Clock
	pool   *pool.Pool
	nextID model.ReservationID
	open   map[model.ReservationID]*model.Reservation
}

// NewLedger creates an empty ledger
func NewLedger(p *pool.Pool, clk clock.Clock) *Ledger {
	return &Ledger{
		clk:  clk,
		pool: p,
		open: make(map[model.ReservationID]*model.Reservation),
	}
}

// Create atomically selects enough Ready slots for the request, marks them
// Reserved, and stores the reservation. When the pool cannot cover the full
// requirement the reservation is created PartiallyFilled and the returned
// missing set lists the per-faction roles still unmet.
func (l *Ledger) Create(req Request) (*model.Reservation, [constants.NumFactions]model.Composition) {
	l.nextID++
	now := l.clk.Now()
	res := &model.Reservation{
		ID:          l.nextID,
		ExternalID:  uuid.NewString(),
		Kind:        req.Kind,
		ContentID:   req.ContentID,
		TargetLevel: req.TargetLevel,
		Requester:   req.Requester,
		Required:    req.required(),
		CreatedAt:   now,
		Deadline:    now.Add(req.Timeout),
		Status:      constants.ReservationStatusOpen,
	}
	l.open[res.ID] = res

	missing := l.hold(res, req.Bracket, req.MinGearScore)
	if !res.Complete() {
		res.Status = constants.ReservationStatusPartiallyFilled
	}
	return res, missing
}

// hold grabs Ready slots toward the reservation's unmet requirement and
// returns what is still missing per faction.
func (l *Ledger) hold(res *model.Reservation, bracket constants.Bracket, minGearScore int) [constants.NumFactions]model.Composition {
	var missing [constants.NumFactions]model.Composition
	have := l.heldByFactionRole(res)

	for _, faction := range constants.Factions() {
		for _, role := range constants.Roles() {
			need := res.Required[faction].Need(role) - have[faction].Need(role)
			if need <= 0 {
				continue
			}
			picked := l.pool.SelectMany(role, faction, bracket, res.TargetLevel, need, minGearScore)
			for _, id := range picked {
				if err := l.pool.Reserve(id, res.ID); err != nil {
					continue
				}
				res.Held = append(res.Held, id)
				need--
			}
			missing[faction].Counts[role] = need
		}
	}
	return missing
}

// TopUp retries holding for a partially filled reservation; called by the
// orchestrator each tick while factory overflow lands. Returns the remaining
// missing set.
func (l *Ledger) TopUp(id model.ReservationID, bracket constants.Bracket, minGearScore int) ([constants.NumFactions]model.Composition, bool) {
	res, ok := l.open[id]
	if !ok || !res.Status.Open() {
		return [constants.NumFactions]model.Composition{}, false
	}
	missing := l.hold(res, bracket, minGearScore)
	if res.Complete() {
		res.Status = constants.ReservationStatusOpen
	}
	return missing, true
}

func (l *Ledger) heldByFactionRole(res *model.Reservation) [constants.NumFactions]model.Composition {
	var have [constants.NumFactions]model.Composition
	for _, id := range res.Held {
		if s, ok := l.pool.Get(id); ok {
			have[s.Faction].Counts[s.Role]++
		}
	}
	return have
}

// Get looks up an open reservation
func (l *Ledger) Get(id model.ReservationID) (*model.Reservation, bool) {
	res, ok := l.open[id]
	return res, ok
}

// OpenCount number of open reservations
func (l *Ledger) OpenCount() int {
	return len(l.open)
}

// CanFulfill reports whether the reservation is complete and every held slot
// is still Reserved for it.
func (l *Ledger) CanFulfill(id model.ReservationID) bool {
	res, ok := l.open[id]
	if !ok || !res.Status.Open() || !res.Complete() {
		return false
	}
	for _, slotID := range res.Held {
		s, ok := l.pool.Get(slotID)
		if !ok || s.State != constants.SlotStateReserved || s.Assignment.ReservationID != res.ID {
			return false
		}
	}
	return true
}

// Fulfill transitions every held slot Reserved -> Assigned inside one call
// and closes the reservation. Fails without touching slots when the
// reservation is gone, expired, or incomplete.
func (l *Ledger) Fulfill(id model.ReservationID, instanceID model.InstanceID) ([]model.SlotID, error) {
	res, ok := l.open[id]
	if !ok {
		return nil, outcome.Wrapf(outcome.ErrCancelled, "reservation %d not open", id)
	}
	if res.Expired(l.clk.Now()) {
		return nil, outcome.Wrapf(outcome.ErrTimeout, "reservation %d past deadline", id)
	}
	if !l.CanFulfill(id) {
		return nil, outcome.Wrapf(outcome.ErrCapacityExhausted, "reservation %d incomplete: %d/%d held",
			id, len(res.Held), res.RequiredTotal())
	}

	return l.assignHeld(res, instanceID), nil
}

// FulfillPartial ships whatever the reservation holds, even when incomplete.
// Only for PvE consumers that opted into partial fulfillment; fails when
// nothing is held at all.
func (l *Ledger) FulfillPartial(id model.ReservationID, instanceID model.InstanceID) ([]model.SlotID, error) {
	res, ok := l.open[id]
	if !ok {
		return nil, outcome.Wrapf(outcome.ErrCancelled, "reservation %d not open", id)
	}
	if len(res.Held) == 0 {
		return nil, outcome.Wrapf(outcome.ErrCapacityExhausted, "reservation %d holds no slots", id)
	}
	return l.assignHeld(res, instanceID), nil
}

// assignHeld transitions every held slot Reserved -> Assigned atomically
// within the calling tick and closes the reservation.
func (l *Ledger) assignHeld(res *model.Reservation, instanceID model.InstanceID) []model.SlotID {
	assigned := make([]model.SlotID, 0, len(res.Held))
	for _, slotID := range res.Held {
		err := l.pool.Assign(slotID, model.Assignment{
			InstanceID:    instanceID,
			ContentID:     res.ContentID,
			Kind:          res.Kind,
			ReservationID: res.ID,
			Requester:     res.Requester,
			TargetLevel:   res.TargetLevel,
		})
		if err != nil {
			// the caller verified every slot; a failure here is drift
			logger.Error("assign failed during fulfillment", zap.Error(err), zap.Uint64("slot", uint64(slotID)))
			continue
		}
		assigned = append(assigned, slotID)
	}

	res.Status = constants.ReservationStatusFulfilled
	delete(l.open, res.ID)
	return assigned
}

// Cancel reverts every held slot to Ready and deletes the reservation.
// Idempotent: cancelling an unknown or closed reservation is a no-op.
func (l *Ledger) Cancel(id model.ReservationID) {
	res, ok := l.open[id]
	if !ok {
		return
	}
	l.release(res, constants.ReservationStatusCancelled)
}

// Sweep expires reservations past their deadline, releasing their slots.
// Returns the expired reservations so the orchestrator can notify consumers.
func (l *Ledger) Sweep() []*model.Reservation {
	now := l.clk.Now()
	var expired []*model.Reservation
	for _, res := range l.open {
		if res.Expired(now) {
			expired = append(expired, res)
		}
	}
	for _, res := range expired {
		logger.Info("reservation expired",
			zap.String("code", string(outcome.CodeTimeout)),
			zap.Uint64("reservation", uint64(res.ID)),
			zap.String("kind", res.Kind.String()),
			zap.Uint32("content", res.ContentID),
		)
		l.release(res, constants.ReservationStatusExpired)
	}
	return expired
}

func (l *Ledger) release(res *model.Reservation, status constants.ReservationStatus) {
	for _, slotID := range res.Held {
		if err := l.pool.Transition(slotID, constants.SlotStateReady); err != nil {
			logger.Debugf("slot %d not revertable during reservation %d teardown: %v", slotID, res.ID, err)
		}
	}
	res.Status = status
	delete(l.open, res.ID)
}
