// Package orchestrator is the reservation broker external code talks to. It
// looks up composition rules, decides pool versus factory for each request,
// tracks in-flight reservations, and hands rosters to consumers. It runs
// cooperatively on the host main loop and never blocks: a request is either
// satisfied in-tick or comes back as a Pending resolved by a later tick.
package orchestrator

import (
	"time"

	"botpool/internal/clock"
	"botpool/internal/content"
	"botpool/internal/factory"
	"botpool/internal/model"
	"botpool/internal/pool"
	"botpool/internal/reservation"
	"botpool/internal/warmup"
	"botpool/pkg/config"
	"botpool/pkg/constants"
	"botpool/pkg/logger"
	"botpool/pkg/outcome"

	"go.uber.org/zap"
)

// nearExpiryFraction of the reservation timeout under which a blocking
// factory request is dispatched at top priority
const nearExpiryFraction = 4

// largeContentThreshold roster size from which a factory request counts as
// large content for priority purposes
const largeContentThreshold = 40

// pendingRequest bookkeeping for a request waiting on factory overflow or a
// cross-faction fill
type pendingRequest struct {
	promise      *Pending
	resID        model.ReservationID
	kind         constants.ContentKind
	contentID    uint32
	requester    string
	bracket      constants.Bracket
	minGearScore int
	allowPartial bool
	pvp          bool
	factoryJobs  []uint64
}

// Orchestrator external request entrypoint
type Orchestrator struct {
	cfg       *config.Config
	pool      *pool.Pool
	ledger    *reservation.Ledger
	factory   *factory.Factory
	contentDB *content.DB
	warm      *warmup.Scheduler
	clk       clock.Clock
	callbacks Callbacks

	pending        []*pendingRequest
	instances      map[model.InstanceID][]model.SlotID
	nextInstanceID model.InstanceID
}

// New wires the orchestrator to its collaborators
func New(
	cfg *config.Config,
	p *pool.Pool,
	ledger *reservation.Ledger,
	fac *factory.Factory,
	db *content.DB,
	warm *warmup.Scheduler,
	clk clock.Clock,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		pool:      p,
		ledger:    ledger,
		factory:   fac,
		contentDB: db,
		warm:      warm,
		clk:       clk,
		instances: make(map[model.InstanceID][]model.SlotID),
	}
}

// SetCallbacks installs the consumer notification surface
func (o *Orchestrator) SetCallbacks(cb Callbacks) {
	o.callbacks = cb
}

// Pool the orchestrator's pool, for read-only host queries
func (o *Orchestrator) Pool() *pool.Pool {
	return o.pool
}

// Ledger the orchestrator's reservation ledger, for read-only host queries
func (o *Orchestrator) Ledger() *reservation.Ledger {
	return o.ledger
}

// RequestDungeon asks for a PvE dungeon roster. An empty composition falls
// back to the content requirement's stock composition. allowPartial opts the
// consumer into a short roster when the deadline fires before the factory
// covers the deficit.
func (o *Orchestrator) RequestDungeon(contentID uint32, requester string, targetLevel int, faction constants.Faction, comp model.Composition, allowPartial bool) *Pending {
	return o.requestPvE(constants.ContentKindDungeon, contentID, requester, targetLevel, faction, comp, allowPartial)
}

// RequestRaid same contract as RequestDungeon for raid content
func (o *Orchestrator) RequestRaid(contentID uint32, requester string, targetLevel int, faction constants.Faction, comp model.Composition, allowPartial bool) *Pending {
	return o.requestPvE(constants.ContentKindRaid, contentID, requester, targetLevel, faction, comp, allowPartial)
}

func (o *Orchestrator) requestPvE(kind constants.ContentKind, contentID uint32, requester string, targetLevel int, faction constants.Faction, comp model.Composition, allowPartial bool) *Pending {
	req, err := o.contentDB.Get(kind, contentID)
	if err != nil {
		o.callbacks.assignmentFailed(kind, contentID, err)
		return failed(err)
	}
	bracket, ok := constants.BracketForLevel(targetLevel)
	if !ok {
		err := outcome.Wrapf(outcome.ErrUnknownContent, "level %d below pooled range", targetLevel)
		o.callbacks.assignmentFailed(kind, contentID, err)
		return failed(err)
	}
	if comp.Empty() {
		comp = req.Composition
	}

	return o.submit(reservation.Request{
		Kind:         kind,
		ContentID:    contentID,
		TargetLevel:  targetLevel,
		Requester:    requester,
		Bracket:      bracket,
		Faction:      faction,
		Composition:  comp,
		MinGearScore: req.GearScoreFloor,
		Timeout:      o.cfg.ReservationTimeout(),
	}, requester, allowPartial)
}

// RequestBattleground asks for both sides of a battleground at once. A zero
// split falls back to the content requirement's team sizes. The reservation
// is never fulfilled half-filled: it waits atomically until both factions
// are covered or it expires.
func (o *Orchestrator) RequestBattleground(contentID uint32, bracket constants.Bracket, split model.FactionSplit) *Pending {
	req, err := o.contentDB.Get(constants.ContentKindBattleground, contentID)
	if err != nil {
		o.callbacks.assignmentFailed(constants.ContentKindBattleground, contentID, err)
		return failed(err)
	}
	if split.A == 0 && split.B == 0 {
		split = req.Split
	}

	return o.submit(reservation.Request{
		Kind:         constants.ContentKindBattleground,
		ContentID:    contentID,
		TargetLevel:  targetLevelFor(bracket),
		Bracket:      bracket,
		Composition:  req.Composition,
		Split:        split,
		MinGearScore: req.GearScoreFloor,
		Timeout:      o.cfg.ReservationTimeout(),
	}, "", false)
}

// RequestArena asks for both arena teams. An empty team composition falls
// back to the content requirement.
func (o *Orchestrator) RequestArena(contentID uint32, bracket constants.Bracket, teamComp model.Composition) *Pending {
	req, err := o.contentDB.Get(constants.ContentKindArena, contentID)
	if err != nil {
		o.callbacks.assignmentFailed(constants.ContentKindArena, contentID, err)
		return failed(err)
	}
	if teamComp.Empty() {
		teamComp = req.Composition
	}

	return o.submit(reservation.Request{
		Kind:         constants.ContentKindArena,
		ContentID:    contentID,
		TargetLevel:  targetLevelFor(bracket),
		Bracket:      bracket,
		Composition:  teamComp,
		Split:        req.Split,
		MinGearScore: req.GearScoreFloor,
		Timeout:      o.cfg.ReservationTimeout(),
	}, "", false)
}

func targetLevelFor(bracket constants.Bracket) int {
	if bracket == constants.Bracket80 {
		return bracket.MinLevel()
	}
	return bracket.MaxLevel()
}

// submit creates the reservation, fulfills from the pool when it can, and
// otherwise dispatches factory overflow for the deficit.
func (o *Orchestrator) submit(req reservation.Request, requester string, allowPartial bool) *Pending {
	res, missing := o.ledger.Create(req)

	if res.Complete() {
		promise := &Pending{resID: res.ID}
		o.fulfill(&pendingRequest{
			promise:   promise,
			resID:     res.ID,
			kind:      req.Kind,
			contentID: req.ContentID,
			requester: requester,
			bracket:   req.Bracket,
			pvp:       req.Split.IsPvP(),
		}, false)
		return promise
	}

	// Fabrication may not push a (bracket, faction) slice past its configured
	// capacity. A request the cap makes unsatisfiable fails up front unless
	// the consumer accepts a partial roster at the deadline.
	remaining := make(map[constants.Faction]int, constants.NumFactions)
	feasible := true
	for _, faction := range constants.Factions() {
		remaining[faction] = o.sliceRemaining(req.Bracket, faction)
		if missing[faction].Total() > remaining[faction] {
			feasible = false
		}
	}
	if !feasible && !allowPartial {
		o.ledger.Cancel(res.ID)
		err := outcome.Wrapf(outcome.ErrCapacityExhausted, "bracket %s slice at capacity, cannot fabricate deficit", req.Bracket)
		o.callbacks.assignmentFailed(req.Kind, req.ContentID, err)
		return failed(err)
	}

	pr := &pendingRequest{
		promise:      &Pending{resID: res.ID},
		resID:        res.ID,
		kind:         req.Kind,
		contentID:    req.ContentID,
		requester:    requester,
		bracket:      req.Bracket,
		minGearScore: req.MinGearScore,
		allowPartial: allowPartial,
		pvp:          req.Split.IsPvP(),
	}

	prio := o.priorityFor(res.Deadline, res.RequiredTotal())
	for _, faction := range constants.Factions() {
		for _, role := range constants.Roles() {
			count := missing[faction].Need(role)
			if count == 0 {
				continue
			}
			if count > remaining[faction] {
				count = remaining[faction]
			}
			if count == 0 {
				continue
			}
			remaining[faction] -= count
			o.callbacks.overflowNeeded(role, faction, req.Bracket, count)
			jobID := o.factory.Enqueue(&factory.Request{
				Role:          role,
				Faction:       faction,
				Bracket:       req.Bracket,
				Count:         count,
				MinGearScore:  req.MinGearScore,
				Priority:      prio,
				ReservationID: res.ID,
			})
			if jobID != 0 {
				pr.factoryJobs = append(pr.factoryJobs, jobID)
			}
		}
	}

	logger.Debugf("request %s/%d pending on factory: reservation %d holds %d/%d",
		req.Kind, req.ContentID, res.ID, len(res.Held), res.RequiredTotal())
	o.pending = append(o.pending, pr)
	return pr.promise
}

// sliceRemaining how many more slots a (bracket, faction) slice may take
// before the pool exceeds its configured per-slice capacity
func (o *Orchestrator) sliceRemaining(bracket constants.Bracket, faction constants.Faction) int {
	left := int(o.cfg.Pool.WarmPerBracketPerFaction) - int(o.pool.CapacityCount(bracket, faction))
	if left < 0 {
		return 0
	}
	return left
}

func (o *Orchestrator) priorityFor(deadline time.Time, rosterSize int) factory.Priority {
	if deadline.Sub(o.clk.Now()) < o.cfg.ReservationTimeout()/nearExpiryFraction {
		return factory.PriorityNearExpiry
	}
	if rosterSize >= largeContentThreshold {
		return factory.PriorityLargeContent
	}
	return factory.PriorityBackground
}

// fulfill resolves a pending request from its complete (or, when partial is
// permitted, incomplete) reservation.
func (o *Orchestrator) fulfill(pr *pendingRequest, partial bool) {
	instance := o.allocInstance()

	var ids []model.SlotID
	var err error
	if partial {
		ids, err = o.ledger.FulfillPartial(pr.resID, instance)
	} else {
		ids, err = o.ledger.Fulfill(pr.resID, instance)
	}
	if err != nil {
		o.failPending(pr, err)
		return
	}

	roster := Roster{
		ReservationID: pr.resID,
		InstanceID:    instance,
		Kind:          pr.kind,
		ContentID:     pr.contentID,
	}
	for _, id := range ids {
		if s, ok := o.pool.Get(id); ok {
			roster.ByFaction[s.Faction] = append(roster.ByFaction[s.Faction], id)
		}
	}
	o.instances[instance] = ids

	logger.Info("roster assigned",
		zap.String("kind", pr.kind.String()),
		zap.Uint32("content", pr.contentID),
		zap.Uint64("instance", uint64(instance)),
		zap.Int("bots", len(ids)),
		zap.Bool("partial", partial),
	)

	pr.promise.resolve(roster, nil)
	if pr.pvp {
		o.callbacks.assignedPvP(roster.ByFaction[constants.FactionA], roster.ByFaction[constants.FactionB])
	} else {
		o.callbacks.assigned(ids)
	}
}

func (o *Orchestrator) failPending(pr *pendingRequest, err error) {
	for _, jobID := range pr.factoryJobs {
		o.factory.Cancel(jobID)
	}
	pr.promise.resolve(Roster{}, err)
	o.callbacks.assignmentFailed(pr.kind, pr.contentID, err)
}

func (o *Orchestrator) allocInstance() model.InstanceID {
	o.nextInstanceID++
	return o.nextInstanceID
}

// Release returns assigned slots to cooldown. Double release is a no-op
// after the first; the idempotence is deliberate so host teardown paths can
// release freely.
func (o *Orchestrator) Release(ids []model.SlotID, result constants.ReleaseOutcome) {
	for _, id := range ids {
		if err := o.pool.Release(id, result); err != nil {
			logger.Debugf("release slot %d: %v", id, err)
		}
	}
}

// ReleaseInstance bulk-releases every slot assigned to an instance, used
// when a map tears down. Idempotent.
func (o *Orchestrator) ReleaseInstance(instance model.InstanceID, result constants.ReleaseOutcome) {
	ids, ok := o.instances[instance]
	if !ok {
		return
	}
	delete(o.instances, instance)
	o.Release(ids, result)
}

// AssignedToInstance slots currently attributed to an instance
func (o *Orchestrator) AssignedToInstance(instance model.InstanceID) []model.SlotID {
	return o.instances[instance]
}

// CancelReservation withdraws a pending request. Outstanding factory jobs
// are cancelled; already-fabricated bots still land in the pool. Idempotent.
func (o *Orchestrator) CancelReservation(resID model.ReservationID) {
	for i, pr := range o.pending {
		if pr.resID != resID {
			continue
		}
		o.pending = append(o.pending[:i], o.pending[i+1:]...)
		o.ledger.Cancel(resID)
		o.failPending(pr, outcome.ErrCancelled)
		return
	}
	// fast-path reservations have no pending entry
	o.ledger.Cancel(resID)
}

// CancelByRequester withdraws every pending request a requester owns
func (o *Orchestrator) CancelByRequester(requester string) {
	if requester == "" {
		return
	}
	for _, pr := range o.snapshotPending() {
		if pr.requester == requester {
			o.CancelReservation(pr.resID)
		}
	}
}

func (o *Orchestrator) snapshotPending() []*pendingRequest {
	out := make([]*pendingRequest, len(o.pending))
	copy(out, o.pending)
	return out
}

// PendingCount requests still waiting on factory overflow
func (o *Orchestrator) PendingCount() int {
	return len(o.pending)
}
