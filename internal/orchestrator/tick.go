package orchestrator

import (
	"time"

	"botpool/internal/model"
	"botpool/pkg/constants"
	"botpool/pkg/outcome"
)

// TickStats what one tick accomplished, for metrics and the host log
type TickStats struct {
	FactoryIntegrated int
	WarmupCreated     int
	WarmupPromoted    int
	WarmupRetired     int
	CooledToReady     int
	SentToMaintenance int
	Repaired          int
	RetiredDrifted    int
	Resolved          int
	Expired           int
	DriftRebuild      bool
}

// Tick advances the whole core by one frame. Called once per host main-loop
// iteration; every state mutation in the core happens under here or under a
// request entrypoint, which is what serializes the pool.
func (o *Orchestrator) Tick(delta time.Duration) TickStats {
	var stats TickStats

	// 1. Land factory output as warming slots
	stats.FactoryIntegrated = o.factory.Drain(func(seed model.BotSeed) (model.SlotID, bool) {
		slot, err := o.warm.Adopt(seed)
		if err != nil {
			return 0, false
		}
		return slot.ID, true
	})

	// 2. Advance warmup: promote logins, backfill capacity
	wres := o.warm.Tick()
	stats.WarmupCreated = wres.Created
	stats.WarmupPromoted = wres.Promoted
	stats.WarmupRetired = wres.Retired

	// 3. Integrity: detect projection drift and rebuild
	stats.DriftRebuild = o.pool.RecoverDrift()

	// 4. Lifecycle sweep: cooldown expiry, anomalies, level drift
	o.sweepLifecycle(&stats)

	// 5. Try to complete pending requests from the refreshed pool
	o.settlePending(&stats)

	// 6. Expire overdue reservations and fail their requests
	o.sweepExpired(&stats)

	return stats
}

// sweepLifecycle walks the pool once: cooled slots whose rest interval
// elapsed return to Ready, anomalous cooled slots go to Maintenance,
// maintained slots come back repaired, and level-drifted Ready slots are
// retired so warmup can replace them in the right bracket.
func (o *Orchestrator) sweepLifecycle(stats *TickStats) {
	cooldown := o.cfg.Cooldown()
	now := o.clk.Now()

	type action struct {
		id   model.SlotID
		from constants.SlotState
		to   constants.SlotState
	}
	var actions []action

	o.pool.ForEach(func(s *model.Slot) bool {
		switch s.State {
		case constants.SlotStateCooldown:
			if anomalous(s) {
				actions = append(actions, action{s.ID, s.State, constants.SlotStateMaintenance})
			} else if s.CooldownRemaining(cooldown, now) == 0 {
				actions = append(actions, action{s.ID, s.State, constants.SlotStateReady})
			}
		case constants.SlotStateMaintenance:
			actions = append(actions, action{s.ID, s.State, constants.SlotStateReady})
		case constants.SlotStateReady:
			if !s.Bracket.Contains(s.Level) {
				actions = append(actions, action{s.ID, s.State, constants.SlotStateEmpty})
			}
		}
		return true
	})

	for _, a := range actions {
		if a.from == constants.SlotStateMaintenance {
			_ = o.pool.RepairStats(a.id)
		}
		if err := o.pool.Transition(a.id, a.to); err != nil {
			continue
		}
		switch {
		case a.to == constants.SlotStateReady && a.from == constants.SlotStateCooldown:
			stats.CooledToReady++
		case a.to == constants.SlotStateReady:
			stats.Repaired++
		case a.to == constants.SlotStateMaintenance:
			stats.SentToMaintenance++
		case a.to == constants.SlotStateEmpty:
			stats.RetiredDrifted++
		}
	}
}

// anomalous stats drift a live slot should never show
func anomalous(s *model.Slot) bool {
	return s.MaxHealth <= 0 || s.GearScore < 0
}

// settlePending tops up partially filled reservations from the pool and
// resolves the ones that became complete. PvE requests that opted into
// partial rosters are shipped short when their deadline arrives.
func (o *Orchestrator) settlePending(stats *TickStats) {
	if len(o.pending) == 0 {
		return
	}
	now := o.clk.Now()
	var still []*pendingRequest

	for _, pr := range o.pending {
		res, ok := o.ledger.Get(pr.resID)
		if !ok {
			// cancelled or otherwise closed under us
			if !pr.promise.Done() {
				o.failPending(pr, outcome.ErrCancelled)
			}
			continue
		}

		o.ledger.TopUp(pr.resID, pr.bracket, pr.minGearScore)

		if o.ledger.CanFulfill(pr.resID) {
			o.fulfill(pr, false)
			stats.Resolved++
			continue
		}

		if pr.allowPartial && !pr.pvp && !now.Before(res.Deadline) && len(res.Held) > 0 {
			o.fulfill(pr, true)
			stats.Resolved++
			continue
		}

		still = append(still, pr)
	}
	o.pending = still
}

// sweepExpired releases slots held past the deadline and surfaces Timeout to
// the consumers that were waiting.
func (o *Orchestrator) sweepExpired(stats *TickStats) {
	expired := o.ledger.Sweep()
	if len(expired) == 0 {
		return
	}
	stats.Expired = len(expired)

	byRes := make(map[model.ReservationID]*model.Reservation, len(expired))
	for _, res := range expired {
		byRes[res.ID] = res
	}

	var still []*pendingRequest
	for _, pr := range o.pending {
		if _, gone := byRes[pr.resID]; gone {
			o.failPending(pr, outcome.ErrTimeout)
			continue
		}
		still = append(still, pr)
	}
	o.pending = still
}
