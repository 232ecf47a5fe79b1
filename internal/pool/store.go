// Package pool is the single source of truth for "does a bot with these
// attributes exist and is it assignable right now". It owns every slot
// record, guards lifecycle transitions through a bounded state machine, and
// keeps two denormalized projections (ready index, bracket counters) in
// lock-step with each transition.
//
// The pool is not safe for concurrent use: all mutation happens on the host
// main loop, which is what serializes it.
package pool

import (
	"fmt"

	"botpool/internal/clock"
	"botpool/internal/model"
	"botpool/pkg/constants"
	"botpool/pkg/logger"
	"botpool/pkg/outcome"

	"go.uber.org/zap"
)

// Pool slot store plus projections
type Pool struct {
	clock    clock.Clock
	nextID   model.SlotID
	slots    map[model.SlotID]*model.Slot
	index    *readyIndex
	counters bracketCounters
}

// New creates an empty pool
func New(clk clock.Clock) *Pool {
	return &Pool{
		clock: clk,
		slots: make(map[model.SlotID]*model.Slot),
		index: newReadyIndex(),
	}
}

func coordOf(s *model.Slot) indexCoord {
	return indexCoord{Role: s.Role, Faction: s.Faction, Bracket: s.Bracket}
}

// Create materializes a new slot from a seed in state Creating (the
// Empty -> Creating edge; Empty slots are not stored). The returned slot is
// owned by the pool.
func (p *Pool) Create(seed model.BotSeed) *model.Slot {
	p.nextID++
	s := &model.Slot{
		ID:              p.nextID,
		AccountID:       seed.AccountID,
		Name:            seed.Name,
		Role:            seed.Role,
		Faction:         seed.Faction,
		ClassID:         seed.ClassID,
		SpecID:          seed.SpecID,
		Bracket:         seed.Bracket,
		Level:           seed.Level,
		GearScore:       seed.GearScore,
		MaxHealth:       seed.MaxHealth,
		MaxMana:         seed.MaxMana,
		State:           constants.SlotStateCreating,
		LastStateChange: p.clock.Now(),
	}
	p.slots[s.ID] = s
	p.counters.capacityAdd(s.Bracket, s.Faction, 1)
	return s
}

// Get looks up a slot by id. Callers outside this package must treat the
// record as read-only; all mutation goes through transitions.
func (p *Pool) Get(id model.SlotID) (*model.Slot, bool) {
	s, ok := p.slots[id]
	return s, ok
}

// Len number of live (non-Empty) slots
func (p *Pool) Len() int {
	return len(p.slots)
}

// ForEach visits every slot until fn returns false
func (p *Pool) ForEach(fn func(*model.Slot) bool) {
	for _, s := range p.slots {
		if !fn(s) {
			return
		}
	}
}

// Transition attempts a legal state change on the slot, updating projections
// and timing stamps. Illegal transitions are rejected with InvalidTransition
// and leave the slot untouched.
func (p *Pool) Transition(id model.SlotID, to constants.SlotState) error {
	s, ok := p.slots[id]
	if !ok {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d not found", id)
	}
	if !CanTransition(s.State, to) {
		logger.Debugf("rejected transition for slot %d: %s -> %s", id, s.State, to)
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d: %s -> %s", id, s.State, to)
	}
	p.apply(s, to)
	return nil
}

// ForceState bypasses the transition table. Recovery only; audit-logged.
func (p *Pool) ForceState(id model.SlotID, to constants.SlotState) {
	s, ok := p.slots[id]
	if !ok {
		return
	}
	logger.Warn("forcing slot state",
		zap.Uint64("slot", uint64(id)),
		zap.String("from", s.State.String()),
		zap.String("to", to.String()),
	)
	p.apply(s, to)
}

// apply performs the state change and every coupled side effect
func (p *Pool) apply(s *model.Slot, to constants.SlotState) {
	now := p.clock.Now()
	from := s.State

	if from == constants.SlotStateReady {
		p.index.remove(s.ID)
		p.counters.readyAdd(coordOf(s), -1)
	}

	switch to {
	case constants.SlotStateAssigned:
		s.LastAssignmentStart = now
		s.Stats.TotalAssignments++
	case constants.SlotStateCooldown:
		if from == constants.SlotStateAssigned {
			s.LastAssignmentEnd = now
			if !s.LastAssignmentStart.IsZero() {
				s.Stats.TotalAssigned += now.Sub(s.LastAssignmentStart)
			}
		}
	}

	s.State = to
	s.LastStateChange = now

	// Assignment context is only legal while Reserved or Assigned
	if to != constants.SlotStateReserved && to != constants.SlotStateAssigned {
		s.Assignment.Clear()
	}

	switch to {
	case constants.SlotStateReady:
		p.index.add(s.ID, coordOf(s))
		p.counters.readyAdd(coordOf(s), 1)
	case constants.SlotStateEmpty:
		// Retirement: the record is dropped, the id is never reused
		p.counters.capacityAdd(s.Bracket, s.Faction, -1)
		delete(p.slots, s.ID)
	}
}

// Reserve soft-holds a Ready slot for the given reservation
func (p *Pool) Reserve(id model.SlotID, resID model.ReservationID) error {
	s, ok := p.slots[id]
	if !ok {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d not found", id)
	}
	if err := p.Transition(id, constants.SlotStateReserved); err != nil {
		return err
	}
	s.Assignment.ReservationID = resID
	return nil
}

// Assign ships a Ready or Reserved slot into a content instance
func (p *Pool) Assign(id model.SlotID, a model.Assignment) error {
	s, ok := p.slots[id]
	if !ok {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d not found", id)
	}
	if err := p.Transition(id, constants.SlotStateAssigned); err != nil {
		return err
	}
	s.Assignment = a
	return nil
}

// Release moves an Assigned slot to Cooldown and records the outcome.
// Releasing a slot that is not Assigned reports DoubleRelease so the caller
// can treat it as an idempotent no-op.
func (p *Pool) Release(id model.SlotID, result constants.ReleaseOutcome) error {
	s, ok := p.slots[id]
	if !ok {
		return outcome.Wrapf(outcome.ErrDoubleRelease, "slot %d not found", id)
	}
	if s.State != constants.SlotStateAssigned {
		return outcome.Wrapf(outcome.ErrDoubleRelease, "slot %d is %s", id, s.State)
	}
	p.apply(s, constants.SlotStateCooldown)
	switch result {
	case constants.ReleaseOutcomeSuccess:
		s.Stats.Completions++
	case constants.ReleaseOutcomeEarlyExit:
		s.Stats.EarlyExits++
	}
	return nil
}

// SetWarmStats writes host-reported stats onto a slot still being warmed.
// Classification fields are immutable once Creating completes; stats are the
// one thing login populates.
func (p *Pool) SetWarmStats(id model.SlotID, level, gearScore, maxHealth, maxMana int) error {
	s, ok := p.slots[id]
	if !ok {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d not found", id)
	}
	if s.State != constants.SlotStateCreating && s.State != constants.SlotStateWarming {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d stats frozen in state %s", id, s.State)
	}
	if level > 0 {
		s.Level = level
	}
	s.GearScore = gearScore
	s.MaxHealth = maxHealth
	s.MaxMana = maxMana
	return nil
}

// RepairStats clamps drifted stats on a slot under maintenance so it can
// rejoin the ready pool.
func (p *Pool) RepairStats(id model.SlotID) error {
	s, ok := p.slots[id]
	if !ok {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d not found", id)
	}
	if s.State != constants.SlotStateMaintenance {
		return outcome.Wrapf(outcome.ErrInvalidTransition, "slot %d not under maintenance", id)
	}
	if s.MaxHealth <= 0 {
		s.MaxHealth = s.Level * 100
	}
	if s.GearScore < 0 {
		s.GearScore = 0
	}
	return nil
}

// Retire removes a slot from the pool (Ready -> Empty or Warming -> Empty)
func (p *Pool) Retire(id model.SlotID) error {
	return p.Transition(id, constants.SlotStateEmpty)
}

// AvailableCount Ready slots at one (role, faction, bracket) coordinate
func (p *Pool) AvailableCount(role constants.Role, faction constants.Faction, bracket constants.Bracket) uint32 {
	return p.counters.ready[bracket][faction][role]
}

// AvailableCountForBracket Ready slots across a (bracket, faction) slice,
// optionally narrowed to one role.
func (p *Pool) AvailableCountForBracket(bracket constants.Bracket, faction constants.Faction, role *constants.Role) uint32 {
	if role != nil {
		return p.counters.ready[bracket][faction][*role]
	}
	return p.counters.readyTotal[bracket][faction]
}

// CapacityCount live slots (any non-Empty state) in a (bracket, faction) slice
func (p *Pool) CapacityCount(bracket constants.Bracket, faction constants.Faction) uint32 {
	return p.counters.capacity[bracket][faction]
}

// ReadySlice slot ids currently indexed at a coordinate; read-only view
func (p *Pool) ReadySlice(role constants.Role, faction constants.Faction, bracket constants.Bracket) []model.SlotID {
	return p.index.slice(role, faction, bracket)
}

// InReadyIndex reports whether the slot id is indexed and where
func (p *Pool) InReadyIndex(id model.SlotID) (constants.Role, constants.Faction, constants.Bracket, bool) {
	coord, ok := p.index.contains(id)
	return coord.Role, coord.Faction, coord.Bracket, ok
}

// RebuildIndex reconstructs the ready index and bracket counters from the
// store. Used after bulk load or detected drift; idempotent.
func (p *Pool) RebuildIndex() {
	p.index.clear()
	p.counters.reset()
	for _, s := range p.slots {
		p.counters.capacityAdd(s.Bracket, s.Faction, 1)
		if s.State == constants.SlotStateReady {
			p.index.add(s.ID, coordOf(s))
			p.counters.readyAdd(coordOf(s), 1)
		}
	}
	logger.Debugf("ready index rebuilt: %d slots, %d ready", len(p.slots), p.index.size())
}

// CheckIntegrity verifies the projections against the store and returns the
// list of disagreements. An empty result means no drift.
func (p *Pool) CheckIntegrity() []string {
	var drift []string

	for _, role := range constants.Roles() {
		for _, faction := range constants.Factions() {
			for _, bracket := range constants.Brackets() {
				coord := indexCoord{Role: role, Faction: faction, Bracket: bracket}
				sliceLen := uint32(len(p.index.slice(role, faction, bracket)))
				if counted := p.counters.readyCount(coord); counted != sliceLen {
					drift = append(drift, fmt.Sprintf(
						"counter mismatch at (%s,%s,%s): counter=%d index=%d",
						role, faction, bracket, counted, sliceLen))
				}
			}
		}
	}

	for id := range p.index.pos {
		s, ok := p.slots[id]
		if !ok {
			drift = append(drift, fmt.Sprintf("orphan slot %d in ready index", id))
			continue
		}
		if s.State != constants.SlotStateReady {
			drift = append(drift, fmt.Sprintf("slot %d indexed but state is %s", id, s.State))
		}
	}

	for id, s := range p.slots {
		_, indexed := p.index.contains(id)
		if s.State == constants.SlotStateReady && !indexed {
			drift = append(drift, fmt.Sprintf("ready slot %d missing from index", id))
		}
	}

	return drift
}

// RecoverDrift rebuilds projections when CheckIntegrity found disagreements.
// Reports whether a rebuild happened.
func (p *Pool) RecoverDrift() bool {
	drift := p.CheckIntegrity()
	if len(drift) == 0 {
		return false
	}
	for _, d := range drift {
		logger.Warn("pool integrity drift", zap.String("code", string(outcome.CodeDrift)), zap.String("detail", d))
	}
	p.RebuildIndex()
	return true
}

// Clock the pool's time source
func (p *Pool) Clock() clock.Clock {
	return p.clock
}
