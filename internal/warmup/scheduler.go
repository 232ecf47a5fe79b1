// Package warmup brings pool capacity up to the configured targets without
// blocking the host main loop. Each tick creates a bounded number of slots,
// advancing a (bracket, faction, role) cursor, and walks the warming list to
// drive host-side logins to completion. Host persistence is eventually
// consistent, so a freshly created character may not be immediately
// loginnable; warming slots are retried until a retry budget runs out.
package warmup

import (
	"time"

	"botpool/internal/clock"
	"botpool/internal/hostiface"
	"botpool/internal/model"
	"botpool/internal/pool"
	"botpool/internal/templates"
	"botpool/pkg/config"
	"botpool/pkg/constants"
	"botpool/pkg/logger"
	"botpool/pkg/outcome"

	"go.uber.org/zap"
)

// Result what one tick accomplished
type Result struct {
	Created  int // New slots that entered Creating/Warming
	Promoted int // Warming slots that reached Ready
	Retired  int // Warming slots that ran out of retries
	Yielded  bool
}

// Scheduler incremental bot creation and login driver
type Scheduler struct {
	cfg     *config.Config
	pool    *pool.Pool
	repo    *templates.Repository
	backend hostiface.Backend
	clk     clock.Clock

	cursor  int
	warming []model.SlotID
	retries map[model.SlotID]uint32
}

// New creates a warmup scheduler
func New(cfg *config.Config, p *pool.Pool, repo *templates.Repository, backend hostiface.Backend, clk clock.Clock) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		pool:    p,
		repo:    repo,
		backend: backend,
		clk:     clk,
		retries: make(map[model.SlotID]uint32),
	}
}

// numSlices total (bracket, faction, role) slices the cursor walks
const numSlices = constants.NumBrackets * constants.NumFactions * constants.NumRoles

func decodeCursor(c int) (constants.Bracket, constants.Faction, constants.Role) {
	role := constants.Role(c % constants.NumRoles)
	c /= constants.NumRoles
	faction := constants.Faction(c % constants.NumFactions)
	c /= constants.NumFactions
	return constants.Bracket(c % constants.NumBrackets), faction, role
}

// Adopt materializes a seed as a pool slot and starts its warmup. Used both
// by the tick loop and by the factory inbox drain. Seeds for a slice already
// at its configured capacity are refused, which is what keeps overflow
// fabrication from growing the pool past its budget.
func (s *Scheduler) Adopt(seed model.BotSeed) (*model.Slot, error) {
	limit := int(s.cfg.Pool.WarmPerBracketPerFaction)
	if int(s.pool.CapacityCount(seed.Bracket, seed.Faction)) >= limit {
		return nil, outcome.Wrapf(outcome.ErrCapacityExhausted, "slice %s/%s at capacity %d", seed.Faction, seed.Bracket, limit)
	}
	slot := s.pool.Create(seed)

	if err := s.backend.CreateCharacter(seed); err != nil {
		// Creating has no legal edge back to Empty; recovery path
		s.pool.ForceState(slot.ID, constants.SlotStateEmpty)
		return nil, err
	}
	if err := s.pool.Transition(slot.ID, constants.SlotStateWarming); err != nil {
		return nil, err
	}
	if err := s.backend.StartLogin(seed.AccountID); err != nil {
		logger.Debugf("initial login start failed for %s, will retry: %v", seed.AccountID, err)
	}

	s.warming = append(s.warming, slot.ID)
	return slot, nil
}

// WarmingCount slots currently in the warming list
func (s *Scheduler) WarmingCount() int {
	return len(s.warming)
}

// Tick advances warmup: polls warming slots, then creates up to the per-tick
// budget of new slots toward the configured pool targets. Exceeding the
// wall-clock budget causes an early yield.
func (s *Scheduler) Tick() Result {
	var res Result

	start := time.Now()
	budget := s.cfg.WarmupTickBudget()

	// warming always advances, even with replenishment off: factory output
	// and leftover logins still need to land
	s.pollWarming(&res)

	if !s.cfg.Pool.Enabled {
		return res
	}

	live := s.liveCounts()
	createBudget := int(s.cfg.Warmup.BotsPerTick)
	for scanned := 0; scanned < numSlices && createBudget > 0; scanned++ {
		if budget > 0 && time.Since(start) > budget {
			res.Yielded = true
			break
		}
		bracket, faction, role := decodeCursor(s.cursor)
		s.cursor = (s.cursor + 1) % numSlices

		target := s.roleTarget(role)
		deficit := target - live[bracket][faction][role]
		for deficit > 0 && createBudget > 0 {
			if err := s.createOne(role, faction, bracket); err != nil {
				logger.Warn("slot creation failed", zap.Error(err))
				break
			}
			live[bracket][faction][role]++
			res.Created++
			createBudget--
			deficit--
		}
	}

	return res
}

func (s *Scheduler) roleTarget(role constants.Role) int {
	switch role {
	case constants.RoleTank:
		return s.cfg.RoleTarget(s.cfg.Pool.RoleSplit.Tank)
	case constants.RoleHealer:
		return s.cfg.RoleTarget(s.cfg.Pool.RoleSplit.Healer)
	default:
		return s.cfg.RoleTarget(s.cfg.Pool.RoleSplit.DPS)
	}
}

// liveCounts live slots per slice, counting every non-Empty state so a slot
// in Cooldown or Assigned still holds its place in the pool budget.
func (s *Scheduler) liveCounts() [constants.NumBrackets][constants.NumFactions][constants.NumRoles]int {
	var live [constants.NumBrackets][constants.NumFactions][constants.NumRoles]int
	s.pool.ForEach(func(slot *model.Slot) bool {
		live[slot.Bracket][slot.Faction][slot.Role]++
		return true
	})
	return live
}

func (s *Scheduler) createOne(role constants.Role, faction constants.Faction, bracket constants.Bracket) error {
	seed, err := s.repo.RollSeed(role, faction, bracket)
	if err != nil {
		return err
	}
	_, err = s.Adopt(seed)
	return err
}

// pollWarming walks the warming list, promoting live sessions to Ready and
// retiring slots whose retry budget ran out.
func (s *Scheduler) pollWarming(res *Result) {
	remaining := s.warming[:0]
	for _, id := range s.warming {
		slot, ok := s.pool.Get(id)
		if !ok || slot.State != constants.SlotStateWarming {
			delete(s.retries, id)
			continue
		}

		switch s.backend.PollLogin(slot.AccountID) {
		case hostiface.LoginLive:
			stats, ok := s.backend.Stats(slot.AccountID)
			if ok {
				_ = s.pool.SetWarmStats(id, stats.Level, stats.GearScore, stats.MaxHealth, stats.MaxMana)
			}
			if err := s.pool.Transition(id, constants.SlotStateReady); err == nil {
				res.Promoted++
			}
			delete(s.retries, id)

		case hostiface.LoginFailed:
			s.retries[id]++
			if s.retries[id] >= s.cfg.Warmup.RetryBudget {
				logger.Info("warmup retry budget exhausted, retiring slot",
					zap.String("code", string(outcome.CodeWarmupFailed)),
					zap.Uint64("slot", uint64(id)),
					zap.String("account", slot.AccountID),
				)
				s.backend.Logout(slot.AccountID)
				_ = s.pool.Transition(id, constants.SlotStateEmpty)
				delete(s.retries, id)
				res.Retired++
			} else {
				if err := s.backend.StartLogin(slot.AccountID); err != nil {
					logger.Debugf("login retry start failed for %s: %v", slot.AccountID, err)
				}
				remaining = append(remaining, id)
			}

		default: // LoginPending
			remaining = append(remaining, id)
		}
	}
	s.warming = remaining
}
