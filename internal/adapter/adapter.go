// Package adapter translates host-process events (queue joins, group
// formation, instance lifecycle, match end) into orchestrator calls. It is
// deliberately thin: side-effect-free beyond calling into the orchestrator,
// plus one pending map that bridges "bots were ordered for this content" to
// "the host saw them arrive".
package adapter

import (
	"fmt"
	"time"

	"botpool/internal/clock"
	"botpool/internal/model"
	"botpool/internal/orchestrator"
	"botpool/pkg/config"
	"botpool/pkg/constants"
	"botpool/pkg/logger"

	"go.uber.org/zap"
)

// RoleMask bitmask of roles a queuing player offered to fill
type RoleMask uint8

const (
	RoleMaskTank   RoleMask = 1 << 0
	RoleMaskHealer RoleMask = 1 << 1
	RoleMaskDPS    RoleMask = 1 << 2
)

// Has reports whether the mask offers the role
func (m RoleMask) Has(role constants.Role) bool {
	switch role {
	case constants.RoleTank:
		return m&RoleMaskTank != 0
	case constants.RoleHealer:
		return m&RoleMaskHealer != 0
	default:
		return m&RoleMaskDPS != 0
	}
}

// Best the most constrained role the mask offers; tanks before healers
// before damage, mirroring how group finders slot humans.
func (m RoleMask) Best() constants.Role {
	switch {
	case m&RoleMaskTank != 0:
		return constants.RoleTank
	case m&RoleMaskHealer != 0:
		return constants.RoleHealer
	default:
		return constants.RoleDPS
	}
}

// GroupMember one member of a host-formed group
type GroupMember struct {
	ID    string
	IsBot bool
	Role  constants.Role
}

// pendingFill tracks an ordered roster until the host confirms arrival or
// the entry times out.
type pendingFill struct {
	promise  *orchestrator.Pending
	deadline time.Time
}

// pendingFillTimeout how long a PvE fill may sit unconfirmed before the
// adapter gives up and cancels its reservation. Battleground and arena fills
// are bounded by bg_callback_deadline_ms instead.
const pendingFillTimeout = 2 * time.Minute

// Adapter host-event surface
type Adapter struct {
	orch *orchestrator.Orchestrator
	cfg  *config.Config
	clk  clock.Clock

	// fills keyed by a content-scoped string (group id, bg queue slice, ...)
	fills map[string]*pendingFill

	// hostInstances host instance id -> core instance id, populated when a
	// fill resolves and the host announces the instance
	hostInstances map[uint64]model.InstanceID
}

// New creates the adapter
func New(orch *orchestrator.Orchestrator, cfg *config.Config, clk clock.Clock) *Adapter {
	return &Adapter{
		orch:          orch,
		cfg:           cfg,
		clk:           clk,
		fills:         make(map[string]*pendingFill),
		hostInstances: make(map[uint64]model.InstanceID),
	}
}

// Tick retires stale entries from the pending map. Resolved fills stay
// tracked until a host hook consumes them (OnBGStarting, OnProposalAccepted,
// OnGroupDisbanded); unresolved ones past their deadline get their
// reservation cancelled. Called once per orchestrator tick.
func (a *Adapter) Tick() {
	now := a.clk.Now()
	for key, fill := range a.fills {
		if !now.After(fill.deadline) {
			continue
		}
		delete(a.fills, key)
		if fill.promise.Done() {
			continue
		}
		logger.Warn("pending fill timed out", zap.String("key", key))
		if resID := fill.promise.ReservationID(); resID != 0 {
			a.orch.CancelReservation(resID)
		}
	}
}

// PendingFills unconfirmed fills currently tracked
func (a *Adapter) PendingFills() int {
	return len(a.fills)
}

func (a *Adapter) track(key string, p *orchestrator.Pending, ttl time.Duration) {
	if p.Done() {
		if _, err := p.Result(); err != nil {
			return
		}
	}
	a.fills[key] = &pendingFill{promise: p, deadline: a.clk.Now().Add(ttl)}
}

// OnPlayerQueueDungeon a human joined the dungeon finder. The bot side of
// the group is everything the requirement wants minus the role the player
// fills themselves.
func (a *Adapter) OnPlayerQueueDungeon(requester string, contentIDs []uint32, offered RoleMask, level int, faction constants.Faction) *orchestrator.Pending {
	for _, contentID := range contentIDs {
		p := a.orch.RequestDungeon(contentID, requester, level, faction, compositionMinusPlayer(offered), true)
		if _, err := p.Result(); p.Done() && err != nil {
			continue // unknown content id, try the next one the player listed
		}
		a.track(fmt.Sprintf("dungeon/%s/%d", requester, contentID), p, pendingFillTimeout)
		return p
	}
	return nil
}

// compositionMinusPlayer stock 5-man composition with the player's best role
// carved out. Zero composition defers to the content requirement, so only
// build one when a role must be subtracted.
func compositionMinusPlayer(offered RoleMask) model.Composition {
	comp := model.NewComposition(1, 1, 3)
	comp.Counts[offered.Best()]--
	return comp
}

// OnPlayerLeaveQueue a human left every queue; their pending requests are
// withdrawn.
func (a *Adapter) OnPlayerLeaveQueue(requester string) {
	a.orch.CancelByRequester(requester)
}

// OnGroupFormed the host assembled a (possibly mixed) group and needs bots
// for the unfilled roles.
func (a *Adapter) OnGroupFormed(groupID string, contentID uint32, members []GroupMember, level int, faction constants.Faction) *orchestrator.Pending {
	var have model.Composition
	requester := ""
	for _, m := range members {
		have.Counts[m.Role]++
		if !m.IsBot && requester == "" {
			requester = m.ID
		}
	}
	need := model.NewComposition(1, 1, 3).Minus(have)
	if need.Empty() {
		return nil
	}
	p := a.orch.RequestDungeon(contentID, requester, level, faction, need, false)
	a.track("group/"+groupID, p, pendingFillTimeout)
	return p
}

// OnProposalAccepted every member accepted; nothing to order, the fill
// already resolved or is still in flight. Kept as an explicit hook so host
// wiring stays one-call-per-event.
func (a *Adapter) OnProposalAccepted(groupID string, contentID uint32) {
	if fill, ok := a.fills["group/"+groupID]; ok && fill.promise.Done() {
		delete(a.fills, "group/"+groupID)
	}
}

// OnGroupDisbanded the group fell apart before or after assignment
func (a *Adapter) OnGroupDisbanded(groupID string) {
	key := "group/" + groupID
	fill, ok := a.fills[key]
	if !ok {
		return
	}
	delete(a.fills, key)
	if !fill.promise.Done() {
		a.orch.CancelReservation(fill.promise.ReservationID())
		return
	}
	if roster, err := fill.promise.Result(); err == nil {
		a.orch.ReleaseInstance(roster.InstanceID, constants.ReleaseOutcomeEarlyExit)
	}
}
