package adapter

import (
	"fmt"

	"botpool/internal/model"
	"botpool/pkg/constants"
	"botpool/pkg/logger"

	"go.uber.org/zap"
)

func bgKey(bgType uint32, bracket constants.Bracket) string {
	return fmt.Sprintf("bg/%d/%d", bgType, bracket)
}

func arenaKey(arenaType uint32, bracket constants.Bracket) string {
	return fmt.Sprintf("arena/%d/%d", arenaType, bracket)
}

// OnPlayerQueueBG a human joined a battleground queue. Interest alone orders
// nothing; the fill decision belongs to OnBGQueueTick, where the host
// reports both sides' human counts.
func (a *Adapter) OnPlayerQueueBG(requester string, bgType uint32, bracket constants.Bracket, asGroup bool) {
	logger.Debugf("player %s queued bg %d bracket %s (group=%v)", requester, bgType, bracket, asGroup)
}

// OnBGQueueTick the host asks whether bots should fill the battleground.
// Bot creation is asynchronous while this hook is synchronous, so the
// adapter answers true eagerly as soon as a fill is ordered and buffers the
// pending logins; the host may see the bots arrive a few frames later. An
// unresolved fill past bg_callback_deadline_ms is abandoned: its reservation
// is cancelled and the hook stops vouching for bots.
func (a *Adapter) OnBGQueueTick(bgType uint32, bracket constants.Bracket, aCount, bCount, minPerTeam, maxPerTeam int) bool {
	if aCount >= minPerTeam && bCount >= minPerTeam {
		return false // humans alone can start it
	}

	key := bgKey(bgType, bracket)
	if fill, inFlight := a.fills[key]; inFlight {
		if fill.promise.Done() || !a.clk.Now().After(fill.deadline) {
			return true // fill already ordered, still landing
		}
		delete(a.fills, key)
		logger.Warn("battleground fill missed its deadline", zap.String("key", key))
		if resID := fill.promise.ReservationID(); resID != 0 {
			a.orch.CancelReservation(resID)
		}
		return false
	}

	needA := maxPerTeam - aCount
	needB := maxPerTeam - bCount
	if needA <= 0 && needB <= 0 {
		return false
	}
	if needA < 0 {
		needA = 0
	}
	if needB < 0 {
		needB = 0
	}

	p := a.orch.RequestBattleground(bgType, bracket, model.FactionSplit{A: needA, B: needB})
	if _, err := p.Result(); p.Done() && err != nil {
		return false
	}
	a.track(key, p, a.cfg.BGCallbackDeadline())
	return true
}

// OnBGStarting the host created the battleground instance; associate it with
// the roster so match-end can release in bulk.
func (a *Adapter) OnBGStarting(bgInstance uint64, bgType uint32, bracket constants.Bracket, aCount, bCount int) {
	key := bgKey(bgType, bracket)
	fill, ok := a.fills[key]
	if !ok || !fill.promise.Done() {
		return
	}
	roster, err := fill.promise.Result()
	if err != nil {
		return
	}
	a.hostInstances[bgInstance] = roster.InstanceID
	delete(a.fills, key)
	logger.Info("battleground roster linked",
		zap.Uint64("bg_instance", bgInstance),
		zap.Uint64("core_instance", uint64(roster.InstanceID)),
		zap.Int("bots", len(roster.All())),
	)
}

// OnBGEnded the match finished; every bot on both sides cools down
func (a *Adapter) OnBGEnded(bgInstance uint64, winner constants.Faction) {
	coreInstance, ok := a.hostInstances[bgInstance]
	if !ok {
		return
	}
	delete(a.hostInstances, bgInstance)
	a.orch.ReleaseInstance(coreInstance, constants.ReleaseOutcomeSuccess)
}

// OnPlayerQueueArena a human queued an arena; as with battlegrounds the fill
// decision belongs to the preparing hook.
func (a *Adapter) OnPlayerQueueArena(requester string, arenaType uint32, bracket constants.Bracket, rated bool, teamMembers []string) {
	logger.Debugf("player %s queued arena %d bracket %s (rated=%v, team=%d)",
		requester, arenaType, bracket, rated, len(teamMembers))
}

// OnArenaPreparing the host is assembling both arena teams and reports the
// rosters so far plus how many seats each still needs. Returns whether a bot
// fill was ordered.
func (a *Adapter) OnArenaPreparing(arenaType uint32, bracket constants.Bracket, team1, team2 []string, needs1, needs2 int) bool {
	if needs1 <= 0 && needs2 <= 0 {
		return false
	}
	key := arenaKey(arenaType, bracket)
	if _, inFlight := a.fills[key]; inFlight {
		return true
	}

	logger.Debugf("arena %d bracket %s preparing: team1=%d needs %d, team2=%d needs %d",
		arenaType, bracket, len(team1), needs1, len(team2), needs2)
	p := a.orch.RequestArena(arenaType, bracket, model.Composition{})
	if _, err := p.Result(); p.Done() && err != nil {
		return false
	}
	a.track(key, p, a.cfg.BGCallbackDeadline())
	return true
}

// OnPlayerEnterInstance bookkeeping only; the core does not model the world
func (a *Adapter) OnPlayerEnterInstance(player string, mapID uint32, instanceID uint64, isRaid bool) {
	logger.Debugf("player %s entered map %d instance %d (raid=%v)", player, mapID, instanceID, isRaid)
}

// OnPlayerLeaveInstance bookkeeping only
func (a *Adapter) OnPlayerLeaveInstance(player string, mapID uint32, instanceID uint64) {
	logger.Debugf("player %s left map %d instance %d", player, mapID, instanceID)
}

// OnInstanceReset the host tore the instance down; any bots still attributed
// to it are released as an early exit.
func (a *Adapter) OnInstanceReset(mapID uint32, instanceID uint64) {
	coreInstance, ok := a.hostInstances[instanceID]
	if !ok {
		return
	}
	delete(a.hostInstances, instanceID)
	a.orch.ReleaseInstance(coreInstance, constants.ReleaseOutcomeEarlyExit)
}

// LinkInstance associates a host instance id with a core roster instance.
// Dungeon consumers call this when the map spins up so reset/teardown hooks
// can find the roster.
func (a *Adapter) LinkInstance(hostInstance uint64, coreInstance model.InstanceID) {
	a.hostInstances[hostInstance] = coreInstance
}
