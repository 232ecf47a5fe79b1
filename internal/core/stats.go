package core

import (
	"encoding/json"

	"github.com/tidwall/pretty"

	"botpool/internal/model"
	"botpool/internal/orchestrator"
	"botpool/pkg/constants"
)

// Stats point-in-time snapshot of pool health
type Stats struct {
	Ticks            uint64                                                                        `json:"ticks"`
	PoolSize         int                                                                           `json:"pool_size"`
	ByState          map[string]int                                                                `json:"by_state"`
	Ready            [constants.NumRoles][constants.NumFactions][constants.NumBrackets]uint32      `json:"-"`
	ReadyTotal       int                                                                           `json:"ready_total"`
	Warming          int                                                                           `json:"warming"`
	OpenReservations int                                                                           `json:"open_reservations"`
	PendingRequests  int                                                                           `json:"pending_requests"`
	FactoryQueue     int                                                                           `json:"factory_queue"`
}

// Stats snapshots the core's live counts
func (c *Core) Stats() Stats {
	st := Stats{
		Ticks:            c.tickCount,
		PoolSize:         c.Pool.Len(),
		ByState:          make(map[string]int),
		Warming:          c.Warmup.WarmingCount(),
		OpenReservations: c.Ledger.OpenCount(),
		PendingRequests:  c.Orchestrator.PendingCount(),
		FactoryQueue:     c.Factory.QueueDepth(),
	}
	c.Pool.ForEach(func(s *model.Slot) bool {
		st.ByState[s.State.String()]++
		return true
	})
	for _, role := range constants.Roles() {
		for _, faction := range constants.Factions() {
			for _, bracket := range constants.Brackets() {
				n := c.Pool.AvailableCount(role, faction, bracket)
				st.Ready[role][faction][bracket] = n
				st.ReadyTotal += int(n)
			}
		}
	}
	return st
}

// DumpState pretty-printed JSON snapshot for debugging
func (c *Core) DumpState() []byte {
	snapshot := struct {
		Stats Stats         `json:"stats"`
		Slots []*model.Slot `json:"slots"`
	}{Stats: c.Stats()}
	c.Pool.ForEach(func(s *model.Slot) bool {
		snapshot.Slots = append(snapshot.Slots, s)
		return true
	})
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil
	}
	return pretty.Pretty(raw)
}

// observe pushes tick results into prometheus when a registry was supplied
func (c *Core) observe(stats orchestrator.TickStats) {
	if c.collector == nil {
		return
	}
	st := c.Stats()
	c.collector.PoolSize.Set(float64(st.PoolSize))
	c.collector.OpenReservations.Set(float64(st.OpenReservations))
	c.collector.PendingRequests.Set(float64(st.PendingRequests))
	c.collector.FactoryQueueDepth.Set(float64(st.FactoryQueue))
	c.collector.WarmingSlots.Set(float64(st.Warming))
	for _, role := range constants.Roles() {
		for _, faction := range constants.Factions() {
			for _, bracket := range constants.Brackets() {
				c.collector.ReadySlots.
					WithLabelValues(role.String(), faction.String(), bracket.String()).
					Set(float64(st.Ready[role][faction][bracket]))
			}
		}
	}
	c.collector.Assignments.Add(float64(stats.Resolved))
	c.collector.Expirations.Add(float64(stats.Expired))
	c.collector.WarmupFailures.Add(float64(stats.WarmupRetired))
	if stats.DriftRebuild {
		c.collector.DriftRebuilds.Inc()
	}
}
