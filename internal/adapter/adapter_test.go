package adapter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpool/internal/clock"
	"botpool/internal/content"
	"botpool/internal/factory"
	"botpool/internal/hostiface"
	"botpool/internal/model"
	"botpool/internal/orchestrator"
	"botpool/internal/pool"
	"botpool/internal/reservation"
	"botpool/internal/templates"
	"botpool/internal/warmup"
	"botpool/pkg/config"
	"botpool/pkg/constants"
	"botpool/pkg/outcome"
)

var testEpoch = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

type adapterRig struct {
	cfg     *config.Config
	clk     *clock.Manual
	pool    *pool.Pool
	sim     *hostiface.Sim
	orch    *orchestrator.Orchestrator
	adapter *Adapter
}

func newAdapterRig(t *testing.T) *adapterRig {
	t.Helper()
	cfg := config.Default()
	cfg.Pool.Enabled = false
	cfg.Warmup.TickBudgetMs = 0

	clk := clock.NewManual(testEpoch)
	p := pool.New(clk)
	repo := templates.NewRepository()
	sim := hostiface.NewSim()
	sim.PollsUntilLive = 100 // keep factory output from landing mid-test
	ledger := reservation.NewLedger(p, clk)
	warm := warmup.New(cfg, p, repo, sim, clk)
	fac, err := factory.New(cfg, repo)
	require.NoError(t, err)
	t.Cleanup(fac.Stop)

	orch := orchestrator.New(cfg, p, ledger, fac, content.NewDB(), warm, clk)
	return &adapterRig{
		cfg:     cfg,
		clk:     clk,
		pool:    p,
		sim:     sim,
		orch:    orch,
		adapter: New(orch, cfg, clk),
	}
}

func (r *adapterRig) seedReady(t *testing.T, n int, role constants.Role, faction constants.Faction, bracket constants.Bracket) []model.SlotID {
	t.Helper()
	level := bracket.MaxLevel()
	if bracket == constants.Bracket80 {
		level = bracket.MinLevel()
	}
	ids := make([]model.SlotID, 0, n)
	for i := 0; i < n; i++ {
		s := r.pool.Create(model.BotSeed{
			AccountID: fmt.Sprintf("adapter-%d-%d-%d-%d", role, faction, bracket, r.pool.Len()),
			Role:      role,
			Faction:   faction,
			Bracket:   bracket,
			Level:     level,
			GearScore: level * 2,
			MaxHealth: level * 100,
		})
		require.NoError(t, r.pool.Transition(s.ID, constants.SlotStateWarming))
		require.NoError(t, r.pool.Transition(s.ID, constants.SlotStateReady))
		ids = append(ids, s.ID)
	}
	return ids
}

func TestRoleMask(t *testing.T) {
	assert.True(t, (RoleMaskTank | RoleMaskDPS).Has(constants.RoleTank))
	assert.False(t, (RoleMaskTank | RoleMaskDPS).Has(constants.RoleHealer))
	assert.True(t, RoleMaskDPS.Has(constants.RoleDPS))

	assert.Equal(t, constants.RoleTank, (RoleMaskTank | RoleMaskHealer | RoleMaskDPS).Best())
	assert.Equal(t, constants.RoleHealer, (RoleMaskHealer | RoleMaskDPS).Best())
	assert.Equal(t, constants.RoleDPS, RoleMaskDPS.Best())
}

func TestCompositionMinusPlayer(t *testing.T) {
	comp := compositionMinusPlayer(RoleMaskTank)
	assert.Equal(t, 0, comp.Need(constants.RoleTank))
	assert.Equal(t, 1, comp.Need(constants.RoleHealer))
	assert.Equal(t, 3, comp.Need(constants.RoleDPS))

	comp = compositionMinusPlayer(RoleMaskDPS)
	assert.Equal(t, 1, comp.Need(constants.RoleTank))
	assert.Equal(t, 2, comp.Need(constants.RoleDPS))
}

func TestQueueDungeonFillsAroundThePlayer(t *testing.T) {
	r := newAdapterRig(t)
	// a tanking player needs 1 healer and 3 dps from the pool
	r.seedReady(t, 1, constants.RoleHealer, constants.FactionA, constants.Bracket60)
	r.seedReady(t, 3, constants.RoleDPS, constants.FactionA, constants.Bracket60)

	p := r.adapter.OnPlayerQueueDungeon("tankplayer", []uint32{329}, RoleMaskTank, 64, constants.FactionA)
	require.NotNil(t, p)
	require.True(t, p.Done())
	roster, err := p.Result()
	require.NoError(t, err)
	assert.Len(t, roster.All(), 4, "the player's own role is not ordered")
	assert.Equal(t, 1, r.adapter.PendingFills())
}

func TestQueueDungeonSkipsUnknownContent(t *testing.T) {
	r := newAdapterRig(t)
	r.seedReady(t, 1, constants.RoleHealer, constants.FactionA, constants.Bracket60)
	r.seedReady(t, 3, constants.RoleDPS, constants.FactionA, constants.Bracket60)

	p := r.adapter.OnPlayerQueueDungeon("tankplayer", []uint32{99999, 329}, RoleMaskTank, 64, constants.FactionA)
	require.NotNil(t, p)
	require.True(t, p.Done())
	_, err := p.Result()
	assert.NoError(t, err, "the second listed dungeon should have been used")
}

func TestQueueDungeonAllUnknown(t *testing.T) {
	r := newAdapterRig(t)
	p := r.adapter.OnPlayerQueueDungeon("player", []uint32{99998, 99999}, RoleMaskDPS, 64, constants.FactionA)
	assert.Nil(t, p)
	assert.Zero(t, r.adapter.PendingFills())
}

func TestLeaveQueueCancelsPending(t *testing.T) {
	r := newAdapterRig(t)
	// empty pool: the fill stays pending on the factory
	p := r.adapter.OnPlayerQueueDungeon("quitter", []uint32{329}, RoleMaskDPS, 55, constants.FactionA)
	require.NotNil(t, p)
	require.False(t, p.Done())

	r.adapter.OnPlayerLeaveQueue("quitter")

	require.True(t, p.Done())
	_, err := p.Result()
	assert.True(t, errors.Is(err, outcome.ErrCancelled))
}

func TestGroupFormedOrdersOnlyTheDeficit(t *testing.T) {
	r := newAdapterRig(t)
	r.seedReady(t, 3, constants.RoleDPS, constants.FactionA, constants.Bracket60)

	members := []GroupMember{
		{ID: "human-tank", IsBot: false, Role: constants.RoleTank},
		{ID: "human-healer", IsBot: false, Role: constants.RoleHealer},
	}
	p := r.adapter.OnGroupFormed("g1", 329, members, 64, constants.FactionA)
	require.NotNil(t, p)
	require.True(t, p.Done())
	roster, err := p.Result()
	require.NoError(t, err)
	assert.Len(t, roster.All(), 3)

	// a full group orders nothing
	full := []GroupMember{
		{ID: "t", Role: constants.RoleTank},
		{ID: "h", Role: constants.RoleHealer},
		{ID: "d1", Role: constants.RoleDPS},
		{ID: "d2", Role: constants.RoleDPS},
		{ID: "d3", Role: constants.RoleDPS},
	}
	assert.Nil(t, r.adapter.OnGroupFormed("g2", 329, full, 64, constants.FactionA))
}

func TestGroupDisbandedBeforeResolutionCancels(t *testing.T) {
	r := newAdapterRig(t)
	members := []GroupMember{{ID: "human", Role: constants.RoleTank}}
	p := r.adapter.OnGroupFormed("g1", 329, members, 55, constants.FactionA)
	require.NotNil(t, p)
	require.False(t, p.Done())

	r.adapter.OnGroupDisbanded("g1")

	require.True(t, p.Done())
	_, err := p.Result()
	assert.True(t, errors.Is(err, outcome.ErrCancelled))
	assert.Zero(t, r.adapter.PendingFills())
}

func TestGroupDisbandedAfterResolutionReleases(t *testing.T) {
	r := newAdapterRig(t)
	ids := r.seedReady(t, 3, constants.RoleDPS, constants.FactionA, constants.Bracket60)
	members := []GroupMember{
		{ID: "human-tank", Role: constants.RoleTank},
		{ID: "human-healer", Role: constants.RoleHealer},
	}
	p := r.adapter.OnGroupFormed("g1", 329, members, 64, constants.FactionA)
	require.True(t, p.Done())

	r.adapter.OnGroupDisbanded("g1")

	for _, id := range ids {
		s, ok := r.pool.Get(id)
		require.True(t, ok)
		assert.Equal(t, constants.SlotStateCooldown, s.State)
		assert.Equal(t, uint32(1), s.Stats.EarlyExits)
	}
	assert.Zero(t, r.adapter.PendingFills())
}

func TestBGQueueTickHumansSufficient(t *testing.T) {
	r := newAdapterRig(t)
	assert.False(t, r.adapter.OnBGQueueTick(489, constants.Bracket70, 10, 10, 10, 10))
	assert.Zero(t, r.adapter.PendingFills())
}

func TestBGQueueTickOrdersAndLinks(t *testing.T) {
	r := newAdapterRig(t)
	// Warsong scaled to tiny deficits lands on pure dps seats
	r.seedReady(t, 2, constants.RoleDPS, constants.FactionA, constants.Bracket70)
	r.seedReady(t, 1, constants.RoleDPS, constants.FactionB, constants.Bracket70)

	ok := r.adapter.OnBGQueueTick(489, constants.Bracket70, 8, 9, 10, 10)
	assert.True(t, ok, "a fill was ordered, bots are on the way")
	assert.Equal(t, 1, r.adapter.PendingFills())

	// repeated host polls do not order twice
	assert.True(t, r.adapter.OnBGQueueTick(489, constants.Bracket70, 8, 9, 10, 10))
	assert.Equal(t, 1, r.adapter.PendingFills())

	r.adapter.OnBGStarting(777, 489, constants.Bracket70, 10, 10)
	assert.Zero(t, r.adapter.PendingFills(), "starting consumes the tracked fill")

	assigned := 0
	r.pool.ForEach(func(s *model.Slot) bool {
		if s.State == constants.SlotStateAssigned {
			assigned++
		}
		return true
	})
	assert.Equal(t, 3, assigned)

	r.adapter.OnBGEnded(777, constants.FactionA)
	r.pool.ForEach(func(s *model.Slot) bool {
		assert.Equal(t, constants.SlotStateCooldown, s.State)
		assert.Equal(t, uint32(1), s.Stats.Completions)
		return true
	})

	// ending an unknown instance is a no-op
	r.adapter.OnBGEnded(777, constants.FactionA)
	r.adapter.OnBGEnded(12345, constants.FactionB)
}

func TestArenaPreparingOrdersBothTeams(t *testing.T) {
	r := newAdapterRig(t)
	r.seedReady(t, 2, constants.RoleDPS, constants.FactionA, constants.Bracket80)
	r.seedReady(t, 2, constants.RoleDPS, constants.FactionB, constants.Bracket80)

	assert.False(t, r.adapter.OnArenaPreparing(559, constants.Bracket80, []string{"glad1", "glad2"}, []string{"glad3", "glad4"}, 0, 0))

	ok := r.adapter.OnArenaPreparing(559, constants.Bracket80, []string{"glad1"}, nil, 1, 2)
	assert.True(t, ok)
	assert.Equal(t, 1, r.adapter.PendingFills())
	assert.True(t, r.adapter.OnArenaPreparing(559, constants.Bracket80, []string{"glad1"}, nil, 1, 2), "in-flight fill answers true")
}

func TestBGFillPastDeadlineIsAbandoned(t *testing.T) {
	r := newAdapterRig(t)
	r.cfg.Factory.BGCallbackDeadlineMs = 30_000

	// empty pool: the fill pends on the factory
	require.True(t, r.adapter.OnBGQueueTick(489, constants.Bracket70, 0, 0, 10, 10))
	require.Equal(t, 1, r.adapter.PendingFills())
	require.Equal(t, 1, r.orch.PendingCount())

	r.clk.Advance(31 * time.Second)

	// the next host poll gives up instead of vouching for bots forever
	assert.False(t, r.adapter.OnBGQueueTick(489, constants.Bracket70, 0, 0, 10, 10))
	assert.Zero(t, r.adapter.PendingFills())
	assert.Zero(t, r.orch.PendingCount())
}

func TestBGFillDeadlineSweptOnTick(t *testing.T) {
	r := newAdapterRig(t)
	require.True(t, r.adapter.OnBGQueueTick(489, constants.Bracket70, 0, 0, 10, 10))

	// the bg deadline is far shorter than the generic fill timeout
	r.clk.Advance(r.cfg.BGCallbackDeadline() + time.Second)
	r.adapter.Tick()

	assert.Zero(t, r.adapter.PendingFills())
	assert.Zero(t, r.orch.PendingCount())
}

func TestInstanceResetReleasesEarly(t *testing.T) {
	r := newAdapterRig(t)
	ids := r.seedReady(t, 3, constants.RoleDPS, constants.FactionA, constants.Bracket60)

	p := r.orch.RequestDungeon(329, "p", 64, constants.FactionA, model.NewComposition(0, 0, 3), true)
	require.True(t, p.Done())
	roster, err := p.Result()
	require.NoError(t, err)

	r.adapter.LinkInstance(555, roster.InstanceID)
	r.adapter.OnInstanceReset(329, 555)

	for _, id := range ids {
		s, _ := r.pool.Get(id)
		assert.Equal(t, constants.SlotStateCooldown, s.State)
		assert.Equal(t, uint32(1), s.Stats.EarlyExits)
	}
}

func TestStaleUnresolvedFillIsCancelled(t *testing.T) {
	r := newAdapterRig(t)
	p := r.adapter.OnPlayerQueueDungeon("slowpoke", []uint32{329}, RoleMaskDPS, 55, constants.FactionA)
	require.NotNil(t, p)
	require.False(t, p.Done())
	require.Equal(t, 1, r.adapter.PendingFills())

	r.clk.Advance(3 * time.Minute)
	r.adapter.Tick()

	assert.Zero(t, r.adapter.PendingFills())
	require.True(t, p.Done())
	_, err := p.Result()
	assert.True(t, errors.Is(err, outcome.ErrCancelled))
}

func TestStaleResolvedFillIsDroppedWithoutCancel(t *testing.T) {
	r := newAdapterRig(t)
	ids := r.seedReady(t, 3, constants.RoleDPS, constants.FactionA, constants.Bracket60)
	members := []GroupMember{
		{ID: "t", Role: constants.RoleTank},
		{ID: "h", Role: constants.RoleHealer},
	}
	p := r.adapter.OnGroupFormed("g1", 329, members, 64, constants.FactionA)
	require.True(t, p.Done())
	require.Equal(t, 1, r.adapter.PendingFills())

	r.clk.Advance(3 * time.Minute)
	r.adapter.Tick()

	assert.Zero(t, r.adapter.PendingFills())
	for _, id := range ids {
		s, _ := r.pool.Get(id)
		assert.Equal(t, constants.SlotStateAssigned, s.State, "a delivered roster stays delivered")
	}
}
