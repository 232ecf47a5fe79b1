package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpool/internal/model"
	"botpool/internal/templates"
	"botpool/pkg/config"
	"botpool/pkg/constants"
)

func factoryCfg() *config.Config {
	cfg := config.Default()
	cfg.Factory.MaxConcurrentJobs = 2
	return cfg
}

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	f, err := New(factoryCfg(), templates.NewRepository())
	require.NoError(t, err)
	t.Cleanup(f.Stop)
	return f
}

// drainUntil pumps Drain on the test goroutine until cond holds or the
// deadline passes. Mirrors how the main loop integrates factory output.
func drainUntil(t *testing.T, f *Factory, adopt AdoptFunc, cond func() bool) int {
	t.Helper()
	integrated := 0
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("factory output did not arrive in time")
		}
		integrated += f.Drain(adopt)
		time.Sleep(time.Millisecond)
	}
	return integrated
}

func TestCompareOrdersByPriorityThenFIFO(t *testing.T) {
	urgent := &Request{Priority: PriorityNearExpiry, seq: 5}
	large := &Request{Priority: PriorityLargeContent, seq: 1}
	bgFirst := &Request{Priority: PriorityBackground, seq: 2}
	bgSecond := &Request{Priority: PriorityBackground, seq: 3}

	assert.Equal(t, -1, urgent.Compare(large), "near-expiry beats large content despite later seq")
	assert.Equal(t, -1, large.Compare(bgFirst))
	assert.Equal(t, 1, bgSecond.Compare(bgFirst), "FIFO within a class")
	assert.Equal(t, -1, bgFirst.Compare(bgSecond))
	assert.Equal(t, 0, bgFirst.Compare(bgFirst))
}

func TestFabricationDeliversFullBatch(t *testing.T) {
	f := newTestFactory(t)

	var progressCalls int
	var lastDone int
	var completed bool
	var delivered []model.SlotID
	var residue int

	id := f.Enqueue(&Request{
		Role:     constants.RoleDPS,
		Faction:  constants.FactionA,
		Bracket:  constants.Bracket70,
		Count:    25,
		Priority: PriorityLargeContent,
		Progress: func(done, total int) {
			progressCalls++
			lastDone = done
			assert.Equal(t, 25, total)
		},
		Complete: func(d []model.SlotID, r int) {
			completed = true
			delivered = append([]model.SlotID(nil), d...)
			residue = r
		},
	})
	require.NotZero(t, id)
	assert.Equal(t, 1, f.QueueDepth())

	var nextSlot model.SlotID
	adopted := 0
	adopt := func(seed model.BotSeed) (model.SlotID, bool) {
		assert.Equal(t, constants.RoleDPS, seed.Role)
		assert.Equal(t, constants.FactionA, seed.Faction)
		assert.Equal(t, constants.Bracket70, seed.Bracket)
		nextSlot++
		adopted++
		return nextSlot, true
	}

	total := drainUntil(t, f, adopt, func() bool { return completed })

	assert.Equal(t, 25, total)
	assert.Equal(t, 25, adopted)
	assert.Len(t, delivered, 25)
	assert.Zero(t, residue)
	assert.Equal(t, 25, lastDone)
	// chunked at ~10%, so progress fired more than once
	assert.GreaterOrEqual(t, progressCalls, 2)
	assert.Zero(t, f.QueueDepth())
}

func TestFabricationHonorsGearFloor(t *testing.T) {
	f := newTestFactory(t)

	var completed bool
	f.Enqueue(&Request{
		Role:         constants.RoleDPS,
		Faction:      constants.FactionA,
		Bracket:      constants.Bracket80,
		Count:        5,
		MinGearScore: 200,
		Priority:     PriorityNearExpiry,
		Complete:     func([]model.SlotID, int) { completed = true },
	})

	var nextSlot model.SlotID
	adopt := func(seed model.BotSeed) (model.SlotID, bool) {
		assert.GreaterOrEqual(t, seed.GearScore, 200, "seeds must be dressed to the floor")
		nextSlot++
		return nextSlot, true
	}
	drainUntil(t, f, adopt, func() bool { return completed })
	assert.Equal(t, model.SlotID(5), nextSlot)
}

func TestCancelledRequestIsNotCredited(t *testing.T) {
	f := newTestFactory(t)

	var completed bool
	var delivered []model.SlotID
	var residue int

	id := f.Enqueue(&Request{
		Role:     constants.RoleTank,
		Faction:  constants.FactionB,
		Bracket:  constants.Bracket60,
		Count:    40,
		Priority: PriorityBackground,
		Complete: func(d []model.SlotID, r int) {
			completed = true
			delivered = d
			residue = r
		},
	})
	f.Cancel(id)
	f.Cancel(id) // idempotent

	var nextSlot model.SlotID
	adopt := func(model.BotSeed) (model.SlotID, bool) {
		nextSlot++
		return nextSlot, true
	}
	drainUntil(t, f, adopt, func() bool { return completed })

	// whether the worker had started or not, nothing is credited
	assert.Empty(t, delivered)
	assert.Equal(t, 40, residue)
	assert.Zero(t, f.QueueDepth())
}

func TestAdoptRejectionReducesCredit(t *testing.T) {
	f := newTestFactory(t)

	var completed bool
	var delivered []model.SlotID
	var residue int

	f.Enqueue(&Request{
		Role:     constants.RoleHealer,
		Faction:  constants.FactionA,
		Bracket:  constants.Bracket50,
		Count:    10,
		Priority: PriorityBackground,
		Complete: func(d []model.SlotID, r int) {
			completed = true
			delivered = d
			residue = r
		},
	})

	// the pool refuses every other seed
	var nextSlot model.SlotID
	flip := false
	adopt := func(model.BotSeed) (model.SlotID, bool) {
		flip = !flip
		if !flip {
			return 0, false
		}
		nextSlot++
		return nextSlot, true
	}
	drainUntil(t, f, adopt, func() bool { return completed })

	assert.Len(t, delivered, 5)
	assert.Equal(t, 5, residue)
}

func TestConcurrentRequestsAllComplete(t *testing.T) {
	f := newTestFactory(t)

	const jobs = 6
	done := 0
	for i := 0; i < jobs; i++ {
		f.Enqueue(&Request{
			Role:     constants.RoleDPS,
			Faction:  constants.FactionA,
			Bracket:  constants.Bracket(i % constants.NumBrackets),
			Count:    8,
			Priority: PriorityBackground,
			Complete: func([]model.SlotID, int) { done++ },
		})
	}
	assert.Equal(t, jobs, f.QueueDepth())

	var nextSlot model.SlotID
	adopt := func(model.BotSeed) (model.SlotID, bool) {
		nextSlot++
		return nextSlot, true
	}
	total := drainUntil(t, f, adopt, func() bool { return done == jobs })

	assert.Equal(t, jobs*8, total)
	assert.Zero(t, f.QueueDepth())
}

func TestStopIsIdempotent(t *testing.T) {
	f, err := New(factoryCfg(), templates.NewRepository())
	require.NoError(t, err)
	f.Stop()
	f.Stop()
}
