package hostiface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botpool/internal/model"
)

func TestSimLoginLifecycle(t *testing.T) {
	sim := NewSim()
	sim.PollsUntilLive = 2

	seed := model.BotSeed{AccountID: "a1", Name: "bot", Level: 69, GearScore: 138, MaxHealth: 6900, MaxMana: 3400}
	require.NoError(t, sim.CreateCharacter(seed))
	assert.Error(t, sim.CreateCharacter(seed), "duplicate account must be rejected")

	require.NoError(t, sim.StartLogin("a1"))
	assert.Equal(t, LoginPending, sim.PollLogin("a1"))
	assert.Equal(t, LoginPending, sim.PollLogin("a1"))
	assert.Equal(t, LoginLive, sim.PollLogin("a1"))
	assert.Equal(t, LoginLive, sim.PollLogin("a1"), "live sessions stay live")
	assert.Equal(t, 1, sim.LiveSessions())

	stats, ok := sim.Stats("a1")
	require.True(t, ok)
	assert.Equal(t, 69, stats.Level)
	assert.Equal(t, 138, stats.GearScore)

	sim.Logout("a1")
	assert.Zero(t, sim.LiveSessions())
	assert.Equal(t, LoginFailed, sim.PollLogin("a1"))
}

func TestSimInstantLogin(t *testing.T) {
	sim := NewSim()
	require.NoError(t, sim.CreateCharacter(model.BotSeed{AccountID: "a2"}))
	require.NoError(t, sim.StartLogin("a2"))
	assert.Equal(t, LoginLive, sim.PollLogin("a2"))
}

func TestSimFailEvery(t *testing.T) {
	sim := NewSim()
	sim.FailEvery = 2

	for i, acct := range []string{"b1", "b2", "b3", "b4"} {
		require.NoError(t, sim.CreateCharacter(model.BotSeed{AccountID: acct}))
		require.NoError(t, sim.StartLogin(acct))
		state := sim.PollLogin(acct)
		if (i+1)%2 == 0 {
			assert.Equal(t, LoginFailed, state, "attempt %d should fail", i+1)
		} else {
			assert.Equal(t, LoginLive, state, "attempt %d should succeed", i+1)
		}
	}
}

func TestSimUnknownAccount(t *testing.T) {
	sim := NewSim()
	assert.Error(t, sim.StartLogin("ghost"))
	assert.Equal(t, LoginFailed, sim.PollLogin("ghost"))
	_, ok := sim.Stats("ghost")
	assert.False(t, ok)
}
