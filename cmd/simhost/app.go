package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"botpool/internal/core"
	"botpool/internal/model"
	"botpool/internal/orchestrator"
	"botpool/pkg/config"
	"botpool/pkg/constants"
	"botpool/pkg/logger"

	"go.uber.org/zap"
)

// tickInterval host frame length the harness simulates
const tickInterval = 100 * time.Millisecond

// Application drives the lifecycle core with synthetic matchmaking traffic:
// periodic dungeon requests against the warm pool, occasional battleground
// fills, and releases once simulated matches run their course.
type Application struct {
	configPath string
	cfg        *config.Config
	core       *core.Core

	stopCh chan struct{}
	wg     sync.WaitGroup

	// live simulated matches: instance id -> tick it ends on
	matches map[model.InstanceID]uint64
}

// NewApplication creates the harness
func NewApplication(configPath string) *Application {
	return &Application{
		configPath: configPath,
		stopCh:     make(chan struct{}),
		matches:    make(map[model.InstanceID]uint64),
	}
}

// Initialize loads configuration and builds the core
func (a *Application) Initialize() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
		if err != nil {
			return err
		}
	} else {
		a.cfg = config.Default()
	}

	if err := logger.Init(a.cfg.Logger); err != nil {
		return err
	}

	a.core, err = core.New(a.cfg, core.Options{
		MetricsRegistry: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return err
	}

	a.core.Orchestrator.SetCallbacks(orchestrator.Callbacks{
		OnBotsAssigned: func(ids []model.SlotID) {
			logger.Infof("consumer received %d bots", len(ids))
		},
		OnBotsAssignedPvP: func(sideA, sideB []model.SlotID) {
			logger.Infof("consumer received pvp rosters: %d vs %d", len(sideA), len(sideB))
		},
		OnAssignmentFailed: func(kind constants.ContentKind, contentID uint32, reason error) {
			logger.Warn("assignment failed",
				zap.String("kind", kind.String()),
				zap.Uint32("content", contentID),
				zap.Error(reason),
			)
		},
	})

	logger.Infof("core ready: %d templates, %d content records",
		a.core.Templates.Count(), a.core.ContentDB.Count())
	return nil
}

// Start runs the tick loop
func (a *Application) Start() {
	a.wg.Add(1)
	go a.loop()
}

func (a *Application) loop() {
	defer a.wg.Done()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.core.Tick(tickInterval)
			a.driveTraffic()
		}
	}
}

// driveTraffic issues synthetic requests once the pool has warmed, and ends
// matches that ran their course.
func (a *Application) driveTraffic() {
	tick := a.core.Ticks()

	for instance, endsAt := range a.matches {
		if tick >= endsAt {
			delete(a.matches, instance)
			a.core.Orchestrator.ReleaseInstance(instance, constants.ReleaseOutcomeSuccess)
		}
	}

	// a dungeon group every ~5 s, a battleground every ~60 s
	if tick%50 == 0 && tick > 100 {
		level := 60 + rand.Intn(10)
		p := a.core.Orchestrator.RequestDungeon(574, "sim-player", level, constants.FactionA, model.Composition{}, true)
		p.Then(func(roster orchestrator.Roster, err error) {
			if err != nil {
				return
			}
			a.matches[roster.InstanceID] = a.core.Ticks() + 300 // ~30 s match
		})
	}
	if tick%600 == 0 && tick > 200 {
		p := a.core.Orchestrator.RequestBattleground(489, constants.Bracket70, model.FactionSplit{})
		p.Then(func(roster orchestrator.Roster, err error) {
			if err != nil {
				return
			}
			a.matches[roster.InstanceID] = a.core.Ticks() + 1200 // ~2 min match
		})
	}

	if tick%100 == 0 {
		st := a.core.Stats()
		logger.Infof("pool=%d ready=%d warming=%d reservations=%d pending=%d",
			st.PoolSize, st.ReadyTotal, st.Warming, st.OpenReservations, st.PendingRequests)
	}
}

// Shutdown stops the loop and the core
func (a *Application) Shutdown(timeout time.Duration) {
	close(a.stopCh)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		a.core.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		logger.Warn("shutdown timed out")
	}
	_ = logger.Sync()
}
