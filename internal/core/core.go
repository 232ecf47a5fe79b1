// Package core assembles the lifecycle components into one value the host
// owns. There are no process-wide singletons: every sub-component hangs off
// Core, and tests instantiate as many cores as they like.
package core

import (
	"time"

	"botpool/internal/adapter"
	"botpool/internal/clock"
	"botpool/internal/content"
	"botpool/internal/factory"
	"botpool/internal/hostiface"
	"botpool/internal/orchestrator"
	"botpool/internal/pool"
	"botpool/internal/reservation"
	"botpool/internal/templates"
	"botpool/internal/warmup"
	"botpool/pkg/config"
	"botpool/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Options optional collaborators for New
type Options struct {
	// Clock defaults to wall time
	Clock clock.Clock

	// Backend defaults to the in-memory simulation backend; real hosts plug
	// their own in
	Backend hostiface.Backend

	// ContentDB defaults to the built-in content tables
	ContentDB *content.DB

	// MetricsRegistry when set, the core registers and updates prometheus
	// instruments there
	MetricsRegistry prometheus.Registerer
}

// Core the instance-bot lifecycle core
type Core struct {
	Config       *config.Config
	Pool         *pool.Pool
	Templates    *templates.Repository
	ContentDB    *content.DB
	Ledger       *reservation.Ledger
	Warmup       *warmup.Scheduler
	Factory      *factory.Factory
	Orchestrator *orchestrator.Orchestrator
	Adapter      *adapter.Adapter
	Backend      hostiface.Backend

	clk       clock.Clock
	collector *metrics.Collector
	tickCount uint64
}

// New builds a core from configuration. Only configuration errors fail here;
// runtime failures degrade per-tick instead.
func New(cfg *config.Config, opts Options) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	backend := opts.Backend
	if backend == nil {
		backend = hostiface.NewSim()
	}
	db := opts.ContentDB
	if db == nil {
		db = content.NewDB()
	}

	p := pool.New(clk)
	repo := templates.NewRepository()
	ledger := reservation.NewLedger(p, clk)
	warm := warmup.New(cfg, p, repo, backend, clk)

	fac, err := factory.New(cfg, repo)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(cfg, p, ledger, fac, db, warm, clk)
	adp := adapter.New(orch, cfg, clk)

	c := &Core{
		Config:       cfg,
		Pool:         p,
		Templates:    repo,
		ContentDB:    db,
		Ledger:       ledger,
		Warmup:       warm,
		Factory:      fac,
		Orchestrator: orch,
		Adapter:      adp,
		Backend:      backend,
		clk:          clk,
	}
	if opts.MetricsRegistry != nil {
		c.collector = metrics.NewCollector(opts.MetricsRegistry)
	}
	return c, nil
}

// Tick advances the core by one host frame
func (c *Core) Tick(delta time.Duration) orchestrator.TickStats {
	c.tickCount++
	stats := c.Orchestrator.Tick(delta)
	c.Adapter.Tick()
	c.observe(stats)
	return stats
}

// Stop shuts the factory worker down. The core itself holds no other
// background resources.
func (c *Core) Stop() {
	c.Factory.Stop()
}

// Ticks total frames processed
func (c *Core) Ticks() uint64 {
	return c.tickCount
}
