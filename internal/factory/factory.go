// Package factory is the JIT overflow factory: an asynchronous bulk bot
// fabricator feeding the pool when matchmaking outruns warm capacity.
//
// Fabrication runs on a bounded worker pool off the host main loop. Workers
// never touch pool state; they roll plain seed records and post them to an
// inbox channel that the main loop drains on tick, which is where slots are
// created, indexed, and credited to reservations. The inbox is the single
// cross-thread seam in the whole core.
package factory

import (
	"sync"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/panjf2000/ants/v2"

	"botpool/internal/model"
	"botpool/internal/templates"
	"botpool/pkg/config"
	"botpool/pkg/logger"

	"go.uber.org/zap"
)

// delivery one chunk of fabricated seeds arriving on the inbox
type delivery struct {
	req   *Request
	seeds []model.BotSeed
	final bool
}

// AdoptFunc main-loop hook that turns a seed into a warming pool slot
type AdoptFunc func(seed model.BotSeed) (model.SlotID, bool)

// Factory priority-queued bot fabricator
type Factory struct {
	repo    *templates.Repository
	pq      *queue.PriorityQueue
	workers *ants.Pool
	inbox   chan delivery

	// main loop only
	nextID  uint64
	nextSeq uint64
	pending map[uint64]*Request

	wg      sync.WaitGroup
	stopped bool
}

// New creates a factory and starts its dispatch loop
func New(cfg *config.Config, repo *templates.Repository) (*Factory, error) {
	workers, err := ants.NewPool(int(cfg.Factory.MaxConcurrentJobs))
	if err != nil {
		return nil, err
	}
	f := &Factory{
		repo:    repo,
		pq:      queue.NewPriorityQueue(64, false),
		workers: workers,
		inbox:   make(chan delivery, 256),
		pending: make(map[uint64]*Request),
	}
	f.wg.Add(1)
	go f.dispatchLoop()
	return f, nil
}

// Enqueue accepts a fabrication request. Called from the main loop.
func (f *Factory) Enqueue(req *Request) uint64 {
	f.nextID++
	f.nextSeq++
	req.ID = f.nextID
	req.seq = f.nextSeq
	f.pending[req.ID] = req

	if err := f.pq.Put(req); err != nil {
		logger.Error("factory enqueue failed", zap.Error(err))
		delete(f.pending, req.ID)
		return 0
	}
	logger.Debugf("factory request %d queued: %dx %s/%s/%s prio=%s",
		req.ID, req.Count, req.Role, req.Faction, req.Bracket, req.Priority)
	return req.ID
}

// Cancel marks a request cancelled. A request not yet picked up is skipped
// entirely; a running request finishes fabricating but its residue is not
// credited. Idempotent.
func (f *Factory) Cancel(id uint64) {
	if req, ok := f.pending[id]; ok {
		req.cancelled.Store(true)
	}
}

// QueueDepth requests accepted but not yet completed
func (f *Factory) QueueDepth() int {
	return len(f.pending)
}

// Stop disposes the queue and waits for in-flight fabrication to finish
func (f *Factory) Stop() {
	if f.stopped {
		return
	}
	f.stopped = true
	f.pq.Dispose()
	f.wg.Wait()
	f.workers.Release()
}

// dispatchLoop single consumer of the priority queue; hands each popped
// request to the bounded worker pool. Submit blocks when every worker is
// busy, which is what throttles pops to MaxConcurrentJobs.
func (f *Factory) dispatchLoop() {
	defer f.wg.Done()
	for {
		items, err := f.pq.Get(1)
		if err != nil {
			return // disposed
		}
		req := items[0].(*Request)

		if req.Cancelled() {
			f.inbox <- delivery{req: req, final: true}
			continue
		}

		f.wg.Add(1)
		job := func() {
			defer f.wg.Done()
			f.fabricate(req)
		}
		if err := f.workers.Submit(job); err != nil {
			f.wg.Done()
			logger.Error("factory worker submit failed", zap.Error(err))
			f.inbox <- delivery{req: req, final: true}
		}
	}
}

// fabricate rolls the batch in chunks of ~10% so progress callbacks have
// their guaranteed granularity. Runs on a worker goroutine; touches only the
// template repository (read-only) and the inbox.
func (f *Factory) fabricate(req *Request) {
	chunk := req.Count / 10
	if chunk < 1 {
		chunk = 1
	}

	built := 0
	for built < req.Count {
		n := chunk
		if built+n > req.Count {
			n = req.Count - built
		}
		seeds := make([]model.BotSeed, 0, n)
		for i := 0; i < n; i++ {
			seed, err := f.repo.RollSeedGeared(req.Role, req.Faction, req.Bracket, req.MinGearScore)
			if err != nil {
				logger.Error("seed roll failed", zap.Error(err))
				continue
			}
			seeds = append(seeds, seed)
		}
		built += n
		f.inbox <- delivery{req: req, seeds: seeds, final: built >= req.Count}
	}
}

// Drain integrates fabricated seeds into the pool. Runs on the main loop
// every tick; never blocks. Progress and completion callbacks fire here, so
// consumers only ever hear from the factory on the owner thread.
func (f *Factory) Drain(adopt AdoptFunc) int {
	integrated := 0
	for {
		select {
		case d := <-f.inbox:
			integrated += f.integrate(d, adopt)
		default:
			return integrated
		}
	}
}

func (f *Factory) integrate(d delivery, adopt AdoptFunc) int {
	req := d.req
	count := 0

	// Cancelled mid-run: the bots still enter the pool and become assignable
	// normally, but they are not credited to the request.
	credit := !req.Cancelled()

	for _, seed := range d.seeds {
		id, ok := adopt(seed)
		if !ok {
			continue
		}
		count++
		if credit {
			req.delivered = append(req.delivered, id)
		}
	}

	if credit && req.Progress != nil && count > 0 {
		req.Progress(len(req.delivered), req.Count)
	}

	if d.final {
		delete(f.pending, req.ID)
		if req.Complete != nil {
			residue := req.Count - len(req.delivered)
			if !credit {
				residue = req.Count
				req.delivered = nil
			}
			req.Complete(req.delivered, residue)
		}
	}
	return count
}
