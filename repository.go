/*
 * MIT License
 *
 * Copyright (c) 2025-2026 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package nsrepo

import (
	"context"
	"fmt"

	"github.com/tochemey/nsrepo/internal/drainer"
	"github.com/tochemey/nsrepo/warmup"
)

// Repository is a per-process cache of live NamespaceInterfaces, one per
// (worker, table) pair. Callers ask for an interface by WorkerID and
// TableID; the Repository constructs it lazily on first use, keeps it alive
// while referenced, and tears it down after the configured idle timeout
// (NamespaceInterfaceExpiration by default) of disuse. Construct one with New.
type Repository struct {
	cfg *Config

	workers []*worker
	tables  []map[TableID]*entry
	routing []map[TableID]*routingView

	messaging  MessagingHandle
	projector  *projector
	instrument *instrumentation

	hotTracker *warmup.Tracker

	drain *drainer.Drainer
}

// New builds and starts a Repository from cfg. It spawns one goroutine per
// worker and one goroutine running the projector task; call Shutdown to
// stop them all and release every constructed NamespaceInterface.
func New(cfg *Config) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("nsrepo: invalid config: %w", err)
	}

	messaging := newMessagingWrapper(cfg.messaging, cfg.rateLimit, cfg.circuitBreaker)

	r := &Repository{
		cfg:        cfg,
		workers:    make([]*worker, cfg.workerCount),
		tables:     make([]map[TableID]*entry, cfg.workerCount),
		routing:    make([]map[TableID]*routingView, cfg.workerCount),
		messaging:  messaging,
		instrument: newInstrumentation(cfg.metrics, cfg.tracing, cfg.Logger()),
		drain:      drainer.New(),
	}
	for i := 0; i < cfg.workerCount; i++ {
		r.workers[i] = newWorker(WorkerID(i))
		r.tables[i] = make(map[TableID]*entry)
		r.routing[i] = make(map[TableID]*routingView)
	}

	if cfg.warmup != nil {
		r.hotTracker = warmup.NewTracker(cfg.warmup.MaxHotTables)
	}

	r.projector = newProjector(cfg.semilattice, r)
	if err := r.drain.Spawn(func() { r.projector.run(r.drain.Context()) }); err != nil {
		return nil, err
	}

	return r, nil
}

// GetNamespaceInterface returns an Access handle on workerID's
// NamespaceInterface for table, constructing it on first use. The handle
// must be closed by the caller once it is no longer needed.
func (r *Repository) GetNamespaceInterface(ctx context.Context, workerID WorkerID, table TableID) (*Access, error) {
	if int(workerID) < 0 || int(workerID) >= len(r.workers) {
		return nil, fmt.Errorf("nsrepo: invalid worker %d", workerID)
	}
	w := r.workers[workerID]

	if r.hotTracker != nil {
		r.hotTracker.Record(int(workerID), string(table))
	}

	entryCh := make(chan *entry, 1)
	err := w.call(ctx, func() error {
		tbl := r.tables[workerID]
		e, ok := tbl[table]
		if !ok {
			e = r.spawnEntry(w, workerID, table)
		}
		entryCh <- e
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := <-entryCh

	// Suspend on the interface's readiness before ever touching ref_count:
	// a caller interrupted here must get back a failure with no side effect
	// on the entry, leaving it for its own lifecycle task to expire or drain.
	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}

	return newAccess(ctx, e)
}

// spawnEntry must be called from w's own goroutine; it registers a brand new
// entry and starts its lifecycle task under the Repository's drainer.
func (r *Repository) spawnEntry(w *worker, workerID WorkerID, table TableID) *entry {
	routing := newRoutingView()
	if rm, ok := r.projector.snapshot()[table]; ok {
		routing.set(rm)
	}

	e := newEntry(table, w, routing)
	r.tables[workerID][table] = e
	r.routing[workerID][table] = routing

	messaging := r.messaging
	reactors := newTableSubview(r.cfg.directory, table)
	lc := &entryLifecycle{
		e:           e,
		idleTimeout: r.cfg.IdleTimeout(),
		instrument:  r.instrument,
		build: func(ctx context.Context) (NamespaceInterface, error) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return newClusterNamespaceInterface(table, messaging, routing, reactors, r.instrument), nil
		},
		// onErased runs on w, already inside the same closure that pulses
		// e.erased (see entryLifecycle.run) — it must not hop onto w itself
		// via a second submit, or a get_namespace_interface call queued in
		// between the two submissions would find the entry still registered.
		onErased: func() {
			delete(r.tables[workerID], table)
			delete(r.routing[workerID], table)
		},
	}

	// The lifecycle's own waiting runs off the worker goroutine (see
	// entryLifecycle.run); only its construction and teardown steps hop
	// back onto w, so spawning it here does not block this closure.
	_ = r.drain.Spawn(func() { lc.run(r.drain.Context()) })
	return e
}

// fanOutProjection pushes next to every worker's routing views for the
// tables it currently holds live entries for. Each update runs on the
// owning worker so a RegionMap swap is never observed half-written by a
// concurrent reader on that worker.
func (r *Repository) fanOutProjection(next PrimaryProjection) {
	for i, w := range r.workers {
		workerID := i
		worker := w
		worker.submit(func() {
			for table, rv := range r.routing[workerID] {
				if rm, ok := next[table]; ok {
					rv.set(rm)
				}
			}
		})
	}
}

// warmUp constructs namespace interfaces ahead of time for each worker's
// currently hot tables, so the next real caller finds one already built
// instead of paying construction latency cold. It is fire-and-forget: any
// construction error surfaces the normal way the next time a caller asks for
// that table.
func (r *Repository) warmUp() {
	if r.hotTracker == nil || r.cfg.warmup == nil {
		return
	}
	wc := r.cfg.warmup
	for i := range r.workers {
		workerID := WorkerID(i)
		for _, table := range r.hotTracker.TopTables(i, wc.MaxHotTables, wc.MinHits) {
			ctx, cancel := context.WithTimeout(context.Background(), wc.Timeout)
			access, err := r.GetNamespaceInterface(ctx, workerID, TableID(table))
			cancel()
			if err != nil {
				continue
			}
			access.Close()
		}
	}
}

// Shutdown stops the projector task and every entry lifecycle task, waiting
// for all of them to finish tearing down, then stops every worker goroutine.
// It is safe to call once; callers must ensure every Access handle they
// created has already been closed before calling Shutdown, or the
// corresponding entries will be torn down with outstanding references.
func (r *Repository) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.drain.Drain()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	for _, w := range r.workers {
		w.stop()
	}
	return nil
}
