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
	"sync"
)

// projector watches a SemilatticeView and maintains the PrimaryProjection
// derived from it, fanning every update out to the workers that hold live
// routing views. It is the Go counterpart of on_namespaces_change: there is
// exactly one projector per Repository, running on its own goroutine. Apart
// from the initial value spawnEntry seeds a new routing view with, it is the
// only writer of routing views — every write is still applied on the
// routing view's owning worker, preserving the one-writer-per-region-map
// invariant even though the projector itself is not one of the workers.
type projector struct {
	view SemilatticeView
	repo *Repository

	mu      sync.Mutex
	current PrimaryProjection
}

func newProjector(view SemilatticeView, repo *Repository) *projector {
	return &projector{view: view, repo: repo}
}

func (p *projector) snapshot() PrimaryProjection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *projector) run(ctx context.Context) {
	p.rebuild()
	changes := p.view.Changes()
	for {
		select {
		case <-changes:
			p.rebuild()
		case <-ctx.Done():
			return
		}
	}
}

func (p *projector) rebuild() {
	snap := p.view.Snapshot()

	p.mu.Lock()
	next := buildProjection(p.current, snap)
	p.current = next
	p.mu.Unlock()

	p.repo.fanOutProjection(next)
	if p.repo.instrument != nil {
		p.repo.instrument.projectionUpdated(len(next))
	}
	if p.repo.cfg.warmup != nil && p.repo.cfg.warmup.WarmOnProjectionChange {
		_ = p.repo.drain.Spawn(p.repo.warmUp)
	}
}
