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
	"time"
)

// NamespaceInterfaceExpiration is the idle duration a constructed
// NamespaceInterface is kept alive after its reference count drops to zero,
// in case another caller asks for the same table again soon.
const NamespaceInterfaceExpiration = 60000 * time.Millisecond

// entryLifecycle drives one entry from construction through keep-alive to
// teardown. It is the Go analogue of
// create_and_destroy_namespace_interface: cross-thread construction,
// followed by an indefinite keep-alive loop that exits either on idle
// expiry or on repository shutdown.
type entryLifecycle struct {
	e           *entry
	build       func(ctx context.Context) (NamespaceInterface, error)
	idleTimeout time.Duration
	onErased    func()
	instrument  *instrumentation
}

// run executes the full lifecycle: a cancellable await-readiness stage, then
// (unless interrupted) keep-alive, then teardown. Waiting is off-loaded onto
// this task's own goroutine rather than the worker's, since blocking here
// must not stall the worker's queue from servicing add_ref/release calls for
// other entries. drainCtx is cancelled when the repository begins shutting
// down; if it fires before the interface finishes constructing, stage 3 is
// interrupted and the lifecycle jumps straight to teardown with the
// partially-constructed interface discarded, exactly as a second `get`
// arriving during stage 3 would find no entry to spawn against (it would
// simply observe the same drained entry).
func (lc *entryLifecycle) run(drainCtx context.Context) {
	type built struct {
		iface NamespaceInterface
		err   error
	}
	buildDone := make(chan built, 1)
	go func() {
		iface, err := lc.build(drainCtx)
		buildDone <- built{iface, err}
	}()

	var iface NamespaceInterface
	var err error
	interrupted := false
	select {
	case b := <-buildDone:
		iface, err = b.iface, b.err
	case <-drainCtx.Done():
		// Discard whatever build eventually produces; this entry never
		// becomes usable.
		interrupted = true
		err = drainCtx.Err()
	}

	done := make(chan struct{})
	lc.e.owner.submit(func() {
		lc.e.iface = iface
		lc.e.err = err
		close(lc.e.ready)
		close(done)
	})
	<-done

	if lc.instrument != nil {
		lc.instrument.entryConstructed(lc.e.table, err)
	}

	if !interrupted {
		lc.keepAlive(drainCtx)
	}

	// The map delete and the erased pulse must land in the same closure: if
	// they were two separate submissions, a get_namespace_interface call
	// queued on this worker between them would find the entry still in the
	// table map after this task has stopped managing it. Spec.md's stage 6
	// requires the erasure to happen without yielding the task for exactly
	// this reason.
	finalDone := make(chan struct{})
	lc.e.owner.submit(func() {
		if lc.onErased != nil {
			lc.onErased()
		}
		close(lc.e.erased)
		close(finalDone)
	})
	<-finalDone

	if lc.instrument != nil {
		lc.instrument.entryErased(lc.e.table)
	}
}

func (lc *entryLifecycle) keepAlive(drainCtx context.Context) {
	for {
		type snapshot struct {
			refCount int
			zero     chan struct{}
			nonzero  chan struct{}
		}
		snapCh := make(chan snapshot, 1)
		lc.e.owner.submit(func() {
			snapCh <- snapshot{refCount: lc.e.refCount, zero: lc.e.notifyZero, nonzero: lc.e.notifyNonzero}
		})
		snap := <-snapCh

		if snap.refCount != 0 {
			select {
			case <-snap.zero:
				continue
			case <-drainCtx.Done():
				return
			}
		}

		timer := time.NewTimer(lc.idleTimeout)
		select {
		case <-timer.C:
			stillIdle := make(chan bool, 1)
			lc.e.owner.submit(func() {
				stillIdle <- lc.e.refCount == 0
			})
			if <-stillIdle {
				return
			}
			continue
		case <-snap.nonzero:
			timer.Stop()
			continue
		case <-drainCtx.Done():
			timer.Stop()
			return
		}
	}
}
