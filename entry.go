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

import "sync/atomic"

// routingView is the mutable slot a clusterNamespaceInterface reads its
// table's current primary mapping from. The projector task writes it with a
// new RegionMap every time the semilattice changes; readers never block on
// that write.
type routingView struct {
	current atomic.Pointer[RegionMap[MachineID]]
}

func newRoutingView() *routingView {
	return &routingView{}
}

func (v *routingView) set(rm RegionMap[MachineID]) {
	v.current.Store(&rm)
}

func (v *routingView) lookup() (RegionMap[MachineID], bool) {
	p := v.current.Load()
	if p == nil {
		return RegionMap[MachineID]{}, false
	}
	return *p, true
}

// entry is one table's cache line: the lazily constructed NamespaceInterface,
// its reference count, and the edge-triggered signals the keep-alive task in
// lifecycle.go waits on. Every field here is owned by exactly one worker
// goroutine and must only be touched from inside a closure submitted to that
// worker — this is the Go encoding of invariants I2 and I5.
type entry struct {
	table   TableID
	owner   *worker
	routing *routingView

	refCount int

	// ready is closed once the interface has finished constructing
	// (successfully or not); getters wait on it before returning.
	ready chan struct{}
	iface NamespaceInterface
	err   error

	// notifyNonzero is pulsed (closed, then replaced) every time refCount
	// transitions 0 -> 1, waking the keep-alive loop out of its idle-expiry
	// wait. notifyZero is pulsed every time refCount transitions 1 -> 0,
	// waking the loop out of its "still in use" wait. Both are edge-triggered,
	// one-shot-per-transition signals, the Go equivalent of
	// pulse_if_not_already_pulsed on a pair of one-shot cond_ts.
	notifyNonzero chan struct{}
	notifyZero    chan struct{}

	// erased is closed (once) when the keep-alive task has fully torn the
	// entry down and removed it from its worker's table; late releases must
	// not touch the entry after this point.
	erased chan struct{}
}

func newEntry(table TableID, owner *worker, routing *routingView) *entry {
	return &entry{
		table:         table,
		owner:         owner,
		routing:       routing,
		ready:         make(chan struct{}),
		notifyNonzero: make(chan struct{}),
		notifyZero:    make(chan struct{}),
		erased:        make(chan struct{}),
	}
}

// addRef increments the reference count. Must run on e.owner.
func (e *entry) addRef() {
	e.refCount++
	if e.refCount == 1 {
		close(e.notifyNonzero)
		e.notifyNonzero = make(chan struct{})
	}
}

// release decrements the reference count. Must run on e.owner.
func (e *entry) release() {
	e.refCount--
	switch {
	case e.refCount < 0:
		panic("nsrepo: release of entry with negative refCount")
	case e.refCount == 0:
		close(e.notifyZero)
		e.notifyZero = make(chan struct{})
	}
}
