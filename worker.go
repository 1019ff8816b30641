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

import "context"

// WorkerID names one of the repository's fixed set of worker threads. The
// original per-OS-thread affinity has no Go equivalent, so callers state
// explicitly which worker they are calling from; the worker abstraction below
// then gives every piece of state touched under that WorkerID the same
// single-goroutine-owner guarantee the original relied on implicitly.
type WorkerID int

// worker runs a serial queue of closures on one goroutine, the Go stand-in
// for "the code that runs on this thread never races with itself." Every
// mutation of a cache entry's ref_count and every mutation of a worker's
// local PrimaryProjection copy happens inside a closure submitted here.
type worker struct {
	id     WorkerID
	queue  chan func()
	done   chan struct{}
}

func newWorker(id WorkerID) *worker {
	w := &worker{
		id:    id,
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *worker) run() {
	defer close(w.done)
	for fn := range w.queue {
		fn()
	}
}

// submit enqueues fn to run on the worker goroutine without waiting for it,
// the analogue of coro_t::spawn_sometime onto a specific thread.
func (w *worker) submit(fn func()) {
	w.queue <- fn
}

// call enqueues fn and blocks the caller until it has run, returning whatever
// error fn produces. It also honors ctx cancellation: if ctx is done before
// fn has finished, call returns ctx.Err() immediately without waiting, while
// fn still runs later on the worker (the queue has no way to retract a
// submitted closure) — fn itself is expected to check ctx before doing real
// work.
func (w *worker) call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	w.submit(func() {
		result <- fn()
	})
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop closes the queue, letting any already-submitted closures drain before
// the goroutine exits. Callers must guarantee no further submit/call happens
// after stop.
func (w *worker) stop() {
	close(w.queue)
	<-w.done
}
