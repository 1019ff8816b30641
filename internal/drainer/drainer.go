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

// Package drainer tracks a set of in-flight goroutines and lets a shutdown
// sequence cancel their shared context and then wait for every one of them
// to actually finish, rather than just asking them to stop.
package drainer

import (
	"context"
	"errors"
	"sync"
)

// ErrDraining is returned by Spawn once Drain has begun; the caller must not
// start new tracked work after that point.
var ErrDraining = errors.New("drainer: shutting down")

// Drainer is a cancellable context paired with a WaitGroup, the Go
// encoding of auto_drainer_t: goroutines register themselves with Spawn and
// Drain blocks until every registered goroutine has returned.
type Drainer struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	draining bool
	wg       sync.WaitGroup
}

// New builds a Drainer ready to track work.
func New() *Drainer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Drainer{ctx: ctx, cancel: cancel}
}

// Context is cancelled as soon as Drain is called; long-running goroutines
// spawned through this Drainer should select on it to wind down promptly.
func (d *Drainer) Context() context.Context {
	return d.ctx
}

// Spawn runs fn in a new goroutine tracked by the Drainer. It returns
// ErrDraining, without running fn, if Drain has already started.
func (d *Drainer) Spawn(fn func()) error {
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		return ErrDraining
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		fn()
	}()
	return nil
}

// Drain cancels the shared context and blocks until every spawned goroutine
// has returned. Calling Drain more than once is safe; later calls just wait.
func (d *Drainer) Drain() {
	d.mu.Lock()
	if !d.draining {
		d.draining = true
		d.cancel()
	}
	d.mu.Unlock()
	d.wg.Wait()
}
