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

// Access is a reference-counted handle on a table's NamespaceInterface. The
// repository guarantees the underlying interface stays alive for as long as
// at least one Access handle referencing it has not been closed. Callers
// must call Close once they are done; later calls have no effect.
type Access struct {
	e        *entry
	released sync.Once
}

func newAccess(ctx context.Context, e *entry) (*Access, error) {
	// The submitted closure is the sole authority on whether addRef ran: it
	// reports its own outcome over refAdded instead of leaving the caller to
	// race done against ctx.Done() independently, which could pick
	// ctx.Done() after addRef already happened and leak the reference with
	// no Access ever handed back to release it.
	refAdded := make(chan bool, 1)
	e.owner.submit(func() {
		if ctx.Err() != nil {
			refAdded <- false
			return
		}
		e.addRef()
		refAdded <- true
	})

	select {
	case ok := <-refAdded:
		if !ok {
			return nil, ctx.Err()
		}
		return &Access{e: e}, nil
	case <-ctx.Done():
		// The closure may not have run yet; wait for its authoritative
		// answer rather than returning early, so a racing addRef is always
		// honored with a live Access instead of becoming a phantom ref.
		if <-refAdded {
			return &Access{e: e}, nil
		}
		return nil, ctx.Err()
	}
}

// Interface blocks until the underlying NamespaceInterface has finished
// constructing (or failed to) and returns it.
func (a *Access) Interface(ctx context.Context) (NamespaceInterface, error) {
	select {
	case <-a.e.ready:
		return a.e.iface, a.e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases this handle's reference. It is safe to call more than once;
// only the first call has any effect.
func (a *Access) Close() {
	a.released.Do(func() {
		a.e.owner.submit(func() {
			a.e.release()
		})
	})
}
