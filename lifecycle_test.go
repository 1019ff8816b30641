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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubInterface struct{}

func (stubInterface) Get(context.Context, []byte) ([]byte, bool, error) { return nil, false, nil }
func (stubInterface) Put(context.Context, []byte, []byte) error         { return nil }
func (stubInterface) Delete(context.Context, []byte) error              { return nil }

func TestEntryLifecycleReadinessThenIdleExpiry(t *testing.T) {
	w := newWorker(0)
	defer w.stop()

	e := newEntry("users", w, newRoutingView())
	erasedByCaller := make(chan struct{})
	lc := &entryLifecycle{
		e:           e,
		idleTimeout: 20 * time.Millisecond,
		build: func(ctx context.Context) (NamespaceInterface, error) {
			return stubInterface{}, nil
		},
		onErased: func() { close(erasedByCaller) },
	}

	drainCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		lc.run(drainCtx)
		close(runDone)
	}()

	select {
	case <-e.ready:
	case <-time.After(time.Second):
		t.Fatal("entry never became ready")
	}
	require.NoError(t, e.err)
	require.Equal(t, stubInterface{}, e.iface)

	select {
	case <-erasedByCaller:
	case <-time.After(time.Second):
		t.Fatal("entry was never erased after its idle timeout")
	}
	<-runDone
}

// TestEntryLifecycleInterruptedDuringReadiness covers the literal
// "shutdown while still initializing" scenario: drain fires before the
// interface finishes constructing, so the lifecycle must report failure on
// entry.ready instead of letting anything touch the interface it discards,
// and must skip keep-alive entirely rather than waiting on a ref count that
// was never incremented.
func TestEntryLifecycleInterruptedDuringReadiness(t *testing.T) {
	w := newWorker(0)
	defer w.stop()

	e := newEntry("users", w, newRoutingView())
	buildStarted := make(chan struct{})
	erased := make(chan struct{})
	lc := &entryLifecycle{
		e:           e,
		idleTimeout: time.Hour,
		build: func(ctx context.Context) (NamespaceInterface, error) {
			close(buildStarted)
			<-ctx.Done()
			return nil, ctx.Err()
		},
		onErased: func() { close(erased) },
	}

	drainCtx, cancel := context.WithCancel(context.Background())

	runDone := make(chan struct{})
	go func() {
		lc.run(drainCtx)
		close(runDone)
	}()

	<-buildStarted
	cancel()

	select {
	case <-e.ready:
	case <-time.After(time.Second):
		t.Fatal("entry never signalled readiness after interruption")
	}
	require.Error(t, e.err, "an interrupted build must surface failure, not a usable interface")
	require.Nil(t, e.iface)

	select {
	case <-erased:
	case <-time.After(time.Second):
		t.Fatal("interrupted lifecycle must still tear down and erase the entry")
	}
	<-runDone
}

func TestRepositoryGetNamespaceInterfaceCancelledBeforeReadinessLeavesNoRef(t *testing.T) {
	repo, _, _ := newTestRepository(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	access, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.Error(t, err)
	require.Nil(t, access)
}
