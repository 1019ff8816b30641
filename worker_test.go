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
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorkerSubmitRunsSerially(t *testing.T) {
	w := newWorker(0)
	defer w.stop()

	var order []int
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		i := i
		w.submit(func() {
			order = append(order, i)
			if i == 9 {
				close(done)
			}
		})
	}
	<-done

	for i, v := range order {
		require.Equal(t, i, v, "worker must execute submitted work in FIFO order")
	}
}

func TestWorkerCallPropagatesError(t *testing.T) {
	w := newWorker(0)
	defer w.stop()

	wantErr := errors.New("boom")
	err := w.call(context.Background(), func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)
}

func TestWorkerCallRespectsContextCancellation(t *testing.T) {
	w := newWorker(0)
	defer w.stop()

	block := make(chan struct{})
	w.submit(func() { <-block })
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.call(ctx, func() error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestWorkerStopDrainsPendingWork(t *testing.T) {
	w := newWorker(0)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		w.submit(func() { ran.Add(1) })
	}
	w.stop()

	require.Eventually(t, func() bool { return ran.Load() == 5 }, time.Second, time.Millisecond)
}
