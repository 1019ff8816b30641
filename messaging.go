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
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Operation selects the kind of request a NamespaceInterface forwards to a
// replica through a MessagingHandle.
type Operation int

const (
	OpGet Operation = iota
	OpPut
	OpDelete
)

// ReplicaRequest is the payload a NamespaceInterface sends to a machine.
type ReplicaRequest struct {
	Table TableID
	Op    Operation
	Key   []byte
	Value []byte
}

// ReplicaResponse is the payload a machine returns.
type ReplicaResponse struct {
	Value []byte
	Found bool
}

// MessagingHandle is the messaging layer a NamespaceInterface uses to reach
// replicas. It is an external collaborator, named only by its contract: the
// repository never constructs or inspects one beyond handing it to
// NamespaceInterface constructors.
type MessagingHandle interface {
	Dispatch(ctx context.Context, machine MachineID, req ReplicaRequest) (ReplicaResponse, error)
}

// httpMessagingHandle is a minimal reference MessagingHandle: it dials the
// machine's address directly over HTTP. It exists so the repository is
// exercisable end to end without a real cluster; production deployments
// supply their own MessagingHandle.
type httpMessagingHandle struct {
	client *http.Client
}

// NewHTTPMessagingHandle builds a MessagingHandle that reaches replicas over
// plain HTTP, addressing MachineID as a "host:port" string.
func NewHTTPMessagingHandle(client *http.Client) MessagingHandle {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpMessagingHandle{client: client}
}

func (h *httpMessagingHandle) Dispatch(ctx context.Context, machine MachineID, req ReplicaRequest) (ReplicaResponse, error) {
	url := fmt.Sprintf("http://%s/_nsrepo/%s/%s", machine, req.Table, opPath(req.Op))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(req.Value))
	if err != nil {
		return ReplicaResponse{}, err
	}
	httpReq.Header.Set("X-NSRepo-Key", string(req.Key))

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return ReplicaResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ReplicaResponse{Found: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return ReplicaResponse{}, fmt.Errorf("nsrepo: machine %s returned status %d", machine, resp.StatusCode)
	}

	buf := make([]byte, 0, 512)
	tmp := make([]byte, 512)
	for {
		n, rerr := resp.Body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if rerr != nil {
			break
		}
	}
	return ReplicaResponse{Value: buf, Found: true}, nil
}

func opPath(op Operation) string {
	switch op {
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	default:
		return "get"
	}
}

// breakerState mirrors the three states of a classic circuit breaker.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// RateLimitConfig bounds the request rate a messagingWrapper allows through.
// The limit applies to all dispatches together, not to each machine
// separately.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	WaitTimeout       time.Duration
}

// CircuitBreakerConfig trips a messagingWrapper open after repeated failures.
type CircuitBreakerConfig struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}

// messagingWrapper protects a MessagingHandle with an optional rate limiter
// and circuit breaker. A single limiter and a single breaker are shared by
// dispatches to every machine; they are not kept per machine. It mirrors the protections
// the teacher repo applies to its DataSource fetches, generalized to replica
// dispatch.
type messagingWrapper struct {
	inner   MessagingHandle
	mu      sync.Mutex
	limiter *rateLimiter
	breaker *circuitBreaker
}

func newMessagingWrapper(inner MessagingHandle, rl *RateLimitConfig, cb *CircuitBreakerConfig) MessagingHandle {
	if rl == nil && cb == nil {
		return inner
	}
	return &messagingWrapper{
		inner:   inner,
		limiter: newRateLimiter(rl),
		breaker: newCircuitBreaker(cb),
	}
}

func (w *messagingWrapper) Dispatch(ctx context.Context, machine MachineID, req ReplicaRequest) (ReplicaResponse, error) {
	if w.breaker != nil && !w.breaker.allow() {
		return ReplicaResponse{}, fmt.Errorf("nsrepo: circuit open for machine %s", machine)
	}
	if w.limiter != nil {
		if err := w.limiter.wait(ctx); err != nil {
			return ReplicaResponse{}, err
		}
	}

	resp, err := w.inner.Dispatch(ctx, machine, req)
	if w.breaker != nil {
		w.breaker.record(err == nil)
	}
	return resp, err
}

// rateLimiter wraps golang.org/x/time/rate.Limiter, the same package the
// teacher repo uses to throttle outbound data-source fetches.
type rateLimiter struct {
	limiter *rate.Limiter
	timeout time.Duration
}

func newRateLimiter(cfg *RateLimitConfig) *rateLimiter {
	if cfg == nil {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		timeout: cfg.WaitTimeout,
	}
}

func (l *rateLimiter) wait(ctx context.Context) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.limiter.Wait(ctx)
}

// circuitBreaker is a minimal closed/open/half-open breaker, ported from the
// teacher repo's datasource_wrapper.go and generalized to guard replica
// dispatch instead of data-source fetches. Failures against any machine
// count toward the same breaker.
type circuitBreaker struct {
	mu           sync.Mutex
	state        breakerState
	failures     int
	threshold    int
	resetTimeout time.Duration
	openedAt     time.Time
}

func newCircuitBreaker(cfg *CircuitBreakerConfig) *circuitBreaker {
	if cfg == nil {
		return nil
	}
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 1
	}
	return &circuitBreaker{
		state:        breakerClosed,
		threshold:    threshold,
		resetTimeout: cfg.ResetTimeout,
	}
}

func (b *circuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		if time.Since(b.openedAt) >= b.resetTimeout {
			b.state = breakerHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

func (b *circuitBreaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if success {
		b.failures = 0
		b.state = breakerClosed
		return
	}

	b.failures++
	if b.state == breakerHalfOpen || b.failures >= b.threshold {
		b.state = breakerOpen
		b.openedAt = time.Now()
	}
}
