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
	"log/slog"
	"time"

	otelconfig "github.com/tochemey/nsrepo/otel"
	"github.com/tochemey/nsrepo/warmup"
)

// Option configures a Config. Options are applied in order by NewConfig.
type Option interface {
	apply(*Config)
}

// OptionFunc adapts a plain function to the Option interface.
type OptionFunc func(*Config)

func (f OptionFunc) apply(cfg *Config) { f(cfg) }

// WithWorkerCount sets how many independent workers the Repository runs.
// Each worker holds its own cache of namespace interfaces, isolated from
// every other worker's.
//
// Default: 8.
func WithWorkerCount(n int) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.workerCount = n
	})
}

// WithIdleTimeout overrides how long an idle namespace interface is kept
// alive before being torn down.
//
// Default: NamespaceInterfaceExpiration (60 seconds).
func WithIdleTimeout(d time.Duration) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.idleTimeout = d
	})
}

// WithRateLimit protects outbound replica dispatch with a token bucket shared
// by all machines.
//
// Default: unlimited.
func WithRateLimit(rl RateLimitConfig) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.rateLimit = &rl
	})
}

// WithCircuitBreaker protects outbound replica dispatch with a circuit
// breaker shared by all machines.
//
// Default: disabled.
func WithCircuitBreaker(cb CircuitBreakerConfig) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.circuitBreaker = &cb
	})
}

// WithMetrics supplies the OpenTelemetry MetricConfig used to publish
// instrumentation counters.
//
// Default: otelconfig.NewMetricConfig().
func WithMetrics(metrics *otelconfig.MetricConfig) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.metrics = metrics
	})
}

// WithLogger overrides the structured logger used for lifecycle events.
//
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.logger = logger
	})
}

// WithTracing supplies the OpenTelemetry TracerConfig used to trace
// NamespaceInterface dispatches.
//
// Default: no tracing.
func WithTracing(tracing *otelconfig.TracerConfig) Option {
	return OptionFunc(func(cfg *Config) {
		cfg.tracing = tracing
	})
}

// WithWarmup enables proactive construction of hot tables' namespace
// interfaces when the primary projection is rebuilt and
// WarmOnProjectionChange is set, instead of waiting for the
// next caller to pay construction latency cold.
//
// Default: disabled.
func WithWarmup(wc warmup.Config) Option {
	return OptionFunc(func(cfg *Config) {
		normalized := wc.Normalize()
		cfg.warmup = &normalized
	})
}
