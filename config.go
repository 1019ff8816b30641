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

	"github.com/tochemey/nsrepo/internal/validation"
	otelconfig "github.com/tochemey/nsrepo/otel"
	"github.com/tochemey/nsrepo/warmup"
)

// defaultWorkerCount is used when WithWorkerCount is not supplied.
const defaultWorkerCount = 8

// Config holds everything a Repository needs to construct namespace
// interfaces and keep their routing current. Build one with NewConfig and
// the With* options below.
type Config struct {
	workerCount int
	idleTimeout time.Duration

	messaging   MessagingHandle
	directory   DirectoryWatchable
	semilattice SemilatticeView

	rateLimit      *RateLimitConfig
	circuitBreaker *CircuitBreakerConfig

	warmup *warmup.Config

	metrics *otelconfig.MetricConfig
	tracing *otelconfig.TracerConfig
	logger  *slog.Logger
}

// NewConfig builds a Config from a semilattice view, a directory, and a
// messaging handle, with any additional options applied afterward.
func NewConfig(semilattice SemilatticeView, directory DirectoryWatchable, messaging MessagingHandle, opts ...Option) *Config {
	cfg := &Config{
		workerCount: defaultWorkerCount,
		idleTimeout: NamespaceInterfaceExpiration,
		semilattice: semilattice,
		directory:   directory,
		messaging:   messaging,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(cfg)
	}
	return cfg
}

// Validate reports whether the configuration is complete enough to build a
// Repository.
func (c *Config) Validate() error {
	chain := validation.New(validation.AllErrors())
	chain.
		AddAssertion(c.semilattice != nil, "the [semilattice] is required").
		AddAssertion(c.directory != nil, "the [directory] is required").
		AddAssertion(c.messaging != nil, "the [messaging] is required").
		AddAssertion(c.workerCount > 0, "the [workerCount] must be positive").
		AddAssertion(c.idleTimeout > 0, "the [idleTimeout] must be positive")
	return chain.Validate()
}

// WorkerCount returns the configured number of workers.
func (c *Config) WorkerCount() int { return c.workerCount }

// IdleTimeout returns the configured idle expiry duration.
func (c *Config) IdleTimeout() time.Duration { return c.idleTimeout }

// Logger returns the configured logger.
func (c *Config) Logger() *slog.Logger { return c.logger }
