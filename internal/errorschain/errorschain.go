// MIT License
//
// Copyright (c) 2025-2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errorschain lets a sequence of fallible setup/teardown steps be
// written as a single chained expression instead of a staircase of
// if err != nil checks.
package errorschain

import "errors"

// Chain accumulates errors from a sequence of steps.
type Chain struct {
	returnFirst bool
	errs        []error
}

// Option configures a Chain.
type Option func(*Chain)

// ReturnFirst makes Error return as soon as a step fails, skipping the rest.
// This is the default.
func ReturnFirst() Option {
	return func(c *Chain) { c.returnFirst = true }
}

// ReturnAll makes Error run every step regardless of earlier failures and
// join every error encountered.
func ReturnAll() Option {
	return func(c *Chain) { c.returnFirst = false }
}

// New builds a Chain with the given options applied. Without options the
// chain behaves like ReturnFirst.
func New(opts ...Option) *Chain {
	c := &Chain{returnFirst: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddError records err if it is non-nil. Its argument is evaluated before the
// call, so a step chained as AddError(fn()) always runs, even after an
// earlier step has failed; in ReturnFirst mode Error still reports only the
// first recorded error. Use Run for steps that must not execute after a
// failure.
func (c *Chain) AddError(err error) *Chain {
	if err != nil {
		c.errs = append(c.errs, err)
	}
	return c
}

// Run executes fn only if the chain has not yet failed in ReturnFirst mode,
// then records its result.
func (c *Chain) Run(fn func() error) *Chain {
	if c.returnFirst && len(c.errs) > 0 {
		return c
	}
	return c.AddError(fn())
}

// Error returns the first recorded error in ReturnFirst mode, or every
// recorded error joined together otherwise. It returns nil if nothing
// failed.
func (c *Chain) Error() error {
	if len(c.errs) == 0 {
		return nil
	}
	if c.returnFirst {
		return c.errs[0]
	}
	return errors.Join(c.errs...)
}
