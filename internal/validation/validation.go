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

// Package validation provides a small composable chain of field validators
// used to check configuration before a component starts.
package validation

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validator checks one condition and returns an error describing the
// violation, or nil.
type Validator interface {
	Validate() error
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func() error

func (f ValidatorFunc) Validate() error { return f() }

// Chain runs a sequence of Validators, either stopping at the first failure
// or collecting every failure, depending on how it was configured.
type Chain struct {
	failFast   bool
	validators []Validator
	violations []error
}

// Option configures a Chain.
type Option func(*Chain)

// FailFast makes Validate return the first violation it hits.
func FailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// AllErrors makes Validate collect every violation before returning. This is
// the default.
func AllErrors() Option {
	return func(c *Chain) { c.failFast = false }
}

// New builds a Chain with the given options applied.
func New(opts ...Option) *Chain {
	chain := &Chain{}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddValidator appends v to the chain and returns the chain for call
// chaining.
func (c *Chain) AddValidator(v Validator) *Chain {
	c.validators = append(c.validators, v)
	return c
}

// AddAssertion appends a boolean assertion: ok must be true or message is
// raised as a violation.
func (c *Chain) AddAssertion(ok bool, message string) *Chain {
	return c.AddValidator(NewBooleanValidator(ok, message))
}

// Validate runs every validator in order. In FailFast mode it returns the
// first error encountered without touching c.violations. Otherwise it
// collects every violation, joins them with "; ", stores them on the chain,
// and returns the joined error (nil if there were none).
func (c *Chain) Validate() error {
	if c.failFast {
		for _, v := range c.validators {
			if err := v.Validate(); err != nil {
				return err
			}
		}
		return nil
	}

	var violations []error
	for _, v := range c.validators {
		if err := v.Validate(); err != nil {
			violations = append(violations, err)
		}
	}
	c.violations = violations
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, len(violations))
	for i, err := range violations {
		msgs[i] = err.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}

// booleanValidator fails with message unless ok is true.
type booleanValidator struct {
	ok      bool
	message string
}

// NewBooleanValidator builds a Validator that fails with message when ok is
// false.
func NewBooleanValidator(ok bool, message string) Validator {
	return &booleanValidator{ok: ok, message: message}
}

func (v *booleanValidator) Validate() error {
	if v.ok {
		return nil
	}
	return errors.New(v.message)
}

// emptyStringValidator fails when value is empty.
type emptyStringValidator struct {
	fieldName string
	value     string
}

// NewEmptyStringValidator builds a Validator that fails when value is empty,
// naming fieldName in the resulting error.
func NewEmptyStringValidator(fieldName, value string) Validator {
	return &emptyStringValidator{fieldName: fieldName, value: value}
}

func (v *emptyStringValidator) Validate() error {
	if strings.TrimSpace(v.value) == "" {
		return fmt.Errorf("the [%s] is required", v.fieldName)
	}
	return nil
}

// conditionalValidator only runs inner when condition is true.
type conditionalValidator struct {
	condition bool
	inner     Validator
}

// NewConditionalValidator builds a Validator that only evaluates inner when
// condition holds.
func NewConditionalValidator(condition bool, inner Validator) Validator {
	return &conditionalValidator{condition: condition, inner: inner}
}

func (v *conditionalValidator) Validate() error {
	if !v.condition {
		return nil
	}
	return v.inner.Validate()
}

// tcpAddressValidator fails unless value is a well-formed "host:port"
// address.
type tcpAddressValidator struct {
	fieldName string
	value     string
}

// NewTCPAddressValidator builds a Validator that fails when value is not a
// syntactically valid "host:port" TCP address.
func NewTCPAddressValidator(fieldName, value string) Validator {
	return &tcpAddressValidator{fieldName: fieldName, value: value}
}

func (v *tcpAddressValidator) Validate() error {
	host, port, err := net.SplitHostPort(v.value)
	if err != nil {
		return fmt.Errorf("the [%s] is not a valid address: %w", v.fieldName, err)
	}
	if port == "" {
		return fmt.Errorf("the [%s] is missing a port", v.fieldName)
	}
	_ = host
	return nil
}
