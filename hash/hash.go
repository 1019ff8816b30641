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

// Package hash provides the hashing primitive used to pick a deterministic
// worker for a key within a table.
package hash

import "github.com/zeebo/xxh3"

// Hasher turns a byte slice into a hash code.
type Hasher interface {
	HashCode(data []byte) uint64
}

type xxh3Hasher struct{}

// Default is the package's default Hasher, backed by xxh3.
var Default Hasher = xxh3Hasher{}

func (xxh3Hasher) HashCode(data []byte) uint64 {
	return xxh3.Hash(data)
}

// WorkerFor picks the worker index a key should be routed to out of
// workerCount workers, so repeated calls with the same key always land on
// the same worker.
func WorkerFor(h Hasher, key []byte, workerCount int) int {
	if workerCount <= 0 {
		return 0
	}
	return int(h.HashCode(key) % uint64(workerCount))
}
