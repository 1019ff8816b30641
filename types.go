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

// Package nsrepo implements a per-process, per-worker cache of live namespace
// interfaces: client handles that route reads and writes to the current primary
// replica of a distributed table. The repository amortizes the construction of
// each handle across many short-lived users and tears it down once idle.
package nsrepo

import "strings"

// TableID uniquely identifies a table across the cluster.
type TableID string

// MachineID identifies a cluster node capable of serving as a replica.
type MachineID string

// PeerID identifies a connected process in the directory gossip layer.
type PeerID string

// Role describes the part a machine plays for a key range of a table.
type Role int

const (
	// RoleSecondary is any non-authoritative replica role.
	RoleSecondary Role = iota
	// RolePrimary is the replica responsible for serializing writes over a key range.
	RolePrimary
)

// KeyRange is a half-open interval [Start, End) over the key space. KeyRanges
// within one table are disjoint and cover the keyspace. An empty End denotes
// the open upper bound. Bounds are kept as strings rather than []byte so a
// KeyRange stays comparable and can be used as a map key directly, the way
// Blueprint's per-machine role assignments need.
type KeyRange struct {
	Start string
	End   string
}

// Contains reports whether key falls within the range.
func (r KeyRange) Contains(key []byte) bool {
	if strings.Compare(string(key), r.Start) < 0 {
		return false
	}
	if r.End == "" {
		return true
	}
	return strings.Compare(string(key), r.End) < 0
}

// ReactorCard is an opaque per-peer, per-table advertisement published by the
// directory. Its contents are meaningful only to the NamespaceInterface
// implementation that consumes it; this package only carries it around.
type ReactorCard struct {
	Raw []byte
}
