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

// Blueprint is the authoritative mapping of machines to roles per key range
// for one table.
type Blueprint struct {
	// InConflict indicates unresolved divergent updates; while true the
	// reactor makes no role changes for this table.
	InConflict bool
	// MachineRoles maps a machine to the roles it holds over that machine's
	// key ranges for this table.
	MachineRoles map[MachineID]map[KeyRange]Role
}

// TableMetadata is the semilattice's per-table record.
type TableMetadata struct {
	Deleted   bool
	Blueprint Blueprint
}

// TableSnapshot is a point-in-time view of every table's metadata.
type TableSnapshot map[TableID]TableMetadata

// SemilatticeView publishes the cluster's table metadata and notifies
// subscribers when it changes. It is an external collaborator: the
// repository only consumes it to derive PrimaryProjection, never mutates it.
type SemilatticeView interface {
	// Snapshot returns the current table map.
	Snapshot() TableSnapshot
	// Changes returns a channel pulsed after every update. Implementations
	// must coalesce bursts (a buffered, size-1 channel is sufficient) rather
	// than block the writer.
	Changes() <-chan struct{}
}
