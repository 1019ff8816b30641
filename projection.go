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
	"sort"
	"strings"
)

// RegionMap maps disjoint KeyRanges to a value of type T. Entries are kept
// sorted by range start so Lookup can binary search.
type RegionMap[T any] struct {
	entries []regionEntry[T]
}

type regionEntry[T any] struct {
	rng   KeyRange
	value T
}

// insert returns a copy of the map with (rng -> value) added. The receiver is
// left unmodified so callers building a projection never alias another
// thread's map.
func (m RegionMap[T]) insert(rng KeyRange, value T) RegionMap[T] {
	next := RegionMap[T]{entries: make([]regionEntry[T], len(m.entries), len(m.entries)+1)}
	copy(next.entries, m.entries)
	next.entries = append(next.entries, regionEntry[T]{rng: rng, value: value})
	sort.Slice(next.entries, func(i, j int) bool {
		return strings.Compare(next.entries[i].rng.Start, next.entries[j].rng.Start) < 0
	})
	return next
}

// Lookup returns the value whose range contains key.
func (m RegionMap[T]) Lookup(key []byte) (T, bool) {
	var zero T
	idx := sort.Search(len(m.entries), func(i int) bool {
		return strings.Compare(m.entries[i].rng.Start, string(key)) > 0
	})
	// idx is the first entry starting after key; the candidate range is idx-1.
	if idx == 0 {
		return zero, false
	}
	candidate := m.entries[idx-1]
	if candidate.rng.Contains(key) {
		return candidate.value, true
	}
	return zero, false
}

// Len reports the number of disjoint ranges held.
func (m RegionMap[T]) Len() int { return len(m.entries) }

// PrimaryProjection is TableID -> RegionMap(MachineID): the current primary
// replica for every key range of every table, as derived from the latest
// semilattice snapshot. It is immutable once built; the projector constructs a
// fresh value on every metadata change and swaps it into every worker's store.
type PrimaryProjection map[TableID]RegionMap[MachineID]

// buildProjection derives the next PrimaryProjection from a semilattice
// snapshot, given the projection currently in effect.
//
// For every non-deleted table: if its blueprint is in conflict, the prior
// mapping for that table is carried over verbatim (the reactor will not
// change assignments while in conflict, so a stale mapping beats dropping it).
// Otherwise the projection is rebuilt from the blueprint's primary role
// assignments.
func buildProjection(prior PrimaryProjection, snapshot TableSnapshot) PrimaryProjection {
	next := make(PrimaryProjection, len(snapshot))
	for id, meta := range snapshot {
		if meta.Deleted {
			continue
		}
		if meta.Blueprint.InConflict {
			if rm, ok := prior[id]; ok {
				next[id] = rm
			}
			continue
		}
		var rm RegionMap[MachineID]
		for machine, roles := range meta.Blueprint.MachineRoles {
			for rng, role := range roles {
				if role == RolePrimary {
					rm = rm.insert(rng, machine)
				}
			}
		}
		next[id] = rm
	}
	return next
}
