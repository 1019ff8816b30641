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

import "sync"

// BlueprintStore is an in-memory SemilatticeView: callers push per-table
// updates with Put or Delete and the store pulses Changes for subscribers.
// It performs no merge logic of its own; whatever last wrote a table wins,
// which is sufficient for a single authoritative control plane pushing
// blueprint updates into the repository process.
type BlueprintStore struct {
	mu      sync.RWMutex
	tables  TableSnapshot
	changes chan struct{}
}

var _ SemilatticeView = (*BlueprintStore)(nil)

// NewBlueprintStore builds an empty BlueprintStore.
func NewBlueprintStore() *BlueprintStore {
	return &BlueprintStore{
		tables:  make(TableSnapshot),
		changes: make(chan struct{}, 1),
	}
}

// Put installs or replaces a table's metadata and notifies subscribers.
func (s *BlueprintStore) Put(table TableID, metadata TableMetadata) {
	s.mu.Lock()
	s.tables[table] = metadata
	s.mu.Unlock()
	s.notify()
}

// Delete marks a table as deleted rather than removing it outright, so a
// projection built from a prior snapshot can still observe the table's
// disappearance and drop its region map instead of treating the key range
// as silently unrouted.
func (s *BlueprintStore) Delete(table TableID) {
	s.mu.Lock()
	metadata := s.tables[table]
	metadata.Deleted = true
	s.tables[table] = metadata
	s.mu.Unlock()
	s.notify()
}

// Snapshot implements SemilatticeView.
func (s *BlueprintStore) Snapshot() TableSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(TableSnapshot, len(s.tables))
	for table, metadata := range s.tables {
		out[table] = metadata
	}
	return out
}

// Changes implements SemilatticeView.
func (s *BlueprintStore) Changes() <-chan struct{} {
	return s.changes
}

func (s *BlueprintStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
