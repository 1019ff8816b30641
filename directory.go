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

// DirectorySnapshot is PeerID -> TableID -> ReactorCard: every connected
// peer's advertisement for every table it knows about.
type DirectorySnapshot map[PeerID]map[TableID]ReactorCard

// DirectoryWatchable publishes the cluster's per-peer reactor cards and
// notifies subscribers when the set changes. Like SemilatticeView, it is an
// external collaborator consumed only through this narrow, subscribable
// contract.
type DirectoryWatchable interface {
	Snapshot() DirectorySnapshot
	Changes() <-chan struct{}
}

// ReactorCardWatchable is a DirectoryWatchable narrowed to a single table, the
// shape a NamespaceInterface actually consumes. It is built once per cache
// entry as part of the entry lifecycle task's cross-thread setup stage.
type ReactorCardWatchable interface {
	Snapshot() map[PeerID]ReactorCard
	Changes() <-chan struct{}
}

// tableSubview projects a DirectoryWatchable down to one table without
// copying the underlying subscription; it is the Go analogue of a
// cross-thread watchable variable built from a subview of the full directory.
type tableSubview struct {
	parent DirectoryWatchable
	table  TableID
}

func newTableSubview(parent DirectoryWatchable, table TableID) ReactorCardWatchable {
	return &tableSubview{parent: parent, table: table}
}

func (s *tableSubview) Snapshot() map[PeerID]ReactorCard {
	full := s.parent.Snapshot()
	out := make(map[PeerID]ReactorCard, len(full))
	for peer, tables := range full {
		if card, ok := tables[s.table]; ok {
			out[peer] = card
		}
	}
	return out
}

func (s *tableSubview) Changes() <-chan struct{} {
	return s.parent.Changes()
}
