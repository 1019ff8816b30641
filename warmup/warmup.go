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

// Package warmup tracks how often each table is requested per worker and
// decides which tables are worth constructing eagerly the next time cluster
// topology changes, instead of waiting for the next caller to pay the
// construction latency cold.
package warmup

import (
	"sort"
	"sync"
	"time"

	"github.com/tochemey/nsrepo/internal/syncmap"
)

// Config controls which tables get proactively constructed on topology
// change events.
//
// Hot tables are tracked using a bounded frequency map per worker. When the
// primary projection is rebuilt and WarmOnProjectionChange is set, the
// repository's warm-up pass constructs a NamespaceInterface ahead of time for
// the top N hot tables (MaxHotTables) whose request counts are at least
// MinHits, so the next real caller finds one already built.
type Config struct {
	// MaxHotTables bounds the number of hot tables considered per worker.
	MaxHotTables int
	// MinHits is the minimum request count for a table to be considered hot.
	MinHits uint64
	// Concurrency is defaulted by Normalize. The repository's warm-up pass
	// does not read it: it constructs one table at a time.
	Concurrency int
	// Timeout bounds the per-table warm-up construction duration.
	Timeout time.Duration
	// WarmOnDirectoryChange is defaulted by Normalize. The repository does
	// not watch directory changes, so this flag triggers no warm-up pass.
	WarmOnDirectoryChange bool
	// WarmOnProjectionChange triggers a warm-up pass whenever the primary
	// projection is rebuilt.
	WarmOnProjectionChange bool
}

// Normalize returns a configuration with defaults applied.
func (c Config) Normalize() Config {
	config := c
	if config.MaxHotTables <= 0 {
		config.MaxHotTables = 100
	}

	if config.MinHits == 0 {
		config.MinHits = 1
	}

	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}

	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}

	if !config.WarmOnDirectoryChange && !config.WarmOnProjectionChange {
		config.WarmOnDirectoryChange = true
		config.WarmOnProjectionChange = true
	}
	return config
}

// Tracker records table request frequency per worker for warm-up decisions.
type Tracker struct {
	maxTables int
	workers   *syncmap.Map[int, *hotTableSet]
}

// NewTracker constructs a Tracker with the provided per-worker table cap.
func NewTracker(maxTables int) *Tracker {
	return &Tracker{
		maxTables: maxTables,
		workers:   syncmap.New[int, *hotTableSet](),
	}
}

// Record increments the request count for table on workerID.
func (t *Tracker) Record(workerID int, table string) {
	set, ok := t.workers.Get(workerID)
	if !ok {
		set = newHotTableSet(t.maxTables)
		t.workers.Set(workerID, set)
	}
	set.record(table)
}

// TopTables returns the most frequently requested tables for a worker.
func (t *Tracker) TopTables(workerID int, limit int, minHits uint64) []string {
	set, ok := t.workers.Get(workerID)
	if !ok {
		return nil
	}
	return set.topTables(limit, minHits)
}

type hotTableSet struct {
	mu        sync.Mutex
	maxTables int
	counts    map[string]uint64
}

func newHotTableSet(maxTables int) *hotTableSet {
	return &hotTableSet{
		maxTables: maxTables,
		counts:    make(map[string]uint64),
	}
}

func (s *hotTableSet) record(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[table]++
	if len(s.counts) <= s.maxTables {
		return
	}

	var minTable string
	var minCount uint64
	first := true
	for k, count := range s.counts {
		if first || count < minCount {
			minTable = k
			minCount = count
			first = false
		}
	}
	if minTable != "" {
		delete(s.counts, minTable)
	}
}

func (s *hotTableSet) topTables(limit int, minHits uint64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		return nil
	}

	type tableCount struct {
		table string
		count uint64
	}

	entries := make([]tableCount, 0, len(s.counts))
	for k, count := range s.counts {
		if count < minHits {
			continue
		}
		entries = append(entries, tableCount{table: k, count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count == entries[j].count {
			return entries[i].table < entries[j].table
		}
		return entries[i].count > entries[j].count
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	tables := make([]string, 0, len(entries))
	for _, entry := range entries {
		tables = append(tables, entry.table)
	}
	return tables
}
