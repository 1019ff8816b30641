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
	"context"
	"time"

	"github.com/tochemey/nsrepo/admin"
)

// SnapshotEntries implements admin.SnapshotProvider, giving the diagnostic
// server a point-in-time view of every worker's cached entries.
func (r *Repository) SnapshotEntries() (any, error) {
	var out []admin.EntrySnapshot
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i, w := range r.workers {
		workerID := i
		err := w.call(ctx, func() error {
			for table, e := range r.tables[workerID] {
				snap := admin.EntrySnapshot{
					Worker:   workerID,
					Table:    string(table),
					RefCount: e.refCount,
				}
				select {
				case <-e.ready:
					snap.Ready = true
					if e.err != nil {
						snap.Err = e.err.Error()
					}
				default:
				}
				out = append(out, snap)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SnapshotProjection implements admin.SnapshotProvider, reporting the
// projector's current PrimaryProjection.
func (r *Repository) SnapshotProjection() any {
	current := r.projector.snapshot()
	out := make([]admin.ProjectionSnapshot, 0, len(current))
	for table, rm := range current {
		out = append(out, admin.ProjectionSnapshot{
			Table:   string(table),
			Regions: rm.Len(),
		})
	}
	return out
}
