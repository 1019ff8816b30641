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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingMessaging struct {
	dispatches atomic.Int32
}

func (m *countingMessaging) Dispatch(_ context.Context, machine MachineID, req ReplicaRequest) (ReplicaResponse, error) {
	m.dispatches.Add(1)
	if req.Op == OpGet {
		return ReplicaResponse{Value: []byte("value-for-" + string(req.Key)), Found: true}, nil
	}
	return ReplicaResponse{}, nil
}

func singleTableDirectory(machine MachineID) *fakeDirectory2 {
	return &fakeDirectory2{
		snapshot: DirectorySnapshot{
			PeerID(machine): {"users": ReactorCard{Raw: []byte("ok")}},
		},
	}
}

type fakeDirectory2 struct {
	snapshot DirectorySnapshot
}

func (d *fakeDirectory2) Snapshot() DirectorySnapshot { return d.snapshot }
func (d *fakeDirectory2) Changes() <-chan struct{}    { return nil }

func newTestRepository(t *testing.T, idleTimeout time.Duration) (*Repository, *BlueprintStore, *countingMessaging) {
	t.Helper()

	store := NewBlueprintStore()
	store.Put("users", TableMetadata{
		Blueprint: Blueprint{
			MachineRoles: map[MachineID]map[KeyRange]Role{
				"node-1": {{Start: "", End: ""}: RolePrimary},
			},
		},
	})

	messaging := &countingMessaging{}
	cfg := NewConfig(store, singleTableDirectory("node-1"), messaging, WithIdleTimeout(idleTimeout), WithWorkerCount(2))

	repo, err := New(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = repo.Shutdown(ctx)
	})

	// give the projector's first rebuild a chance to run before callers ask
	// for a namespace interface.
	require.Eventually(t, func() bool {
		return repo.projector.snapshot()["users"].Len() > 0
	}, time.Second, time.Millisecond)

	return repo, store, messaging
}

func TestRepositoryColdGet(t *testing.T) {
	repo, _, messaging := newTestRepository(t, time.Minute)
	ctx := context.Background()

	access, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	defer access.Close()

	iface, err := access.Interface(ctx)
	require.NoError(t, err)

	value, found, err := iface.Get(ctx, []byte("k1"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("value-for-k1"), value)
	require.Equal(t, int32(1), messaging.dispatches.Load())
}

func TestRepositoryWarmGetReusesInterface(t *testing.T) {
	repo, _, _ := newTestRepository(t, time.Minute)
	ctx := context.Background()

	first, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	firstIface, err := first.Interface(ctx)
	require.NoError(t, err)

	second, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	secondIface, err := second.Interface(ctx)
	require.NoError(t, err)

	require.Same(t, firstIface, secondIface, "a second caller for the same table must reuse the already constructed interface")

	first.Close()
	second.Close()
}

func TestRepositoryIdleExpiry(t *testing.T) {
	repo, _, _ := newTestRepository(t, 30*time.Millisecond)
	ctx := context.Background()

	access, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	_, err = access.Interface(ctx)
	require.NoError(t, err)
	access.Close()

	require.Eventually(t, func() bool {
		return entryCountForTable(t, repo, "users") == 0
	}, 2*time.Second, 5*time.Millisecond, "entry must be torn down after the idle timeout elapses with no references")
}

func TestRepositoryExpiryCancelledByNewAccess(t *testing.T) {
	repo, _, _ := newTestRepository(t, 80*time.Millisecond)
	ctx := context.Background()

	access, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	firstIface, err := access.Interface(ctx)
	require.NoError(t, err)
	access.Close()

	// re-acquire well before the idle timeout elapses.
	time.Sleep(20 * time.Millisecond)
	second, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	secondIface, err := second.Interface(ctx)
	require.NoError(t, err)

	require.Same(t, firstIface, secondIface, "acquiring a new reference before idle expiry must cancel the teardown and keep the same interface")
	second.Close()
}

func TestRepositoryProjectionUpdatePropagatesToWorkers(t *testing.T) {
	repo, store, messaging := newTestRepository(t, time.Minute)
	ctx := context.Background()

	access, err := repo.GetNamespaceInterface(ctx, 0, "users")
	require.NoError(t, err)
	iface, err := access.Interface(ctx)
	require.NoError(t, err)
	require.NoError(t, iface.Put(ctx, []byte("k1"), []byte("v1")))
	require.Equal(t, int32(1), messaging.dispatches.Load())
	access.Close()

	store.Put("users", TableMetadata{
		Blueprint: Blueprint{
			MachineRoles: map[MachineID]map[KeyRange]Role{
				"node-2": {{Start: "", End: ""}: RolePrimary},
			},
		},
	})

	require.Eventually(t, func() bool {
		rm, ok := repo.projector.snapshot()["users"]
		if !ok {
			return false
		}
		machine, ok := rm.Lookup([]byte("k1"))
		return ok && machine == "node-2"
	}, time.Second, time.Millisecond)
}

func TestRepositoryShutdownStopsWorkers(t *testing.T) {
	store := NewBlueprintStore()
	messaging := &countingMessaging{}
	cfg := NewConfig(store, &fakeDirectory{}, messaging)
	repo, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, repo.Shutdown(ctx))
}

func entryCountForTable(t *testing.T, repo *Repository, table TableID) int {
	t.Helper()
	count := 0
	for _, w := range repo.workers {
		done := make(chan struct{})
		w.submit(func() {
			defer close(done)
		})
		<-done
	}
	for i := range repo.workers {
		if _, ok := repo.tables[i][table]; ok {
			count++
		}
	}
	return count
}
