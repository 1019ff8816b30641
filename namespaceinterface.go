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
	"fmt"
)

// NamespaceInterface is the live client handle for one table: it routes a
// key to its current primary replica and dispatches the operation through a
// MessagingHandle. The repository is solely responsible for its
// construction, reference counting, and teardown; callers only ever see one
// through an Access handle.
type NamespaceInterface interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Put(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
}

// clusterNamespaceInterface is the reference NamespaceInterface
// implementation: it looks up the primary for a key in the table's current
// RegionMap and dispatches through the configured MessagingHandle. Its name
// echoes the collaborator it stands in for; the repository never assumes
// this particular implementation beyond the interface above.
type clusterNamespaceInterface struct {
	table      TableID
	messaging  MessagingHandle
	routing    *routingView
	reactors   ReactorCardWatchable
	instrument *instrumentation
}

func newClusterNamespaceInterface(table TableID, messaging MessagingHandle, routing *routingView, reactors ReactorCardWatchable, instrument *instrumentation) NamespaceInterface {
	return &clusterNamespaceInterface{table: table, messaging: messaging, routing: routing, reactors: reactors, instrument: instrument}
}

func (n *clusterNamespaceInterface) primaryFor(key []byte) (MachineID, error) {
	rm, ok := n.routing.lookup()
	if !ok {
		return "", fmt.Errorf("nsrepo: no primary projection for table %s", n.table)
	}
	machine, ok := rm.Lookup(key)
	if !ok {
		return "", fmt.Errorf("nsrepo: no primary replica covers key in table %s", n.table)
	}
	if n.reactors != nil {
		if _, present := n.reactors.Snapshot()[PeerID(machine)]; !present {
			return "", fmt.Errorf("nsrepo: primary %s for table %s is not in the directory", machine, n.table)
		}
	}
	return machine, nil
}

func (n *clusterNamespaceInterface) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	ctx, done := n.instrument.startDispatch(ctx, "Get", n.table)
	machine, err := n.primaryFor(key)
	if err != nil {
		done(err)
		return nil, false, err
	}
	resp, err := n.messaging.Dispatch(ctx, machine, ReplicaRequest{Table: n.table, Op: OpGet, Key: key})
	done(err)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Found, nil
}

func (n *clusterNamespaceInterface) Put(ctx context.Context, key, value []byte) error {
	ctx, done := n.instrument.startDispatch(ctx, "Put", n.table)
	machine, err := n.primaryFor(key)
	if err != nil {
		done(err)
		return err
	}
	_, err = n.messaging.Dispatch(ctx, machine, ReplicaRequest{Table: n.table, Op: OpPut, Key: key, Value: value})
	done(err)
	return err
}

func (n *clusterNamespaceInterface) Delete(ctx context.Context, key []byte) error {
	ctx, done := n.instrument.startDispatch(ctx, "Delete", n.table)
	machine, err := n.primaryFor(key)
	if err != nil {
		done(err)
		return err
	}
	_, err = n.messaging.Dispatch(ctx, machine, ReplicaRequest{Table: n.table, Op: OpDelete, Key: key})
	done(err)
	return err
}
