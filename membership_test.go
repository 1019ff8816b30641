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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCardDelegatePublishAndSnapshot(t *testing.T) {
	d := newCardDelegate("node-a")

	require.NoError(t, d.publish("users", ReactorCard{Raw: []byte("v1")}))

	select {
	case <-d.changes:
	default:
		t.Fatal("expected a pulse on changes after publish")
	}

	snapshot := d.snapshot()
	require.Equal(t, ReactorCard{Raw: []byte("v1")}, snapshot["node-a"]["users"])
}

func TestCardDelegateWithdraw(t *testing.T) {
	d := newCardDelegate("node-a")
	require.NoError(t, d.publish("users", ReactorCard{Raw: []byte("v1")}))
	<-d.changes

	require.NoError(t, d.withdraw("users"))
	<-d.changes

	snapshot := d.snapshot()
	_, present := snapshot["node-a"]["users"]
	require.False(t, present)
}

func TestCardDelegateNotifyMsgAppliesRemoteUpdate(t *testing.T) {
	d := newCardDelegate("node-a")

	remote := cardUpdate{Peer: "node-b", Table: "orders", Card: ReactorCard{Raw: []byte("v2")}}
	payload, err := json.Marshal(remote)
	require.NoError(t, err)

	d.NotifyMsg(payload)

	snapshot := d.snapshot()
	require.Equal(t, ReactorCard{Raw: []byte("v2")}, snapshot["node-b"]["orders"])
}

func TestCardDelegateMergeRemoteStateSkipsSelf(t *testing.T) {
	d := newCardDelegate("node-a")
	require.NoError(t, d.publish("users", ReactorCard{Raw: []byte("local")}))
	<-d.changes

	remote := DirectorySnapshot{
		"node-a": {"users": {Raw: []byte("stale")}},
		"node-b": {"orders": {Raw: []byte("v3")}},
	}
	payload, err := json.Marshal(remote)
	require.NoError(t, err)

	d.MergeRemoteState(payload, true)

	snapshot := d.snapshot()
	require.Equal(t, ReactorCard{Raw: []byte("local")}, snapshot["node-a"]["users"])
	require.Equal(t, ReactorCard{Raw: []byte("v3")}, snapshot["node-b"]["orders"])
}

func TestCardDelegateForgetPeer(t *testing.T) {
	d := newCardDelegate("node-a")
	d.apply(cardUpdate{Peer: "node-b", Table: "orders", Card: ReactorCard{Raw: []byte("v1")}})
	<-d.changes

	d.forgetPeer("node-b")

	select {
	case <-d.changes:
	case <-time.After(time.Second):
		t.Fatal("expected a pulse on changes after forgetting a peer")
	}

	_, present := d.snapshot()["node-b"]
	require.False(t, present)
}

func TestComputeJoinTimeout(t *testing.T) {
	require.Equal(t, time.Duration(0), computeJoinTimeout(1, time.Second))
	require.Equal(t, 4*time.Second, computeJoinTimeout(5, time.Second))
}
