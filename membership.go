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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"github.com/hashicorp/memberlist"

	"github.com/tochemey/nsrepo/discovery"
	"github.com/tochemey/nsrepo/internal/errorschain"
	"github.com/tochemey/nsrepo/internal/tcp"
)

// ErrClusterQuorum is returned when discovery finds at least one peer but
// fewer than MinimumPeersQuorum. Finding no peers at all is not an error: the
// node then starts as the first member of a new cluster.
var ErrClusterQuorum = errors.New("nsrepo: cluster quorum not met")

// MembershipConfig configures a Membership directory.
type MembershipConfig struct {
	// BindAddr and BindPort identify this node's memberlist gossip endpoint.
	BindAddr string
	BindPort int
	// AdvertisePort is advertised to peers in place of BindPort when set,
	// for nodes behind port forwarding.
	AdvertisePort int
	// Interface, when set, overrides BindAddr by resolving the bind IP from
	// a named network interface.
	Interface string

	// Discovery bootstraps the initial peer list before memberlist gossip
	// takes over.
	Discovery discovery.Provider

	MaxJoinAttempts    int
	JoinRetryInterval  time.Duration
	MinimumPeersQuorum int
	BootstrapTimeout   time.Duration

	Logger *slog.Logger
}

func (c MembershipConfig) normalize() MembershipConfig {
	cfg := c
	if cfg.MaxJoinAttempts <= 0 {
		cfg.MaxJoinAttempts = 5
	}
	if cfg.JoinRetryInterval <= 0 {
		cfg.JoinRetryInterval = time.Second
	}
	if cfg.MinimumPeersQuorum <= 0 {
		cfg.MinimumPeersQuorum = 1
	}
	if cfg.BootstrapTimeout <= 0 {
		cfg.BootstrapTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Membership is a DirectoryWatchable backed by hashicorp/memberlist: node
// presence travels over gossip, and each node's per-table ReactorCard
// advertisements ride memberlist's broadcast queue and push-pull state sync.
type Membership struct {
	cfg  MembershipConfig
	self PeerID

	mconfig *memberlist.Config
	mlist   *memberlist.Memberlist
	card    *cardDelegate

	peerAddrs goset.Set[string]
	peerLock  sync.Mutex

	stopEventsSig chan struct{}
	started       atomic.Bool
}

var _ DirectoryWatchable = (*Membership)(nil)

// NewMembership resolves this node's bind address and builds a Membership
// ready to Join.
func NewMembership(cfg MembershipConfig) (*Membership, error) {
	cfg = cfg.normalize()

	addr := net.JoinHostPort(cfg.BindAddr, strconv.Itoa(cfg.BindPort))
	bindIP, err := tcp.GetBindIP(cfg.Interface, addr)
	if err != nil {
		return nil, fmt.Errorf("nsrepo: failed to resolve bind IP: %w", err)
	}
	cfg.BindAddr = bindIP
	if cfg.AdvertisePort == 0 {
		cfg.AdvertisePort = cfg.BindPort
	}

	return &Membership{
		cfg:           cfg,
		self:          PeerID(net.JoinHostPort(bindIP, strconv.Itoa(cfg.AdvertisePort))),
		peerAddrs:     goset.NewSet[string](),
		stopEventsSig: make(chan struct{}, 1),
	}, nil
}

// Self returns this node's PeerID.
func (m *Membership) Self() PeerID { return m.self }

// Join bootstraps discovery and joins the memberlist cluster.
func (m *Membership) Join(ctx context.Context) error {
	m.cfg.Logger.Info("nsrepo membership starting", "self", string(m.self))

	m.mconfig = memberlist.DefaultLANConfig()
	m.mconfig.BindAddr = m.cfg.BindAddr
	m.mconfig.BindPort = m.cfg.BindPort
	m.mconfig.AdvertisePort = m.cfg.AdvertisePort
	m.mconfig.Name = string(m.self)
	m.mconfig.LogOutput = newLogWriter(m.cfg.Logger)

	m.card = newCardDelegate(m.self)
	m.mconfig.Delegate = m.card

	eventsCh := make(chan memberlist.NodeEvent, 256)
	m.mconfig.Events = &memberlist.ChannelEventDelegate{Ch: eventsCh}

	provider := m.cfg.Discovery
	if err := errorschain.
		New(errorschain.ReturnFirst()).
		Run(provider.Initialize).
		Run(provider.Register).
		Run(func() error { return m.joinCluster(ctx) }).
		Error(); err != nil {
		return err
	}

	m.started.Store(true)
	go m.eventsListener(eventsCh)

	m.cfg.Logger.Info("nsrepo membership started", "self", string(m.self))
	return nil
}

func (m *Membership) joinCluster(ctx context.Context) error {
	var err error
	m.mlist, err = memberlist.Create(m.mconfig)
	if err != nil {
		return err
	}

	joinTimeout := computeJoinTimeout(m.cfg.MaxJoinAttempts, m.cfg.JoinRetryInterval)

	discoverCtx, cancel := context.WithTimeout(ctx, joinTimeout)
	var peers []string
	discoverer := retry.NewRetrier(m.cfg.MaxJoinAttempts, m.cfg.JoinRetryInterval, m.cfg.JoinRetryInterval)
	if err := discoverer.RunContext(discoverCtx, func(context.Context) error {
		peers, err = m.cfg.Discovery.DiscoverPeers()
		return err
	}); err != nil {
		cancel()
		return err
	}
	cancel()

	if len(peers) == 0 {
		return nil
	}
	if len(peers) < m.cfg.MinimumPeersQuorum {
		return ErrClusterQuorum
	}

	joinCtx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()
	joiner := retry.NewRetrier(m.cfg.MaxJoinAttempts, m.cfg.JoinRetryInterval, m.cfg.JoinRetryInterval)
	if err := joiner.RunContext(joinCtx, func(context.Context) error {
		_, err := m.mlist.Join(peers)
		return err
	}); err != nil {
		return err
	}

	m.cfg.Logger.Info("nsrepo membership joined cluster", "peers", strings.Join(peers, ","))
	return nil
}

func computeJoinTimeout(maxAttempts int, retryInterval time.Duration) time.Duration {
	if maxAttempts <= 1 {
		return 0
	}
	return time.Duration(maxAttempts-1) * retryInterval
}

func (m *Membership) eventsListener(eventsCh chan memberlist.NodeEvent) {
	for {
		select {
		case <-m.stopEventsSig:
			return
		case event := <-eventsCh:
			addr := event.Node.Name
			switch event.Event {
			case memberlist.NodeJoin:
				m.peerLock.Lock()
				m.peerAddrs.Add(addr)
				m.peerLock.Unlock()
				m.cfg.Logger.Info("nsrepo membership observed node join", "peer", addr)
			case memberlist.NodeLeave:
				m.peerLock.Lock()
				m.peerAddrs.Remove(addr)
				m.peerLock.Unlock()
				m.card.forgetPeer(PeerID(addr))
				m.cfg.Logger.Info("nsrepo membership observed node leave", "peer", addr)
			case memberlist.NodeUpdate:
				continue
			}
		}
	}
}

// PublishCard advertises this node's ReactorCard for table to the rest of
// the cluster.
func (m *Membership) PublishCard(table TableID, card ReactorCard) error {
	return m.card.publish(table, card)
}

// WithdrawCard removes this node's advertisement for table.
func (m *Membership) WithdrawCard(table TableID) error {
	return m.card.withdraw(table)
}

// Snapshot implements DirectoryWatchable.
func (m *Membership) Snapshot() DirectorySnapshot {
	return m.card.snapshot()
}

// Changes implements DirectoryWatchable.
func (m *Membership) Changes() <-chan struct{} {
	return m.card.changes
}

// Leave gracefully departs the cluster and deregisters from discovery.
func (m *Membership) Leave(ctx context.Context, timeout time.Duration) error {
	if !m.started.Load() {
		return nil
	}
	close(m.stopEventsSig)

	return errorschain.
		New(errorschain.ReturnFirst()).
		AddError(m.mlist.Leave(timeout)).
		AddError(m.cfg.Discovery.Deregister()).
		AddError(m.cfg.Discovery.Close()).
		AddError(m.mlist.Shutdown()).
		Error()
}

type logWriter struct {
	logger *slog.Logger
}

func newLogWriter(logger *slog.Logger) *logWriter {
	return &logWriter{logger: logger}
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.logger.Info(strings.TrimSpace(string(p)))
	return len(p), nil
}

// cardUpdate is the wire format broadcast over memberlist for one table's
// ReactorCard, or its withdrawal.
type cardUpdate struct {
	Peer      PeerID
	Table     TableID
	Card      ReactorCard
	Withdrawn bool
}

// cardDelegate implements memberlist.Delegate to gossip per-table
// ReactorCard advertisements alongside membership, and to push-pull the full
// directory to newly joined nodes.
type cardDelegate struct {
	self PeerID

	mu    sync.Mutex
	cards DirectorySnapshot

	broadcasts memberlist.TransmitLimitedQueue
	changes    chan struct{}
}

func newCardDelegate(self PeerID) *cardDelegate {
	d := &cardDelegate{
		self:    self,
		cards:   make(DirectorySnapshot),
		changes: make(chan struct{}, 1),
	}
	d.broadcasts.NumNodes = func() int { return 1 }
	d.broadcasts.RetransmitMult = 3
	return d
}

func (d *cardDelegate) publish(table TableID, card ReactorCard) error {
	payload, err := json.Marshal(cardUpdate{Peer: d.self, Table: table, Card: card})
	if err != nil {
		return err
	}
	d.apply(cardUpdate{Peer: d.self, Table: table, Card: card})
	d.broadcasts.QueueBroadcast(simpleBroadcast(payload))
	return nil
}

func (d *cardDelegate) withdraw(table TableID) error {
	payload, err := json.Marshal(cardUpdate{Peer: d.self, Table: table, Withdrawn: true})
	if err != nil {
		return err
	}
	d.apply(cardUpdate{Peer: d.self, Table: table, Withdrawn: true})
	d.broadcasts.QueueBroadcast(simpleBroadcast(payload))
	return nil
}

func (d *cardDelegate) apply(u cardUpdate) {
	d.mu.Lock()
	tables, ok := d.cards[u.Peer]
	if !ok {
		tables = make(map[TableID]ReactorCard)
		d.cards[u.Peer] = tables
	}
	if u.Withdrawn {
		delete(tables, u.Table)
	} else {
		tables[u.Table] = u.Card
	}
	d.mu.Unlock()
	d.notify()
}

func (d *cardDelegate) forgetPeer(peer PeerID) {
	d.mu.Lock()
	_, existed := d.cards[peer]
	delete(d.cards, peer)
	d.mu.Unlock()
	if existed {
		d.notify()
	}
}

func (d *cardDelegate) notify() {
	select {
	case d.changes <- struct{}{}:
	default:
	}
}

func (d *cardDelegate) snapshot() DirectorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(DirectorySnapshot, len(d.cards))
	for peer, tables := range d.cards {
		copied := make(map[TableID]ReactorCard, len(tables))
		for table, card := range tables {
			copied[table] = card
		}
		out[peer] = copied
	}
	return out
}

// NodeMeta implements memberlist.Delegate. Node identity already travels in
// the memberlist Name field; no extra metadata is needed.
func (d *cardDelegate) NodeMeta(limit int) []byte { return nil }

// NotifyMsg implements memberlist.Delegate: applies a gossiped card update.
func (d *cardDelegate) NotifyMsg(buf []byte) {
	if len(buf) == 0 {
		return
	}
	var u cardUpdate
	if err := json.Unmarshal(buf, &u); err != nil {
		return
	}
	d.apply(u)
}

// GetBroadcasts implements memberlist.Delegate.
func (d *cardDelegate) GetBroadcasts(overhead, limit int) [][]byte {
	return d.broadcasts.GetBroadcasts(overhead, limit)
}

// LocalState implements memberlist.Delegate: the full directory, sent to a
// peer during push-pull state sync so a newly joined node catches up
// without waiting on random gossip.
func (d *cardDelegate) LocalState(join bool) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	payload, err := json.Marshal(d.cards)
	if err != nil {
		return nil
	}
	return payload
}

// MergeRemoteState implements memberlist.Delegate: merges a peer's full
// directory snapshot into the local view.
func (d *cardDelegate) MergeRemoteState(buf []byte, join bool) {
	if len(buf) == 0 {
		return
	}
	var remote DirectorySnapshot
	if err := json.Unmarshal(buf, &remote); err != nil {
		return
	}
	d.mu.Lock()
	for peer, tables := range remote {
		if peer == d.self {
			continue
		}
		d.cards[peer] = tables
	}
	d.mu.Unlock()
	d.notify()
}

type simpleBroadcast []byte

func (b simpleBroadcast) Invalidates(other memberlist.Broadcast) bool { return false }
func (b simpleBroadcast) Message() []byte                             { return b }
func (b simpleBroadcast) Finished()                                   {}
