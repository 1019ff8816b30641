/*
 * MIT License
 *
 * Copyright (c) 2025 Arsene Tochemey Gandote
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

// Package nats implements cluster bootstrap discovery over a NATS server:
// nodes register themselves on a well-known subject and ask it who else has
// registered before joining memberlist.
package nats

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Config configures the NATS discovery provider.
type Config struct {
	// ServerURL is the NATS server to connect to.
	ServerURL string
	// Subject is the subject nodes publish Register/Deregister/Request
	// messages on.
	Subject string
	// Host and Port identify this node to peers.
	Host string
	Port int
	// Name uniquely identifies this node among peers.
	Name string
	// DiscoverTimeout bounds how long DiscoverPeers waits for responses.
	DiscoverTimeout time.Duration
}

func (c Config) normalize() Config {
	cfg := c
	if cfg.Subject == "" {
		cfg.Subject = "nsrepo.discovery"
	}
	if cfg.DiscoverTimeout <= 0 {
		cfg.DiscoverTimeout = 2 * time.Second
	}
	return cfg
}

// Provider discovers cluster peers through a shared NATS subject.
type Provider struct {
	cfg  Config
	conn *nats.Conn

	mu    sync.Mutex
	known map[string]Message
	sub   *nats.Subscription
}

// New builds a Provider from cfg. Connect happens in Initialize.
func New(cfg Config) *Provider {
	return &Provider{cfg: cfg.normalize(), known: make(map[string]Message)}
}

// Initialize connects to the configured NATS server and starts listening for
// peer Register/Deregister announcements.
func (p *Provider) Initialize() error {
	conn, err := nats.Connect(p.cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("nats discovery: connect: %w", err)
	}
	p.conn = conn

	sub, err := conn.Subscribe(p.cfg.Subject, p.handleMessage)
	if err != nil {
		conn.Close()
		return fmt.Errorf("nats discovery: subscribe: %w", err)
	}
	p.sub = sub
	return nil
}

func (p *Provider) handleMessage(msg *nats.Msg) {
	var m Message
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		return
	}

	key := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	switch m.Type {
	case Register:
		p.mu.Lock()
		p.known[key] = m
		p.mu.Unlock()
	case Deregister:
		p.mu.Lock()
		delete(p.known, key)
		p.mu.Unlock()
	case Request:
		if m.Name == p.cfg.Name {
			return
		}
		response, err := json.Marshal(Message{Host: p.cfg.Host, Port: p.cfg.Port, Name: p.cfg.Name, Type: Response})
		if err == nil && msg.Reply != "" {
			_ = p.conn.Publish(msg.Reply, response)
		}
	case Response:
		p.mu.Lock()
		p.known[key] = m
		p.mu.Unlock()
	}
}

// Register announces this node on the shared subject.
func (p *Provider) Register() error {
	payload, err := json.Marshal(Message{Host: p.cfg.Host, Port: p.cfg.Port, Name: p.cfg.Name, Type: Register})
	if err != nil {
		return err
	}
	return p.conn.Publish(p.cfg.Subject, payload)
}

// DiscoverPeers broadcasts a Request and collects every Response received
// within the configured timeout, in addition to any peer already known from
// earlier Register announcements.
func (p *Provider) DiscoverPeers() ([]string, error) {
	payload, err := json.Marshal(Message{Host: p.cfg.Host, Port: p.cfg.Port, Name: p.cfg.Name, Type: Request})
	if err != nil {
		return nil, err
	}

	inbox := nats.NewInbox()
	replies := make(chan *nats.Msg, 64)
	sub, err := p.conn.ChanSubscribe(inbox, replies)
	if err != nil {
		return nil, fmt.Errorf("nats discovery: reply subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	msg := &nats.Msg{Subject: p.cfg.Subject, Reply: inbox, Data: payload}
	if err := p.conn.PublishMsg(msg); err != nil {
		return nil, err
	}

	deadline := time.After(p.cfg.DiscoverTimeout)
collect:
	for {
		select {
		case reply := <-replies:
			var m Message
			if json.Unmarshal(reply.Data, &m) == nil {
				key := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
				p.mu.Lock()
				p.known[key] = m
				p.mu.Unlock()
			}
		case <-deadline:
			break collect
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	peers := make([]string, 0, len(p.known))
	self := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))
	for key := range p.known {
		if key == self {
			continue
		}
		peers = append(peers, key)
	}
	return peers, nil
}

// Deregister announces this node's departure.
func (p *Provider) Deregister() error {
	payload, err := json.Marshal(Message{Host: p.cfg.Host, Port: p.cfg.Port, Name: p.cfg.Name, Type: Deregister})
	if err != nil {
		return err
	}
	return p.conn.Publish(p.cfg.Subject, payload)
}

// Close releases the underlying NATS connection.
func (p *Provider) Close() error {
	if p.sub != nil {
		_ = p.sub.Unsubscribe()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
