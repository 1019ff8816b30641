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

// Package static implements discovery.Provider with a fixed, operator-supplied
// peer list, for deployments where peers are known ahead of time and no
// bootstrap backend is needed.
package static

// Provider is a discovery.Provider backed by a fixed peer address list.
type Provider struct {
	peers []string
}

// New builds a Provider that always reports peers.
func New(peers ...string) *Provider {
	return &Provider{peers: peers}
}

func (p *Provider) Initialize() error             { return nil }
func (p *Provider) Register() error                { return nil }
func (p *Provider) DiscoverPeers() ([]string, error) { return p.peers, nil }
func (p *Provider) Deregister() error               { return nil }
func (p *Provider) Close() error                    { return nil }
