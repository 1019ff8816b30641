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

// Package tcp resolves the local address a node should bind and advertise
// to the rest of the cluster.
package tcp

import (
	"fmt"
	"net"
)

// GetBindIP resolves the IP address to bind given an optional named network
// interface and a fallback "host:port" address. If iface is empty, the host
// portion of addr is resolved directly (an empty host binds to all
// interfaces as "0.0.0.0"). If iface is set, its first usable IPv4 address
// is used instead.
func GetBindIP(iface string, addr string) (string, error) {
	if iface != "" {
		return ipFromInterface(iface)
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("tcp: invalid address %q: %w", addr, err)
	}
	if host == "" {
		return "0.0.0.0", nil
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	ips, err := net.LookupHost(host)
	if err != nil {
		return "", fmt.Errorf("tcp: failed to resolve %q: %w", host, err)
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("tcp: no addresses found for %q", host)
	}
	return ips[0], nil
}

func ipFromInterface(name string) (string, error) {
	ifc, err := net.InterfaceByName(name)
	if err != nil {
		return "", fmt.Errorf("tcp: interface %q not found: %w", name, err)
	}

	addrs, err := ifc.Addrs()
	if err != nil {
		return "", fmt.Errorf("tcp: failed to list addresses on %q: %w", name, err)
	}

	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.To4() == nil {
			continue
		}
		return ip.String(), nil
	}

	return "", fmt.Errorf("tcp: no IPv4 address found on interface %q", name)
}
