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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/travisjeffery/go-dynaport"

	"github.com/tochemey/nsrepo"
	"github.com/tochemey/nsrepo/admin"
	natsdiscovery "github.com/tochemey/nsrepo/discovery/nats"
	"github.com/tochemey/nsrepo/log"
	"github.com/tochemey/nsrepo/warmup"
)

func main() {
	ctx := context.Background()
	logger := log.Default()

	server, err := startNatsServer()
	if err != nil {
		logger.Errorf("failed to start nats server: %v", err)
		os.Exit(1)
	}

	ports := dynaport.Get(2)
	bindPort, adminPort := ports[0], ports[1]
	host := "127.0.0.1"

	discovery := natsdiscovery.New(natsdiscovery.Config{
		ServerURL: fmt.Sprintf("nats://%s", server.Addr().String()),
		Subject:   "nsrepo.example",
		Host:      host,
		Port:      bindPort,
		Name:      fmt.Sprintf("node-%d", bindPort),
	})

	membership, err := nsrepo.NewMembership(nsrepo.MembershipConfig{
		BindAddr:  host,
		BindPort:  bindPort,
		Discovery: discovery,
		Logger:    nil,
	})
	if err != nil {
		logger.Errorf("failed to build membership: %v", err)
		os.Exit(1)
	}
	if err := membership.Join(ctx); err != nil {
		logger.Errorf("failed to join cluster: %v", err)
		os.Exit(1)
	}

	// Seed the single table this node serves. In a real deployment a control
	// plane would push blueprint updates as roles shift across the cluster.
	blueprints := nsrepo.NewBlueprintStore()
	blueprints.Put("users", nsrepo.TableMetadata{
		Blueprint: nsrepo.Blueprint{
			MachineRoles: map[nsrepo.MachineID]map[nsrepo.KeyRange]nsrepo.Role{
				nsrepo.MachineID(membership.Self()): {
					{Start: "", End: ""}: nsrepo.RolePrimary,
				},
			},
		},
	})
	_ = membership.PublishCard("users", nsrepo.ReactorCard{Raw: []byte(membership.Self())})

	messaging := nsrepo.NewHTTPMessagingHandle(http.DefaultClient)

	cfg := nsrepo.NewConfig(blueprints, membership, messaging,
		nsrepo.WithWorkerCount(4),
		nsrepo.WithIdleTimeout(60*time.Second),
		nsrepo.WithWarmup(warmup.Config{
			MaxHotTables:           8,
			MinHits:                2,
			WarmOnProjectionChange: true,
		}),
	)

	repo, err := nsrepo.New(cfg)
	if err != nil {
		logger.Errorf("failed to build repository: %v", err)
		os.Exit(1)
	}

	adminServer := admin.NewServer(admin.Config{ListenAddr: fmt.Sprintf("%s:%d", host, adminPort)}.Normalize(), repo, log.Default())
	if err := adminServer.Start(ctx); err != nil {
		logger.Errorf("failed to start admin server: %v", err)
		os.Exit(1)
	}

	access, err := repo.GetNamespaceInterface(ctx, 0, "users")
	if err != nil {
		logger.Errorf("failed to acquire namespace interface: %v", err)
	} else {
		iface, err := access.Interface(ctx)
		if err != nil {
			logger.Errorf("namespace interface failed to construct: %v", err)
		} else if err := iface.Put(ctx, []byte("user1"), []byte(`{"id":"user1","name":"user"}`)); err != nil {
			logger.Errorf("failed to put user1: %v", err)
		} else {
			logger.Infof("user1 cached")
		}
		access.Close()
	}

	notifier := make(chan os.Signal, 1)
	signal.Notify(notifier, syscall.SIGINT, syscall.SIGTERM)
	sig := <-notifier
	logger.Infof("received signal %s, shutting down", sig.String())
	signal.Stop(notifier)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = adminServer.Shutdown(shutdownCtx)
	_ = repo.Shutdown(shutdownCtx)
	_ = membership.Leave(shutdownCtx, 5*time.Second)
	server.Shutdown()

	pid := os.Getpid()
	if pid == 1 {
		os.Exit(0)
	}
	process, _ := os.FindProcess(pid)
	switch runtime.GOOS {
	case "windows":
		_ = process.Kill()
	default:
		_ = process.Signal(syscall.SIGTERM)
	}
}

func startNatsServer() (*natsserver.Server, error) {
	serv, err := natsserver.NewServer(&natsserver.Options{Host: "127.0.0.1", Port: -1})
	if err != nil {
		return nil, err
	}

	ready := make(chan bool)
	go func() {
		ready <- true
		serv.Start()
	}()
	<-ready

	if !serv.ReadyForConnections(2 * time.Second) {
		return nil, fmt.Errorf("nats server not ready")
	}
	return serv, nil
}
