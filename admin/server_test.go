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

package admin

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/nsrepo/log"
)

func TestAdminEndpoints(t *testing.T) {
	provider := stubProvider{
		entries: []EntrySnapshot{{Worker: 0, Table: "users", RefCount: 2, Ready: true}},
		projection: []ProjectionSnapshot{
			{Table: "users", Regions: 3},
		},
	}

	handler := newHandler(defaultAdminBasePath, provider)
	mux := http.NewServeMux()
	handler.register(mux)

	t.Run("entries endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, defaultAdminBasePath+"/entries", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var entries []EntrySnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		require.True(t, entries[0].Ready)
		require.Equal(t, 2, entries[0].RefCount)
	})

	t.Run("projection endpoint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, defaultAdminBasePath+"/projection", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var projection []ProjectionSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projection))
		require.Len(t, projection, 1)
		require.Equal(t, "users", projection[0].Table)
		require.Equal(t, 3, projection[0].Regions)
	})
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	provider := stubProvider{}
	handler := newHandler(defaultAdminBasePath, provider)
	mux := http.NewServeMux()
	handler.register(mux)

	tests := []struct {
		name string
		path string
	}{
		{name: "entries", path: defaultAdminBasePath + "/entries"},
		{name: "projection", path: defaultAdminBasePath + "/projection"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, test.path, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestHandlerEntriesError(t *testing.T) {
	expectedErr := "entries snapshot error"
	provider := stubProvider{
		entriesErr: errStub(expectedErr),
	}
	handler := newHandler(defaultAdminBasePath, provider)
	mux := http.NewServeMux()
	handler.register(mux)

	req := httptest.NewRequest(http.MethodGet, defaultAdminBasePath+"/entries", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), expectedErr)
}

func TestServerStartProviderRequired(t *testing.T) {
	server := NewServer(Config{ListenAddr: "127.0.0.1:0"}, nil, nil)
	err := server.Start(context.Background())
	require.Error(t, err)
}

func TestServerStartListenError(t *testing.T) {
	server := NewServer(Config{ListenAddr: "127.0.0.1"}, stubProvider{}, nil)
	err := server.Start(context.Background())
	require.Error(t, err)
}

func TestServerStartAndShutdown(t *testing.T) {
	server := NewServer(Config{ListenAddr: "127.0.0.1:0"}, stubProvider{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, server.Start(ctx))
	require.NoError(t, server.Shutdown(context.Background()))
}

func TestServerStartTLSLogsServeError(t *testing.T) {
	logger := &countingLogger{Logger: log.DiscardLogger}
	server := NewServer(Config{
		ListenAddr: "127.0.0.1:0",
		TLSConfig:  &tls.Config{},
	}, stubProvider{}, logger)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	t.Cleanup(func() {
		_ = server.Shutdown(context.Background())
	})

	require.NoError(t, server.Start(ctx))
	require.NotNil(t, server.listener)
	require.NoError(t, server.listener.Close())

	require.Eventually(t, func() bool {
		return logger.errorfCalls() > 0
	}, time.Second, 10*time.Millisecond)
}

func TestWaitForAdminConnectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForAdminConnect(ctx, "127.0.0.1:1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestWaitForAdminConnectDeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err := waitForAdminConnect(ctx, "127.0.0.1:1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type stubProvider struct {
	entries    any
	projection any
	entriesErr error
}

func (p stubProvider) SnapshotEntries() (any, error) {
	return p.entries, p.entriesErr
}

func (p stubProvider) SnapshotProjection() any {
	return p.projection
}

type errStub string

func (e errStub) Error() string {
	return string(e)
}

type countingLogger struct {
	log.Logger
	count atomic.Int64
}

func (l *countingLogger) Errorf(format string, args ...any) {
	l.count.Add(1)
	if l.Logger != nil {
		l.Logger.Errorf(format, args...)
	}
}

func (l *countingLogger) errorfCalls() int64 {
	return l.count.Load()
}
