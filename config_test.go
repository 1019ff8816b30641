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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := NewConfig(NewBlueprintStore(), &fakeDirectory{}, &fakeMessaging{})
		require.NoError(t, cfg.Validate())
		require.Equal(t, defaultWorkerCount, cfg.WorkerCount())
		require.Equal(t, NamespaceInterfaceExpiration, cfg.IdleTimeout())
	})

	t.Run("missing collaborators", func(t *testing.T) {
		cfg := NewConfig(nil, nil, nil)
		require.Error(t, cfg.Validate())
	})

	t.Run("invalid worker count", func(t *testing.T) {
		cfg := NewConfig(NewBlueprintStore(), &fakeDirectory{}, &fakeMessaging{}, WithWorkerCount(0))
		require.Error(t, cfg.Validate())
	})

	t.Run("invalid idle timeout", func(t *testing.T) {
		cfg := NewConfig(NewBlueprintStore(), &fakeDirectory{}, &fakeMessaging{}, WithIdleTimeout(-time.Second))
		require.Error(t, cfg.Validate())
	})
}

type fakeDirectory struct{}

func (*fakeDirectory) Snapshot() DirectorySnapshot { return nil }
func (*fakeDirectory) Changes() <-chan struct{}    { return nil }

type fakeMessaging struct{}

func (*fakeMessaging) Dispatch(context.Context, MachineID, ReplicaRequest) (ReplicaResponse, error) {
	return ReplicaResponse{}, nil
}
