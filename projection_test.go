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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegionMapLookup(t *testing.T) {
	var rm RegionMap[MachineID]
	rm = rm.insert(KeyRange{Start: "a", End: "m"}, "node-1")
	rm = rm.insert(KeyRange{Start: "m", End: ""}, "node-2")

	machine, ok := rm.Lookup([]byte("c"))
	require.True(t, ok)
	require.Equal(t, MachineID("node-1"), machine)

	machine, ok = rm.Lookup([]byte("z"))
	require.True(t, ok)
	require.Equal(t, MachineID("node-2"), machine)

	_, ok = rm.Lookup([]byte("0"))
	require.False(t, ok)
	require.Equal(t, 2, rm.Len())
}

func TestRegionMapInsertDoesNotMutateReceiver(t *testing.T) {
	var rm RegionMap[MachineID]
	next := rm.insert(KeyRange{Start: "", End: ""}, "node-1")

	require.Equal(t, 0, rm.Len())
	require.Equal(t, 1, next.Len())
}

func fullRange(machine MachineID) map[KeyRange]Role {
	return map[KeyRange]Role{{Start: "", End: ""}: RolePrimary}
}

func TestBuildProjectionFromScratch(t *testing.T) {
	snapshot := TableSnapshot{
		"users": TableMetadata{
			Blueprint: Blueprint{
				MachineRoles: map[MachineID]map[KeyRange]Role{
					"node-1": fullRange("node-1"),
				},
			},
		},
	}

	next := buildProjection(nil, snapshot)
	machine, ok := next["users"].Lookup([]byte("anything"))
	require.True(t, ok)
	require.Equal(t, MachineID("node-1"), machine)
}

func TestBuildProjectionSkipsDeletedTables(t *testing.T) {
	snapshot := TableSnapshot{
		"users": TableMetadata{Deleted: true},
	}

	next := buildProjection(nil, snapshot)
	_, ok := next["users"]
	require.False(t, ok)
}

func TestBuildProjectionRetainsPriorOnConflict(t *testing.T) {
	prior := PrimaryProjection{
		"users": (RegionMap[MachineID]{}).insert(KeyRange{Start: "", End: ""}, "node-1"),
	}
	snapshot := TableSnapshot{
		"users": TableMetadata{
			Blueprint: Blueprint{
				InConflict: true,
				MachineRoles: map[MachineID]map[KeyRange]Role{
					"node-2": fullRange("node-2"),
				},
			},
		},
	}

	next := buildProjection(prior, snapshot)
	machine, ok := next["users"].Lookup([]byte("anything"))
	require.True(t, ok)
	require.Equal(t, MachineID("node-1"), machine, "conflicted tables must keep the prior mapping, not the in-flight blueprint")
}

func TestBuildProjectionConflictWithNoPriorDropsTable(t *testing.T) {
	snapshot := TableSnapshot{
		"users": TableMetadata{
			Blueprint: Blueprint{InConflict: true},
		},
	}

	next := buildProjection(nil, snapshot)
	_, ok := next["users"]
	require.False(t, ok)
}

func TestBuildProjectionIgnoresSecondaryRoles(t *testing.T) {
	snapshot := TableSnapshot{
		"users": TableMetadata{
			Blueprint: Blueprint{
				MachineRoles: map[MachineID]map[KeyRange]Role{
					"node-1": {{Start: "", End: ""}: RoleSecondary},
				},
			},
		},
	}

	next := buildProjection(nil, snapshot)
	require.Equal(t, 0, next["users"].Len())
}
