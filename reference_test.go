// Copyright 2014-2022 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package btree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoveScenario(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert, 2, 1, 2, 3, 4, 5, 6, 7)
	ops := traced(tr)

	// 4 is replaced by its predecessor 3, and the emptied leaf borrows
	// from its right neighbour.
	v, ok := tr.Remove(4)
	require.True(t, ok)
	require.Equal(t, 4, v)
	require.Equal(t, []string{"borrow-right"}, ops())
	require.Equal(t, ""+
		"└── 2, 5\n"+
		"    ├── 1\n"+
		"    ├── 3\n"+
		"    └── 6, 7\n", tr.String())

	_, ok = tr.Remove(99)
	require.False(t, ok)
	require.Equal(t, 6, tr.Len())
	require.Empty(t, ops())
}

func TestRemoveMergesWithRightNeighbour(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert, 2, 1, 2, 3, 4, 5, 6, 7)
	ops := traced(tr)

	tr.Remove(2)
	require.Equal(t, []string{"merge"}, ops())
	require.Equal(t, ""+
		"└── 4\n"+
		"    ├── 1, 3\n"+
		"    └── 5, 6, 7\n", tr.String())
}

func TestRemoveCascadesToRoot(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert2Pass, 2)
	for i := 1; i <= 13; i++ {
		tr.Insert2Pass(i)
	}
	require.Equal(t, 3, tr.Height())
	for _, v := range []int{1, 4, 7, 10, 13, 12} {
		_, ok := tr.Remove(v)
		require.True(t, ok)
		require.NoError(t, tr.Check())
	}
	require.Equal(t, ""+
		"└── 6\n"+
		"    ├── 3\n"+
		"    │   ├── 2\n"+
		"    │   └── 5\n"+
		"    └── 9\n"+
		"        ├── 8\n"+
		"        └── 11\n", tr.String())
	ops := traced(tr)

	// Every node on the path is minimal: the leaf merges into its parent,
	// the parent merges with its sibling and the emptied root goes away.
	tr.Remove(2)
	require.Equal(t, []string{"merge", "merge", "shrink"}, ops())
	require.NoError(t, tr.Check())
	require.Equal(t, 2, tr.Height())
	require.Equal(t, ""+
		"└── 6, 9\n"+
		"    ├── 3, 5\n"+
		"    ├── 8\n"+
		"    └── 11\n", tr.String())
}

func TestRemoveRandom(t *testing.T) {
	for order := 2; order <= 6; order++ {
		tr := NewItems[Int](order)
		for _, v := range rand.Perm(2000) {
			tr.Add(Int(v))
		}
		require.NoError(t, tr.Check())
		for i, v := range rand.Perm(2000) {
			out, ok := tr.Remove(Int(v))
			require.True(t, ok)
			require.Equal(t, Int(v), out)
			if i%50 == 0 {
				require.NoError(t, tr.Check())
			}
		}
		require.Zero(t, tr.Len())
		require.Nil(t, tr.root)
	}
}
