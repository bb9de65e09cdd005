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

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// traced attaches a debug logger to tr and returns a function reporting the
// ops logged since the previous call.
func traced[T any](tr *BTree[T]) func() []string {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	tr.SetLogger(logger)
	return func() []string {
		var ops []string
		for _, e := range hook.AllEntries() {
			ops = append(ops, e.Data["op"].(string))
		}
		hook.Reset()
		return ops
	}
}

func TestDeleteScenario(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert, 2, 1, 2, 3, 4, 5, 6, 7)
	ops := traced(tr)

	v, ok := tr.Delete(4)
	require.True(t, ok)
	require.Equal(t, 4, v)
	require.False(t, tr.Has(4))
	require.Equal(t, 6, tr.Len())
	require.True(t, tr.Validate())
	require.Equal(t, []string{"swap-successor"}, ops())
	require.Equal(t, ""+
		"└── 2, 5\n"+
		"    ├── 1\n"+
		"    ├── 3\n"+
		"    └── 6, 7\n", tr.String())

	before := tr.String()
	_, ok = tr.Delete(99)
	require.False(t, ok)
	require.Equal(t, 6, tr.Len())
	require.Equal(t, before, tr.String())
	require.Empty(t, ops())

	_, ok = tr.Delete(4)
	require.False(t, ok, "second delete of the same value")
	require.Equal(t, 6, tr.Len())
}

func TestDeleteMergeAndPredecessor(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert, 2, 1, 2, 3, 4, 5, 6, 7)
	ops := traced(tr)

	// Both neighbours of 2 are minimal: merge them around it.
	_, ok := tr.Delete(2)
	require.True(t, ok)
	require.Equal(t, []string{"merge"}, ops())
	require.Equal(t, ""+
		"└── 4\n"+
		"    ├── 1, 3\n"+
		"    └── 5, 6, 7\n", tr.String())

	// The left child can spare an item: swap with the predecessor.
	_, ok = tr.Delete(4)
	require.True(t, ok)
	require.Equal(t, []string{"swap-predecessor"}, ops())
	require.Equal(t, ""+
		"└── 3\n"+
		"    ├── 1\n"+
		"    └── 5, 6, 7\n", tr.String())
	require.True(t, tr.Validate())
}

func TestDeleteRepairsOnTheWayDown(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert, 2, 1, 2, 3, 4, 5, 6, 7)
	tr.Delete(2)
	tr.Delete(4)
	ops := traced(tr)

	_, ok := tr.Delete(1)
	require.True(t, ok)
	require.Equal(t, []string{"borrow-right"}, ops())
	require.Equal(t, ""+
		"└── 5\n"+
		"    ├── 3\n"+
		"    └── 6, 7\n", tr.String())

	tr.Delete(3)
	require.Equal(t, []string{"borrow-right"}, ops())
	require.Equal(t, ""+
		"└── 6\n"+
		"    ├── 5\n"+
		"    └── 7\n", tr.String())

	// Neither sibling can lend: merging empties the root and the tree
	// loses a level.
	tr.Delete(7)
	require.Equal(t, []string{"merge", "shrink"}, ops())
	require.Equal(t, "└── 5, 6\n", tr.String())
	require.Equal(t, 1, tr.Height())
	require.True(t, tr.Validate())
}

func TestDeleteBorrowsFromLeftFirst(t *testing.T) {
	tr := buildOrdered((*BTree[int]).Insert, 2, 5, 6, 7, 4)
	require.Equal(t, ""+
		"└── 6\n"+
		"    ├── 4, 5\n"+
		"    └── 7\n", tr.String())
	ops := traced(tr)

	tr.Delete(7)
	require.Equal(t, []string{"borrow-left"}, ops())
	require.Equal(t, ""+
		"└── 5\n"+
		"    ├── 4\n"+
		"    └── 6\n", tr.String())
}

func TestDeleteLastElement(t *testing.T) {
	for _, del := range deleters {
		t.Run(del.name, func(t *testing.T) {
			tr := NewItems[Int](DefaultOrder)
			tr.Insert(1)
			v, ok := del.delete(tr, 1)
			require.True(t, ok)
			require.Equal(t, Int(1), v)
			require.Nil(t, tr.root)
			require.Zero(t, tr.Len())
			require.True(t, tr.Validate())
			_, ok = del.delete(tr, 1)
			require.False(t, ok)
		})
	}
}

func TestDeleteEmptyTree(t *testing.T) {
	tr := NewItems[Int](DefaultOrder)
	for _, del := range deleters {
		_, ok := del.delete(tr, 3)
		require.False(t, ok)
	}
	require.True(t, tr.Validate())
}

func TestDeleteAbsentLeavesTreeUnchanged(t *testing.T) {
	for _, del := range deleters {
		t.Run(del.name, func(t *testing.T) {
			tr := NewItems[Int](2)
			tr.SetColor(false)
			for _, v := range rand.Perm(200) {
				tr.Insert(Int(v * 2))
			}
			before := tr.String()
			for v := -1; v < 400; v += 2 {
				_, ok := del.delete(tr, Int(v))
				require.False(t, ok)
			}
			require.Equal(t, before, tr.String())
			require.Equal(t, 200, tr.Len())
		})
	}
}

func TestDeleteReusesFreedNodes(t *testing.T) {
	fl := NewFreeList[Int](DefaultFreeListSize)
	tr := NewWithFreeList[Int](2, Int.Less, fl)
	for _, v := range rand.Perm(100) {
		tr.Insert(Int(v))
	}
	for _, v := range rand.Perm(100) {
		tr.Delete(Int(v))
	}
	require.NotEmpty(t, fl.freelist, "merges return nodes to the free list")
	for _, n := range fl.freelist {
		require.Nil(t, n.parent)
		require.Nil(t, n.t)
		require.Empty(t, n.items)
	}
}
