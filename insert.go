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

import "github.com/cockroachdb/errors"

// Insert adds item to the tree in a single top-down pass.  Any full node on
// the way down is split before the descent enters it, so the leaf that
// finally takes the item always has room for it.
//
// Insert returns false and leaves the tree untouched if an item equal to
// the given one is already present.
func (t *BTree[T]) Insert(item T) bool {
	if t.root == nil {
		t.plant(item)
		return true
	}
	if t.Has(item) {
		return false
	}
	if len(t.root.items) >= t.maxItems() {
		t.growRoot()
	}
	t.root.insert(item, t.maxItems())
	t.length++
	return true
}

// insert inserts an item into the subtree rooted at this node, making sure
// no nodes in the subtree exceed maxItems items.  n itself must not be full.
func (n *node[T]) insert(item T, maxItems int) {
	i, found := n.items.find(item, n.t.less)
	if found {
		panic(errors.AssertionFailedf("btree: insert reached an existing item"))
	}
	if len(n.children) == 0 {
		n.items.insertAt(i, item)
		return
	}
	if len(n.children[i].items) >= maxItems {
		n.splitChild(i)
		// The promoted median may now sit between us and the child we
		// picked; if so, the item belongs in the new right half.
		if n.t.less(n.items[i], item) {
			i++
		}
	}
	n.children[i].insert(item, maxItems)
}

// Insert2Pass adds item to the tree in two passes.  The first pass walks
// straight down to the target leaf and inserts there, letting the leaf go
// one item over the maximum.  The second pass walks back up, splitting the
// overflowing leaf into its parent and splitting any full ancestor first so
// the promoted median always fits.
//
// Insert2Pass has the same contract as Insert, and the resulting tree holds
// the same items, though its shape may differ.
func (t *BTree[T]) Insert2Pass(item T) bool {
	if t.root == nil {
		t.plant(item)
		return true
	}
	if t.Has(item) {
		return false
	}
	n := t.root
	i, _ := n.items.find(item, t.less)
	for !n.leaf() {
		n = n.children[i]
		i, _ = n.items.find(item, t.less)
	}
	n.items.insertAt(i, item)
	t.length++
	if len(n.items) > t.maxItems() {
		t.splitUp(n)
	}
	return true
}

// splitUp splits n into its parent.  If the parent is itself full it is
// split into its own parent first, recursively, so the median of n always
// has a place to go.  Splitting the root grows the tree by one level.
func (t *BTree[T]) splitUp(n *node[T]) {
	if n.parent == nil {
		t.growRoot()
		return
	}
	if len(n.parent.items) >= t.maxItems() {
		t.splitUp(n.parent)
	}
	// The parent split may have handed n to a new sibling.
	p := n.parent
	p.splitChild(p.childIndex(n))
}
