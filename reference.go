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

// Add and Remove are the bottom-up reference implementation of the tree's
// insert and delete contract.  They descend without touching the structure,
// change the target node, and only then repair whatever overflowed or
// underflowed on the way back up.  They are kept as a cross-check for
// Insert and Delete and may be mixed freely with them on the same tree.

// Add inserts item into its leaf and splits upwards for as long as a node
// has more than the maximum number of children (or, for a leaf, items).
// Add returns false and leaves the tree untouched if an equal item is
// already present.
func (t *BTree[T]) Add(item T) bool {
	if t.root == nil {
		t.plant(item)
		return true
	}
	if t.Has(item) {
		return false
	}
	n := t.root
	for !n.leaf() {
		i, _ := n.items.find(item, t.less)
		n = n.children[i]
	}
	i, _ := n.items.find(item, t.less)
	n.items.insertAt(i, item)
	t.length++
	for n != nil && t.overfull(n) {
		if n.parent == nil {
			t.growRoot()
			return true
		}
		p := n.parent
		p.splitChild(p.childIndex(n))
		n = p
	}
	return true
}

func (t *BTree[T]) overfull(n *node[T]) bool {
	if n.leaf() {
		return len(n.items) > t.maxItems()
	}
	return len(n.children) > t.maxChildren()
}

// Remove removes an item equal to the passed in item from the tree,
// returning it.  If no such item exists, returns (zeroValue, false) and the
// tree is unchanged.
//
// An item found in an internal node is replaced by its in-order
// predecessor, taken from the rightmost leaf of the left child.  The leaf
// that lost an item is then combined with its neighbours if it fell below
// the minimum.
func (t *BTree[T]) Remove(item T) (_ T, _ bool) {
	n, i, ok := t.locate(item)
	if !ok {
		return
	}
	out := n.items[i]
	if n.leaf() {
		n.items.removeAt(i)
	} else {
		greatest := n.children[i]
		for !greatest.leaf() {
			greatest = greatest.children[len(greatest.children)-1]
		}
		n.items[i] = greatest.items.pop()
		n = greatest
	}
	t.length--
	t.combine(n)
	return out, true
}

// combine restores the minimum size of n after it lost an item.  It borrows
// from the right neighbour first, then from the left, and otherwise merges
// with the right neighbour, or the left one if n is the last child.  A merge
// takes an item from the parent, so the check repeats one level up.  An
// emptied root is dropped in favour of its only child.
func (t *BTree[T]) combine(n *node[T]) {
	for {
		p := n.parent
		if p == nil {
			if len(n.items) == 0 {
				t.shrinkRoot()
			}
			return
		}
		if len(n.items) >= t.minItems() {
			return
		}
		i := p.childIndex(n)
		switch {
		case i < len(p.items) && len(p.children[i+1].items) > t.minItems():
			p.rotateLeft(i)
			return
		case i > 0 && len(p.children[i-1].items) > t.minItems():
			p.rotateRight(i - 1)
			return
		case i < len(p.items):
			p.merge(i)
		default:
			p.merge(i - 1)
		}
		n = p
	}
}
