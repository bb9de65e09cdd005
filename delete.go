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

// Delete removes an item equal to the passed in item from the tree, returning
// it.  If no such item exists, returns (zeroValue, false) and the tree is
// left exactly as it was.
//
// Delete works in a single descent.  Before stepping into a child it makes
// sure the child can spare an item, borrowing one from a sibling through the
// parent or merging the child with a sibling when neither sibling can lend.
// When the item sits in an internal node it is swapped with its in-order
// predecessor or successor, whichever lives under a child with items to
// spare, and the descent follows it down to the leaf.  If neither child can
// spare an item, both are merged around the item and the descent continues
// in the merged node.
func (t *BTree[T]) Delete(item T) (_ T, _ bool) {
	if !t.Has(item) {
		return
	}
	n := t.root
	for {
		i, found := n.items.find(item, t.less)
		switch {
		case !found:
			n = t.repair(n, i)
		case n.leaf():
			out := n.items.removeAt(i)
			t.length--
			if n == t.root && len(n.items) == 0 {
				t.shrinkRoot()
			}
			return out, true
		case len(n.children[i].items) > t.minItems():
			n = t.swapPredecessor(n, i)
		case len(n.children[i+1].items) > t.minItems():
			n = t.swapSuccessor(n, i)
		default:
			n = t.merge(n, i)
		}
	}
}

// swapPredecessor exchanges n.items[i] with the largest item under child i
// and returns that child.  The item being deleted becomes the last item of
// the rightmost leaf of the child, which the descent will reach by always
// taking the last branch.
func (t *BTree[T]) swapPredecessor(n *node[T], i int) *node[T] {
	child := n.children[i]
	leaf := child
	for !leaf.leaf() {
		leaf = leaf.children[len(leaf.children)-1]
	}
	last := len(leaf.items) - 1
	n.items[i], leaf.items[last] = leaf.items[last], n.items[i]
	t.trace("swap-predecessor", n)
	return child
}

// swapSuccessor is the mirror of swapPredecessor using the smallest item
// under child i+1.
func (t *BTree[T]) swapSuccessor(n *node[T], i int) *node[T] {
	child := n.children[i+1]
	leaf := child
	for !leaf.leaf() {
		leaf = leaf.children[0]
	}
	n.items[i], leaf.items[0] = leaf.items[0], n.items[i]
	t.trace("swap-successor", n)
	return child
}

// repair makes sure child i of n holds more than minItems items so one can
// be removed from it, and returns the node the descent should continue in.
// It borrows from the left sibling first, then from the right, and merges
// with the left sibling unless the child is the leftmost one.
func (t *BTree[T]) repair(n *node[T], i int) *node[T] {
	child := n.children[i]
	if len(child.items) > t.minItems() {
		return child
	}
	switch {
	case i > 0 && len(n.children[i-1].items) > t.minItems():
		n.rotateRight(i - 1)
		return child
	case i < len(n.items) && len(n.children[i+1].items) > t.minItems():
		n.rotateLeft(i)
		return child
	case i > 0:
		return t.merge(n, i-1)
	default:
		return t.merge(n, i)
	}
}

// merge merges children i and i+1 of n around their separator.  If n is
// the root and that was its last item, the merged node becomes the new root.
func (t *BTree[T]) merge(n *node[T], i int) *node[T] {
	merged := n.merge(i)
	if n == t.root && len(n.items) == 0 {
		t.shrinkRoot()
	}
	return merged
}
