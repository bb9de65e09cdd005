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

// Package btree implements an in-memory ordered set as a B-Tree of arbitrary
// order.
//
// The tree holds unique values of any type T ordered by a LessFunc.  Every
// node keeps a sorted slice of items and, unless it is a leaf, a slice of
// len(items)+1 children.  Each child also points back at its parent, which
// lets the bottom-up algorithms walk upwards without keeping a path stack.
//
// The order of a tree is the minimum number of children of a non-root node:
// a non-root node holds between order-1 and 2*order-1 items.  New(2), for
// example, creates a 2-3-4 tree (each node contains 1-3 items and 2-4
// children).
//
// Two insertion algorithms are provided.  Insert is the canonical one: it
// walks down once and splits every full node before entering it.  Insert2Pass
// walks down without splitting, lets the target leaf overflow by one item and
// then splits upwards.  Delete is the canonical deletion; it repairs every
// node on the way down so the final removal can never underflow.  Add and
// Remove form a bottom-up reference implementation of the same contract that
// fixes overflow and underflow after the fact.  All of them share the node
// primitives in this file and may be mixed freely on one tree.
//
// None of the operations are safe for concurrent mutation.  Callers that
// need concurrent access must wrap the whole tree in a sync.RWMutex.
package btree

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

const (
	// DefaultOrder creates a 2-3-4 tree.
	DefaultOrder        = 2
	DefaultFreeListSize = 32
)

// FreeList represents a free list of btree nodes. By default each
// BTree has its own FreeList, but multiple BTrees can share the same
// FreeList.
// Two Btrees using the same freelist are safe for concurrent write access.
type FreeList[T any] struct {
	mu       sync.Mutex
	freelist []*node[T]
}

// NewFreeList creates a new free list.
// size is the maximum size of the returned free list.
func NewFreeList[T any](size int) *FreeList[T] {
	return &FreeList[T]{freelist: make([]*node[T], 0, size)}
}

func (f *FreeList[T]) newNode() (n *node[T]) {
	f.mu.Lock()
	index := len(f.freelist) - 1
	if index < 0 {
		f.mu.Unlock()
		return new(node[T])
	}
	n = f.freelist[index]
	f.freelist[index] = nil
	f.freelist = f.freelist[:index]
	f.mu.Unlock()
	return
}

func (f *FreeList[T]) freeNode(n *node[T]) (out bool) {
	f.mu.Lock()
	if len(f.freelist) < cap(f.freelist) {
		f.freelist = append(f.freelist, n)
		out = true
	}
	f.mu.Unlock()
	return
}

// LessFunc[T] determines how to order a type 'T'.  It should implement a strict
// ordering, and should return true if within that ordering, 'a' < 'b'.
type LessFunc[T any] func(a, b T) bool

// Less[T] returns a default LessFunc that uses the '<' operator for types that support it.
func Less[T constraints.Ordered]() LessFunc[T] {
	return func(a, b T) bool { return a < b }
}

// NewOrdered creates a new B-Tree for ordered types.
func NewOrdered[T constraints.Ordered](order int) *BTree[T] {
	return New[T](order, Less[T]())
}

// New creates a new B-Tree with the given order.
//
// The passed-in LessFunc determines how objects of type T are ordered.
// New panics if order is less than 2.
func New[T any](order int, less LessFunc[T]) *BTree[T] {
	return NewWithFreeList(order, less, NewFreeList[T](DefaultFreeListSize))
}

// NewWithFreeList creates a new B-Tree that uses the given node free list.
func NewWithFreeList[T any](order int, less LessFunc[T], f *FreeList[T]) *BTree[T] {
	if order <= 1 {
		panic("bad order: order must be at least 2")
	}
	return &BTree[T]{
		order:    order,
		freelist: f,
		less:     less,
	}
}

// items stores items in a node.
type items[T any] []T

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (s *items[T]) insertAt(index int, item T) {
	var zero T
	*s = append(*s, zero)
	if index < len(*s) {
		copy((*s)[index+1:], (*s)[index:])
	}
	(*s)[index] = item
}

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (s *items[T]) removeAt(index int) T {
	if index < 0 || index >= len(*s) {
		panic(errors.AssertionFailedf("btree: remove at %d from %d items", index, len(*s)))
	}
	item := (*s)[index]
	copy((*s)[index:], (*s)[index+1:])
	var zero T
	(*s)[len(*s)-1] = zero
	*s = (*s)[:len(*s)-1]
	return item
}

// pop removes and returns the last element in the list.
func (s *items[T]) pop() (out T) {
	index := len(*s) - 1
	if index < 0 {
		panic(errors.AssertionFailedf("btree: pop from an empty node"))
	}
	out = (*s)[index]
	var zero T
	(*s)[index] = zero
	*s = (*s)[:index]
	return
}

// truncate truncates this instance at index so that it contains only the
// first index items. index must be less than or equal to length.
func (s *items[T]) truncate(index int) {
	var toClear items[T]
	*s, toClear = (*s)[:index], (*s)[index:]
	var zero T
	for i := 0; i < len(toClear); i++ {
		toClear[i] = zero
	}
}

// find returns the index where the given item should be inserted into this
// list.  'found' is true if the item already exists in the list at the given
// index.
func (s items[T]) find(item T, less func(T, T) bool) (index int, found bool) {
	i := sort.Search(len(s), func(i int) bool {
		return less(item, s[i])
	})
	if i > 0 && !less(s[i-1], item) {
		return i - 1, true
	}
	return i, false
}

// node is an internal node in a tree.
//
// It must at all times maintain the invariant that either
//   - len(children) == 0, len(items) unconstrained
//   - len(children) == len(items) + 1
//
// and that every child's parent is the node holding it.
type node[T any] struct {
	items    items[T]
	children items[*node[T]]
	parent   *node[T]
	t        *BTree[T]
}

func (n *node[T]) leaf() bool {
	return len(n.children) == 0
}

// adopt points the parent of every child from index i onwards at n.
func (n *node[T]) adopt(i int) {
	for _, c := range n.children[i:] {
		c.parent = n
	}
}

// childIndex returns the position of c in n.children.
func (n *node[T]) childIndex(c *node[T]) int {
	for i, child := range n.children {
		if child == c {
			return i
		}
	}
	panic(errors.AssertionFailedf("btree: node is not a child of its parent"))
}

// split splits the given node at the given index.  The current node shrinks,
// and this function returns the item that existed at that index and a new node
// containing all items/children after it.
func (n *node[T]) split(i int) (T, *node[T]) {
	item := n.items[i]
	next := n.t.newNode(n.parent)
	next.items = append(next.items, n.items[i+1:]...)
	n.items.truncate(i)
	if len(n.children) > 0 {
		next.children = append(next.children, n.children[i+1:]...)
		next.adopt(0)
		n.children.truncate(i + 1)
	}
	return item, next
}

// splitChild splits child i around its median and promotes the median into
// n at index i.  The upper half becomes child i+1.
func (n *node[T]) splitChild(i int) {
	child := n.children[i]
	item, next := child.split(len(child.items) / 2)
	next.parent = n
	n.items.insertAt(i, item)
	n.children.insertAt(i+1, next)
	n.t.trace("split", n)
}

// rotateRight moves the last item of child i up into n and the separator at
// index i down to the front of child i+1, carrying the matching grandchild
// along.
func (n *node[T]) rotateRight(i int) {
	left, right := n.children[i], n.children[i+1]
	right.items.insertAt(0, n.items[i])
	n.items[i] = left.items.pop()
	if !left.leaf() {
		c := left.children.pop()
		c.parent = right
		right.children.insertAt(0, c)
	}
	n.t.trace("borrow-left", right)
}

// rotateLeft is the mirror of rotateRight: child i takes the separator and
// child i+1 gives up its first item.
func (n *node[T]) rotateLeft(i int) {
	left, right := n.children[i], n.children[i+1]
	left.items = append(left.items, n.items[i])
	n.items[i] = right.items.removeAt(0)
	if !right.leaf() {
		c := right.children.removeAt(0)
		c.parent = left
		left.children = append(left.children, c)
	}
	n.t.trace("borrow-right", left)
}

// merge folds child i+1 and the separator at index i into child i and
// returns the merged child.  n loses one item and one child.
func (n *node[T]) merge(i int) *node[T] {
	if i >= len(n.items) {
		panic(errors.AssertionFailedf("btree: merge of child %d without a right sibling", i))
	}
	left := n.children[i]
	right := n.children.removeAt(i + 1)
	left.items = append(left.items, n.items.removeAt(i))
	left.items = append(left.items, right.items...)
	from := len(left.children)
	left.children = append(left.children, right.children...)
	left.adopt(from)
	n.t.trace("merge", left)
	n.t.freeNode(right)
	return left
}

// ascend calls iter for every item in the subtree in order, stopping early
// when iter returns false.
func (n *node[T]) ascend(iter func(T) bool) bool {
	for i, item := range n.items {
		if !n.leaf() && !n.children[i].ascend(iter) {
			return false
		}
		if !iter(item) {
			return false
		}
	}
	if !n.leaf() {
		return n.children[len(n.children)-1].ascend(iter)
	}
	return true
}

// reset returns the subtree to the free list, stopping as soon as the free
// list is full.
func (n *node[T]) reset() bool {
	for _, child := range n.children {
		if !child.reset() {
			return false
		}
	}
	return n.t.freeNode(n)
}

// String describes a single node: its items, its parent's items and its
// fan-out.
func (n *node[T]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "keys=[%s]", joinItems(n.items))
	if n.parent != nil {
		fmt.Fprintf(&b, " parent=[%s]", joinItems(n.parent.items))
	}
	fmt.Fprintf(&b, " keySize=%d children=%d", len(n.items), len(n.children))
	return b.String()
}

func joinItems[T any](s items[T]) string {
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, ", ")
}

// min returns the first item in the subtree.
func min[T any](n *node[T]) (_ T, found bool) {
	if n == nil {
		return
	}
	for len(n.children) > 0 {
		n = n.children[0]
	}
	if len(n.items) == 0 {
		return
	}
	return n.items[0], true
}

// max returns the last item in the subtree.
func max[T any](n *node[T]) (_ T, found bool) {
	if n == nil {
		return
	}
	for len(n.children) > 0 {
		n = n.children[len(n.children)-1]
	}
	if len(n.items) == 0 {
		return
	}
	return n.items[len(n.items)-1], true
}

// BTree is a generic implementation of a B-Tree.
//
// BTree stores unique items of type T in an ordered structure, allowing
// easy insertion, removal and lookup.
//
// Write operations are not safe for concurrent mutation by multiple
// goroutines, but Read operations are.
type BTree[T any] struct {
	order    int
	length   int
	root     *node[T]
	freelist *FreeList[T]
	less     LessFunc[T]
	log      logrus.FieldLogger
	color    *bool
}

// maxItems returns the max number of items to allow per node.
func (t *BTree[T]) maxItems() int {
	return t.order*2 - 1
}

// minItems returns the min number of items to allow per node (ignored for the
// root node).
func (t *BTree[T]) minItems() int {
	return t.order - 1
}

// maxChildren returns the max number of children of an internal node.
func (t *BTree[T]) maxChildren() int {
	return t.maxItems() + 1
}

// minChildren returns the min number of children of a non-root internal node.
func (t *BTree[T]) minChildren() int {
	return t.minItems() + 1
}

func (t *BTree[T]) newNode(parent *node[T]) (n *node[T]) {
	n = t.freelist.newNode()
	n.t = t
	n.parent = parent
	return
}

func (t *BTree[T]) freeNode(n *node[T]) bool {
	// clear to allow GC
	n.items.truncate(0)
	n.children.truncate(0)
	n.parent = nil
	n.t = nil // clear to allow GC
	return t.freelist.freeNode(n)
}

// plant starts an empty tree with a single leaf holding item.
func (t *BTree[T]) plant(item T) {
	t.root = t.newNode(nil)
	t.root.items = append(t.root.items, item)
	t.length++
	t.trace("plant", t.root)
}

// growRoot splits the root under a new, empty root, increasing the height of
// the tree by one.
func (t *BTree[T]) growRoot() {
	oldroot := t.root
	t.root = t.newNode(nil)
	t.root.children = append(t.root.children, oldroot)
	oldroot.parent = t.root
	t.root.splitChild(0)
	t.trace("grow", t.root)
}

// shrinkRoot replaces a root that lost its last item with its only child,
// or drops it entirely if it is a leaf.
func (t *BTree[T]) shrinkRoot() {
	oldroot := t.root
	if oldroot.leaf() {
		t.root = nil
	} else {
		t.root = oldroot.children[0]
		t.root.parent = nil
	}
	t.trace("shrink", oldroot)
	t.freeNode(oldroot)
}

// locate returns the node holding key and its index within that node.
func (t *BTree[T]) locate(key T) (*node[T], int, bool) {
	for n := t.root; n != nil; {
		i, found := n.items.find(key, t.less)
		if found {
			return n, i, true
		}
		if n.leaf() {
			break
		}
		n = n.children[i]
	}
	return nil, 0, false
}

// Get looks for the key item in the tree, returning it.  It returns
// (zeroValue, false) if unable to find that item.
func (t *BTree[T]) Get(key T) (_ T, _ bool) {
	n, i, ok := t.locate(key)
	if !ok {
		return
	}
	return n.items[i], true
}

// Has returns true if the given key is in the tree.
func (t *BTree[T]) Has(key T) bool {
	_, _, ok := t.locate(key)
	return ok
}

// Min returns the smallest item in the tree, or (zeroValue, false) if the tree is empty.
func (t *BTree[T]) Min() (_ T, _ bool) {
	return min(t.root)
}

// Max returns the largest item in the tree, or (zeroValue, false) if the tree is empty.
func (t *BTree[T]) Max() (_ T, _ bool) {
	return max(t.root)
}

// Len returns the number of items currently in the tree.
func (t *BTree[T]) Len() int {
	return t.length
}

// Order returns the order the tree was created with.
func (t *BTree[T]) Order() int {
	return t.order
}

// Height returns the number of levels in the tree; zero for an empty tree.
func (t *BTree[T]) Height() int {
	h := 0
	for n := t.root; n != nil; h++ {
		if n.leaf() {
			n = nil
		} else {
			n = n.children[0]
		}
	}
	return h
}

// Clear removes all items from the btree.  If addNodesToFreelist is true,
// t's nodes are added to its freelist as part of this call, until the freelist
// is full.  Otherwise, the root node is simply dereferenced and the subtree
// left to Go's normal GC processes.
//
// This call takes:
//
//	O(1): when addNodesToFreelist is false, this is a single operation.
//	O(1): when the freelist is already full, it breaks out immediately
//	O(freelist size):  when the freelist is empty, nodes are added to the
//	    freelist until full.
func (t *BTree[T]) Clear(addNodesToFreelist bool) {
	if t.root != nil && addNodesToFreelist {
		t.root.reset()
	}
	t.root, t.length = nil, 0
}

// walk calls iter for every item in the tree in ascending order.
func (t *BTree[T]) walk(iter func(T) bool) {
	if t.root == nil {
		return
	}
	t.root.ascend(iter)
}
