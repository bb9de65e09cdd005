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

type optionalItem[T any] struct {
	item  T
	valid bool
}

func optional[T any](item T) optionalItem[T] {
	return optionalItem[T]{item: item, valid: true}
}
func empty[T any]() optionalItem[T] {
	return optionalItem[T]{}
}

// Validate reports whether the tree satisfies every B-Tree invariant.  It
// visits every node, so it costs O(n).
func (t *BTree[T]) Validate() bool {
	return t.Check() == nil
}

// Check is Validate with a diagnosis: it returns an error describing the
// first broken invariant it finds, or nil.  It verifies that
//   - items within a node are strictly increasing,
//   - non-root nodes hold between order-1 and 2*order-1 items and the root
//     holds at most 2*order-1,
//   - internal nodes have exactly one more child than items, and an
//     internal root has at least two,
//   - every item of child i lies strictly between items i-1 and i of its
//     parent,
//   - every child points back at its parent,
//   - all leaves are at the same depth,
//   - Len matches the number of stored items.
func (t *BTree[T]) Check() error {
	if t.root == nil {
		if t.length != 0 {
			return errors.Errorf("btree: empty tree reports %d items", t.length)
		}
		return nil
	}
	if t.root.parent != nil {
		return errors.Errorf("btree: root %s has a parent", t.root)
	}
	c := checker[T]{t: t, leafDepth: -1}
	if err := c.check(t.root, empty[T](), empty[T](), 0); err != nil {
		return err
	}
	if c.count != t.length {
		return errors.Errorf("btree: found %d items but Len is %d", c.count, t.length)
	}
	return nil
}

type checker[T any] struct {
	t         *BTree[T]
	count     int
	leafDepth int
}

// check verifies the subtree rooted at n, whose items must all lie strictly
// between lo and hi when those are set.
func (c *checker[T]) check(n *node[T], lo, hi optionalItem[T], depth int) error {
	t := c.t
	if n.t != t {
		return errors.Errorf("btree: node %s belongs to another tree", n)
	}
	for i := 1; i < len(n.items); i++ {
		if !t.less(n.items[i-1], n.items[i]) {
			return errors.Errorf("btree: items out of order in %s", n)
		}
	}
	if len(n.items) > t.maxItems() {
		return errors.Errorf("btree: %s holds more than %d items", n, t.maxItems())
	}
	if n.parent != nil && len(n.items) < t.minItems() {
		return errors.Errorf("btree: %s holds fewer than %d items", n, t.minItems())
	}
	if len(n.items) > 0 {
		if lo.valid && !t.less(lo.item, n.items[0]) {
			return errors.Errorf("btree: %s is not above separator %v", n, lo.item)
		}
		if hi.valid && !t.less(n.items[len(n.items)-1], hi.item) {
			return errors.Errorf("btree: %s is not below separator %v", n, hi.item)
		}
	}
	c.count += len(n.items)

	if n.leaf() {
		if c.leafDepth < 0 {
			c.leafDepth = depth
		} else if c.leafDepth != depth {
			return errors.Errorf("btree: leaf %s at depth %d, expected %d", n, depth, c.leafDepth)
		}
		return nil
	}
	if len(n.children) != len(n.items)+1 {
		return errors.Errorf("btree: %s has %d children for %d items", n, len(n.children), len(n.items))
	}
	if n.parent == nil && len(n.children) < 2 {
		return errors.Errorf("btree: internal root %s has fewer than 2 children", n)
	}
	if n.parent != nil && len(n.children) < t.minChildren() {
		return errors.Errorf("btree: %s has fewer than %d children", n, t.minChildren())
	}
	for i, child := range n.children {
		if child.parent != n {
			return errors.Errorf("btree: child %d of %s does not point back at it", i, n)
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = optional(n.items[i-1])
		}
		if i < len(n.items) {
			chi = optional(n.items[i])
		}
		if err := c.check(child, clo, chi, depth+1); err != nil {
			return err
		}
	}
	return nil
}
