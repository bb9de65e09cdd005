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
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// SetColor forces colored output of Print and String on or off.  By default
// color follows the fatih/color package, which disables it when stdout is
// not a terminal or NO_COLOR is set.
func (t *BTree[T]) SetColor(on bool) {
	t.color = &on
}

type palette struct {
	root, internal, leaf *color.Color
}

func (t *BTree[T]) palette() palette {
	p := palette{
		root:     color.New(color.FgCyan, color.Bold),
		internal: color.New(color.FgYellow),
		leaf:     color.New(color.FgGreen),
	}
	if t.color != nil {
		for _, c := range []*color.Color{p.root, p.internal, p.leaf} {
			if *t.color {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
	return p
}

func (p palette) of(root, leaf bool) *color.Color {
	switch {
	case root:
		return p.root
	case leaf:
		return p.leaf
	default:
		return p.internal
	}
}

// Print writes a drawing of the tree to w, one node per line, for debugging.
// The format is not stable.
//
//	└── 4
//	    ├── 2
//	    │   ├── 1
//	    │   └── 3
//	    └── 6
//	        ├── 5
//	        └── 7
func (t *BTree[T]) Print(w io.Writer) {
	if t.root == nil {
		fmt.Fprintln(w, "Tree has no nodes.")
		return
	}
	t.root.print(w, t.palette(), "", true)
}

// String returns the drawing produced by Print.
func (t *BTree[T]) String() string {
	var b strings.Builder
	t.Print(&b)
	return b.String()
}

func (n *node[T]) print(w io.Writer, p palette, prefix string, tail bool) {
	branch, indent := "├── ", "│   "
	if tail {
		branch, indent = "└── ", "    "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, p.of(n.parent == nil, n.leaf()).Sprint(joinItems(n.items)))
	for i, c := range n.children {
		c.print(w, p, prefix+indent, i == len(n.children)-1)
	}
}
