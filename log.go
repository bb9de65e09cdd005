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

import "github.com/sirupsen/logrus"

// SetLogger attaches a logger that receives a Debug entry for every
// structural change: node splits, borrows and merges, swaps with a
// predecessor or successor, and the root growing or shrinking.  Each entry
// carries an "op" field naming the change, the items of the affected node
// and the tree size.  A nil logger turns tracing off, which is the default.
func (t *BTree[T]) SetLogger(l logrus.FieldLogger) {
	t.log = l
}

func (t *BTree[T]) trace(op string, n *node[T]) {
	if t.log == nil {
		return
	}
	t.log.WithFields(logrus.Fields{
		"op":     op,
		"keys":   joinItems(n.items),
		"height": t.Height(),
		"len":    t.length,
	}).Debug("btree restructured")
}
