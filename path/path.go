// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package path enumerates the exits of a compiled subtree and the pattern
// of per-node compare outcomes that reaches each one.
package path

import "github.com/optakt/dtjit/partition"

// Exit identifies one subtree exit: the full-tree index it transitions to,
// and the partial {bitOffset -> outcome} assignment of the internal nodes
// the path traverses. Nodes not on the path are absent from Bits.
type Exit struct {
	Target uint64
	Bits   map[uint8]bool
}

// node is the minimal view of a decision tree node the enumerator needs,
// decoupled from the tree package so this function can be exercised with a
// synthetic lookup in tests without constructing a full tree.Tree.
type node interface {
	Child(idx uint64, onTrue bool) uint64
}

// Enumerate returns, in the order the IR Emitter lays out basic blocks, the
// 2^L exits of the subtree rooted at root. The order is: for every internal
// node visited depth-first, the true subtree's exits precede the false
// subtree's exits.
func Enumerate(t node, root uint64, subtreeLevels uint8) []Exit {
	bitOffsets := make(map[uint64]uint8, (1<<subtreeLevels)-1)
	for offset, idx := range partition.Layout(root, subtreeLevels) {
		bitOffsets[idx] = uint8(offset)
	}

	return enumerate(t, root, subtreeLevels, bitOffsets)
}

func enumerate(t node, nodeIdx uint64, remaining uint8, bitOffsets map[uint64]uint8) []Exit {
	if remaining == 0 {
		return []Exit{{Target: nodeIdx, Bits: map[uint8]bool{}}}
	}

	bitOffset := bitOffsets[nodeIdx]

	trueExits := enumerate(t, t.Child(nodeIdx, true), remaining-1, bitOffsets)
	for _, exit := range trueExits {
		exit.Bits[bitOffset] = true
	}

	falseExits := enumerate(t, t.Child(nodeIdx, false), remaining-1, bitOffsets)
	for _, exit := range falseExits {
		exit.Bits[bitOffset] = false
	}

	return append(trueExits, falseExits...)
}
