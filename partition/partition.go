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

// Package partition computes, for a decision tree of depth D and a chosen
// subtree depth L, the set of compiled subtree roots and the full-tree node
// layout inside each subtree.
package partition

import "math/bits"

// Roots returns the full-tree indices of every compiled subtree root: the
// nodes on levels 0, L, 2L, ..., D-L.
func Roots(depth uint8, subtreeLevels uint8) []uint64 {
	var roots []uint64
	for level := uint8(0); level < depth; level += subtreeLevels {
		first := firstIndexOnLevel(level)
		count := uint64(1) << level
		for offset := uint64(0); offset < count; offset++ {
			roots = append(roots, first+offset)
		}
	}
	return roots
}

// ExpectedEvaluatorCount returns sum_{k=0}^{D/L-1} 2^(kL), the number of
// compiled evaluator functions for a tree of depth D partitioned into
// subtrees of depth L.
func ExpectedEvaluatorCount(depth uint8, subtreeLevels uint8) uint64 {
	var total uint64
	for level := uint8(0); level < depth; level += subtreeLevels {
		total += uint64(1) << level
	}
	return total
}

// Layout returns the 2^L-1 full-tree indices of a subtree's internal nodes
// in breadth-first order, rooted at root. The position of an index in the
// returned slice is its bit offset in the subtree's condition vector.
func Layout(root uint64, subtreeLevels uint8) []uint64 {
	numNodes := int(uint64(1)<<subtreeLevels) - 1
	idxs := make([]uint64, numNodes)

	rootLevel := levelOf(root)
	firstOnRootLevel := firstIndexOnLevel(rootLevel)
	rootOffset := root - firstOnRootLevel

	for i := 0; i < numNodes; i++ {
		levelInSubtree := levelOf(uint64(i))
		firstOnLevel := firstIndexOnLevel(rootLevel + levelInSubtree)

		nodesOnLevel := uint64(1) << levelInSubtree
		firstSubtreeIdxOnLevel := firstOnLevel + rootOffset*nodesOnLevel

		offsetInLevel := uint64(i) - (uint64(1)<<levelInSubtree - 1)
		idxs[i] = firstSubtreeIdxOnLevel + offsetInLevel
	}

	return idxs
}

func firstIndexOnLevel(level uint8) uint64 {
	return 1<<level - 1
}

func levelOf(idxPlusZero uint64) uint8 {
	return uint8(bits.Len64(idxPlusZero+1)) - 1
}
