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

// Package tree holds the in-memory decision tree model: a flat array of
// nodes indexed as a complete binary tree, each carrying the feature index
// and bias of its split.
package tree

import (
	"fmt"
	"math/bits"

	"github.com/optakt/dtjit/internal/dterr"
)

// Node is a single decision tree split. TrueChild and FalseChild reference
// positions in the flat node array of the tree that owns this node.
type Node struct {
	FeatureIndex uint32
	Bias         float32
	TrueChild    uint64
	FalseChild   uint64
}

// Tree is a contiguous array of Node, indexed 0..N-1 for a tree of depth D
// where N = 2^D - 1. Index i at level l = floor(log2(i+1)) has children on
// level l+1 at the positions implied by a complete binary layout. Indices in
// [N, 2N+1) are leaf exits and are not present in Nodes.
type Tree struct {
	Nodes []Node
	depth uint8
}

// New validates that nodes form a complete binary tree (len(nodes)+1 must be
// a power of two) and returns the Tree, or a wrapped dterr.ErrConfiguration.
func New(nodes []Node) (*Tree, error) {
	size := len(nodes)
	if size == 0 || (size+1)&size != 0 {
		return nil, fmt.Errorf("%w: tree size %d is not 2^D-1 for any D", dterr.ErrConfiguration, size)
	}

	t := Tree{
		Nodes: nodes,
		depth: uint8(bits.Len(uint(size + 1))) - 1,
	}
	return &t, nil
}

// Depth returns D, the number of levels of internal nodes.
func (t *Tree) Depth() uint8 {
	return t.depth
}

// Size returns the number of internal nodes, N = 2^D - 1.
func (t *Tree) Size() uint64 {
	return uint64(len(t.Nodes))
}

// FirstIndexOnLevel returns 2^level - 1, the full-tree index of the first
// node on the given level (level 0 is the root).
func FirstIndexOnLevel(level uint8) uint64 {
	return 1<<level - 1
}

// NodesOnLevel returns 2^level, the number of nodes on the given level.
func NodesOnLevel(level uint8) uint64 {
	return 1 << level
}

// IsLeafExit reports whether idx is past the last internal node, i.e.
// whether it encodes a classification outcome rather than a node to visit.
func (t *Tree) IsLeafExit(idx uint64) bool {
	return idx >= t.Size()
}

// Validate checks that every node's feature index is addressable in a
// DataSet with featureCount entries.
func (t *Tree) Validate(featureCount int) error {
	for i, n := range t.Nodes {
		if int(n.FeatureIndex) >= featureCount {
			return fmt.Errorf("%w: node %d references feature %d but feature count is %d",
				dterr.ErrConfiguration, i, n.FeatureIndex, featureCount)
		}
	}
	return nil
}

// Child returns the true or false child index of the node at idx.
func (t *Tree) Child(idx uint64, onTrue bool) uint64 {
	n := t.Nodes[idx]
	if onTrue {
		return n.TrueChild
	}
	return n.FalseChild
}

// DataSet is a contiguous vector of feature values for one evaluation.
type DataSet []float32
