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

// Package ir is the backend-agnostic intermediate representation the
// emitter produces and the JIT lowers into callable evaluators. The spec
// names the IR operations a backend must support (alloca, gather, SIMD
// compare, mask-AND, horizontal-OR-reduce, switch, store, branch, return)
// without binding to any specific compiler. This package does not model
// those operations as instructions: it holds, as plain data, each
// function's nested switches with their node layout, features, biases and
// case variants, and the code generator performs the compare/mask/reduce
// steps when the compiled evaluator runs.
package ir

// Module is one compiled translation unit: every evaluator function for a
// single (tree, functionDepth, switchDepth) configuration.
type Module struct {
	Functions []*Function
}

// Function is one emitted evaluator, corresponding to a single compiled
// subtree root at function-depth granularity. Symbol is the exported name
// nodeEvaluator_<RootIndex>.
type Function struct {
	Symbol        string
	RootIndex     uint64
	TargetFeature string
	Entry         *Switch
}

// Switch is one emitted subtree-switch layer: compute a condition vector
// over NumNodes internal nodes, and branch to the basic block selected by
// one of the canonical variants listed on each Exit. Exits are ordered the
// way the Path Enumerator produces them, which is also the textual basic
// block layout order the spec requires.
type Switch struct {
	Root     uint64
	Levels   uint8
	NumNodes int
	// NodeIdxs are the full-tree indices of the switch's internal nodes in
	// BFS order; NodeIdxs[o] is the node occupying bit offset o.
	NodeIdxs []uint64
	Features []uint32
	Biases   []float32
	Exits    []Exit
}

// Exit is one basic block targeted by the switch: either it stores Target
// directly (a leaf or the next function's root), or it recurses into a
// Nested switch for the next Levels of the tree (nested switches, §4.4).
type Exit struct {
	Target   uint64
	Variants []uint32
	Nested   *Switch
}
