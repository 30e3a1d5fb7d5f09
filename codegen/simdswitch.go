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

package codegen

// laneWidth is W in spec terms: the next power of two >= 2^L for L <= 3,
// i.e. the assumed SIMD width of 8.
const laneWidth = 8

// SubtreeSwitchSIMD is the default, fully lane-vectorized code generator
// described in §4.4: it stages feature values, biases and one-hot shift
// masks into fixed-width lane arrays, computes an ordered-greater compare
// across all lanes at once, masks the result, and horizontally OR-reduces
// the lanes into a single condition vector using the documented
// (04)(15)(26)(37) -> (0145)(1133)(2367)(3377) -> (0,2) reduction tree.
type SubtreeSwitchSIMD struct {
	Levels uint8
}

func (g SubtreeSwitchSIMD) Name() string { return "SubtreeSwitchSIMD" }

func (g SubtreeSwitchSIMD) OptimalJointDepth() uint8 {
	if g.Levels == 0 {
		return MaxSwitchLevels
	}
	return g.Levels
}

// ComputeConditionVector implements the entry/gather/compare/mask/reduce
// sequence of §4.4 over a fixed 8-lane array, whatever the actual node
// count (2^L - 1 <= 7 for the supported L <= MaxSwitchLevels). Unused lanes
// are left at their zero value for both operands, so their compare
// evaluates false and their shift mask is 0, neutralizing them in the
// reduction regardless of SIMD compare semantics (§9 open question).
//
// Bit offset o of the result is set iff data[features[o]] > biases[o]; the
// shift masks are built in bit-offset order (shiftMasks[o] = 1<<o), kept
// consistent with the bit-offset numbering the Partitioner, Path Enumerator
// and Condition Vector Expander all use, rather than the reversed lane
// ordering in the original source (see DESIGN.md).
func (SubtreeSwitchSIMD) ComputeConditionVector(data []float32, features []uint32, biases []float32) uint32 {
	numNodes := len(features)

	var featureValues, compareValues [laneWidth]float32
	var shiftMasks [laneWidth]int32

	for o := 0; o < numNodes; o++ {
		featureValues[o] = data[features[o]]
		compareValues[o] = biases[o]
		shiftMasks[o] = 1 << uint(o)
	}
	// Lanes [numNodes, laneWidth) stay at their zero value: featureValues
	// and compareValues both 0 (0 > 0 is false) and shiftMasks 0, so they
	// contribute nothing to the reduction no matter how the ordered
	// compare treats equal operands.

	var cmpMask [laneWidth]int32
	for lane := 0; lane < laneWidth; lane++ {
		if featureValues[lane] > compareValues[lane] {
			cmpMask[lane] = -1 // all-ones, as an x86 packed compare would produce
		}
	}

	var anded [laneWidth]int32
	for lane := 0; lane < laneWidth; lane++ {
		anded[lane] = cmpMask[lane] & shiftMasks[lane]
	}

	// Horizontal OR reduce: low 4 lanes OR high 4 lanes, then the
	// documented (1,1,3,3) shuffle-and-OR, then extract lanes 0 and 2.
	var low4 [4]int32
	for i := 0; i < 4; i++ {
		low4[i] = anded[i] | anded[i+4]
	}
	shuffled := [4]int32{low4[1], low4[1], low4[3], low4[3]}
	var stage2 [4]int32
	for i := 0; i < 4; i++ {
		stage2[i] = low4[i] | shuffled[i]
	}

	return uint32(stage2[0] | stage2[2])
}

func (g SubtreeSwitchSIMD) Fallback() Generator { return SubtreeSwitch{Levels: g.Levels} }
