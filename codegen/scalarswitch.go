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

// SubtreeSwitch joins up to MaxSwitchLevels levels into one switch but
// computes the condition vector with a plain scalar loop rather than lane
// arrays: it builds the same bitmap the SIMD generator does, one compare at
// a time, without the entry/gather staging §4.4 describes for the AVX path.
type SubtreeSwitch struct {
	Levels uint8
}

func (g SubtreeSwitch) Name() string { return "SubtreeSwitch" }

func (g SubtreeSwitch) OptimalJointDepth() uint8 {
	if g.Levels == 0 {
		return MaxSwitchLevels
	}
	return g.Levels
}

func (SubtreeSwitch) ComputeConditionVector(data []float32, features []uint32, biases []float32) uint32 {
	var vector uint32
	for bitOffset, featureIdx := range features {
		if data[featureIdx] > biases[bitOffset] {
			vector |= 1 << uint(bitOffset)
		}
	}
	return vector
}

func (g SubtreeSwitch) Fallback() Generator { return IfThenElse{} }
