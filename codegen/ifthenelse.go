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

// IfThenElse is the degenerate, scalar code generator: it joins exactly one
// level per switch, which collapses the switch to a single two-way branch
// equivalent to a plain if/then/else. It is its own fallback, since there
// is nothing simpler to fall back to.
type IfThenElse struct{}

func (IfThenElse) Name() string { return "IfThenElse" }

func (IfThenElse) OptimalJointDepth() uint8 { return 1 }

func (IfThenElse) ComputeConditionVector(data []float32, features []uint32, biases []float32) uint32 {
	if data[features[0]] > biases[0] {
		return 1
	}
	return 0
}

func (g IfThenElse) Fallback() Generator { return g }
