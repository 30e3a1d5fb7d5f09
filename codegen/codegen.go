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

// Package codegen holds the capability set the original compiler varied
// across three code generator backends (-L1/-L2/-L3 on the CLI): a plain
// if/then/else descent, a scalar subtree switch, and a lane-vectorized
// subtree switch. All three compute the same condition vector for the same
// inputs; they differ in how many tree levels they join into one switch and
// whether the compare/mask/reduce sequence runs over scalars or lanes.
package codegen

// Generator is the capability trait every code generator backend
// implements: how many levels it prefers to join per switch, how it
// computes a subtree's condition vector, and which less-capable generator
// to fall back to when a configuration exceeds its joint depth.
type Generator interface {
	// Name identifies the generator for diagnostics and IR dumps.
	Name() string

	// OptimalJointDepth is the number of tree levels this generator joins
	// into a single switch.
	OptimalJointDepth() uint8

	// ComputeConditionVector evaluates the subtree's internal nodes
	// against data and packs the compare outcomes into a condition
	// vector, bit o set iff data[features[o]] > biases[o]. features and
	// biases are parallel slices of length 2^L - 1, in bit-offset order.
	ComputeConditionVector(data []float32, features []uint32, biases []float32) uint32

	// Fallback returns the next less capable generator to use when this
	// one's OptimalJointDepth cannot be satisfied.
	Fallback() Generator
}

// MaxSwitchLevels is the largest subtree depth a single switch can join
// given the assumed SIMD width of 8 (2^3 - 1 = 7 internal nodes, rounded up
// to 8 lanes).
const MaxSwitchLevels = 3
