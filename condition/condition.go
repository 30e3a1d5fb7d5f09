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

// Package condition expands a subtree exit's partial compare-outcome
// pattern into the full set of canonical condition vector values that must
// dispatch to that exit.
package condition

import "github.com/optakt/dtjit/path"

// Expand enumerates every condition vector value consistent with the fixed
// bits in bits, varying every bit offset in [0, numNodes) absent from bits.
// numNodes is the number of internal nodes in the subtree (2^L - 1).
func Expand(bits map[uint8]bool, numNodes int) []uint32 {
	var template uint32
	for offset, set := range bits {
		if set {
			template |= 1 << offset
		}
	}

	var variable []uint8
	for offset := uint8(0); offset < uint8(numNodes); offset++ {
		if _, fixed := bits[offset]; !fixed {
			variable = append(variable, offset)
		}
	}

	if len(variable) == 0 {
		return []uint32{template}
	}

	variants := make([]uint32, 0, 1<<len(variable))
	variants = expand(template, variable, 0, variants)
	return variants
}

func expand(template uint32, variable []uint8, i int, result []uint32) []uint32 {
	if i == len(variable) {
		return append(result, template)
	}

	bit := uint32(1) << variable[i]
	result = expand(template|bit, variable, i+1, result)
	result = expand(template, variable, i+1, result)
	return result
}

// Partition builds, for every exit of one subtree, the map of canonical
// condition vector variant -> index into exits. It returns an error if the
// variants do not form a total, non-overlapping partition of
// [0, 2^numNodes), which would indicate a bug in the exit enumeration.
func Partition(exits []path.Exit, numNodes int) (map[uint32]int, error) {
	variants := make(map[uint32]int, 1<<numNodes)

	for exitIdx, exit := range exits {
		for _, variant := range Expand(exit.Bits, numNodes) {
			if owner, ok := variants[variant]; ok {
				return nil, &overlapError{variant: variant, first: owner, second: exitIdx}
			}
			variants[variant] = exitIdx
		}
	}

	want := 1 << numNodes
	if len(variants) != want {
		return nil, &coverageError{got: len(variants), want: want}
	}

	return variants, nil
}
