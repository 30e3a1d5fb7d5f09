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

package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/dtjit/codegen"
)

func TestFallbackChain(t *testing.T) {
	simd := codegen.SubtreeSwitchSIMD{Levels: 3}
	scalar := simd.Fallback()
	assert.Equal(t, codegen.SubtreeSwitch{Levels: 3}, scalar)

	ite := scalar.Fallback()
	assert.Equal(t, codegen.IfThenElse{}, ite)

	assert.Equal(t, codegen.IfThenElse{}, ite.Fallback())
}

func TestComputeConditionVector_GeneratorsAgree(t *testing.T) {
	// A 7-node (L=3) subtree condition vector: feature i compared against a
	// threshold, for every generator that can join that many levels.
	features := []uint32{0, 1, 2, 3, 4, 5, 6}
	biases := []float32{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		name string
		data []float32
		want uint32
	}{
		{
			name: "all true",
			data: []float32{1, 2, 3, 4, 5, 6, 7},
			want: 0b1111111,
		},
		{
			name: "all false",
			data: []float32{0, 1, 2, 3, 4, 5, 6},
			want: 0,
		},
		{
			name: "mixed",
			data: []float32{1, 1, 3, 3, 5, 5, 7},
			want: 0b1010101,
		},
		{
			name: "NaN is never greater",
			data: []float32{float32(nan()), 2, 3, 4, 5, 6, 7},
			want: 0b1111110,
		},
	}

	generators := []codegen.Generator{
		codegen.SubtreeSwitchSIMD{Levels: 3},
		codegen.SubtreeSwitch{Levels: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, gen := range generators {
				got := gen.ComputeConditionVector(test.data, features, biases)
				assert.Equalf(t, test.want, got, "generator %s disagreed", gen.Name())
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
