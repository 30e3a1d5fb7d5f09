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

package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dtjit/condition"
	"github.com/optakt/dtjit/path"
	"github.com/optakt/dtjit/tree"
)

func TestExpand(t *testing.T) {
	t.Run("fully fixed pattern has one variant", func(t *testing.T) {
		got := condition.Expand(map[uint8]bool{0: true, 1: false}, 2)
		assert.Equal(t, []uint32{0b01}, got)
	})

	t.Run("fully free pattern has 2^numNodes variants", func(t *testing.T) {
		got := condition.Expand(map[uint8]bool{}, 3)
		assert.Len(t, got, 8)
	})

	t.Run("partially fixed pattern", func(t *testing.T) {
		got := condition.Expand(map[uint8]bool{1: true}, 2)
		assert.ElementsMatch(t, []uint32{0b10, 0b11}, got)
	})
}

func TestPartition(t *testing.T) {
	nodes := []tree.Node{
		{FeatureIndex: 0, Bias: 0.5, TrueChild: 1, FalseChild: 2},
		{FeatureIndex: 1, Bias: 0.25, TrueChild: 3, FalseChild: 4},
		{FeatureIndex: 1, Bias: 0.75, TrueChild: 5, FalseChild: 6},
	}
	tr, err := tree.New(nodes)
	require.NoError(t, err)

	tests := []struct {
		name  string
		root  uint64
		level uint8
	}{
		{name: "L=1", root: 0, level: 1},
		{name: "L=2 whole tree", root: 0, level: 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			exits := path.Enumerate(tr, test.root, test.level)
			numNodes := (1 << test.level) - 1

			variants, err := condition.Partition(exits, numNodes)
			require.NoError(t, err)
			assert.Len(t, variants, 1<<numNodes)

			// Invariant 2: every possible condition vector value hits
			// exactly one exit.
			for v := uint32(0); v < uint32(1<<numNodes); v++ {
				_, ok := variants[v]
				assert.True(t, ok, "condition vector %d unassigned", v)
			}
		})
	}
}
