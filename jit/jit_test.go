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

package jit_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/emit"
	"github.com/optakt/dtjit/jit"
	"github.com/optakt/dtjit/tree"
)

func twoLevelTree(t *testing.T) *tree.Tree {
	t.Helper()

	nodes := []tree.Node{
		{FeatureIndex: 0, Bias: 0.5, TrueChild: 1, FalseChild: 2},
		{FeatureIndex: 1, Bias: 0.25, TrueChild: 3, FalseChild: 4},
		{FeatureIndex: 1, Bias: 0.75, TrueChild: 5, FalseChild: 6},
	}
	tr, err := tree.New(nodes)
	require.NoError(t, err)
	return tr
}

func TestJIT_SubmitAndEvaluate(t *testing.T) {
	tr := twoLevelTree(t)
	gen := codegen.SubtreeSwitch{Levels: 2}

	mod, err := emit.Module(tr, 2, gen)
	require.NoError(t, err)

	j, err := jit.New(zerolog.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, j.Submit(ctx, mod, gen))

	evaluator, ok := j.GetFnPtr("nodeEvaluator_0")
	require.True(t, ok)

	tests := []struct {
		name string
		data []float32
		want uint64
	}{
		{name: "false, false", data: []float32{0, 0}, want: 6},
		{name: "false, true", data: []float32{0, 1}, want: 5},
		{name: "true, false", data: []float32{1, 0}, want: 4},
		{name: "true, true", data: []float32{1, 1}, want: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, evaluator(test.data))
		})
	}
}

func TestJIT_GetFnPtr_UnknownSymbol(t *testing.T) {
	j, err := jit.New(zerolog.Nop())
	require.NoError(t, err)

	_, ok := j.GetFnPtr("does_not_exist")
	assert.False(t, ok)
}

func TestJIT_SerializeAndLoadFromCache(t *testing.T) {
	tr := twoLevelTree(t)
	gen := codegen.SubtreeSwitch{Levels: 2}

	mod, err := emit.Module(tr, 2, gen)
	require.NoError(t, err)

	blob, err := jit.SerializeModule(mod)
	require.NoError(t, err)

	j, err := jit.New(zerolog.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, j.LoadModuleFromCache(ctx, blob, gen))

	evaluator, ok := j.GetFnPtr("nodeEvaluator_0")
	require.True(t, ok)
	assert.Equal(t, uint64(3), evaluator([]float32{1, 1}))
}
