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

package dtjit_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dtjit "github.com/optakt/dtjit"
	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/ingest"
	"github.com/optakt/dtjit/tree"
)

func depthFourTree(t *testing.T) *tree.Tree {
	t.Helper()

	nodes := make([]tree.Node, 15)
	for i := range nodes {
		nodes[i] = tree.Node{
			FeatureIndex: uint32(i % 2),
			Bias:         float32(i) * 0.1,
			TrueChild:    uint64(i)*2 + 1,
			FalseChild:   uint64(i)*2 + 2,
		}
	}
	tr, err := tree.New(nodes)
	require.NoError(t, err)
	return tr
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	tr := depthFourTree(t)

	_, err := dtjit.New(tr, 2, dtjit.WithFunctionDepth(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dterr.ErrConfiguration))
}

func TestNew_RejectsInsufficientFeatureCount(t *testing.T) {
	tr := depthFourTree(t)

	_, err := dtjit.New(tr, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dterr.ErrConfiguration))
}

func TestResolver_RunMatchesReferenceInterpreter(t *testing.T) {
	tr := depthFourTree(t)

	resolver, err := dtjit.New(tr, 2,
		dtjit.WithFunctionDepth(2),
		dtjit.WithSubtreeDepth(1),
		dtjit.WithCodeGenerator(codegen.IfThenElse{}),
	)
	require.NoError(t, err)

	datasets := [][]float32{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	}
	for _, data := range datasets {
		got, err := resolver.Run(tr, data)
		require.NoError(t, err)

		want := referenceInterpret(tr, data)
		assert.Equal(t, want, got)
	}
}

func TestResolver_RejectsDifferentTreeInstance(t *testing.T) {
	tr := depthFourTree(t)
	other := depthFourTree(t)

	resolver, err := dtjit.New(tr, 2)
	require.NoError(t, err)

	_, err = resolver.Run(other, []float32{0, 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dterr.ErrConfiguration))
}

func TestResolver_CachesAcrossInstances(t *testing.T) {
	tr := depthFourTree(t)
	dir := t.TempDir()

	first, err := dtjit.New(tr, 2, dtjit.WithCache(dir))
	require.NoError(t, err)
	want, err := first.Run(tr, []float32{1, 1})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := dtjit.New(tr, 2, dtjit.WithCache(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Run(tr, []float32{1, 1})
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestResolver_RandomTreeMatchesReferenceInterpreter(t *testing.T) {
	const (
		treeDepth    = 6
		featureCount = 3
		jointDepth   = 3
		sampleSize   = 100000
	)

	treeA := ingest.Random(treeDepth, featureCount, 1234)
	treeB := ingest.Random(treeDepth, featureCount, 1234)
	require.Equal(t, treeA.Nodes, treeB.Nodes, "ingest.Random must be deterministic for a fixed seed")

	resolver, err := dtjit.New(treeA, featureCount,
		dtjit.WithFunctionDepth(jointDepth),
		dtjit.WithSubtreeDepth(jointDepth),
		dtjit.WithCodeGenerator(codegen.SubtreeSwitchSIMD{Levels: jointDepth}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resolver.Close() })

	rng := rand.New(rand.NewSource(5678))
	data := make([]float32, featureCount)
	for i := 0; i < sampleSize; i++ {
		for f := range data {
			data[f] = rng.Float32()
		}

		got, err := resolver.Run(treeA, data)
		require.NoError(t, err)

		want := referenceInterpret(treeA, data)
		require.Equal(t, want, got, "mismatch for input %v", data)
	}
}

func referenceInterpret(tr *tree.Tree, data []float32) uint64 {
	idx := uint64(0)
	for !tr.IsLeafExit(idx) {
		idx = tr.Child(idx, data[tr.Nodes[idx].FeatureIndex] > tr.Nodes[idx].Bias)
	}
	return idx
}
