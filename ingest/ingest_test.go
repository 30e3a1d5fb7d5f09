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

package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dtjit/ingest"
)

const threeNodeDocument = `{
	"feature_count": 2,
	"nodes": [
		{"feature": 0, "bias": 0.5, "true_child": 1, "false_child": 2},
		{"feature": 1, "bias": 0.25, "true_child": 3, "false_child": 4},
		{"feature": 1, "bias": 0.75, "true_child": 5, "false_child": 6}
	]
}`

func TestLoadJSON(t *testing.T) {
	tr, featureCount, err := ingest.LoadJSON(strings.NewReader(threeNodeDocument))
	require.NoError(t, err)

	assert.Equal(t, 2, featureCount)
	assert.Equal(t, uint64(3), tr.Size())
	assert.Equal(t, uint8(2), tr.Depth())
}

func TestLoadJSON_RejectsInvalidJSON(t *testing.T) {
	_, _, err := ingest.LoadJSON(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestRandom_ProducesValidTree(t *testing.T) {
	tr := ingest.Random(4, 3, 42)

	assert.Equal(t, uint8(4), tr.Depth())
	assert.NoError(t, tr.Validate(3))
}

func TestRandom_Deterministic(t *testing.T) {
	a := ingest.Random(5, 4, 7)
	b := ingest.Random(5, 4, 7)

	assert.Equal(t, a.Nodes, b.Nodes)
}

func TestCacheFileNames_AreDistinctPerConfiguration(t *testing.T) {
	assert.NotEqual(t, ingest.TreeFileName(4, 2), ingest.TreeFileName(5, 2))
	assert.NotEqual(t,
		ingest.ObjFileName(4, 2, 2, 1),
		ingest.ObjFileName(4, 2, 2, 2),
	)
}
