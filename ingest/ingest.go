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

// Package ingest loads decision trees from disk and generates synthetic
// ones for benchmarking, the external collaborators named in §6 but left
// out of the compiler's core.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/tree"
)

// document is the on-disk JSON shape a tree file parses into.
type document struct {
	FeatureCount int `json:"feature_count"`
	Nodes        []struct {
		Feature    uint32  `json:"feature"`
		Bias       float32 `json:"bias"`
		TrueChild  uint64  `json:"true_child"`
		FalseChild uint64  `json:"false_child"`
	} `json:"nodes"`
}

// LoadJSON parses a flat node array and feature count from r and returns
// the resulting tree.
func LoadJSON(r io.Reader) (*tree.Tree, int, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("%w: could not decode tree document: %v", dterr.ErrConfiguration, err)
	}

	nodes := make([]tree.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = tree.Node{
			FeatureIndex: n.Feature,
			Bias:         n.Bias,
			TrueChild:    n.TrueChild,
			FalseChild:   n.FalseChild,
		}
	}

	t, err := tree.New(nodes)
	if err != nil {
		return nil, 0, err
	}
	if err := t.Validate(doc.FeatureCount); err != nil {
		return nil, 0, err
	}

	return t, doc.FeatureCount, nil
}

// Random generates a perfect binary tree of the given depth with
// featureCount distinct features, splitting on a uniformly random feature
// and bias at every node. seed makes the generated tree reproducible.
func Random(depth int, featureCount int, seed int64) *tree.Tree {
	rng := rand.New(rand.NewSource(seed))

	size := 1<<uint(depth) - 1
	nodes := make([]tree.Node, size)
	for i := range nodes {
		nodes[i] = tree.Node{
			FeatureIndex: uint32(rng.Intn(featureCount)),
			Bias:         rng.Float32(),
			TrueChild:    uint64(i)*2 + 1,
			FalseChild:   uint64(i)*2 + 2,
		}
	}

	t, err := tree.New(nodes)
	if err != nil {
		// Unreachable: size is constructed as 2^depth - 1 above.
		panic(err)
	}
	return t
}
