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

// Package emit lowers a decision tree into the backend-agnostic IR: one
// function per compiled subtree root, each holding a switch (possibly
// nesting further switches) that dispatches on the condition vector a code
// generator would compute at runtime.
package emit

import (
	"fmt"

	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/condition"
	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/internal/ir"
	"github.com/optakt/dtjit/partition"
	"github.com/optakt/dtjit/path"
	"github.com/optakt/dtjit/tree"
)

// node is the subset of *tree.Tree the emitter needs, so it can be
// exercised against synthetic trees in tests.
type node interface {
	Child(idx uint64, onTrue bool) uint64
	IsLeafExit(idx uint64) bool
}

// treeNodes is the subset needed to read feature/bias pairs for a subtree's
// internal nodes.
type treeNodes interface {
	node
	NodeAt(idx uint64) (featureIdx uint32, bias float32)
}

// Module lowers t into one ir.Function per compiled subtree root, joining
// functionDepth levels per function and gen.OptimalJointDepth() levels per
// switch within a function (nesting switches when the function spans more
// levels than one switch can join, §4.4 "Nested switches").
func Module(t *tree.Tree, functionDepth uint8, gen codegen.Generator) (*ir.Module, error) {
	levels := gen.OptimalJointDepth()
	if levels == 0 || levels > functionDepth {
		return nil, fmt.Errorf("%w: generator %s joint depth %d exceeds function depth %d",
			dterr.ErrConfiguration, gen.Name(), levels, functionDepth)
	}
	if functionDepth%levels != 0 {
		return nil, fmt.Errorf("%w: function depth %d is not a multiple of switch depth %d",
			dterr.ErrConfiguration, functionDepth, levels)
	}

	adapter := treeAdapter{t}

	mod := &ir.Module{}
	for _, root := range partition.Roots(t.Depth(), functionDepth) {
		sw, err := buildSwitch(adapter, root, functionDepth, levels, gen)
		if err != nil {
			return nil, err
		}
		mod.Functions = append(mod.Functions, &ir.Function{
			Symbol:        fmt.Sprintf("nodeEvaluator_%d", root),
			RootIndex:     root,
			TargetFeature: gen.Name(),
			Entry:         sw,
		})
	}

	return mod, nil
}

func buildSwitch(t treeNodes, root uint64, remaining uint8, levels uint8, gen codegen.Generator) (*ir.Switch, error) {
	numNodes := int(uint64(1)<<levels) - 1
	nodeIdxs := partition.Layout(root, levels)

	features := make([]uint32, numNodes)
	biases := make([]float32, numNodes)
	for i, idx := range nodeIdxs {
		features[i], biases[i] = t.NodeAt(idx)
	}

	exits := path.Enumerate(t, root, levels)
	owner, err := condition.Partition(exits, numNodes)
	if err != nil {
		return nil, fmt.Errorf("%w: subtree at %d: %v", dterr.ErrCompilation, root, err)
	}

	variantsByExit := make([][]uint32, len(exits))
	for variant, exitIdx := range owner {
		variantsByExit[exitIdx] = append(variantsByExit[exitIdx], variant)
	}

	sw := &ir.Switch{
		Root:     root,
		Levels:   levels,
		NumNodes: numNodes,
		NodeIdxs: nodeIdxs,
		Features: features,
		Biases:   biases,
		Exits:    make([]ir.Exit, len(exits)),
	}

	remainingAfter := remaining - levels
	for i, exit := range exits {
		sw.Exits[i] = ir.Exit{Target: exit.Target, Variants: variantsByExit[i]}

		if remainingAfter == 0 || t.IsLeafExit(exit.Target) {
			continue
		}

		nested, err := buildSwitch(t, exit.Target, remainingAfter, levels, gen)
		if err != nil {
			return nil, err
		}
		sw.Exits[i].Nested = nested
	}

	return sw, nil
}

type treeAdapter struct {
	t *tree.Tree
}

func (a treeAdapter) Child(idx uint64, onTrue bool) uint64 { return a.t.Child(idx, onTrue) }
func (a treeAdapter) IsLeafExit(idx uint64) bool            { return a.t.IsLeafExit(idx) }
func (a treeAdapter) NodeAt(idx uint64) (uint32, float32) {
	n := a.t.Nodes[idx]
	return n.FeatureIndex, n.Bias
}
