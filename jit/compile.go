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

package jit

import (
	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/internal/ir"
)

// Evaluator is a compiled subtree switch: given a data set, it returns
// either a leaf index or the root index of the next function to invoke.
type Evaluator func(data []float32) uint64

// compileFunction lowers one ir.Function into a closure. This is the
// "compile to object" and "link into resident address space" steps of
// §4.6 collapsed into one, since the backend is a Go closure compiler
// rather than a native object emitter: there is no separate link step
// because the closure already holds direct references to its nested
// switches instead of symbol names to resolve later.
func compileFunction(fn *ir.Function, gen codegen.Generator) Evaluator {
	return compileSwitch(fn.Entry, gen)
}

func compileSwitch(sw *ir.Switch, gen codegen.Generator) Evaluator {
	features := sw.Features
	biases := sw.Biases

	caseTable := make([]int, 1<<sw.NumNodes)
	targets := make([]uint64, len(sw.Exits))
	nested := make([]Evaluator, len(sw.Exits))

	for i, exit := range sw.Exits {
		targets[i] = exit.Target
		for _, variant := range exit.Variants {
			caseTable[variant] = i
		}
		if exit.Nested != nil {
			nested[i] = compileSwitch(exit.Nested, gen)
		}
	}

	return func(data []float32) uint64 {
		vector := gen.ComputeConditionVector(data, features, biases)
		exitIdx := caseTable[vector]
		if fn := nested[exitIdx]; fn != nil {
			return fn(data)
		}
		return targets[exitIdx]
	}
}
