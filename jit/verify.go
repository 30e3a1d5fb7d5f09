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
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/internal/ir"
)

// verifyModule re-checks every function emitted into mod before it is
// submitted for compilation, the equivalent of running an IR verifier
// before handing a module to a backend. It independently recomputes the
// invariant the emitter is supposed to have already established — that a
// switch's case variants totally and disjointly cover its condition vector
// space — so a bug in the emitter surfaces here instead of as a wrong
// answer at evaluation time.
func verifyModule(mod *ir.Module) error {
	var errs *multierror.Error
	for _, fn := range mod.Functions {
		if err := verifyFunction(fn); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", dterr.ErrVerification, err)
	}
	return nil
}

func verifyFunction(fn *ir.Function) error {
	if fn.Symbol == "" {
		return fmt.Errorf("function at root %d has no symbol", fn.RootIndex)
	}
	return verifySwitch(fn.Symbol, fn.Entry)
}

func verifySwitch(symbol string, sw *ir.Switch) error {
	want := int(uint64(1)<<sw.Levels) - 1
	if sw.NumNodes != want {
		return fmt.Errorf("%s: switch at node %d has %d nodes, want %d for %d levels",
			symbol, sw.Root, sw.NumNodes, want, sw.Levels)
	}
	if len(sw.Features) != sw.NumNodes || len(sw.Biases) != sw.NumNodes || len(sw.NodeIdxs) != sw.NumNodes {
		return fmt.Errorf("%s: switch at node %d has mismatched feature/bias/node-index slice lengths",
			symbol, sw.Root)
	}

	seen := make(map[uint32]uint64, 1<<sw.NumNodes)
	for _, exit := range sw.Exits {
		for _, variant := range exit.Variants {
			if owner, ok := seen[variant]; ok {
				return fmt.Errorf("%s: switch at node %d: variant %d claimed by both target %d and target %d",
					symbol, sw.Root, variant, owner, exit.Target)
			}
			seen[variant] = exit.Target
		}
		if exit.Nested != nil {
			if err := verifySwitch(symbol, exit.Nested); err != nil {
				return err
			}
		}
	}

	wantVariants := 1 << sw.NumNodes
	if len(seen) != wantVariants {
		return fmt.Errorf("%s: switch at node %d covers %d of %d condition vector variants",
			symbol, sw.Root, len(seen), wantVariants)
	}

	return nil
}
