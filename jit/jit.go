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

// Package jit turns emitted IR into callable evaluators: submit, verify,
// compile, and resolve by symbol name, mirroring the submit/optimize/
// compile/link/resolve pipeline of §4.6. The backend is a Go closure
// compiler rather than a native JIT, so "linking" and "resolving a symbol"
// collapse into populating a map from function name to closure.
package jit

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/internal/ir"
)

// JIT holds the compiled evaluators for every module submitted to it.
// Submission is serialized with a weighted semaphore of size one, the
// equivalent of the compilation mutex in §5, held per JIT: concurrent
// Submit calls on the same JIT never compile two modules at once. Each
// Resolver builds its own JIT, so separate Resolvers do not share it.
type JIT struct {
	log zerolog.Logger

	sema       *semaphore.Weighted
	evaluators map[string]Evaluator
	resident   *ristretto.Cache
}

// New returns a JIT with an empty resident address space.
func New(log zerolog.Logger) (*JIT, error) {
	resident, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1e3,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize resident evaluator cache: %w", err)
	}

	j := JIT{
		log:        log,
		sema:       semaphore.NewWeighted(1),
		evaluators: make(map[string]Evaluator),
		resident:   resident,
	}
	return &j, nil
}

// Submit compiles every function in mod and links it into the resident
// address space. It verifies mod before compiling and returns an
// aggregated error if any function fails verification.
func (j *JIT) Submit(ctx context.Context, mod *ir.Module, gen codegen.Generator) error {
	if err := verifyModule(mod); err != nil {
		return err
	}

	if err := j.sema.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire compilation slot: %w", err)
	}
	defer j.sema.Release(1)

	for _, fn := range mod.Functions {
		evaluator := compileFunction(fn, gen)
		j.evaluators[fn.Symbol] = evaluator
		j.resident.Set(fn.Symbol, evaluator, 1)
	}
	j.resident.Wait()

	j.log.Debug().Int("functions", len(mod.Functions)).Str("generator", gen.Name()).Msg("module compiled")
	return nil
}

// GetFnPtr resolves a compiled evaluator by symbol name, checking the
// resident cache first and falling back to the authoritative map — a
// ristretto eviction only costs a map lookup, never a recompile.
func (j *JIT) GetFnPtr(name string) (Evaluator, bool) {
	if v, ok := j.resident.Get(name); ok {
		return v.(Evaluator), true
	}
	evaluator, ok := j.evaluators[name]
	if ok {
		j.resident.Set(name, evaluator, 1)
	}
	return evaluator, ok
}

// SerializeModule encodes mod for storage in the object cache.
func SerializeModule(mod *ir.Module) ([]byte, error) {
	encoder, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize module encoder: %w", err)
	}
	blob, err := encoder.Marshal(mod)
	if err != nil {
		return nil, fmt.Errorf("%w: could not encode module: %v", dterr.ErrCompilation, err)
	}
	return blob, nil
}

// LoadModuleFromCache decodes a previously serialized module and submits
// it, skipping the partitioning, path enumeration and condition vector
// expansion steps that produced it originally.
func (j *JIT) LoadModuleFromCache(ctx context.Context, blob []byte, gen codegen.Generator) error {
	var mod ir.Module
	if err := cbor.Unmarshal(blob, &mod); err != nil {
		return fmt.Errorf("%w: could not decode cached module: %v", dterr.ErrCache, err)
	}
	return j.Submit(ctx, &mod, gen)
}
