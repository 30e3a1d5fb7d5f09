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

// Package dtjit resolves a decision tree's leaf for a data set by chaining
// compiled evaluators, compiling them when the Resolver is constructed
// (§4.7). It is the root
// package a caller imports; everything else under this module is a
// collaborator it wires together.
package dtjit

import (
	"context"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/emit"
	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/internal/ir"
	"github.com/optakt/dtjit/jit"
	"github.com/optakt/dtjit/objcache"
	"github.com/optakt/dtjit/partition"
	"github.com/optakt/dtjit/tree"
)

// Resolver compiles a decision tree into a chain of evaluator functions
// and resolves data sets against it.
type Resolver struct {
	cfg          config
	tree         *tree.Tree
	featureCount int

	jit   *jit.JIT
	cache *objcache.Cache
}

// New validates the given configuration, compiles t (loading from cache
// when possible), and returns a Resolver ready to Run data sets against t.
// An invalid tree or configuration returns a wrapped dterr.ErrConfiguration;
// failures to open the cache, emit or verify the module return the error of
// that step. None is worth retrying with the same arguments.
func New(t *tree.Tree, featureCount int, opts ...Option) (*Resolver, error) {
	if err := t.Validate(featureCount); err != nil {
		return nil, err
	}

	cfg := defaultConfig(t.Depth())
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Generator == nil {
		cfg.Generator = codegen.SubtreeSwitchSIMD{Levels: cfg.SubtreeDepth}
	}

	if err := validateConfig(cfg, t.Depth()); err != nil {
		return nil, err
	}

	j, err := jit.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("could not initialize jit: %w", err)
	}

	var cache *objcache.Cache
	if cfg.CacheDir != "" {
		cache, err = objcache.Open(cfg.CacheDir, cfg.Logger)
		if err != nil {
			return nil, err
		}
	}

	r := Resolver{
		cfg:          cfg,
		tree:         t,
		featureCount: featureCount,
		jit:          j,
		cache:        cache,
	}

	if err := r.compile(); err != nil {
		return nil, err
	}

	return &r, nil
}

func (r *Resolver) compile() error {
	var stop func()
	if r.cfg.Metrics != nil {
		stop = r.cfg.Metrics.Duration("compile")
		defer stop()
	}

	if r.cache != nil && r.loadFromCache() {
		if r.cfg.Metrics != nil {
			r.cfg.Metrics.CacheHit()
		}
		return nil
	}
	if r.cache != nil && r.cfg.Metrics != nil {
		r.cfg.Metrics.CacheMiss()
	}

	mod, err := emit.Module(r.tree, r.cfg.FunctionDepth, r.cfg.Generator)
	if err != nil {
		return err
	}

	if err := r.jit.Submit(context.Background(), mod, r.cfg.Generator); err != nil {
		return err
	}

	if r.cfg.Metrics != nil {
		count := partition.ExpectedEvaluatorCount(r.tree.Depth(), r.cfg.FunctionDepth)
		r.cfg.Metrics.SetEvaluatorCount(count)
	}

	if r.cache != nil {
		if err := r.storeInCache(mod); err != nil {
			r.cfg.Logger.Debug().Err(err).Msg("could not store compiled module in cache")
		}
	}

	return nil
}

// loadFromCache reports whether it found and loaded a usable cache entry.
// A cache whose tree payload does not match the current tree, or whose
// object payload fails to load, is a miss: the caller always falls back
// to compiling from scratch rather than treating this as fatal (§7).
func (r *Resolver) loadFromCache() bool {
	treeBlob, objBlob, ok := r.cache.GetModule(r.tree.Depth(), r.featureCount, r.cfg.FunctionDepth, r.cfg.SubtreeDepth)
	if !ok {
		return false
	}

	var cachedNodes []tree.Node
	if err := cbor.Unmarshal(treeBlob, &cachedNodes); err != nil {
		return false
	}
	if !reflect.DeepEqual(cachedNodes, r.tree.Nodes) {
		r.cfg.Logger.Debug().Msg("cached tree payload does not match current tree, recompiling")
		return false
	}

	if err := r.jit.LoadModuleFromCache(context.Background(), objBlob, r.cfg.Generator); err != nil {
		r.cfg.Logger.Debug().Err(err).Msg("could not load cached module, recompiling")
		return false
	}
	return true
}

func (r *Resolver) storeInCache(mod *ir.Module) error {
	treeBlob, err := cbor.Marshal(r.tree.Nodes)
	if err != nil {
		return fmt.Errorf("could not encode tree payload: %w", err)
	}

	objBlob, err := jit.SerializeModule(mod)
	if err != nil {
		return err
	}

	return r.cache.PutModule(r.tree.Depth(), r.featureCount, r.cfg.FunctionDepth, r.cfg.SubtreeDepth, treeBlob, objBlob)
}

// Run resolves data against t, which must be the exact tree instance this
// Resolver was constructed with (§4.7's "same tree instance" precondition
// — a different tree with the same shape has different evaluators).
func (r *Resolver) Run(t *tree.Tree, data []float32) (uint64, error) {
	if t != r.tree {
		return 0, fmt.Errorf("%w: Run called with a different tree instance than New was", dterr.ErrConfiguration)
	}

	var stop func()
	if r.cfg.Metrics != nil {
		stop = r.cfg.Metrics.Duration("run")
		defer stop()
	}

	idx := uint64(0)
	for !r.tree.IsLeafExit(idx) {
		symbol := fmt.Sprintf("nodeEvaluator_%d", idx)
		evaluator, ok := r.jit.GetFnPtr(symbol)
		if !ok {
			return 0, fmt.Errorf("%w: no compiled evaluator for node %d", dterr.ErrCompilation, idx)
		}
		idx = evaluator(data)
	}

	return idx, nil
}

// Close releases the Resolver's object cache, if one was configured with
// WithCache. A Resolver built without a cache has nothing to release.
func (r *Resolver) Close() error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Close()
}
