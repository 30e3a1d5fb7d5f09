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

package dtjit

import (
	"github.com/rs/zerolog"

	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/metrics"
)

// Option configures a Resolver at construction time.
type Option func(*config)

// WithFunctionDepth sets F, the number of tree levels compiled into one
// function. Must divide the tree depth.
func WithFunctionDepth(depth uint8) Option {
	return func(cfg *config) {
		cfg.FunctionDepth = depth
	}
}

// WithSubtreeDepth sets L, the number of tree levels joined into one
// switch. Must divide the function depth and be at most
// codegen.MaxSwitchLevels.
func WithSubtreeDepth(depth uint8) Option {
	return func(cfg *config) {
		cfg.SubtreeDepth = depth
	}
}

// WithCache points the Resolver at an on-disk object cache directory. A
// Resolver built without this option always compiles from scratch.
func WithCache(dir string) Option {
	return func(cfg *config) {
		cfg.CacheDir = dir
	}
}

// WithLogger injects a logger for non-fatal diagnostics (§7). The default
// is zerolog.Nop.
func WithLogger(log zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = log
	}
}

// WithMetrics attaches a Metrics collector. The default Resolver reports
// no metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *config) {
		cfg.Metrics = m
	}
}

// WithCodeGenerator selects the code generator backend. The default picks
// codegen.SubtreeSwitchSIMD joined to SubtreeDepth.
func WithCodeGenerator(gen codegen.Generator) Option {
	return func(cfg *config) {
		cfg.Generator = gen
	}
}
