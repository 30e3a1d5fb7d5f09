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
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/internal/dterr"
	"github.com/optakt/dtjit/metrics"
)

// config holds every construction-time parameter of a Resolver. The
// numeric fields carry validator tags so a single v.Struct call catches
// the range violations spelled out in §6; the cross-field preconditions
// (F | D, L | F) cannot be expressed as struct tags and are checked
// separately by validateConfig.
type config struct {
	FunctionDepth uint8 `validate:"required,gte=1"`
	SubtreeDepth  uint8 `validate:"required,gte=1,lte=3"`

	CacheDir  string
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	Generator codegen.Generator
}

var validate = validator.New()

func defaultConfig(treeDepth uint8) config {
	subtreeDepth := codegen.MaxSwitchLevels
	for uint8(subtreeDepth) > treeDepth || treeDepth%uint8(subtreeDepth) != 0 {
		subtreeDepth--
	}

	return config{
		FunctionDepth: uint8(subtreeDepth),
		SubtreeDepth:  uint8(subtreeDepth),
		Logger:        zerolog.Nop(),
	}
}

// validateConfig runs struct-tag validation and then the cross-field
// preconditions of §6 that tags cannot express.
func validateConfig(cfg config, treeDepth uint8) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", dterr.ErrConfiguration, err)
	}
	if treeDepth%cfg.FunctionDepth != 0 {
		return fmt.Errorf("%w: tree depth %d is not a multiple of function depth %d",
			dterr.ErrConfiguration, treeDepth, cfg.FunctionDepth)
	}
	if cfg.FunctionDepth%cfg.SubtreeDepth != 0 {
		return fmt.Errorf("%w: function depth %d is not a multiple of subtree depth %d",
			dterr.ErrConfiguration, cfg.FunctionDepth, cfg.SubtreeDepth)
	}
	if cfg.Generator.OptimalJointDepth() != cfg.SubtreeDepth {
		return fmt.Errorf("%w: generator %s joins %d levels but subtree depth is %d",
			dterr.ErrConfiguration, cfg.Generator.Name(), cfg.Generator.OptimalJointDepth(), cfg.SubtreeDepth)
	}
	return nil
}
