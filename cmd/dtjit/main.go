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

package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	dtjit "github.com/optakt/dtjit"
	"github.com/optakt/dtjit/codegen"
	"github.com/optakt/dtjit/emit"
	"github.com/optakt/dtjit/ingest"
	"github.com/optakt/dtjit/internal/ir"
)

func main() {

	var (
		flagDebug         bool
		flagOptimizeLevel int
		flagSwitchLevel1  bool
		flagSwitchLevel2  bool
		flagSwitchLevel3  bool
		flagDump          bool
		flagOutput        string
		flagCacheDir      string
	)

	pflag.BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging")
	pflag.IntVarP(&flagOptimizeLevel, "optimize", "O", 2, "optimizer level (0-3), accepted but not used by the closure backend")
	pflag.BoolVar(&flagSwitchLevel1, "L1", false, "use the scalar if/then/else generator")
	pflag.BoolVar(&flagSwitchLevel2, "L2", false, "use the scalar switch generator joining 2 levels")
	pflag.BoolVar(&flagSwitchLevel3, "L3", false, "use the SIMD switch generator joining 3 levels (default)")
	pflag.BoolVarP(&flagDump, "dump-ir", "S", false, "dump textual IR instead of compiling")
	pflag.StringVarP(&flagOutput, "output", "o", "", "output file for -S, defaults to stdout")
	pflag.StringVarP(&flagCacheDir, "cache", "c", "", "object cache directory")

	pflag.Parse()

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if flagDebug {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if pflag.NArg() != 1 {
		log.Fatal().Msg("usage: dtjit [flags] INPUT")
	}
	inputPath := pflag.Arg(0)

	file, err := os.Open(inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("input", inputPath).Msg("could not open input tree")
	}
	defer file.Close()

	tr, featureCount, err := ingest.LoadJSON(file)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load decision tree")
	}

	gen := selectGenerator(flagSwitchLevel1, flagSwitchLevel2, flagSwitchLevel3)

	if flagDump {
		mod, err := emit.Module(tr, gen.OptimalJointDepth(), gen)
		if err != nil {
			log.Fatal().Err(err).Msg("could not emit ir")
		}
		writeDump(log, mod, flagOutput)
		return
	}

	opts := []dtjit.Option{
		dtjit.WithLogger(log),
		dtjit.WithCodeGenerator(gen),
		dtjit.WithSubtreeDepth(gen.OptimalJointDepth()),
		dtjit.WithFunctionDepth(gen.OptimalJointDepth()),
	}
	if flagCacheDir != "" {
		opts = append(opts, dtjit.WithCache(flagCacheDir))
	}

	resolver, err := dtjit.New(tr, featureCount, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("could not compile decision tree")
	}
	defer resolver.Close()

	log.Info().Uint8("depth", tr.Depth()).Str("generator", gen.Name()).Msg("decision tree compiled")
}

func selectGenerator(l1, l2, l3 bool) codegen.Generator {
	switch {
	case l1:
		return codegen.IfThenElse{}
	case l2:
		return codegen.SubtreeSwitch{Levels: 2}
	case l3:
		return codegen.SubtreeSwitchSIMD{Levels: 3}
	default:
		return codegen.SubtreeSwitchSIMD{Levels: codegen.MaxSwitchLevels}
	}
}

func writeDump(log zerolog.Logger, mod *ir.Module, outputPath string) {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			log.Fatal().Err(err).Str("output", outputPath).Msg("could not create output file")
		}
		defer f.Close()
		out = f
	}
	_, _ = out.WriteString(mod.String())
}
