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

package ir

import (
	"fmt"
	"sort"
	"strings"
)

// String renders m as indented pseudo-assembly, the format the CLI's -S
// flag writes in place of compiling. It is meant for humans comparing two
// compilations, not for round-tripping back into a Module.
func (m *Module) String() string {
	var b strings.Builder
	for i, fn := range m.Functions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fn.writeTo(&b)
	}
	return b.String()
}

func (fn *Function) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "define %s(root=%d, feature=%s):\n", fn.Symbol, fn.RootIndex, fn.TargetFeature)
	fn.Entry.writeTo(b, 1)
}

func (sw *Switch) writeTo(b *strings.Builder, indent int) {
	pad := strings.Repeat("  ", indent)
	fmt.Fprintf(b, "%sswitch.l%d root=%d nodes=%v features=%v biases=%v:\n",
		pad, sw.Levels, sw.Root, sw.NodeIdxs, sw.Features, sw.Biases)

	for _, exit := range sw.Exits {
		variants := append([]uint32(nil), exit.Variants...)
		sort.Slice(variants, func(i, j int) bool { return variants[i] < variants[j] })
		fmt.Fprintf(b, "%s  case %v -> target=%d\n", pad, variants, exit.Target)
		if exit.Nested != nil {
			exit.Nested.writeTo(b, indent+2)
		}
	}
}
