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

package condition

import "fmt"

type overlapError struct {
	variant      uint32
	first, second int
}

func (e *overlapError) Error() string {
	return fmt.Sprintf("condition vector %d claimed by both exit %d and exit %d", e.variant, e.first, e.second)
}

type coverageError struct {
	got, want int
}

func (e *coverageError) Error() string {
	return fmt.Sprintf("partition covers %d of %d condition vector values", e.got, e.want)
}
