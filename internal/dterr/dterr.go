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

// Package dterr holds the sentinel errors shared across the tree-JIT
// compiler's components, so callers can classify a failure with errors.Is
// instead of matching on message text.
package dterr

import "errors"

var (
	// ErrConfiguration indicates a construction-time precondition was
	// violated: tree size, function depth or subtree depth mismatch.
	// Fatal, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrCache indicates a corrupt or mismatched cache entry. Treated as
	// a cache miss by the caller, not fatal.
	ErrCache = errors.New("cache error")

	// ErrVerification indicates an emitted function failed verification.
	// Fatal; indicates a compiler bug.
	ErrVerification = errors.New("ir verification error")

	// ErrCompilation indicates the backend failed to lower IR to a
	// runnable evaluator. Fatal.
	ErrCompilation = errors.New("jit compilation error")
)
