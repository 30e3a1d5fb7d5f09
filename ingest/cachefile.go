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

package ingest

import "fmt"

// TreeFileName and ObjFileName reproduce the original compiler's naming
// split between the tree-shape cache file and the compiled-object cache
// file. They name plain files on disk and are not called by the CLI or the
// Resolver; objcache.TreeKey/ModuleKey name entries in the Badger-backed
// cache and are derived independently (see DESIGN.md).
func TreeFileName(treeDepth uint8, featureCount int) string {
	return fmt.Sprintf("tree_d%d_f%d.cache", treeDepth, featureCount)
}

// ObjFileName names the compiled-object cache file for one
// (treeDepth, featureCount, functionDepth, subtreeDepth) configuration.
func ObjFileName(treeDepth uint8, featureCount int, functionDepth, subtreeDepth uint8) string {
	return fmt.Sprintf("obj_d%d_f%d_fd%d_sd%d.cache", treeDepth, featureCount, functionDepth, subtreeDepth)
}
