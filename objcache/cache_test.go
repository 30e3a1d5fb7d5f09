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

package objcache_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/dtjit/objcache"
)

func openCache(t *testing.T) *objcache.Cache {
	t.Helper()

	c, err := objcache.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := openCache(t)

	blob := []byte("compiled module bytes")
	require.NoError(t, c.Put("key-a", blob))

	got, ok := c.Get("key-a")
	require.True(t, ok)
	assert.Equal(t, blob, got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := openCache(t)

	_, ok := c.Get("never-written")
	assert.False(t, ok)
}

func TestCache_GetModule_RequiresBothHalves(t *testing.T) {
	c := openCache(t)

	_, _, ok := c.GetModule(4, 8, 2, 1)
	assert.False(t, ok, "no entry at all is a miss")

	require.NoError(t, c.Put(objcache.TreeKey(4, 8), []byte("tree")))
	_, _, ok = c.GetModule(4, 8, 2, 1)
	assert.False(t, ok, "tree payload alone is not a hit")

	require.NoError(t, c.PutModule(4, 8, 2, 1, []byte("tree"), []byte("obj")))
	treeBlob, objBlob, ok := c.GetModule(4, 8, 2, 1)
	require.True(t, ok)
	assert.Equal(t, []byte("tree"), treeBlob)
	assert.Equal(t, []byte("obj"), objBlob)
}

func TestModuleKey_DistinctForDistinctConfigs(t *testing.T) {
	assert.NotEqual(t, objcache.ModuleKey(4, 8, 2, 1), objcache.ModuleKey(4, 8, 2, 2))
	assert.NotEqual(t, objcache.ModuleKey(4, 8, 2, 1), objcache.ModuleKey(6, 8, 2, 1))
}
