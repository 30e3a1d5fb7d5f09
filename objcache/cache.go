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

// Package objcache persists compiled modules on disk so a later run with
// the same tree and configuration can skip straight to loading a resident
// address space instead of recompiling (§4.5/§4.6). It is a thin key/value
// layer on top of Badger; a corrupt or missing entry is always surfaced as
// a cache miss, never as an error a caller must handle specially.
package objcache

import (
	"encoding/binary"
	"fmt"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/badger/v2/options"
	"github.com/rs/zerolog"

	"github.com/optakt/dtjit/internal/dterr"
)

// Cache is a Badger-backed blob store keyed by module identity.
type Cache struct {
	db    *badger.DB
	codec *codec
	log   zerolog.Logger
}

// Open opens (creating if necessary) the on-disk cache rooted at dir.
func Open(dir string, log zerolog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(dir).
		WithTableLoadingMode(options.FileIO).
		WithValueLogLoadingMode(options.FileIO).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open object cache: %v", dterr.ErrCache, err)
	}

	c, err := newCodec()
	if err != nil {
		return nil, fmt.Errorf("could not initialize object cache codec: %w", err)
	}

	return &Cache{db: db, codec: c, log: log}, nil
}

// Close releases the underlying Badger database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ModuleKey derives the cache key for a compiled module from the
// parameters that fully determine its contents: tree depth, feature
// count, function depth and subtree depth. Two resolvers configured
// identically always compute the same key, so they share one cache entry.
func ModuleKey(treeDepth uint8, featureCount int, functionDepth, subtreeDepth uint8) string {
	return fmt.Sprintf("d%d_f%d_fd%d_sd%d", treeDepth, featureCount, functionDepth, subtreeDepth)
}

// TreeKey derives the cache key for the tree payload associated with a
// module: the part of the entry that depends only on tree shape and
// feature count, not on the compiled function/switch granularity.
func TreeKey(treeDepth uint8, featureCount int) string {
	return fmt.Sprintf("tree_d%d_f%d", treeDepth, featureCount)
}

func badgerKey(key string) []byte {
	sum := xxhash.Checksum64([]byte(key))
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, sum)
	return b
}

// Get looks up the blob stored under key. A miss, a Badger error, or a
// corrupt entry are all reported as (nil, false); only genuine store
// failures from Put are treated as errors a caller must act on.
func (c *Cache) Get(key string) ([]byte, bool) {
	var blob []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		compressed, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return c.codec.unmarshal(compressed, &blob)
	})
	if err != nil {
		c.log.Debug().Str("key", key).Err(err).Msg("object cache miss")
		return nil, false
	}
	return blob, true
}

// Put stores blob under key, overwriting any existing entry.
func (c *Cache) Put(key string, blob []byte) error {
	compressed, err := c.codec.marshal(blob)
	if err != nil {
		return fmt.Errorf("%w: could not marshal cache entry: %v", dterr.ErrCache, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), compressed)
	})
	if err != nil {
		return fmt.Errorf("%w: could not store cache entry: %v", dterr.ErrCache, err)
	}
	return nil
}

// GetModule looks up both halves of a compiled module entry: the tree
// payload and the object payload. A hit requires both to be present, per
// §4.5 — a module without its matching tree metadata is not trustworthy.
func (c *Cache) GetModule(treeDepth uint8, featureCount int, functionDepth, subtreeDepth uint8) (treeBlob, objBlob []byte, ok bool) {
	treeBlob, ok = c.Get(TreeKey(treeDepth, featureCount))
	if !ok {
		return nil, nil, false
	}
	objBlob, ok = c.Get(ModuleKey(treeDepth, featureCount, functionDepth, subtreeDepth))
	if !ok {
		return nil, nil, false
	}
	return treeBlob, objBlob, true
}

// PutModule stores both halves of a compiled module entry.
func (c *Cache) PutModule(treeDepth uint8, featureCount int, functionDepth, subtreeDepth uint8, treeBlob, objBlob []byte) error {
	if err := c.Put(TreeKey(treeDepth, featureCount), treeBlob); err != nil {
		return err
	}
	return c.Put(ModuleKey(treeDepth, featureCount, functionDepth, subtreeDepth), objBlob)
}
