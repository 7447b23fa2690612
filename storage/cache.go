// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

// Cache - staged values of an open transaction
type Cache interface {
	Get(string) ([]byte, bool)
	Set(string, []byte)
	Clear()
}

type dbCache struct {
	cache *cache.Cache
}

// staged values must survive until commit or abort
func newCache() Cache {
	return &dbCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *dbCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	return obj.([]byte), true
}

func (c *dbCache) Set(key string, value []byte) {
	c.cache.Set(key, value, cache.NoExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
