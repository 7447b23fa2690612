// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/counter"
)

// test incrementing/decrementing a counter
func TestCounter(t *testing.T) {

	var c1 counter.Counter

	assert.True(t, c1.IsZero(), "counter is not zero at start")

	for i := 0; i < 5; i += 1 {
		c1.Increment()
	}
	assert.Equal(t, uint64(5), c1.Uint64(), "wrong value after incrementing")

	c1.Decrement()
	assert.Equal(t, uint64(4), c1.Uint64(), "wrong value after decrementing")

	for i := 0; i < 4; i += 1 {
		c1.Decrement()
	}
	assert.True(t, c1.IsZero(), "counter did not return to zero")

	c1.Decrement()

	// check against underflow, i.e. twos complement -1
	assert.Equal(t, ^uint64(0), c1.Uint64(), "counter did not underflow")
}

func TestAcquire(t *testing.T) {
	var c counter.Counter

	assert.True(t, c.Acquire(2), "first acquire failed")
	assert.True(t, c.Acquire(2), "second acquire failed")
	assert.False(t, c.Acquire(2), "acquire beyond maximum")
	assert.Equal(t, uint64(2), c.Uint64(), "wrong value")

	c.Decrement()
	assert.True(t, c.Acquire(2), "acquire after release failed")
}

func TestAcquireConcurrent(t *testing.T) {
	var c counter.Counter
	var acquired counter.Counter

	const maximum = 10

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Acquire(maximum) {
				acquired.Increment()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(maximum), acquired.Uint64(), "wrong number of acquired slots")
}
