// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/background"
)

type ticker struct {
	started  int32
	ticks    int32
	finished int32
}

func (state *ticker) Run(args interface{}, shutdown <-chan struct{}) {

	step := args.(int32)
	atomic.StoreInt32(&state.started, 1)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(time.Millisecond):
		}
		atomic.AddInt32(&state.ticks, step)
	}

	atomic.StoreInt32(&state.finished, 1)
}

func TestBackground(t *testing.T) {

	proc1 := &ticker{}
	proc2 := &ticker{}

	p := background.Start(background.Processes{proc1, proc2}, int32(3))
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	for i, proc := range []*ticker{proc1, proc2} {
		assert.Equal(t, int32(1), atomic.LoadInt32(&proc.started), "process %d not started", i)
		assert.Equal(t, int32(1), atomic.LoadInt32(&proc.finished), "process %d not finished", i)
		ticks := atomic.LoadInt32(&proc.ticks)
		assert.True(t, ticks > 0, "process %d did not run", i)
		assert.Equal(t, int32(0), ticks%3, "process %d wrong step", i)
	}

	// a second stop must not block or panic
	p.Stop()
}

func TestBackgroundEmpty(t *testing.T) {
	p := background.Start(background.Processes{}, nil)
	p.Stop()
}
