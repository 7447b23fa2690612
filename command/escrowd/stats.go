// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/escrowd/rpc"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/logger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// periodic memory and ledger report, runs as a background process
type memoryStatistics struct {
	ledger *storage.Ledger
}

func (state *memoryStatistics) Run(args interface{}, shutdown <-chan struct{}) {

	log := logger.New("memory")

	for {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		text, err := json.Marshal(m)
		if nil != err {
			log.Errorf("marshal error: %s", err)
		} else {
			log.Debugf("stats: %s", text)
		}
		a := m.Alloc / mega
		t := m.TotalAlloc / mega
		s := m.Sys / mega
		log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, s)
		log.Infof("commit: %d  rpc connections: %d", state.ledger.LastCommit(), rpc.Connections())

		select {
		case <-shutdown:
			return
		case <-time.After(statsDelay):
		}
	}
}
