// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"fmt"
	"os"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// organizations used throughout the tests
const (
	Issuer   = "Org1MSP"
	Buyer    = "Org2MSP"
	Buyer2   = "Org3MSP"
	Currency = "RMB"
)

// Clock - deterministic time source, each call is one second later
type Clock struct {
	now time.Time
}

// NewClock - start a clock at a fixed instant
func NewClock() *Clock {
	return &Clock{
		now: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Now - advance and return the time
func (c *Clock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
