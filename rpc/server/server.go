// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"

	"golang.org/x/time/rate"

	engine "github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
	"github.com/bitmark-inc/logger"
)

// Create - an RPC server with every service registered
func Create(log *logger.L, executor engine.Executor, limiter *rate.Limiter) *rpc.Server {

	server := rpc.NewServer()

	_ = server.Register(escrow.New(log, executor, limiter))

	return server
}
