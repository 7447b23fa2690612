// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"math/rand"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	engine "github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/identity"
	"github.com/bitmark-inc/escrowd/rpc"
	"github.com/bitmark-inc/escrowd/rpc/certificate"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
	"github.com/bitmark-inc/escrowd/rpc/listeners"
	"github.com/bitmark-inc/escrowd/rpc/mocks"
)

func TestInitialise(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir, err := ioutil.TempDir("", "rpc")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	cer := filepath.Join(dir, "rpc.crt")
	key := filepath.Join(dir, "rpc.key")
	if err := certificate.Create("test", cer, key, nil); nil != err {
		t.Fatalf("create certificate error: %s", err)
	}

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	executor := mocks.NewMockExecutor(ctl)
	executor.EXPECT().Execute(identity.Static(fixtures.Buyer), engine.Register{}).Return(&engine.RegisterResult{
		Success:      true,
		Organization: fixtures.Buyer,
		Added:        true,
	}, nil).Times(1)

	port := rand.Intn(30000) + 30000
	configuration := &listeners.RPCConfiguration{
		MaximumConnections: 2,
		Listen:             []string{fmt.Sprintf("127.0.0.1:%d", port)},
		Certificate:        cer,
		PrivateKey:         key,
	}

	err = rpc.Initialise(configuration, executor)
	assert.Nil(t, err, "wrong Initialise")

	err = rpc.Initialise(configuration, executor)
	assert.Equal(t, fault.AlreadyInitialised, err, "second Initialise accepted")

	conn, err := tls.Dial("tcp", configuration.Listen[0], &tls.Config{InsecureSkipVerify: true})
	if nil != err {
		_ = rpc.Finalise()
		t.Fatalf("dial error: %s", err)
	}
	client := jsonrpc.NewClient(conn)

	var reply engine.RegisterResult
	err = client.Call("Escrow.Register", &escrow.RegisterArguments{Organization: fixtures.Buyer}, &reply)
	assert.Nil(t, err, "wrong Register")
	assert.True(t, reply.Added, "wrong added")
	assert.Equal(t, uint64(1), rpc.Connections(), "wrong connection count")
	client.Close()

	err = rpc.Finalise()
	assert.Nil(t, err, "wrong Finalise")

	err = rpc.Finalise()
	assert.Equal(t, fault.NotInitialised, err, "second Finalise accepted")
}

func TestInitialiseMissingCertificate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	configuration := &listeners.RPCConfiguration{
		MaximumConnections: 2,
		Listen:             []string{"127.0.0.1:1"},
		Certificate:        "/nonexistent/rpc.crt",
		PrivateKey:         "/nonexistent/rpc.key",
	}

	err := rpc.Initialise(configuration, nil)
	assert.NotNil(t, err, "missing certificate accepted")
}
