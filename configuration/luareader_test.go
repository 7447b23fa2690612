// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/configuration"
	"github.com/bitmark-inc/escrowd/fault"
)

type databaseType struct {
	Directory string `gluamapper:"directory"`
	Name      string `gluamapper:"name"`
}

type configType struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Issuer        string            `gluamapper:"issuer"`
	Connections   uint64            `gluamapper:"maximum_connections"`
	Listen        []string          `gluamapper:"listen"`
	Database      databaseType      `gluamapper:"database"`
	Levels        map[string]string `gluamapper:"levels"`
}

const luaConfig = `
local M = {}

M.data_directory = "."
M.issuer = default_issuer
M.maximum_connections = 25
M.listen = {
    "127.0.0.1:2140",
    "[::1]:2140",
}
M.database = {
    directory = "data",
    name = "escrow.leveldb",
}
M.levels = {
    DEFAULT = "info",
    rpc = "debug",
}

return M
`

func writeConfig(t *testing.T, content string) (string, func()) {
	dir, err := ioutil.TempDir("", "configuration")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	fileName := filepath.Join(dir, "test.conf")
	if err := ioutil.WriteFile(fileName, []byte(content), 0600); nil != err {
		os.RemoveAll(dir)
		t.Fatalf("write error: %s", err)
	}
	return fileName, func() { os.RemoveAll(dir) }
}

func TestParseConfigurationFile(t *testing.T) {
	fileName, cleanup := writeConfig(t, luaConfig)
	defer cleanup()

	config := &configType{
		Database: databaseType{
			Directory: "default",
			Name:      "default.leveldb",
		},
	}
	variables := map[string]string{
		"default_issuer": "Org1MSP",
	}

	err := configuration.ParseConfigurationFile(fileName, config, variables)
	assert.Nil(t, err, "wrong parse")

	assert.Equal(t, ".", config.DataDirectory, "wrong data directory")
	assert.Equal(t, "Org1MSP", config.Issuer, "wrong issuer")
	assert.Equal(t, uint64(25), config.Connections, "wrong connections")
	assert.Equal(t, []string{"127.0.0.1:2140", "[::1]:2140"}, config.Listen, "wrong listen")
	assert.Equal(t, "data", config.Database.Directory, "wrong database directory")
	assert.Equal(t, "escrow.leveldb", config.Database.Name, "wrong database name")
	assert.Equal(t, "debug", config.Levels["rpc"], "wrong rpc level")
}

func TestParseKeepsDefaults(t *testing.T) {
	fileName, cleanup := writeConfig(t, "return { issuer = \"Org9MSP\" }\n")
	defer cleanup()

	config := &configType{
		Connections: 10,
		Database: databaseType{
			Name: "default.leveldb",
		},
	}

	err := configuration.ParseConfigurationFile(fileName, config, nil)
	assert.Nil(t, err, "wrong parse")
	assert.Equal(t, "Org9MSP", config.Issuer, "wrong issuer")
	assert.Equal(t, uint64(10), config.Connections, "default was lost")
	assert.Equal(t, "default.leveldb", config.Database.Name, "default was lost")
}

func TestParseArgTable(t *testing.T) {
	fileName, cleanup := writeConfig(t, "return { data_directory = arg[0] }\n")
	defer cleanup()

	config := &configType{}
	err := configuration.ParseConfigurationFile(fileName, config, nil)
	assert.Nil(t, err, "wrong parse")
	assert.Equal(t, fileName, config.DataDirectory, "wrong arg[0]")
}

func TestParseErrors(t *testing.T) {
	fileName, cleanup := writeConfig(t, "return 42\n")
	defer cleanup()

	config := configType{}

	err := configuration.ParseConfigurationFile(fileName, config, nil)
	assert.Equal(t, fault.InvalidStructPointer, err, "non-pointer accepted")

	err = configuration.ParseConfigurationFile(fileName, &config, nil)
	assert.NotNil(t, err, "non-table accepted")

	err = configuration.ParseConfigurationFile(fileName+".missing", &config, nil)
	assert.NotNil(t, err, "missing file accepted")

	badFile, cleanupBad := writeConfig(t, "return {\n")
	defer cleanupBad()
	err = configuration.ParseConfigurationFile(badFile, &config, nil)
	assert.NotNil(t, err, "syntax error accepted")
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/log", configuration.EnsureAbsolute("/data", "log"), "wrong relative")
	assert.Equal(t, "/var/log", configuration.EnsureAbsolute("/data", "/var/log"), "wrong absolute")
	assert.Equal(t, "/data/log", configuration.EnsureAbsolute("/data/x", "../log"), "wrong clean")
}

func TestIsPlainName(t *testing.T) {
	assert.True(t, configuration.IsPlainName("escrow.leveldb"), "plain name rejected")
	assert.False(t, configuration.IsPlainName("data/escrow.leveldb"), "path accepted")
	assert.False(t, configuration.IsPlainName(""), "empty accepted")
}
