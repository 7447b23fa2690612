// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/logger"
)

// test database file
const (
	databaseFileName = "test.leveldb"
)

var (
	t1 = time.Date(2020, time.March, 1, 10, 0, 0, 0, time.UTC)
	t2 = t1.Add(500 * time.Millisecond)
)

// remove all files created by test
func removeFiles() {
	os.RemoveAll(databaseFileName)
}

// configure for testing
func setup(t *testing.T) *storage.Ledger {
	fixtures.SetupTestLogger()
	l, err := storage.OpenMemory(logger.New(fixtures.LogCategory))
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return l
}

// post test cleanup
func teardown(l *storage.Ledger) {
	_ = l.Close()
	fixtures.TeardownTestLogger()
}

func TestReadYourWrites(t *testing.T) {
	l := setup(t)
	defer teardown(l)

	trx, err := l.Begin("tx1", t1)
	assert.Nil(t, err, "wrong begin")

	value, err := trx.Get("item_widget")
	assert.Nil(t, err, "wrong get")
	assert.Nil(t, value, "absent key is not nil")

	trx.Put("item_widget", []byte("1"))
	value, err = trx.Get("item_widget")
	assert.Nil(t, err, "wrong get")
	assert.Equal(t, []byte("1"), value, "write not visible inside transaction")

	// not visible outside until commit
	value, err = l.Get("item_widget")
	assert.Nil(t, err, "wrong get")
	assert.Nil(t, value, "uncommitted write visible")

	err = trx.Commit()
	assert.Nil(t, err, "wrong commit")

	value, err = l.Get("item_widget")
	assert.Nil(t, err, "wrong get")
	assert.Equal(t, []byte("1"), value, "committed write not visible")
	assert.Equal(t, uint64(1), l.LastCommit(), "wrong commit number")
}

func TestAbortDiscards(t *testing.T) {
	l := setup(t)
	defer teardown(l)

	trx, err := l.Begin("tx1", t1)
	assert.Nil(t, err, "wrong begin")
	trx.Put("a", []byte("1"))
	trx.Abort()

	value, err := l.Get("a")
	assert.Nil(t, err, "wrong get")
	assert.Nil(t, value, "aborted write visible")
	assert.Equal(t, uint64(0), l.LastCommit(), "abort consumed a commit number")

	history, err := l.History("a")
	assert.Nil(t, err, "wrong history")
	assert.Equal(t, 0, len(history), "aborted write has history")

	// after abort the transaction is unusable
	_, err = trx.Get("a")
	assert.Equal(t, fault.NoTransactionInProgress, err, "wrong error")
	assert.Equal(t, fault.NoTransactionInProgress, trx.Commit(), "wrong error")
}

func TestSingleActiveTransaction(t *testing.T) {
	l := setup(t)
	defer teardown(l)

	trx, err := l.Begin("tx1", t1)
	assert.Nil(t, err, "wrong begin")

	_, err = l.Begin("tx2", t1)
	assert.Equal(t, fault.TransactionInProgress, err, "second transaction allowed")

	trx.Abort()

	trx, err = l.Begin("tx2", t1)
	assert.Nil(t, err, "begin after abort failed")
	trx.Abort()
}

func TestHistory(t *testing.T) {
	l := setup(t)
	defer teardown(l)

	trx, _ := l.Begin("tx1", t1)
	trx.Put("k", []byte("1"))
	trx.Put("k", []byte("2")) // only the final value is recorded
	trx.Put("other", []byte("x"))
	assert.Nil(t, trx.Commit(), "wrong commit")

	trx, _ = l.Begin("tx2", t2)
	trx.Put("k", []byte("3"))
	assert.Nil(t, trx.Commit(), "wrong commit")

	// a key sharing a prefix must not leak into the history
	trx, _ = l.Begin("tx3", t2)
	trx.Put("kk", []byte("z"))
	assert.Nil(t, trx.Commit(), "wrong commit")

	history, err := l.History("k")
	assert.Nil(t, err, "wrong history")
	assert.Equal(t, 2, len(history), "wrong history length")

	assert.Equal(t, uint64(1), history[0].Commit, "wrong commit")
	assert.Equal(t, "tx1", history[0].TxId, "wrong tx id")
	assert.True(t, t1.Equal(history[0].Timestamp), "wrong timestamp")
	assert.Equal(t, []byte("2"), history[0].Value, "wrong value")

	assert.Equal(t, uint64(2), history[1].Commit, "wrong commit")
	assert.Equal(t, "tx2", history[1].TxId, "wrong tx id")
	assert.True(t, t2.Equal(history[1].Timestamp), "sub-second timestamp lost")
	assert.Equal(t, []byte("3"), history[1].Value, "wrong value")

	// transaction sees the same committed history
	trx, _ = l.Begin("tx4", t2)
	defer trx.Abort()
	trx.Put("k", []byte("4"))
	history, err = trx.History("k")
	assert.Nil(t, err, "wrong history")
	assert.Equal(t, 2, len(history), "uncommitted write appears in history")
}

func TestEmptyCommit(t *testing.T) {
	l := setup(t)
	defer teardown(l)

	trx, _ := l.Begin("tx1", t1)
	assert.Nil(t, trx.Commit(), "wrong commit")
	assert.Equal(t, uint64(0), l.LastCommit(), "empty commit consumed a number")
}

func TestCommitsAndMap(t *testing.T) {
	l := setup(t)
	defer teardown(l)

	trx, _ := l.Begin("tx1", t1)
	trx.Put("item_a", []byte("1"))
	trx.Put("item_b", []byte("2"))
	trx.Put("money_c", []byte("3"))
	assert.Nil(t, trx.Commit(), "wrong commit")

	records := []*storage.CommitRecord{}
	err := l.Commits(func(record *storage.CommitRecord) error {
		records = append(records, record)
		return nil
	})
	assert.Nil(t, err, "wrong commits")
	assert.Equal(t, 1, len(records), "wrong number of commits")
	assert.Equal(t, "tx1", records[0].TxId, "wrong tx id")
	assert.Equal(t, []string{"item_a", "item_b", "money_c"}, records[0].Keys, "wrong keys")

	found := map[string]string{}
	err = l.Map("item_", func(key string, value []byte) error {
		found[key] = string(value)
		return nil
	})
	assert.Nil(t, err, "wrong map")
	assert.Equal(t, map[string]string{"item_a": "1", "item_b": "2"}, found, "wrong keys")
}

func TestPersistence(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	removeFiles()
	defer removeFiles()

	log := logger.New(fixtures.LogCategory)

	l, err := storage.Open(log, databaseFileName, storage.ReadWrite)
	assert.Nil(t, err, "wrong open")

	trx, _ := l.Begin("tx1", t1)
	trx.Put("purchaseorders", []byte("1"))
	assert.Nil(t, trx.Commit(), "wrong commit")
	assert.Nil(t, l.Close(), "wrong close")

	l, err = storage.Open(log, databaseFileName, storage.ReadOnly)
	assert.Nil(t, err, "wrong reopen")
	defer l.Close()

	assert.Equal(t, uint64(1), l.LastCommit(), "commit number not restored")
	value, err := l.Get("purchaseorders")
	assert.Nil(t, err, "wrong get")
	assert.Equal(t, []byte("1"), value, "value not persisted")
}

func TestClosedLedger(t *testing.T) {
	l := setup(t)
	defer fixtures.TeardownTestLogger()

	assert.Nil(t, l.Close(), "wrong close")
	assert.Equal(t, fault.DatabaseIsNotSet, l.Close(), "double close allowed")

	_, err := l.Begin("tx1", t1)
	assert.Equal(t, fault.DatabaseIsNotSet, err, "begin on closed ledger")
}
