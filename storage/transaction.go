// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/escrowd/fault"
)

// Transaction - all reads and writes of one engine call
//
// reads see the transaction's own writes, History only sees
// committed data
type Transaction interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte)
	History(key string) ([]HistoryEntry, error)
	TxId() string
	Timestamp() time.Time
	Commit() error
	Abort()
}

type transaction struct {
	ledger    *Ledger
	txId      string
	timestamp time.Time
	batch     *leveldb.Batch
	cache     Cache
	written   []string // in order of first write
	done      bool
}

// Begin - start a transaction, only one may be open at a time
func (l *Ledger) Begin(txId string, timestamp time.Time) (Transaction, error) {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return nil, fault.DatabaseIsNotSet
	}
	if nil != l.active {
		return nil, fault.TransactionInProgress
	}

	t := &transaction{
		ledger:    l,
		txId:      txId,
		timestamp: timestamp.UTC(),
		batch:     new(leveldb.Batch),
		cache:     newCache(),
		written:   make([]string, 0, 16),
	}
	l.active = t
	return t, nil
}

func (t *transaction) TxId() string {
	return t.txId
}

func (t *transaction) Timestamp() time.Time {
	return t.timestamp
}

func (t *transaction) Get(key string) ([]byte, error) {
	if t.done {
		return nil, fault.NoTransactionInProgress
	}
	if value, found := t.cache.Get(key); found {
		return value, nil
	}
	return t.ledger.pools.State.get([]byte(key))
}

func (t *transaction) Put(key string, value []byte) {
	if t.done {
		fault.Panicf("put: %q after transaction: %s finished", key, t.txId)
	}

	v := make([]byte, len(value))
	copy(v, value)

	if _, found := t.cache.Get(key); !found {
		t.written = append(t.written, key)
	}
	t.cache.Set(key, v)
	t.ledger.pools.State.put(t.batch, []byte(key), v)
}

func (t *transaction) History(key string) ([]HistoryEntry, error) {
	if t.done {
		return nil, fault.NoTransactionInProgress
	}
	return t.ledger.pools.History.history(key)
}

// Commit - write all staged values with one history entry for each
// key written
func (t *transaction) Commit() error {
	if t.done {
		return fault.NoTransactionInProgress
	}

	l := t.ledger
	defer t.finish()

	if 0 == len(t.written) {
		return nil
	}

	commit := l.LastCommit() + 1

	for _, key := range t.written {
		value, _ := t.cache.Get(key)
		entry := HistoryEntry{
			Commit:    commit,
			Timestamp: t.timestamp,
			TxId:      t.txId,
			Value:     value,
		}
		l.pools.History.put(t.batch, historyKey(key, commit), entry.pack())
	}

	record := CommitRecord{
		Timestamp: t.timestamp,
		TxId:      t.txId,
		Keys:      t.written,
	}
	l.pools.Transactions.put(t.batch, commitKey(commit), record.pack())

	if err := l.db.Write(t.batch, nil); nil != err {
		l.log.Errorf("commit: %d  txId: %s  error: %s", commit, t.txId, err)
		return err
	}

	l.Lock()
	l.lastCommit = commit
	l.Unlock()

	l.log.Debugf("commit: %d  txId: %s  keys: %d", commit, t.txId, len(t.written))
	return nil
}

// Abort - discard all staged values
func (t *transaction) Abort() {
	if t.done {
		return
	}
	t.finish()
}

// release the ledger for the next transaction
func (t *transaction) finish() {
	l := t.ledger
	l.Lock()
	if l.active == t {
		l.active = nil
	}
	l.Unlock()
	t.discard()
}

func (t *transaction) discard() {
	t.done = true
	t.batch.Reset()
	t.cache.Clear()
	t.written = nil
}
