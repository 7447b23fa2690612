// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/logger"
)

// storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	State        *PoolHandle `prefix:"S"`
	History      *PoolHandle `prefix:"H"`
	Transactions *PoolHandle `prefix:"T"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentLedgerVersion = 0x100
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Store - the operations an engine needs from the ledger
type Store interface {
	Begin(txId string, timestamp time.Time) (Transaction, error)
}

// Ledger - a LevelDB backed store with per-key history
type Ledger struct {
	sync.Mutex
	log        *logger.L
	db         *leveldb.DB
	pools      pools
	active     *transaction
	lastCommit uint64
}

// Open - open up the database, creating it if necessary
func Open(log *logger.L, database string, readOnly bool) (*Ledger, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(database, opt)
	if nil != err {
		return nil, err
	}
	return setup(log, db, readOnly)
}

// OpenMemory - a ledger that is discarded on Close
func OpenMemory(log *logger.L) (*Ledger, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(log, db, ReadWrite)
}

func setup(log *logger.L, db *leveldb.DB, readOnly bool) (*Ledger, error) {

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentLedgerVersion {
		log.Criticalf("ledger database version: %d > current version: %d", version, currentLedgerVersion)
		return nil, fault.DatabaseVersion
	}

	if 0 == version && !readOnly {
		// database was empty so tag as current version
		if err := putVersion(db, currentLedgerVersion); nil != err {
			return nil, err
		}
	} else if version != currentLedgerVersion {
		log.Criticalf("ledger database version: %d  current: %d", version, currentLedgerVersion)
		return nil, fault.DatabaseVersion
	}

	l := &Ledger{
		log: log,
		db:  db,
	}

	// this will be a struct type
	poolType := reflect.TypeOf(l.pools)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&l.pools).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return nil, fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix:   prefix,
			limit:    limit,
			database: db,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	l.lastCommit, err = l.pools.Transactions.lastCommit()
	if nil != err {
		return nil, err
	}

	log.Infof("ledger opened at commit: %d", l.lastCommit)

	ok = true // prevent db close
	return l, nil
}

// Close - close the database
func (l *Ledger) Close() error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return fault.DatabaseIsNotSet
	}
	if nil != l.active {
		l.active.discard()
		l.active = nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// LastCommit - number of the most recent commit, zero if none
func (l *Ledger) LastCommit() uint64 {
	l.Lock()
	defer l.Unlock()
	return l.lastCommit
}

// Get - read a committed value, nil if absent
func (l *Ledger) Get(key string) ([]byte, error) {
	return l.pools.State.get([]byte(key))
}

// History - all committed values of a key, oldest first
func (l *Ledger) History(key string) ([]HistoryEntry, error) {
	return l.pools.History.history(key)
}

// Map - run a function on every committed key starting with prefix
func (l *Ledger) Map(prefix string, f func(key string, value []byte) error) error {
	return l.pools.State.NewFetchCursor().Prefix([]byte(prefix)).Map(func(key []byte, value []byte) error {
		return f(string(key), value)
	})
}

// Commits - run a function on the transaction log, oldest first
func (l *Ledger) Commits(f func(record *CommitRecord) error) error {
	return l.pools.Transactions.NewFetchCursor().Map(func(key []byte, value []byte) error {
		record, err := unpackCommitRecord(key, value)
		if nil != err {
			return err
		}
		return f(record)
	})
}

func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

// find the highest commit number in the transaction log
func (p *PoolHandle) lastCommit() (uint64, error) {
	iter := p.database.NewIterator(&ldb_util.Range{
		Start: []byte{p.prefix},
		Limit: p.limit,
	}, nil)
	defer iter.Release()

	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	if 9 != len(key) {
		return 0, fault.InvalidHistoryRecord
	}
	return binary.BigEndian.Uint64(key[1:]), nil
}
