// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"time"

	"github.com/bitmark-inc/escrowd/fault"
)

// HistoryEntry - one committed value of a key
type HistoryEntry struct {
	Commit    uint64
	Timestamp time.Time
	TxId      string
	Value     []byte
}

// CommitRecord - one entry of the transaction log
type CommitRecord struct {
	Commit    uint64
	Timestamp time.Time
	TxId      string
	Keys      []string
}

// history key: key ++ 0x00 ++ commit
func historyKey(key string, commit uint64) []byte {
	k := make([]byte, len(key)+1, len(key)+9)
	copy(k, key)
	return appendUint64(k, commit)
}

func commitKey(commit uint64) []byte {
	return appendUint64(make([]byte, 0, 8), commit)
}

func appendUint64(buffer []byte, n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return append(buffer, b...)
}

func appendString(buffer []byte, s string) []byte {
	l := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(l, uint64(len(s)))
	buffer = append(buffer, l[:n]...)
	return append(buffer, s...)
}

// split a varint length prefixed string from the front of buffer
func takeString(buffer []byte) (string, []byte, error) {
	length, n := binary.Uvarint(buffer)
	if n <= 0 || uint64(len(buffer)-n) < length {
		return "", nil, fault.InvalidHistoryRecord
	}
	end := n + int(length)
	return string(buffer[n:end]), buffer[end:], nil
}

func (e *HistoryEntry) pack() []byte {
	buffer := make([]byte, 0, 16+len(e.TxId)+len(e.Value)+2)
	buffer = appendUint64(buffer, e.Commit)
	buffer = appendUint64(buffer, uint64(e.Timestamp.UnixNano()))
	buffer = appendString(buffer, e.TxId)
	return append(buffer, e.Value...)
}

func unpackHistoryEntry(buffer []byte) (*HistoryEntry, error) {
	if len(buffer) < 16 {
		return nil, fault.InvalidHistoryRecord
	}
	commit := binary.BigEndian.Uint64(buffer[0:8])
	nanoseconds := int64(binary.BigEndian.Uint64(buffer[8:16]))

	txId, rest, err := takeString(buffer[16:])
	if nil != err {
		return nil, err
	}

	value := make([]byte, len(rest))
	copy(value, rest)

	return &HistoryEntry{
		Commit:    commit,
		Timestamp: time.Unix(0, nanoseconds).UTC(),
		TxId:      txId,
		Value:     value,
	}, nil
}

func (r *CommitRecord) pack() []byte {
	buffer := make([]byte, 0, 64)
	buffer = appendUint64(buffer, uint64(r.Timestamp.UnixNano()))
	buffer = appendString(buffer, r.TxId)

	count := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(count, uint64(len(r.Keys)))
	buffer = append(buffer, count[:n]...)

	for _, key := range r.Keys {
		buffer = appendString(buffer, key)
	}
	return buffer
}

func unpackCommitRecord(key []byte, buffer []byte) (*CommitRecord, error) {
	if 8 != len(key) || len(buffer) < 8 {
		return nil, fault.InvalidHistoryRecord
	}

	record := &CommitRecord{
		Commit:    binary.BigEndian.Uint64(key),
		Timestamp: time.Unix(0, int64(binary.BigEndian.Uint64(buffer[0:8]))).UTC(),
	}

	txId, rest, err := takeString(buffer[8:])
	if nil != err {
		return nil, err
	}
	record.TxId = txId

	count, n := binary.Uvarint(rest)
	if n <= 0 {
		return nil, fault.InvalidHistoryRecord
	}
	rest = rest[n:]

	record.Keys = make([]string, 0, count)
	for i := uint64(0); i < count; i += 1 {
		var k string
		k, rest, err = takeString(rest)
		if nil != err {
			return nil, err
		}
		record.Keys = append(record.Keys, k)
	}
	return record, nil
}

// all history entries of a key, oldest first
func (p *PoolHandle) history(key string) ([]HistoryEntry, error) {
	prefix := make([]byte, len(key)+1)
	copy(prefix, key)

	entries := make([]HistoryEntry, 0, 8)
	err := p.NewFetchCursor().Prefix(prefix).Map(func(k []byte, value []byte) error {
		entry, err := unpackHistoryEntry(value)
		if nil != err {
			return err
		}
		entries = append(entries, *entry)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return entries, nil
}
