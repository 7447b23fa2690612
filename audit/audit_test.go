// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/audit"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/storage"
)

type histories map[string][]storage.HistoryEntry

func (h histories) History(key string) ([]storage.HistoryEntry, error) {
	if "broken" == key {
		return nil, fault.InvalidHistoryRecord
	}
	return h[key], nil
}

var base = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return base.Add(time.Duration(seconds) * time.Second)
}

func entry(commit uint64, seconds int, txId string, value string) storage.HistoryEntry {
	return storage.HistoryEntry{
		Commit:    commit,
		Timestamp: at(seconds),
		TxId:      txId,
		Value:     []byte(value),
	}
}

var batchFields = []audit.Field{
	{Name: "status", Key: "s", Baseline: []byte("ordered")},
	{Name: "delivered", Key: "d", Baseline: []byte("0")},
	{Name: "received", Key: "r", Baseline: []byte("0")},
}

func TestMergeOrdering(t *testing.T) {
	h := histories{
		"s": {
			entry(1, 0, "create", "ordered"),
			entry(2, 10, "deliver-1", "partial"),
		},
		"d": {
			entry(1, 0, "create", "0"),
			entry(2, 10, "deliver-1", "3"),
			entry(3, 20, "deliver-2", "4"),
		},
		"r": {
			entry(1, 0, "create", "0"),
		},
	}

	snapshots, err := audit.Reconstruct(h, batchFields)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, 3, len(snapshots), "wrong number of snapshots")

	for i := 1; i < len(snapshots); i += 1 {
		assert.False(t, snapshots[i].Timestamp.Before(snapshots[i-1].Timestamp), "timestamps out of order")
	}

	s := snapshots[1]
	assert.Equal(t, "deliver-1", s.TxId, "wrong tx id")
	assert.Equal(t, "partial", s.String("status", ""), "wrong status")
	assert.Equal(t, uint64(3), s.Int("delivered", 99), "wrong delivered")
	assert.True(t, s.Changed("status"), "status not marked changed")
	assert.False(t, s.Changed("received"), "received marked changed")

	// unchanged fields carry their latest value
	s = snapshots[2]
	assert.Equal(t, "partial", s.String("status", ""), "status not carried forward")
	assert.Equal(t, uint64(4), s.Int("delivered", 99), "wrong delivered")
	assert.Equal(t, uint64(0), s.Int("received", 99), "wrong received")
	assert.False(t, s.Changed("status"), "status marked changed")
}

func TestSameSecondNotMerged(t *testing.T) {
	h := histories{
		"s": {
			entry(4, 30, "first", "partial"),
		},
		"d": {
			entry(4, 30, "first", "2"),
			entry(5, 30, "second", "5"),
		},
	}

	snapshots, err := audit.Reconstruct(h, batchFields)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, 2, len(snapshots), "calls in the same second were merged")

	assert.Equal(t, uint64(4), snapshots[0].Commit, "wrong commit order")
	assert.Equal(t, uint64(2), snapshots[0].Int("delivered", 0), "wrong delivered")
	assert.Equal(t, uint64(5), snapshots[1].Commit, "wrong commit order")
	assert.Equal(t, uint64(5), snapshots[1].Int("delivered", 0), "wrong delivered")
	assert.Equal(t, "partial", snapshots[1].String("status", ""), "wrong status")
}

func TestBaseline(t *testing.T) {
	h := histories{
		"d": {
			entry(7, 5, "deliver", "1"),
		},
	}
	fields := []audit.Field{
		{Name: "status", Key: "s", Baseline: []byte("ordered")},
		{Name: "delivered", Key: "d"},
		{Name: "owner", Key: "o"},
	}

	snapshots, err := audit.Reconstruct(h, fields)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, 1, len(snapshots), "wrong number of snapshots")

	s := snapshots[0]
	assert.Equal(t, "ordered", s.String("status", "x"), "baseline not used")
	v, ok := s.Value("owner")
	assert.True(t, ok, "missing field")
	assert.False(t, v.Known, "unknown field marked known")
	assert.Equal(t, "nobody", s.String("owner", "nobody"), "wrong default")

	_, ok = s.Value("nonexistent")
	assert.False(t, ok, "found a field that was never requested")
}

func TestEmptyAndError(t *testing.T) {
	snapshots, err := audit.Reconstruct(histories{}, batchFields)
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, 0, len(snapshots), "snapshots without history")

	_, err = audit.Reconstruct(histories{}, []audit.Field{{Name: "x", Key: "broken"}})
	assert.NotNil(t, err, "history error not returned")
}
