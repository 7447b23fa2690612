// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package audit - rebuild per-transaction snapshots from the
// history of several ledger keys
//
// Every key written by one call carries the same commit number, so
// history entries are merged by commit and never by wall clock
// time. Two calls in the same second remain separate snapshots.
package audit

import (
	"fmt"
	"sort"
	"time"

	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/storage"
)

// HistoryReader - source of committed key history
type HistoryReader interface {
	History(key string) ([]storage.HistoryEntry, error)
}

// Field - one key to follow
//
// Baseline is the value assumed before the first history entry, nil
// means unknown
type Field struct {
	Name     string
	Key      string
	Baseline []byte
}

// Value - state of one field in a snapshot
type Value struct {
	Name    string
	Raw     []byte
	Known   bool // false only before the first entry when there is no baseline
	Changed bool // written by this snapshot's transaction
}

// Snapshot - the state of all fields after one transaction
type Snapshot struct {
	Commit    uint64
	Timestamp time.Time
	TxId      string
	Values    []Value
}

// Value - find a field by name
func (s *Snapshot) Value(name string) (Value, bool) {
	for _, v := range s.Values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

// Int - decode a field as an integer, defaultValue if unknown or invalid
func (s *Snapshot) Int(name string, defaultValue uint64) uint64 {
	v, ok := s.Value(name)
	if !ok || !v.Known {
		return defaultValue
	}
	return codec.ParseInt(v.Raw, defaultValue)
}

// String - decode a field as text, defaultValue if unknown or empty
func (s *Snapshot) String(name string, defaultValue string) string {
	v, ok := s.Value(name)
	if !ok || !v.Known || 0 == len(v.Raw) {
		return defaultValue
	}
	return string(v.Raw)
}

// Changed - true if this snapshot's transaction wrote the field
func (s *Snapshot) Changed(name string) bool {
	v, ok := s.Value(name)
	return ok && v.Changed
}

type group struct {
	commit    uint64
	timestamp time.Time
	txId      string
	written   map[int][]byte
}

// Reconstruct - merge the histories of all fields into snapshots
// ordered by timestamp then commit
func Reconstruct(h HistoryReader, fields []Field) ([]Snapshot, error) {

	groups := make(map[uint64]*group)

	for i, field := range fields {
		entries, err := h.History(field.Key)
		if nil != err {
			return nil, fmt.Errorf("history of %q: %w", field.Key, err)
		}
		for _, entry := range entries {
			g, ok := groups[entry.Commit]
			if !ok {
				g = &group{
					commit:    entry.Commit,
					timestamp: entry.Timestamp,
					txId:      entry.TxId,
					written:   make(map[int][]byte),
				}
				groups[entry.Commit] = g
			}
			g.written[i] = entry.Value
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.timestamp.Equal(b.timestamp) {
			return a.timestamp.Before(b.timestamp)
		}
		return a.commit < b.commit
	})

	// carried forward state
	last := make([]Value, len(fields))
	for i, field := range fields {
		last[i] = Value{
			Name:  field.Name,
			Raw:   field.Baseline,
			Known: nil != field.Baseline,
		}
	}

	snapshots := make([]Snapshot, 0, len(ordered))
	for _, g := range ordered {
		values := make([]Value, len(fields))
		for i := range fields {
			if raw, ok := g.written[i]; ok {
				last[i].Raw = raw
				last[i].Known = true
				values[i] = last[i]
				values[i].Changed = true
			} else {
				values[i] = last[i]
			}
		}
		snapshots = append(snapshots, Snapshot{
			Commit:    g.commit,
			Timestamp: g.timestamp,
			TxId:      g.txId,
			Values:    values,
		})
	}
	return snapshots, nil
}
