// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"time"

	"github.com/bitmark-inc/escrowd/audit"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/keys"
)

// Holding - one owner's balance in a batch
type Holding struct {
	Owner    string `json:"owner"`
	Amount   uint64 `json:"amount"`
	Reserved uint64 `json:"reserved,omitempty"`
}

// HistoryRecord - the balances changed by one transaction
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	TxId      string    `json:"tx_id"`
	Amount    []Holding `json:"amount"`
}

// BatchView - current state of a batch
type BatchView struct {
	Batch   uint64          `json:"batch"`
	Price   uint64          `json:"price"`
	Amount  []Holding       `json:"amount"`
	History []HistoryRecord `json:"history,omitempty"`
}

// QueryResult - reply to a query
type QueryResult struct {
	Success      bool        `json:"success"`
	Type         Kind        `json:"type"`
	Name         string      `json:"name"`
	Organization string      `json:"organization"`
	Sum          uint64      `json:"sum"`
	Batches      []BatchView `json:"batches"`
}

// Query - balances of every owner of one batch or of all batches
//
// sum is the caller's running total
func (l *Ledger) Query(trx Store, caller string, kind Kind, name string, batch uint64, includeHistory bool) (*QueryResult, error) {

	if err := validate(kind, name); nil != err {
		return nil, err
	}

	count, err := BatchCount(trx, kind, name)
	if nil != err {
		return nil, err
	}

	first := uint64(1)
	last := count
	if 0 != batch {
		if batch > count {
			return nil, fault.BatchOutOfRange
		}
		first = batch
		last = batch
	}

	sum, err := Sum(trx, caller, kind, name)
	if nil != err {
		return nil, err
	}

	result := &QueryResult{
		Success:      true,
		Type:         kind,
		Name:         name,
		Organization: caller,
		Sum:          sum,
		Batches:      make([]BatchView, 0, last-first+1),
	}

	k := kind.String()
	for i := first; i <= last; i += 1 {
		price, err := Price(trx, kind, name, i)
		if nil != err {
			return nil, err
		}
		owners, err := codec.ReadList(trx, keys.Owners(k, name, i))
		if nil != err {
			return nil, err
		}

		view := BatchView{
			Batch:  i,
			Price:  price,
			Amount: make([]Holding, 0, len(owners)),
		}

		fields := make([]audit.Field, 0, len(owners))
		for _, owner := range owners {
			balance, err := Balance(trx, owner, kind, name, i)
			if nil != err {
				return nil, err
			}
			reserved, err := Reserved(trx, owner, kind, name, i)
			if nil != err {
				return nil, err
			}
			view.Amount = append(view.Amount, Holding{
				Owner:    owner,
				Amount:   balance,
				Reserved: reserved,
			})
			fields = append(fields, audit.Field{
				Name: owner,
				Key:  keys.Balance(k, name, i, owner),
			})
		}

		if includeHistory {
			view.History, err = balanceHistory(trx, fields)
			if nil != err {
				return nil, err
			}
		}
		result.Batches = append(result.Batches, view)
	}

	l.log.Debugf("query: %s %s  batches: %d-%d  by: %s", kind, name, first, last, caller)

	return result, nil
}

// one record per transaction listing only the balances it changed
func balanceHistory(trx audit.HistoryReader, fields []audit.Field) ([]HistoryRecord, error) {
	snapshots, err := audit.Reconstruct(trx, fields)
	if nil != err {
		return nil, err
	}

	records := make([]HistoryRecord, 0, len(snapshots))
	for _, s := range snapshots {
		record := HistoryRecord{
			Timestamp: s.Timestamp,
			TxId:      s.TxId,
			Amount:    make([]Holding, 0, 2),
		}
		for _, v := range s.Values {
			if !v.Changed {
				continue
			}
			record.Amount = append(record.Amount, Holding{
				Owner:  v.Name,
				Amount: codec.ParseInt(v.Raw, 0),
			})
		}
		records = append(records, record)
	}
	return records, nil
}
