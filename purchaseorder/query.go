// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package purchaseorder

import (
	"time"

	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/audit"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/keys"
)

// HistoryRecord - fulfillment state after one transaction
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	TxId      string    `json:"tx_id"`
	Status    Status    `json:"status"`
	Pending   uint64    `json:"pending"`
	Delivered uint64    `json:"delivered"`
	Received  uint64    `json:"received"`
}

// BatchView - fulfillment of one batch allocation
type BatchView struct {
	Batch     uint64          `json:"batch"`
	Amount    uint64          `json:"amount"`
	Price     uint64          `json:"price"`
	Status    Status          `json:"status"`
	Pending   uint64          `json:"pending"`
	Delivered uint64          `json:"delivered"`
	Received  uint64          `json:"received"`
	History   []HistoryRecord `json:"history,omitempty"`
}

// LineView - one line of a purchase order
type LineView struct {
	Name    string      `json:"name"`
	Amount  uint64      `json:"amount"`
	Total   uint64      `json:"total"`
	Batches []BatchView `json:"batches"`
}

// View - a purchase order as reported to callers
type View struct {
	Type    string     `json:"type"`
	Id      uint64     `json:"po"`
	Owner   string     `json:"owner"`
	Status  Status     `json:"status"`
	Total   uint64     `json:"total"`
	Details []LineView `json:"details"`
}

// Get - one purchase order
func (e *Engine) Get(trx asset.Store, id uint64, includeHistory bool) (*View, error) {
	o, err := load(trx, id)
	if nil != err {
		return nil, err
	}
	return o.view(trx, includeHistory)
}

// List - every purchase order in id order, or only the given one when
// id is not zero
func (e *Engine) List(trx asset.Store, id uint64, includeHistory bool) ([]*View, error) {
	if 0 != id {
		v, err := e.Get(trx, id, includeHistory)
		if nil != err {
			return nil, err
		}
		return []*View{v}, nil
	}

	count, err := codec.ReadInt(trx, keys.PurchaseOrderCounter(), 0)
	if nil != err {
		return nil, err
	}

	views := make([]*View, 0, count)
	for i := uint64(1); i <= count; i += 1 {
		v, err := e.Get(trx, i, includeHistory)
		if nil != err {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (o *order) view(trx asset.Store, includeHistory bool) (*View, error) {
	v := &View{
		Type:    "po",
		Id:      o.id,
		Owner:   o.owner,
		Status:  o.status,
		Total:   o.total,
		Details: make([]LineView, 0, len(o.lines)),
	}

	for _, l := range o.lines {
		lv := LineView{
			Name:    l.name,
			Amount:  l.amount,
			Total:   l.total,
			Batches: make([]BatchView, 0, len(l.batches)),
		}
		for _, batch := range l.batches {
			bv, err := o.batchView(trx, &l, batch, includeHistory)
			if nil != err {
				return nil, err
			}
			lv.Batches = append(lv.Batches, *bv)
		}
		v.Details = append(v.Details, lv)
	}
	return v, nil
}

func (o *order) batchView(trx asset.Store, l *line, batch uint64, includeHistory bool) (*BatchView, error) {
	id := o.id

	price, err := asset.Price(trx, asset.Item, l.name, batch)
	if nil != err {
		return nil, err
	}
	amount, err := codec.ReadInt(trx, keys.FulfillmentAmount(id, l.index, batch), 0)
	if nil != err {
		return nil, err
	}
	delivered, err := codec.ReadInt(trx, keys.FulfillmentDelivered(id, l.index, batch), 0)
	if nil != err {
		return nil, err
	}
	received, err := codec.ReadInt(trx, keys.FulfillmentReceived(id, l.index, batch), 0)
	if nil != err {
		return nil, err
	}
	status, err := codec.ReadString(trx, keys.FulfillmentStatus(id, l.index, batch), string(Ordered))
	if nil != err {
		return nil, err
	}

	bv := &BatchView{
		Batch:     batch,
		Amount:    amount,
		Price:     price,
		Status:    Status(status),
		Pending:   pending(amount, delivered),
		Delivered: delivered,
		Received:  received,
	}

	if !includeHistory {
		return bv, nil
	}

	fields := []audit.Field{
		{Name: "status", Key: keys.FulfillmentStatus(id, l.index, batch), Baseline: []byte(Ordered)},
		{Name: "delivered", Key: keys.FulfillmentDelivered(id, l.index, batch), Baseline: []byte("0")},
		{Name: "received", Key: keys.FulfillmentReceived(id, l.index, batch), Baseline: []byte("0")},
	}
	snapshots, err := audit.Reconstruct(trx, fields)
	if nil != err {
		return nil, err
	}

	bv.History = make([]HistoryRecord, 0, len(snapshots))
	for _, s := range snapshots {
		d := s.Int("delivered", 0)
		bv.History = append(bv.History, HistoryRecord{
			Timestamp: s.Timestamp,
			TxId:      s.TxId,
			Status:    Status(s.String("status", string(Ordered))),
			Pending:   pending(amount, d),
			Delivered: d,
			Received:  s.Int("received", 0),
		})
	}
	return bv, nil
}

func pending(amount uint64, delivered uint64) uint64 {
	if delivered >= amount {
		return 0
	}
	return amount - delivered
}
