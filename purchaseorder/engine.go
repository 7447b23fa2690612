// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package purchaseorder

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/keys"
	"github.com/bitmark-inc/logger"
)

// LineRequest - one line of a new purchase order
type LineRequest struct {
	Name   string `json:"name"`
	Amount uint64 `json:"amount"`
}

// BatchAmount - an amount delivered or received from one batch
type BatchAmount struct {
	Batch  uint64 `json:"batch"`
	Amount uint64 `json:"amount"`
}

// LineUpdate - the batches of one line to deliver or receive
type LineUpdate struct {
	Name    string        `json:"name"`
	Batches []BatchAmount `json:"batches"`
}

// Result - reply to create, deliver and receive
//
// the embedded view is absent when a create was rejected
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Status  Status `json:"status"`
	*View
}

// Engine - purchase order workflow on top of the asset ledger
type Engine struct {
	log      *logger.L
	assets   *asset.Ledger
	issuer   string
	currency string
}

// New - create an engine that settles in the given money asset
func New(log *logger.L, assets *asset.Ledger, currency string) *Engine {
	return &Engine{
		log:      log,
		assets:   assets,
		issuer:   assets.Issuer(),
		currency: currency,
	}
}

// stored form of a purchase order
type order struct {
	id     uint64
	owner  string
	status Status
	total  uint64
	lines  []line
}

type line struct {
	index   uint64
	name    string
	amount  uint64
	total   uint64
	batches []uint64
}

func (l *line) allocated(batch uint64) bool {
	for _, b := range l.batches {
		if b == batch {
			return true
		}
	}
	return false
}

func (o *order) line(name string) (*line, bool) {
	for i := range o.lines {
		if o.lines[i].name == name {
			return &o.lines[i], true
		}
	}
	return nil, false
}

// check an id against the purchase order counter
func exists(trx codec.Reader, id uint64) error {
	if 0 == id {
		return fault.InvalidPurchaseOrderId
	}
	count, err := codec.ReadInt(trx, keys.PurchaseOrderCounter(), 0)
	if nil != err {
		return err
	}
	if id > count {
		return fault.PurchaseOrderNotFound
	}
	return nil
}

func load(trx codec.Reader, id uint64) (*order, error) {
	if err := exists(trx, id); nil != err {
		return nil, err
	}

	o := &order{
		id: id,
	}

	var err error
	if o.owner, err = codec.ReadString(trx, keys.PurchaseOrderOwner(id), ""); nil != err {
		return nil, err
	}
	status, err := codec.ReadString(trx, keys.PurchaseOrderStatus(id), string(Ordered))
	if nil != err {
		return nil, err
	}
	o.status = Status(status)
	if o.total, err = codec.ReadInt(trx, keys.PurchaseOrderTotal(id), 0); nil != err {
		return nil, err
	}

	count, err := codec.ReadInt(trx, keys.PurchaseOrderLines(id), 0)
	if nil != err {
		return nil, err
	}
	o.lines = make([]line, count)
	for i := uint64(0); i < count; i += 1 {
		l := &o.lines[i]
		l.index = i
		if l.name, err = codec.ReadString(trx, keys.LineName(id, i), ""); nil != err {
			return nil, err
		}
		if l.amount, err = codec.ReadInt(trx, keys.LineAmount(id, i), 0); nil != err {
			return nil, err
		}
		if l.total, err = codec.ReadInt(trx, keys.LineTotal(id, i), 0); nil != err {
			return nil, err
		}
		if l.batches, err = codec.ReadIntList(trx, keys.LineBatches(id, i)); nil != err {
			return nil, err
		}
	}
	return o, nil
}

// current status of every batch fulfillment
func (o *order) statuses(trx codec.Reader) ([]Status, error) {
	statuses := make([]Status, 0, 8)
	for _, l := range o.lines {
		for _, b := range l.batches {
			s, err := codec.ReadString(trx, keys.FulfillmentStatus(o.id, l.index, b), string(Ordered))
			if nil != err {
				return nil, err
			}
			statuses = append(statuses, Status(s))
		}
	}
	return statuses, nil
}

// diagnostics - business failures reported without aborting
type diagnostics struct {
	b strings.Builder
}

func (d *diagnostics) add(name string, batch uint64, format string, arguments ...interface{}) {
	fmt.Fprintf(&d.b, "[ ERROR: %s(%d) ", name, batch)
	fmt.Fprintf(&d.b, format, arguments...)
	d.b.WriteString(" ]")
}

func (d *diagnostics) addLine(name string, format string, arguments ...interface{}) {
	fmt.Fprintf(&d.b, "[ ERROR: %s ", name)
	fmt.Fprintf(&d.b, format, arguments...)
	d.b.WriteString(" ]")
}

func (d *diagnostics) String() string {
	return d.b.String()
}
