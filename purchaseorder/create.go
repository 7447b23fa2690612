// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package purchaseorder

import (
	"fmt"

	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/identity"
	"github.com/bitmark-inc/escrowd/keys"
)

// an allocation from one issuer batch
type allocation struct {
	batch  uint64
	amount uint64
	price  uint64
}

type plannedLine struct {
	name        string
	amount      uint64
	total       uint64
	allocations []allocation
}

// Create - reserve issuer stock for every line and record a new
// purchase order
//
// nothing is written unless every line can be covered from
// unreserved stock and the caller holds enough money to pay the total
func (e *Engine) Create(trx asset.Store, caller string, lines []LineRequest) (*Result, error) {

	if !identity.ValidOrganization(caller) {
		return nil, fault.InvalidOrganization
	}
	if caller == e.issuer {
		return nil, fault.IssuerCannotOrder
	}
	if 0 == len(lines) {
		return nil, fault.MissingLineItems
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if !keys.ValidComponent(l.Name) {
			return nil, fault.InvalidName
		}
		if 0 == l.Amount {
			return nil, fault.InvalidLineAmount
		}
		if _, ok := seen[l.Name]; ok {
			return nil, fault.DuplicateLineItem
		}
		seen[l.Name] = struct{}{}
	}

	// planning
	plan := make([]plannedLine, 0, len(lines))
	total := uint64(0)
	for _, l := range lines {
		p, err := e.plan(trx, l)
		if nil != err {
			return nil, err
		}
		if nil == p {
			message := "Stopped processing due to insufficient stock of " + l.Name
			e.log.Infof("create purchase order by: %s  %s", caller, message)
			return &Result{
				Status:  Failed,
				Message: message,
			}, nil
		}
		plan = append(plan, *p)
		total, err = asset.AddAmounts(total, p.total)
		if nil != err {
			e.log.Warnf("create purchase order by: %s  total overflows at line: %s", caller, l.Name)
			return nil, err
		}
	}

	// funds check
	funds, err := asset.Balance(trx, caller, asset.Money, e.currency, 1)
	if nil != err {
		return nil, err
	}
	if total > funds {
		message := fmt.Sprintf("Insufficient funds: %s %d > %s %d", e.currency, total, e.currency, funds)
		e.log.Infof("create purchase order by: %s  %s", caller, message)
		return &Result{
			Status:  Failed,
			Message: message,
		}, nil
	}

	// commit
	id, err := codec.ReadInt(trx, keys.PurchaseOrderCounter(), 0)
	if nil != err {
		return nil, err
	}
	id += 1

	for i, p := range plan {
		index := uint64(i)
		batches := make([]uint64, 0, len(p.allocations))
		for _, a := range p.allocations {
			codec.WriteString(trx, keys.FulfillmentStatus(id, index, a.batch), string(Ordered))
			codec.WriteInt(trx, keys.FulfillmentAmount(id, index, a.batch), a.amount)
			codec.WriteInt(trx, keys.FulfillmentDelivered(id, index, a.batch), 0)
			codec.WriteInt(trx, keys.FulfillmentReceived(id, index, a.batch), 0)

			reserved, err := asset.Reserved(trx, e.issuer, asset.Item, p.name, a.batch)
			if nil != err {
				return nil, err
			}
			if err := e.assets.SetReserved(trx, p.name, a.batch, reserved+a.amount); nil != err {
				return nil, err
			}
			batches = append(batches, a.batch)
		}

		codec.WriteString(trx, keys.LineName(id, index), p.name)
		codec.WriteInt(trx, keys.LineAmount(id, index), p.amount)
		codec.WriteInt(trx, keys.LineTotal(id, index), p.total)
		codec.WriteIntList(trx, keys.LineBatches(id, index), batches)
	}

	codec.WriteInt(trx, keys.PurchaseOrderCounter(), id)
	codec.WriteInt(trx, keys.PurchaseOrderLines(id), uint64(len(plan)))
	codec.WriteString(trx, keys.PurchaseOrderStatus(id), string(Ordered))
	codec.WriteInt(trx, keys.PurchaseOrderTotal(id), total)
	codec.WriteString(trx, keys.PurchaseOrderOwner(id), caller)

	e.log.Infof("create purchase order: %d  by: %s  lines: %d  total: %d", id, caller, len(plan), total)

	view, err := e.Get(trx, id, false)
	if nil != err {
		return nil, err
	}
	return &Result{
		Success: true,
		Message: fmt.Sprintf("Successfully created purchase order %d", id),
		Status:  view.Status,
		View:    view,
	}, nil
}

// cover one line from the issuer's unreserved stock, oldest batch
// first, nil if there is not enough
func (e *Engine) plan(trx codec.Reader, request LineRequest) (*plannedLine, error) {

	count, err := asset.BatchCount(trx, asset.Item, request.Name)
	if nil != err {
		return nil, err
	}

	p := &plannedLine{
		name:        request.Name,
		allocations: make([]allocation, 0, 4),
	}
	for batch := uint64(1); batch <= count && p.amount < request.Amount; batch += 1 {
		balance, err := asset.Balance(trx, e.issuer, asset.Item, request.Name, batch)
		if nil != err {
			return nil, err
		}
		reserved, err := asset.Reserved(trx, e.issuer, asset.Item, request.Name, batch)
		if nil != err {
			return nil, err
		}
		if balance <= reserved {
			continue
		}
		price, err := asset.Price(trx, asset.Item, request.Name, batch)
		if nil != err {
			return nil, err
		}

		take := balance - reserved
		if request.Amount-p.amount < take {
			take = request.Amount - p.amount
		}
		p.allocations = append(p.allocations, allocation{
			batch:  batch,
			amount: take,
			price:  price,
		})
		p.amount += take
		cost, err := asset.MultiplyAmounts(take, price)
		if nil != err {
			return nil, err
		}
		p.total, err = asset.AddAmounts(p.total, cost)
		if nil != err {
			return nil, err
		}
	}

	if p.amount < request.Amount {
		e.log.Debugf("plan: %s  requested: %d  available: %d", request.Name, request.Amount, p.amount)
		return nil, nil
	}
	return p, nil
}
