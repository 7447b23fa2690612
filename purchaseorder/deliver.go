// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package purchaseorder

import (
	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/keys"
)

// Deliver - transfer items from the issuer to the purchase order owner
//
// each batch is handled on its own: a batch that cannot be delivered
// adds a diagnostic to the message and the rest continue. Amounts
// above what is still owed are never transferred.
func (e *Engine) Deliver(trx asset.Store, caller string, id uint64, updates []LineUpdate) (*Result, error) {

	if caller != e.issuer {
		return nil, fault.OnlyIssuerCanDeliver
	}

	o, err := load(trx, id)
	if nil != err {
		return nil, err
	}

	d := &diagnostics{}
	success := false

	for _, update := range updates {
		l, ok := o.line(update.Name)
		if !ok {
			d.addLine(update.Name, "is not part of purchase order %d. Nothing was transferred.", id)
			continue
		}
		for _, b := range update.Batches {
			ok, err := e.deliverBatch(trx, o, l, b, d)
			if nil != err {
				return nil, err
			}
			success = success || ok
		}
	}

	if err := o.updateStatus(trx, e); nil != err {
		return nil, err
	}

	view, err := o.view(trx, false)
	if nil != err {
		return nil, err
	}

	e.log.Infof("deliver purchase order: %d  status: %s  success: %t", id, view.Status, success)

	return &Result{
		Success: success,
		Message: d.String(),
		Status:  view.Status,
		View:    view,
	}, nil
}

func (e *Engine) deliverBatch(trx asset.Store, o *order, l *line, request BatchAmount, d *diagnostics) (bool, error) {

	name := l.name
	batch := request.Batch

	if !l.allocated(batch) {
		d.add(name, batch, "is not allocated to purchase order %d. Nothing was transferred.", o.id)
		return false, nil
	}
	if 0 == request.Amount {
		d.add(name, batch, "- amount must be greater than zero. Nothing was transferred.")
		return false, nil
	}

	statusKey := keys.FulfillmentStatus(o.id, l.index, batch)
	deliveredKey := keys.FulfillmentDelivered(o.id, l.index, batch)

	status, err := codec.ReadString(trx, statusKey, string(Ordered))
	if nil != err {
		return false, err
	}
	if Delivered == Status(status) || Received == Status(status) {
		d.add(name, batch, "already %s. Nothing was transferred.", status)
		return false, nil
	}

	allocated, err := codec.ReadInt(trx, keys.FulfillmentAmount(o.id, l.index, batch), 0)
	if nil != err {
		return false, err
	}
	delivered, err := codec.ReadInt(trx, deliveredKey, 0)
	if nil != err {
		return false, err
	}
	reserved, err := asset.Reserved(trx, e.issuer, asset.Item, name, batch)
	if nil != err {
		return false, err
	}
	balance, err := asset.Balance(trx, e.issuer, asset.Item, name, batch)
	if nil != err {
		return false, err
	}

	owed := pending(allocated, delivered)
	if 0 == owed {
		d.add(name, batch, "nothing left to deliver. Nothing was transferred.")
		return false, nil
	}

	transferAmount := request.Amount
	if transferAmount > owed {
		transferAmount = owed
	}
	fromReserved := transferAmount
	if fromReserved > reserved {
		fromReserved = reserved
	}
	notFromReserved := transferAmount - fromReserved
	surplus := request.Amount - transferAmount

	e.log.Debugf("deliver: %d  %s(%d)  allocated: %d  delivered: %d  reserved: %d  balance: %d  transfer: %d = %d + %d  surplus: %d",
		o.id, name, batch, allocated, delivered, reserved, balance, transferAmount, fromReserved, notFromReserved, surplus)

	unreserved := uint64(0)
	if balance > reserved {
		unreserved = balance - reserved
	}
	if unreserved < notFromReserved {
		d.add(name, batch, "- %d exceeds available stock. Nothing was transferred.", request.Amount)
		return false, nil
	}

	// make the reserved units available to the transfer
	if err := e.assets.SetReserved(trx, name, batch, reserved-fromReserved); nil != err {
		return false, err
	}

	result, err := e.assets.Transfer(trx, e.issuer, asset.TransferRequest{
		Kind:           asset.Item,
		Name:           name,
		Amount:         transferAmount,
		Recipient:      o.owner,
		Batch:          batch,
		IgnoreReserved: true,
	})
	if nil != err {
		return false, err
	}

	if !result.Success {
		codec.WriteInt(trx, keys.Reserved(asset.Item.String(), name, batch, e.issuer), reserved)
		d.add(name, batch, "- transfer failed: %s. Nothing was transferred.", result.Message)
		return false, nil
	}

	delivered += transferAmount
	status = string(Partial)
	if delivered == allocated {
		status = string(Delivered)
	}
	codec.WriteString(trx, statusKey, status)
	codec.WriteInt(trx, deliveredKey, delivered)

	if surplus > 0 {
		d.add(name, batch, "- %d exceeds available stock. Only %d was transferred.", request.Amount, transferAmount)
	}
	return true, nil
}

// persist the derived status if it differs from the stored one
func (o *order) updateStatus(trx asset.Store, e *Engine) error {
	statuses, err := o.statuses(trx)
	if nil != err {
		return err
	}
	derived := Derive(statuses)
	if derived != o.status {
		e.log.Debugf("purchase order: %d  status: %s => %s", o.id, o.status, derived)
		codec.WriteString(trx, keys.PurchaseOrderStatus(o.id), string(derived))
		o.status = derived
	}
	return nil
}
