// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package purchaseorder

import (
	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/identity"
	"github.com/bitmark-inc/escrowd/keys"
)

// Receive - record receipt of delivered items by the purchase order
// owner
//
// when the purchase order first becomes fully received the total is
// paid from the owner to the issuer. If that payment fails the stored
// status is left unchanged so that a later receive retries it.
func (e *Engine) Receive(trx asset.Store, caller string, id uint64, updates []LineUpdate) (*Result, error) {

	if !identity.ValidOrganization(caller) {
		return nil, fault.InvalidOrganization
	}
	if caller == e.issuer {
		return nil, fault.IssuerCannotReceive
	}

	o, err := load(trx, id)
	if nil != err {
		return nil, err
	}
	if caller != o.owner {
		return nil, fault.NotOwnerOfPurchaseOrder
	}

	d := &diagnostics{}
	success := false

	for _, update := range updates {
		l, ok := o.line(update.Name)
		if !ok {
			d.addLine(update.Name, "is not part of purchase order %d. No items were transferred.", id)
			continue
		}
		for _, b := range update.Batches {
			ok, err := e.receiveBatch(trx, o, l, b, d)
			if nil != err {
				return nil, err
			}
			success = success || ok
		}
	}

	statuses, err := o.statuses(trx)
	if nil != err {
		return nil, err
	}
	derived := Derive(statuses)

	if Received == derived && Received != o.status {
		paid, err := e.settle(trx, o, d)
		if nil != err {
			return nil, err
		}
		if paid {
			codec.WriteString(trx, keys.PurchaseOrderStatus(id), string(Received))
			o.status = Received
			success = true
		}
	} else if derived != o.status {
		codec.WriteString(trx, keys.PurchaseOrderStatus(id), string(derived))
		o.status = derived
	}

	view, err := o.view(trx, false)
	if nil != err {
		return nil, err
	}

	e.log.Infof("receive purchase order: %d  status: %s  success: %t", id, view.Status, success)

	return &Result{
		Success: success,
		Message: d.String(),
		Status:  view.Status,
		View:    view,
	}, nil
}

func (e *Engine) receiveBatch(trx asset.Store, o *order, l *line, request BatchAmount, d *diagnostics) (bool, error) {

	name := l.name
	batch := request.Batch

	if !l.allocated(batch) {
		d.add(name, batch, "is not allocated to purchase order %d. No items were transferred.", o.id)
		return false, nil
	}
	if 0 == request.Amount {
		d.add(name, batch, "- amount must be greater than zero. No items were transferred.")
		return false, nil
	}

	statusKey := keys.FulfillmentStatus(o.id, l.index, batch)
	receivedKey := keys.FulfillmentReceived(o.id, l.index, batch)

	status, err := codec.ReadString(trx, statusKey, string(Ordered))
	if nil != err {
		return false, err
	}
	if Received == Status(status) {
		d.add(name, batch, "already received. No items were transferred.")
		return false, nil
	}

	allocated, err := codec.ReadInt(trx, keys.FulfillmentAmount(o.id, l.index, batch), 0)
	if nil != err {
		return false, err
	}
	delivered, err := codec.ReadInt(trx, keys.FulfillmentDelivered(o.id, l.index, batch), 0)
	if nil != err {
		return false, err
	}
	received, err := codec.ReadInt(trx, receivedKey, 0)
	if nil != err {
		return false, err
	}

	accept := pending(delivered, received)
	if request.Amount < accept {
		accept = request.Amount
	}

	e.log.Debugf("receive: %d  %s(%d)  allocated: %d  delivered: %d  received: %d  accept: %d",
		o.id, name, batch, allocated, delivered, received, accept)

	ok := false
	if accept > 0 {
		received += accept
		codec.WriteInt(trx, receivedKey, received)
		if received == allocated {
			codec.WriteString(trx, statusKey, string(Received))
		}
		ok = true
	}

	if request.Amount > accept {
		d.add(name, batch, "%d exceeds the purchase order amount. Only receipt of %d was recorded.", request.Amount, accept)
	}
	return ok, nil
}

// pay the purchase order total to the issuer
func (e *Engine) settle(trx asset.Store, o *order, d *diagnostics) (bool, error) {
	if 0 == o.total {
		return true, nil
	}

	result, err := e.assets.Transfer(trx, o.owner, asset.TransferRequest{
		Kind:           asset.Money,
		Name:           e.currency,
		Amount:         o.total,
		Recipient:      e.issuer,
		Batch:          1,
		IgnoreReserved: true,
	})
	if nil != err {
		return false, err
	}
	if !result.Success {
		e.log.Warnf("settlement of purchase order: %d  total: %d %s failed: %s", o.id, o.total, e.currency, result.Message)
		d.addLine(e.currency, "- payment of %d failed: %s. Purchase order %d remains %s.", o.total, result.Message, o.id, o.status)
		return false, nil
	}

	e.log.Infof("settlement of purchase order: %d  paid: %d %s  from: %s to: %s", o.id, o.total, e.currency, o.owner, e.issuer)
	return true, nil
}
