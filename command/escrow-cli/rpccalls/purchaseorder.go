// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	po "github.com/bitmark-inc/escrowd/purchaseorder"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
)

// CreatePurchaseOrder - order items from the issuer
func (client *Client) CreatePurchaseOrder(lines []po.LineRequest) (*po.Result, error) {

	orderArgs := escrow.CreatePurchaseOrderArguments{
		Organization: client.organization,
		Lines:        lines,
	}

	client.printJson("Purchase Order Request", orderArgs)

	reply := &po.Result{}
	err := client.client.Call("Escrow.CreatePurchaseOrder", orderArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Purchase Order Reply", reply)

	return reply, nil
}

// Deliver - issuer delivery against a purchase order
func (client *Client) Deliver(id uint64, lines []po.LineUpdate) (*po.Result, error) {
	return client.update("Deliver", id, lines)
}

// Receive - buyer receipt against a purchase order
func (client *Client) Receive(id uint64, lines []po.LineUpdate) (*po.Result, error) {
	return client.update("Receive", id, lines)
}

func (client *Client) update(method string, id uint64, lines []po.LineUpdate) (*po.Result, error) {

	updateArgs := escrow.UpdateArguments{
		Organization: client.organization,
		Id:           id,
		Lines:        lines,
	}

	client.printJson(method+" Request", updateArgs)

	reply := &po.Result{}
	err := client.client.Call("Escrow."+method, updateArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson(method+" Reply", reply)

	return reply, nil
}

// PurchaseOrder - a single purchase order
func (client *Client) PurchaseOrder(id uint64, history bool) (*po.View, error) {

	poArgs := escrow.PurchaseOrderArguments{
		Organization: client.organization,
		Id:           id,
		History:      history,
	}

	client.printJson("Purchase Order Request", poArgs)

	reply := &po.View{}
	err := client.client.Call("Escrow.PurchaseOrder", poArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Purchase Order Reply", reply)

	return reply, nil
}

// PurchaseOrders - every purchase order
func (client *Client) PurchaseOrders(history bool) (*escrow.PurchaseOrdersReply, error) {

	poArgs := escrow.PurchaseOrderArguments{
		Organization: client.organization,
		History:      history,
	}

	client.printJson("Purchase Orders Request", poArgs)

	reply := &escrow.PurchaseOrdersReply{}
	err := client.client.Call("Escrow.PurchaseOrders", poArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Purchase Orders Reply", reply)

	return reply, nil
}
