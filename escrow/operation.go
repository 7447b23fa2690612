// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	po "github.com/bitmark-inc/escrowd/purchaseorder"
)

// Operation - one of the request types below, the set is closed
type Operation interface {
	operation() string
}

// CreateAsset - mint items or money
type CreateAsset struct {
	Kind   string
	Name   string
	Amount uint64
	Price  *uint64
}

// Transfer - move an asset to another organization, Batch zero
// scans all batches
type Transfer struct {
	Kind      string
	Name      string
	Amount    uint64
	Recipient string
	Batch     uint64
}

// Query - balances of an asset, Batch zero selects all batches
type Query struct {
	Kind    string
	Name    string
	Batch   uint64
	History bool
}

// QueryNames - the assets held by the caller, or by the issuer
type QueryNames struct {
	UseCaller bool
}

// Register - record the caller as a known organization
type Register struct{}

// QueryRegistered - every registered organization
type QueryRegistered struct{}

// CreatePurchaseOrder - order items from the issuer
type CreatePurchaseOrder struct {
	Lines []po.LineRequest
}

// Deliver - issuer delivery against a purchase order
type Deliver struct {
	Id    uint64
	Lines []po.LineUpdate
}

// Receive - buyer receipt against a purchase order
type Receive struct {
	Id    uint64
	Lines []po.LineUpdate
}

// QueryPurchaseOrder - a single purchase order
type QueryPurchaseOrder struct {
	Id      uint64
	History bool
}

// ListPurchaseOrders - all purchase orders, or one when Id is set
type ListPurchaseOrders struct {
	Id      uint64
	History bool
}

func (CreateAsset) operation() string         { return "create" }
func (Transfer) operation() string            { return "transfer" }
func (Query) operation() string               { return "query" }
func (QueryNames) operation() string          { return "queryNames" }
func (Register) operation() string            { return "register" }
func (QueryRegistered) operation() string     { return "queryRegistered" }
func (CreatePurchaseOrder) operation() string { return "createPurchaseOrder" }
func (Deliver) operation() string             { return "deliver" }
func (Receive) operation() string             { return "receive" }
func (QueryPurchaseOrder) operation() string  { return "queryPurchaseOrder" }
func (ListPurchaseOrders) operation() string  { return "listPurchaseOrders" }
