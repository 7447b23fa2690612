// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/asset"
	engine "github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/identity"
	po "github.com/bitmark-inc/escrowd/purchaseorder"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/logger"
)

// limit for line items in a single request
const maximumLineItems = 100

// Escrow - type for RPC calls
type Escrow struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	executor engine.Executor
}

// New - create the RPC service
func New(log *logger.L, executor engine.Executor, limiter *rate.Limiter) *Escrow {
	return &Escrow{
		Log:      log,
		Limiter:  limiter,
		executor: executor,
	}
}

// the caller's organization was authenticated by the gateway
func (e *Escrow) execute(organization string, op engine.Operation) (interface{}, error) {
	result, err := e.executor.Execute(identity.Static(organization), op)
	if nil != err {
		e.Log.Debugf("organization: %q  error: %s", organization, err)
		return nil, err
	}
	return result, nil
}

// lines are limited per item, an empty request still costs one
// token and is then rejected by the engine
func (e *Escrow) limitLines(count int) error {
	if 0 == count {
		return ratelimit.Limit(e.Limiter)
	}
	return ratelimit.LimitN(e.Limiter, count, maximumLineItems)
}

// ---

// CreateArguments - arguments for Create
type CreateArguments struct {
	Organization string  `json:"organization"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Amount       uint64  `json:"amount"`
	Price        *uint64 `json:"price,omitempty"`
}

// Create - mint items or money
func (e *Escrow) Create(arguments *CreateArguments, reply *asset.CreateResult) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.CreateAsset{
		Kind:   arguments.Type,
		Name:   arguments.Name,
		Amount: arguments.Amount,
		Price:  arguments.Price,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*asset.CreateResult)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// TransferArguments - arguments for Transfer, batch zero draws from
// every batch in order
type TransferArguments struct {
	Organization string `json:"organization"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Amount       uint64 `json:"amount"`
	Recipient    string `json:"recipient"`
	Batch        uint64 `json:"batch"`
}

// Transfer - move an asset to another organization
func (e *Escrow) Transfer(arguments *TransferArguments, reply *asset.TransferResult) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.Transfer{
		Kind:      arguments.Type,
		Name:      arguments.Name,
		Amount:    arguments.Amount,
		Recipient: arguments.Recipient,
		Batch:     arguments.Batch,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*asset.TransferResult)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// QueryArguments - arguments for Query
type QueryArguments struct {
	Organization string `json:"organization"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Batch        uint64 `json:"batch"`
	History      bool   `json:"history"`
}

// Query - balances of an asset
func (e *Escrow) Query(arguments *QueryArguments, reply *asset.QueryResult) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.Query{
		Kind:    arguments.Type,
		Name:    arguments.Name,
		Batch:   arguments.Batch,
		History: arguments.History,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*asset.QueryResult)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// NamesArguments - arguments for Names
type NamesArguments struct {
	Organization string `json:"organization"`
	Own          bool   `json:"own"`
}

// Names - assets of the issuer, or of the caller when Own is set
func (e *Escrow) Names(arguments *NamesArguments, reply *asset.NamesResult) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.QueryNames{
		UseCaller: arguments.Own,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*asset.NamesResult)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// RegisterArguments - arguments for Register
type RegisterArguments struct {
	Organization string `json:"organization"`
}

// Register - record the caller as a known organization
func (e *Escrow) Register(arguments *RegisterArguments, reply *engine.RegisterResult) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.Register{})
	if nil != err {
		return err
	}
	r, ok := result.(*engine.RegisterResult)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// Registered - every registered organization
func (e *Escrow) Registered(arguments *RegisterArguments, reply *engine.RegisteredResult) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.QueryRegistered{})
	if nil != err {
		return err
	}
	r, ok := result.(*engine.RegisteredResult)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// CreatePurchaseOrderArguments - arguments for CreatePurchaseOrder
type CreatePurchaseOrderArguments struct {
	Organization string           `json:"organization"`
	Lines        []po.LineRequest `json:"lines"`
}

// CreatePurchaseOrder - order items from the issuer
func (e *Escrow) CreatePurchaseOrder(arguments *CreatePurchaseOrderArguments, reply *po.Result) error {

	if err := e.limitLines(len(arguments.Lines)); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.CreatePurchaseOrder{
		Lines: arguments.Lines,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*po.Result)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// UpdateArguments - arguments for Deliver and Receive
type UpdateArguments struct {
	Organization string          `json:"organization"`
	Id           uint64          `json:"po"`
	Lines        []po.LineUpdate `json:"lines"`
}

// Deliver - issuer delivery against a purchase order
func (e *Escrow) Deliver(arguments *UpdateArguments, reply *po.Result) error {

	if err := e.limitLines(len(arguments.Lines)); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.Deliver{
		Id:    arguments.Id,
		Lines: arguments.Lines,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*po.Result)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// Receive - buyer receipt against a purchase order
func (e *Escrow) Receive(arguments *UpdateArguments, reply *po.Result) error {

	if err := e.limitLines(len(arguments.Lines)); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.Receive{
		Id:    arguments.Id,
		Lines: arguments.Lines,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*po.Result)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// ---

// PurchaseOrderArguments - arguments for PurchaseOrder and
// PurchaseOrders, a zero Id lists every purchase order
type PurchaseOrderArguments struct {
	Organization string `json:"organization"`
	Id           uint64 `json:"po"`
	History      bool   `json:"history"`
}

// PurchaseOrder - a single purchase order
func (e *Escrow) PurchaseOrder(arguments *PurchaseOrderArguments, reply *po.View) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.QueryPurchaseOrder{
		Id:      arguments.Id,
		History: arguments.History,
	})
	if nil != err {
		return err
	}
	r, ok := result.(*po.View)
	if !ok {
		return fault.InvalidOperation
	}
	*reply = *r
	return nil
}

// PurchaseOrdersReply - result from PurchaseOrders
type PurchaseOrdersReply struct {
	Orders []*po.View `json:"orders"`
}

// PurchaseOrders - all purchase orders
func (e *Escrow) PurchaseOrders(arguments *PurchaseOrderArguments, reply *PurchaseOrdersReply) error {

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	result, err := e.execute(arguments.Organization, engine.ListPurchaseOrders{
		Id:      arguments.Id,
		History: arguments.History,
	})
	if nil != err {
		return err
	}
	r, ok := result.([]*po.View)
	if !ok {
		return fault.InvalidOperation
	}
	reply.Orders = r
	return nil
}
