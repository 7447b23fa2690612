// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/identity"
	"github.com/bitmark-inc/escrowd/keys"
	po "github.com/bitmark-inc/escrowd/purchaseorder"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/logger"
)

// DefaultCurrency - money asset used for purchase order settlement
const DefaultCurrency = "RMB"

// Configuration - engine settings from the configuration file
type Configuration struct {
	Issuer   string `gluamapper:"issuer" json:"issuer"`
	Currency string `gluamapper:"currency" json:"currency"`
}

// RegisterResult - reply to a register
type RegisterResult struct {
	Success      bool   `json:"success"`
	Organization string `json:"organization"`
	Added        bool   `json:"added"`
}

// RegisteredResult - reply to a registered organizations query
type RegisteredResult struct {
	Success       bool     `json:"success"`
	Organizations []string `json:"organizations"`
}

// Executor - runs operations on behalf of a caller
type Executor interface {
	Execute(ctx identity.Context, op Operation) (interface{}, error)
}

// Engine - runs each operation in its own ledger transaction
type Engine struct {
	sync.Mutex

	log      *logger.L
	store    storage.Store
	assets   *asset.Ledger
	orders   *po.Engine
	clock    func() time.Time
	sequence uint64
}

// New - create an engine, clock supplies transaction timestamps
func New(log *logger.L, store storage.Store, configuration *Configuration, clock func() time.Time) (*Engine, error) {

	if !identity.ValidOrganization(configuration.Issuer) {
		return nil, fault.InvalidIssuer
	}
	currency := configuration.Currency
	if "" == currency {
		currency = DefaultCurrency
	}
	if !keys.ValidComponent(currency) {
		return nil, fault.InvalidCurrency
	}
	if nil == clock {
		clock = time.Now
	}

	assets := asset.New(log, configuration.Issuer)

	log.Infof("issuer: %s  currency: %s", configuration.Issuer, currency)

	return &Engine{
		log:    log,
		store:  store,
		assets: assets,
		orders: po.New(log, assets, currency),
		clock:  clock,
	}, nil
}

// Execute - resolve the caller and run one operation
//
// the transaction is committed only for operations that change the
// ledger: create, register, deliver and receive always; transfer and
// purchase order creation only when they succeed. Any error aborts.
func (e *Engine) Execute(ctx identity.Context, op Operation) (interface{}, error) {
	e.Lock()
	defer e.Unlock()

	if nil == op {
		return nil, fault.InvalidOperation
	}

	caller, err := ctx.Organization()
	if nil != err {
		return nil, err
	}

	timestamp := e.clock().UTC()
	e.sequence += 1
	txId := transactionId(e.sequence, caller, op.operation(), timestamp)

	trx, err := e.store.Begin(txId, timestamp)
	if nil != err {
		return nil, err
	}

	e.log.Debugf("%s  by: %s  txId: %s", op.operation(), caller, txId)

	result, commit, err := e.dispatch(trx, caller, op)
	if nil != err {
		trx.Abort()
		e.log.Warnf("%s  by: %s  txId: %s  error: %s", op.operation(), caller, txId, err)
		return nil, err
	}
	if !commit {
		trx.Abort()
		return result, nil
	}

	if err := trx.Commit(); nil != err {
		e.log.Errorf("%s  by: %s  txId: %s  commit error: %s", op.operation(), caller, txId, err)
		return nil, fmt.Errorf("commit of %s failed: %w", txId, err)
	}
	return result, nil
}

func (e *Engine) dispatch(trx storage.Transaction, caller string, op Operation) (interface{}, bool, error) {

	switch o := op.(type) {

	case CreateAsset:
		kind, err := asset.ParseKind(o.Kind)
		if nil != err {
			return nil, false, err
		}
		result, err := e.assets.Create(trx, caller, kind, o.Name, o.Amount, o.Price)
		return result, true, err

	case Transfer:
		kind, err := asset.ParseKind(o.Kind)
		if nil != err {
			return nil, false, err
		}
		if "" == o.Recipient {
			return nil, false, fault.MissingParameters
		}
		result, err := e.assets.Transfer(trx, caller, asset.TransferRequest{
			Kind:      kind,
			Name:      o.Name,
			Amount:    o.Amount,
			Recipient: o.Recipient,
			Batch:     o.Batch,
		})
		if nil != err {
			return nil, false, err
		}
		return result, result.Success, nil

	case Query:
		kind, err := asset.ParseKind(o.Kind)
		if nil != err {
			return nil, false, err
		}
		result, err := e.assets.Query(trx, caller, kind, o.Name, o.Batch, o.History)
		return result, false, err

	case QueryNames:
		result, err := e.assets.Names(trx, caller, o.UseCaller)
		return result, false, err

	case Register:
		added, err := identity.Register(trx, caller)
		if nil != err {
			return nil, false, err
		}
		return &RegisterResult{
			Success:      true,
			Organization: caller,
			Added:        added,
		}, true, nil

	case QueryRegistered:
		organizations, err := identity.Registered(trx)
		if nil != err {
			return nil, false, err
		}
		return &RegisteredResult{
			Success:       true,
			Organizations: organizations,
		}, false, nil

	case CreatePurchaseOrder:
		result, err := e.orders.Create(trx, caller, o.Lines)
		if nil != err {
			return nil, false, err
		}
		return result, result.Success, nil

	case Deliver:
		result, err := e.orders.Deliver(trx, caller, o.Id, o.Lines)
		return result, true, err

	case Receive:
		result, err := e.orders.Receive(trx, caller, o.Id, o.Lines)
		return result, true, err

	case QueryPurchaseOrder:
		result, err := e.orders.Get(trx, o.Id, o.History)
		return result, false, err

	case ListPurchaseOrders:
		result, err := e.orders.List(trx, o.Id, o.History)
		return result, false, err

	default:
		return nil, false, fault.InvalidOperation
	}
}

// transactionId - unique id for one call
func transactionId(sequence uint64, caller string, operation string, timestamp time.Time) string {
	buffer := make([]byte, 16, 64)
	binary.BigEndian.PutUint64(buffer[0:8], sequence)
	binary.BigEndian.PutUint64(buffer[8:16], uint64(timestamp.UnixNano()))
	buffer = append(buffer, caller...)
	buffer = append(buffer, 0)
	buffer = append(buffer, operation...)
	digest := sha3.Sum256(buffer)
	return hex.EncodeToString(digest[:])
}
