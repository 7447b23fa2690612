// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/identity"
	"github.com/bitmark-inc/escrowd/keys"
)

// CreateResult - reply to a create
type CreateResult struct {
	Success  bool   `json:"success"`
	Batch    uint64 `json:"batch"`
	Sum      uint64 `json:"sum"`
	Amount   uint64 `json:"amount"`
	Reserved uint64 `json:"reserved"`
	Price    uint64 `json:"price"`
	Owners   string `json:"owners"`
	Type     Kind   `json:"type"`
	Name     string `json:"name"`
}

// Create - mint a new item batch or add to a money holding
//
// items: issuer only, a price is required and every call opens the
// next batch
//
// money: anyone, the price is ignored and everything accumulates in
// batch 1
func (l *Ledger) Create(trx codec.ReadWriter, caller string, kind Kind, name string, amount uint64, price *uint64) (*CreateResult, error) {

	if err := validate(kind, name); nil != err {
		return nil, err
	}
	if !identity.ValidOrganization(caller) {
		return nil, fault.InvalidOrganization
	}

	batch := uint64(1)
	batchPrice := uint64(0)
	if Item == kind {
		if caller != l.issuer {
			return nil, fault.OnlyIssuerCanCreateItems
		}
		if nil == price {
			return nil, fault.MissingPrice
		}
		batchPrice = *price

		n, err := BatchCount(trx, kind, name)
		if nil != err {
			return nil, err
		}
		batch = n + 1
	}

	k := kind.String()
	sum, err := Sum(trx, caller, kind, name)
	if nil != err {
		return nil, err
	}
	newSum, err := AddAmounts(sum, amount)
	if nil != err {
		l.log.Warnf("create: %s %s  sum of: %s is %d  cannot add: %d", k, name, caller, sum, amount)
		return nil, err
	}

	balance := amount
	reserved := uint64(0)
	owners := []string{caller}

	if Money == kind {
		oldBalance, err := Balance(trx, caller, kind, name, batch)
		if nil != err {
			return nil, err
		}
		balance, err = AddAmounts(oldBalance, amount)
		if nil != err {
			return nil, err
		}

		reserved, err = Reserved(trx, caller, kind, name, batch)
		if nil != err {
			return nil, err
		}

		owners, err = codec.ReadList(trx, keys.Owners(k, name, batch))
		if nil != err {
			return nil, err
		}
		owners, _ = codec.AppendUnique(owners, caller)
	}

	l.log.Infof("create: %s %s  batch: %d  amount: %d  price: %d  by: %s", k, name, batch, amount, batchPrice, caller)
	l.log.Debugf("create: %s %s  sum: %d => %d  owners: %v", k, name, sum, newSum, owners)

	codec.WriteInt(trx, keys.BatchCounter(k, name), batch)
	codec.WriteInt(trx, keys.RunningSum(k, name, caller), newSum)
	codec.WriteInt(trx, keys.Balance(k, name, batch, caller), balance)
	codec.WriteInt(trx, keys.Reserved(k, name, batch, caller), reserved)
	codec.WriteInt(trx, keys.Price(k, name, batch), batchPrice)
	codec.WriteList(trx, keys.Owners(k, name, batch), owners)

	if 1 == batch {
		namesKey := keys.Names(k)
		names, err := codec.ReadList(trx, namesKey)
		if nil != err {
			return nil, err
		}
		if names, added := codec.AppendUnique(names, name); added {
			l.log.Infof("create: %s %s added to names", k, name)
			codec.WriteList(trx, namesKey, names)
		}
	}

	return &CreateResult{
		Success:  true,
		Batch:    batch,
		Sum:      newSum,
		Amount:   amount,
		Reserved: reserved,
		Price:    batchPrice,
		Owners:   string(codec.FormatList(owners)),
		Type:     kind,
		Name:     name,
	}, nil
}
