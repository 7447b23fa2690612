// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"fmt"

	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/identity"
	"github.com/bitmark-inc/escrowd/keys"
)

// TransferRequest - parameters of a transfer
//
// Batch zero scans every batch from 1, otherwise only the given
// batch is used
type TransferRequest struct {
	Kind           Kind
	Name           string
	Amount         uint64
	Recipient      string
	Batch          uint64
	IgnoreReserved bool
}

// TransferBatch - the part of a transfer taken from one batch
type TransferBatch struct {
	Batch     uint64 `json:"batch"`
	Amount    uint64 `json:"amount"`
	Remainder uint64 `json:"remainder"`
}

// TransferResult - reply to a transfer
type TransferResult struct {
	Success      bool            `json:"success"`
	Type         Kind            `json:"type"`
	Name         string          `json:"name"`
	Organization string          `json:"organization"`
	Batches      []TransferBatch `json:"batches,omitempty"`
	Message      string          `json:"message,omitempty"`
}

// Transfer - move an amount from caller to recipient
//
// batches are drained in increasing order, an owner's reserved units
// are skipped unless IgnoreReserved is set. Either the whole amount
// moves or nothing is written.
func (l *Ledger) Transfer(trx codec.ReadWriter, caller string, request TransferRequest) (*TransferResult, error) {

	kind := request.Kind
	name := request.Name
	amount := request.Amount
	recipient := request.Recipient

	if err := validate(kind, name); nil != err {
		return nil, err
	}
	if !identity.ValidOrganization(caller) {
		return nil, fault.InvalidOrganization
	}
	if !identity.ValidOrganization(recipient) {
		return nil, fault.InvalidRecipient
	}
	if caller == recipient {
		return nil, fault.TransferToSelf
	}
	if 0 == amount {
		return nil, fault.InvalidAmount
	}

	result := &TransferResult{
		Type:         kind,
		Name:         name,
		Organization: caller,
	}

	first := uint64(1)
	last, err := BatchCount(trx, kind, name)
	if nil != err {
		return nil, err
	}
	if 0 != request.Batch {
		if request.Batch > last {
			last = 0 // nonexistent batch: nothing available
		} else {
			first = request.Batch
			last = request.Batch
		}
	}

	batches := make([]TransferBatch, 0, 4)
	available := uint64(0)

scan:
	for i := first; i <= last; i += 1 {
		if available >= amount {
			break scan
		}
		balance, err := Balance(trx, caller, kind, name, i)
		if nil != err {
			return nil, err
		}
		reserved := uint64(0)
		if !request.IgnoreReserved {
			reserved, err = Reserved(trx, caller, kind, name, i)
			if nil != err {
				return nil, err
			}
		}
		if balance <= reserved {
			continue scan
		}
		take := balance - reserved
		if amount-available < take {
			take = amount - available
		}
		batches = append(batches, TransferBatch{
			Batch:     i,
			Amount:    take,
			Remainder: balance - take,
		})
		available += take
	}

	if available < amount {
		result.Message = fmt.Sprintf("only %d available", available)
		l.log.Infof("transfer: %s %s  %d from: %s to: %s  batches: %d-%d  %s", kind, name, amount, caller, recipient, first, last, result.Message)
		return result, nil
	}

	senderSum, err := Sum(trx, caller, kind, name)
	if nil != err {
		return nil, err
	}
	if senderSum < amount {
		l.log.Criticalf("transfer: %s %s  sum of: %s is %d  less than: %d", kind, name, caller, senderSum, amount)
		return nil, fault.LedgerCorrupted
	}
	recipientSum, err := Sum(trx, recipient, kind, name)
	if nil != err {
		return nil, err
	}
	newRecipientSum, err := AddAmounts(recipientSum, amount)
	if nil != err {
		l.log.Warnf("transfer: %s %s  sum of: %s is %d  cannot add: %d", kind, name, recipient, recipientSum, amount)
		return nil, err
	}

	// every new recipient balance is checked before anything is written
	received := make([]uint64, len(batches))
	for i, b := range batches {
		balance, err := Balance(trx, recipient, kind, name, b.Batch)
		if nil != err {
			return nil, err
		}
		received[i], err = AddAmounts(balance, b.Amount)
		if nil != err {
			return nil, err
		}
	}

	k := kind.String()
	for i, b := range batches {
		codec.WriteInt(trx, keys.Balance(k, name, b.Batch, caller), b.Remainder)
		codec.WriteInt(trx, keys.Balance(k, name, b.Batch, recipient), received[i])

		ownersKey := keys.Owners(k, name, b.Batch)
		owners, err := codec.ReadList(trx, ownersKey)
		if nil != err {
			return nil, err
		}
		if owners, added := codec.AppendUnique(owners, recipient); added {
			l.log.Debugf("transfer: %s %s(%d) new owner: %s", k, name, b.Batch, recipient)
			codec.WriteList(trx, ownersKey, owners)
		}
	}

	codec.WriteInt(trx, keys.RunningSum(k, name, caller), senderSum-amount)
	codec.WriteInt(trx, keys.RunningSum(k, name, recipient), newRecipientSum)

	l.log.Infof("transfer: %s %s  %d from: %s to: %s  batches: %d", kind, name, amount, caller, recipient, len(batches))

	result.Success = true
	result.Batches = batches
	return result, nil
}
