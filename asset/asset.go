// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/bitmark-inc/escrowd/audit"
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/keys"
	"github.com/bitmark-inc/logger"
)

// Kind - the two classes of asset
type Kind string

// asset kinds
const (
	Item  Kind = "item"
	Money Kind = "money"
)

// Kinds - in the order they are listed by Names
var Kinds = []Kind{Item, Money}

// ParseKind - convert text to a kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Item:
		return Item, nil
	case Money:
		return Money, nil
	default:
		return "", fault.InvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

// Store - the ledger access needed by asset operations
type Store interface {
	codec.ReadWriter
	audit.HistoryReader
}

// Ledger - batch accounting for items and money
type Ledger struct {
	log    *logger.L
	issuer string
}

// New - create an asset ledger, issuer is the only organization that
// may create items
func New(log *logger.L, issuer string) *Ledger {
	return &Ledger{
		log:    log,
		issuer: issuer,
	}
}

// Issuer - the configured issuer organization
func (l *Ledger) Issuer() string {
	return l.issuer
}

// BatchCount - highest batch number of an asset, zero if never created
func BatchCount(trx codec.Reader, kind Kind, name string) (uint64, error) {
	return codec.ReadInt(trx, keys.BatchCounter(kind.String(), name), 0)
}

// Balance - an owner's holding in one batch
func Balance(trx codec.Reader, owner string, kind Kind, name string, batch uint64) (uint64, error) {
	return codec.ReadInt(trx, keys.Balance(kind.String(), name, batch, owner), 0)
}

// Reserved - the reserved part of an owner's holding in one batch
func Reserved(trx codec.Reader, owner string, kind Kind, name string, batch uint64) (uint64, error) {
	return codec.ReadInt(trx, keys.Reserved(kind.String(), name, batch, owner), 0)
}

// Price - the price fixed when a batch was created
func Price(trx codec.Reader, kind Kind, name string, batch uint64) (uint64, error) {
	return codec.ReadInt(trx, keys.Price(kind.String(), name, batch), 0)
}

// Sum - an owner's running total over all batches
func Sum(trx codec.Reader, owner string, kind Kind, name string) (uint64, error) {
	return codec.ReadInt(trx, keys.RunningSum(kind.String(), name, owner), 0)
}

// SetReserved - store the issuer's reserved amount for an item batch
//
// the reservation may never exceed the issuer's balance
func (l *Ledger) SetReserved(trx codec.ReadWriter, name string, batch uint64, reserved uint64) error {
	balance, err := Balance(trx, l.issuer, Item, name, batch)
	if nil != err {
		return err
	}
	if reserved > balance {
		l.log.Criticalf("reserve: %s(%d)  reserved: %d > balance: %d", name, batch, reserved, balance)
		return fault.LedgerCorrupted
	}
	codec.WriteInt(trx, keys.Reserved(Item.String(), name, batch, l.issuer), reserved)
	return nil
}

// check kind and name for any asset operation
func validate(kind Kind, name string) error {
	if _, err := ParseKind(kind.String()); nil != err {
		return err
	}
	if !keys.ValidComponent(name) {
		return fault.InvalidName
	}
	return nil
}
