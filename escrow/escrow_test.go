// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow_test

import (
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/asset"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/identity"
	po "github.com/bitmark-inc/escrowd/purchaseorder"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/storage/mocks"
	"github.com/bitmark-inc/logger"
)

var configuration = &escrow.Configuration{
	Issuer:   fixtures.Issuer,
	Currency: fixtures.Currency,
}

func newMockEngine(t *testing.T) (*gomock.Controller, *mocks.MockStore, *mocks.MockTransaction, *escrow.Engine) {
	ctl := gomock.NewController(t)
	store := mocks.NewMockStore(ctl)
	trx := mocks.NewMockTransaction(ctl)

	e, err := escrow.New(logger.New(fixtures.LogCategory), store, configuration, fixtures.NewClock().Now)
	if nil != err {
		t.Fatalf("new engine error: %s", err)
	}
	return ctl, store, trx, e
}

func TestNewRejectsConfiguration(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	_, err := escrow.New(log, nil, &escrow.Configuration{Issuer: ""}, nil)
	assert.Equal(t, fault.InvalidIssuer, err, "wrong error")

	_, err = escrow.New(log, nil, &escrow.Configuration{Issuer: "Org_1"}, nil)
	assert.Equal(t, fault.InvalidIssuer, err, "wrong error")

	_, err = escrow.New(log, nil, &escrow.Configuration{Issuer: fixtures.Issuer, Currency: "R|MB"}, nil)
	assert.Equal(t, fault.InvalidCurrency, err, "wrong error")

	_, err = escrow.New(log, nil, &escrow.Configuration{Issuer: fixtures.Issuer}, nil)
	assert.Nil(t, err, "default currency rejected")
}

func TestQueryIsAborted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, trx, e := newMockEngine(t)
	defer ctl.Finish()

	store.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(trx, nil).Times(1)
	trx.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	trx.EXPECT().Abort().Times(1)
	trx.EXPECT().Commit().Times(0)

	result, err := e.Execute(identity.Static(fixtures.Buyer), escrow.Query{Kind: "item", Name: "widget"})
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, uint64(0), result.(*asset.QueryResult).Sum, "wrong sum")
}

func TestCreateIsCommitted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, trx, e := newMockEngine(t)
	defer ctl.Finish()

	store.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(trx, nil).Times(1)
	trx.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	trx.EXPECT().Put(gomock.Any(), gomock.Any()).AnyTimes()
	trx.EXPECT().Commit().Return(nil).Times(1)
	trx.EXPECT().Abort().Times(0)

	result, err := e.Execute(identity.Static(fixtures.Buyer), escrow.CreateAsset{Kind: "money", Name: fixtures.Currency, Amount: 10})
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, uint64(10), result.(*asset.CreateResult).Sum, "wrong sum")
}

func TestFailedTransferIsAborted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, trx, e := newMockEngine(t)
	defer ctl.Finish()

	store.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(trx, nil).Times(1)
	trx.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	trx.EXPECT().Abort().Times(1)
	trx.EXPECT().Commit().Times(0)

	result, err := e.Execute(identity.Static(fixtures.Buyer), escrow.Transfer{
		Kind:      "money",
		Name:      fixtures.Currency,
		Amount:    10,
		Recipient: fixtures.Buyer2,
	})
	assert.Nil(t, err, "wrong error")
	assert.False(t, result.(*asset.TransferResult).Success, "transfer without funds")
}

func TestErrorIsAborted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, trx, e := newMockEngine(t)
	defer ctl.Finish()

	store.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(trx, nil).Times(1)
	trx.EXPECT().Abort().Times(1)
	trx.EXPECT().Commit().Times(0)

	_, err := e.Execute(identity.Static(fixtures.Buyer), escrow.CreateAsset{Kind: "item", Name: "widget", Amount: 10})
	assert.Equal(t, fault.OnlyIssuerCanCreateItems, err, "wrong error")
}

func TestIdentityResolvedFirst(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, _, e := newMockEngine(t)
	defer ctl.Finish()

	store.EXPECT().Begin(gomock.Any(), gomock.Any()).Times(0)

	_, err := e.Execute(identity.Static(""), escrow.Register{})
	assert.Equal(t, fault.UnknownOrganization, err, "wrong error")

	_, err = e.Execute(identity.Static(fixtures.Buyer), nil)
	assert.Equal(t, fault.InvalidOperation, err, "wrong error")
}

func TestUnknownOperation(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, trx, e := newMockEngine(t)
	defer ctl.Finish()

	store.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(trx, nil).Times(1)
	trx.EXPECT().Abort().Times(1)

	// pointer forms are not part of the operation set
	_, err := e.Execute(identity.Static(fixtures.Buyer), &escrow.Register{})
	assert.Equal(t, fault.InvalidOperation, err, "wrong error")
}

func TestTransactionIdsDiffer(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, store, trx, e := newMockEngine(t)
	defer ctl.Finish()

	ids := []string{}
	store.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(txId string, _ time.Time) (storage.Transaction, error) {
		ids = append(ids, txId)
		return trx, nil
	}).Times(2)
	trx.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	trx.EXPECT().Abort().Times(2)

	_, err := e.Execute(identity.Static(fixtures.Buyer), escrow.QueryNames{UseCaller: true})
	assert.Nil(t, err, "wrong error")
	_, err = e.Execute(identity.Static(fixtures.Buyer), escrow.QueryNames{UseCaller: true})
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, 2, len(ids), "wrong number of transactions")
	assert.Equal(t, 64, len(ids[0]), "wrong id length")
	assert.NotEqual(t, ids[0], ids[1], "transaction ids repeat")
}

// whole workflow on a real ledger
func TestWorkflow(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	store, err := storage.OpenMemory(log)
	assert.Nil(t, err, "open error")
	defer store.Close()

	e, err := escrow.New(log, store, configuration, fixtures.NewClock().Now)
	assert.Nil(t, err, "new engine error")

	issuer := identity.Static(fixtures.Issuer)
	buyer := identity.Static(fixtures.Buyer)

	price := uint64(4)
	_, err = e.Execute(issuer, escrow.CreateAsset{Kind: "item", Name: "widget", Amount: 10, Price: &price})
	assert.Nil(t, err, "create item error")

	_, err = e.Execute(buyer, escrow.CreateAsset{Kind: "money", Name: fixtures.Currency, Amount: 50})
	assert.Nil(t, err, "create money error")

	_, err = e.Execute(buyer, escrow.Register{})
	assert.Nil(t, err, "register error")

	commit := store.LastCommit()
	result, err := e.Execute(issuer, escrow.QueryRegistered{})
	assert.Nil(t, err, "registered error")
	assert.Equal(t, []string{fixtures.Buyer}, result.(*escrow.RegisteredResult).Organizations, "wrong registered organizations")
	assert.Equal(t, commit, store.LastCommit(), "query committed")

	// a rejected purchase order leaves no trace
	commit = store.LastCommit()
	result, err = e.Execute(buyer, escrow.CreatePurchaseOrder{Lines: []po.LineRequest{{Name: "widget", Amount: 20}}})
	assert.Nil(t, err, "create purchase order error")
	assert.False(t, result.(*po.Result).Success, "oversized order accepted")
	assert.Equal(t, commit, store.LastCommit(), "rejected order committed")

	result, err = e.Execute(buyer, escrow.CreatePurchaseOrder{Lines: []po.LineRequest{{Name: "widget", Amount: 5}}})
	assert.Nil(t, err, "create purchase order error")
	assert.True(t, result.(*po.Result).Success, "order failed")
	assert.Equal(t, uint64(20), result.(*po.Result).Total, "wrong total")

	lines := []po.LineUpdate{{Name: "widget", Batches: []po.BatchAmount{{Batch: 1, Amount: 5}}}}

	_, err = e.Execute(buyer, escrow.Deliver{Id: 1, Lines: lines})
	assert.Equal(t, fault.OnlyIssuerCanDeliver, err, "buyer delivered")

	result, err = e.Execute(issuer, escrow.Deliver{Id: 1, Lines: lines})
	assert.Nil(t, err, "deliver error")
	assert.Equal(t, po.Delivered, result.(*po.Result).Status, "wrong status")

	result, err = e.Execute(buyer, escrow.Receive{Id: 1, Lines: lines})
	assert.Nil(t, err, "receive error")
	assert.Equal(t, po.Received, result.(*po.Result).Status, "wrong status")

	result, err = e.Execute(issuer, escrow.QueryNames{UseCaller: true})
	assert.Nil(t, err, "names error")
	assert.Equal(t, []asset.NameEntry{
		{Type: asset.Item, Details: asset.NameDetails{Name: "widget", Amount: 5, Price: &price}},
		{Type: asset.Money, Details: asset.NameDetails{Name: fixtures.Currency, Amount: 20}},
	}, result.(*asset.NamesResult).Items, "wrong issuer holdings")

	result, err = e.Execute(buyer, escrow.Query{Kind: "money", Name: fixtures.Currency, History: true})
	assert.Nil(t, err, "query error")
	q := result.(*asset.QueryResult)
	assert.Equal(t, uint64(30), q.Sum, "wrong buyer money")
	assert.Equal(t, 2, len(q.Batches[0].History), "wrong money history")

	result, err = e.Execute(buyer, escrow.ListPurchaseOrders{History: true})
	assert.Nil(t, err, "list error")
	views := result.([]*po.View)
	assert.Equal(t, 1, len(views), "wrong number of purchase orders")
	assert.Equal(t, 3, len(views[0].Details[0].Batches[0].History), "wrong fulfillment history")

	result, err = e.Execute(buyer, escrow.QueryPurchaseOrder{Id: 1})
	assert.Nil(t, err, "get error")
	assert.Equal(t, po.Received, result.(*po.View).Status, "wrong status")
}

// arithmetic overflow is an error and nothing is committed
func TestOverflowIsAborted(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)
	store, err := storage.OpenMemory(log)
	assert.Nil(t, err, "open error")
	defer store.Close()

	e, err := escrow.New(log, store, configuration, fixtures.NewClock().Now)
	assert.Nil(t, err, "new engine error")

	buyer := identity.Static(fixtures.Buyer)
	buyer2 := identity.Static(fixtures.Buyer2)

	_, err = e.Execute(buyer, escrow.CreateAsset{Kind: "money", Name: fixtures.Currency, Amount: 10})
	assert.Nil(t, err, "create money error")
	_, err = e.Execute(buyer2, escrow.CreateAsset{Kind: "money", Name: fixtures.Currency, Amount: math.MaxUint64})
	assert.Nil(t, err, "create money error")

	commit := store.LastCommit()

	_, err = e.Execute(buyer2, escrow.Transfer{Kind: "money", Name: fixtures.Currency, Amount: math.MaxUint64, Recipient: fixtures.Buyer})
	assert.Equal(t, fault.AmountOverflow, err, "overflowing transfer accepted")

	_, err = e.Execute(buyer, escrow.CreateAsset{Kind: "money", Name: fixtures.Currency, Amount: math.MaxUint64})
	assert.Equal(t, fault.AmountOverflow, err, "overflowing create accepted")

	assert.Equal(t, commit, store.LastCommit(), "rejected operation committed")

	result, err := e.Execute(buyer, escrow.Query{Kind: "money", Name: fixtures.Currency})
	assert.Nil(t, err, "query error")
	assert.Equal(t, uint64(10), result.(*asset.QueryResult).Sum, "buyer money changed")
}
