// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/escrowd/asset"
	engine "github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
)

// CreateData - data for a create request, Price is only for items
type CreateData struct {
	Type   string
	Name   string
	Amount uint64
	Price  *uint64
}

// Create - mint items or money
func (client *Client) Create(createConfig *CreateData) (*asset.CreateResult, error) {

	createArgs := escrow.CreateArguments{
		Organization: client.organization,
		Type:         createConfig.Type,
		Name:         createConfig.Name,
		Amount:       createConfig.Amount,
		Price:        createConfig.Price,
	}

	client.printJson("Create Request", createArgs)

	reply := &asset.CreateResult{}
	err := client.client.Call("Escrow.Create", createArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Create Reply", reply)

	return reply, nil
}

// TransferData - data for a transfer request
type TransferData struct {
	Type      string
	Name      string
	Amount    uint64
	Recipient string
	Batch     uint64
}

// Transfer - move an asset to another organization
func (client *Client) Transfer(transferConfig *TransferData) (*asset.TransferResult, error) {

	transferArgs := escrow.TransferArguments{
		Organization: client.organization,
		Type:         transferConfig.Type,
		Name:         transferConfig.Name,
		Amount:       transferConfig.Amount,
		Recipient:    transferConfig.Recipient,
		Batch:        transferConfig.Batch,
	}

	client.printJson("Transfer Request", transferArgs)

	reply := &asset.TransferResult{}
	err := client.client.Call("Escrow.Transfer", transferArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Transfer Reply", reply)

	return reply, nil
}

// Query - balances of an asset, batch zero for all batches
func (client *Client) Query(kind string, name string, batch uint64, history bool) (*asset.QueryResult, error) {

	queryArgs := escrow.QueryArguments{
		Organization: client.organization,
		Type:         kind,
		Name:         name,
		Batch:        batch,
		History:      history,
	}

	client.printJson("Query Request", queryArgs)

	reply := &asset.QueryResult{}
	err := client.client.Call("Escrow.Query", queryArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Query Reply", reply)

	return reply, nil
}

// Names - assets of the issuer, or the organization's own
func (client *Client) Names(own bool) (*asset.NamesResult, error) {

	namesArgs := escrow.NamesArguments{
		Organization: client.organization,
		Own:          own,
	}

	client.printJson("Names Request", namesArgs)

	reply := &asset.NamesResult{}
	err := client.client.Call("Escrow.Names", namesArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Names Reply", reply)

	return reply, nil
}

// Register - record the organization
func (client *Client) Register() (*engine.RegisterResult, error) {

	registerArgs := escrow.RegisterArguments{
		Organization: client.organization,
	}

	client.printJson("Register Request", registerArgs)

	reply := &engine.RegisterResult{}
	err := client.client.Call("Escrow.Register", registerArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Register Reply", reply)

	return reply, nil
}

// Registered - every registered organization
func (client *Client) Registered() (*engine.RegisteredResult, error) {

	registeredArgs := escrow.RegisterArguments{
		Organization: client.organization,
	}

	client.printJson("Registered Request", registeredArgs)

	reply := &engine.RegisteredResult{}
	err := client.client.Call("Escrow.Registered", registeredArgs, reply)
	if nil != err {
		return nil, err
	}

	client.printJson("Registered Reply", reply)

	return reply, nil
}
