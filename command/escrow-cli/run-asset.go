// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
)

func runRegister(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Register()
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runRegistered(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Registered()
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runCreate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return ErrMissingName
	}

	createConfig := &rpccalls.CreateData{
		Type:   c.String("type"),
		Name:   name,
		Amount: c.Uint64("amount"),
	}
	if c.IsSet("price") {
		price := c.Uint64("price")
		createConfig.Price = &price
	}

	if m.verbose {
		fmt.Fprintf(m.e, "type: %s\n", createConfig.Type)
		fmt.Fprintf(m.e, "name: %s\n", createConfig.Name)
		fmt.Fprintf(m.e, "amount: %d\n", createConfig.Amount)
	}

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Create(createConfig)
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runTransfer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return ErrMissingName
	}
	recipient := c.String("recipient")
	if "" == recipient {
		return ErrMissingRecipient
	}

	transferConfig := &rpccalls.TransferData{
		Type:      c.String("type"),
		Name:      name,
		Amount:    c.Uint64("amount"),
		Recipient: recipient,
		Batch:     c.Uint64("batch"),
	}

	if m.verbose {
		fmt.Fprintf(m.e, "recipient: %s\n", recipient)
		fmt.Fprintf(m.e, "amount: %d\n", transferConfig.Amount)
	}

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Transfer(transferConfig)
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runQuery(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name := c.String("name")
	if "" == name {
		return ErrMissingName
	}

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Query(c.String("type"), name, c.Uint64("batch"), c.Bool("history"))
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runNames(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Names(c.Bool("own"))
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}
