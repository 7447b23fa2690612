// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
	"github.com/bitmark-inc/escrowd/fault"
	po "github.com/bitmark-inc/escrowd/purchaseorder"
)

func runOrder(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	lines, err := parseOrderLines(c.Args())
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "lines: %d\n", len(lines))
	}

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.CreatePurchaseOrder(lines)
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runDeliver(c *cli.Context) error {
	return runUpdate(c, func(client *rpccalls.Client, id uint64, lines []po.LineUpdate) (*po.Result, error) {
		return client.Deliver(id, lines)
	})
}

func runReceive(c *cli.Context) error {
	return runUpdate(c, func(client *rpccalls.Client, id uint64, lines []po.LineUpdate) (*po.Result, error) {
		return client.Receive(id, lines)
	})
}

type updateFunc func(client *rpccalls.Client, id uint64, lines []po.LineUpdate) (*po.Result, error)

func runUpdate(c *cli.Context, update updateFunc) error {

	m := c.App.Metadata["config"].(*metadata)

	id := c.Uint64("po")
	if 0 == id {
		return fault.InvalidPurchaseOrderId
	}

	lines, err := parseUpdateLines(c.Args())
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "po: %d\n", id)
		fmt.Fprintf(m.e, "lines: %d\n", len(lines))
	}

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := update(client, id, lines)
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runPurchaseOrder(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id := c.Uint64("po")
	if 0 == id {
		return fault.InvalidPurchaseOrderId
	}

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.PurchaseOrder(id, c.Bool("history"))
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}

func runPurchaseOrders(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.connect, m.organization, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.PurchaseOrders(c.Bool("history"))
	if nil != err {
		return err
	}

	return printJson(m.w, response)
}
