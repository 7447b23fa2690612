// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect      string
	organization string
	verbose      bool
	e            io.Writer
	w            io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "escrow-cli"
	app.Usage = "escrow and purchase order client"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	typeFlag := cli.StringFlag{
		Name:  "type, t",
		Value: "item",
		Usage: " asset `TYPE` [item|money]",
	}
	nameFlag := cli.StringFlag{
		Name:  "name, n",
		Value: "",
		Usage: "*asset `NAME`",
	}
	batchFlag := cli.Uint64Flag{
		Name:  "batch, b",
		Value: 0,
		Usage: " batch `NUMBER` [0 = all batches]",
	}
	historyFlag := cli.BoolFlag{
		Name:  "history, H",
		Usage: " include change history",
	}
	poFlag := cli.Uint64Flag{
		Name:  "po, p",
		Value: 0,
		Usage: "*purchase order `ID`",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2140",
			Usage:  " escrowd `HOST:PORT`",
			EnvVar: "ESCROW_CONNECT",
		},
		cli.StringFlag{
			Name:   "organization, o",
			Value:  "",
			Usage:  "*act as organization `MSPID`",
			EnvVar: "ESCROW_ORGANIZATION",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "register",
			Usage:     "register the organization",
			ArgsUsage: "\n   (* = required)",
			Action:    runRegister,
		},
		{
			Name:      "registered",
			Usage:     "list registered organizations",
			ArgsUsage: " ",
			Action:    runRegistered,
		},
		{
			Name:      "create",
			Usage:     "create items (issuer only) or money",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				typeFlag,
				nameFlag,
				cli.Uint64Flag{
					Name:  "amount, a",
					Value: 0,
					Usage: "*quantity to create `COUNT`",
				},
				cli.Uint64Flag{
					Name:  "price",
					Value: 0,
					Usage: " unit `PRICE`, required for items",
				},
			},
			Action: runCreate,
		},
		{
			Name:      "transfer",
			Usage:     "transfer an asset to another organization",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				typeFlag,
				nameFlag,
				batchFlag,
				cli.Uint64Flag{
					Name:  "amount, a",
					Value: 0,
					Usage: "*quantity to transfer `COUNT`",
				},
				cli.StringFlag{
					Name:  "recipient, r",
					Value: "",
					Usage: "*receiving organization `MSPID`",
				},
			},
			Action: runTransfer,
		},
		{
			Name:      "query",
			Usage:     "show the holdings of an asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				typeFlag,
				nameFlag,
				batchFlag,
				historyFlag,
			},
			Action: runQuery,
		},
		{
			Name:      "names",
			Usage:     "list assets held by the issuer",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "own",
					Usage: " list the organization's own assets instead",
				},
			},
			Action: runNames,
		},
		{
			Name:      "order",
			Usage:     "create a purchase order",
			ArgsUsage: "NAME:AMOUNT...",
			Action:    runOrder,
		},
		{
			Name:      "deliver",
			Usage:     "deliver items against a purchase order (issuer only)",
			ArgsUsage: "NAME:BATCH:AMOUNT...",
			Flags: []cli.Flag{
				poFlag,
			},
			Action: runDeliver,
		},
		{
			Name:      "receive",
			Usage:     "confirm receipt of delivered items",
			ArgsUsage: "NAME:BATCH:AMOUNT...",
			Flags: []cli.Flag{
				poFlag,
			},
			Action: runReceive,
		},
		{
			Name:      "po",
			Usage:     "show one purchase order",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				poFlag,
				historyFlag,
			},
			Action: runPurchaseOrder,
		},
		{
			Name:      "pos",
			Usage:     "show every purchase order",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				historyFlag,
			},
			Action: runPurchaseOrders,
		},
		{
			Name:      "version",
			Usage:     "display escrow-cli version",
			ArgsUsage: " ",
			Action:    runVersion,
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		command := c.Args().Get(0)
		if "version" == command || "help" == command || "h" == command || "" == command {
			return nil
		}

		organization := c.GlobalString("organization")
		if "" == organization {
			return ErrMissingOrganization
		}

		connect := c.GlobalString("connect")
		if verbose {
			fmt.Fprintf(e, "connect: %s\n", connect)
			fmt.Fprintf(e, "organization: %s\n", organization)
		}

		c.App.Metadata["config"] = &metadata{
			connect:      connect,
			organization: organization,
			verbose:      verbose,
			e:            e,
			w:            w,
		}
		return nil
	}

	return app
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
