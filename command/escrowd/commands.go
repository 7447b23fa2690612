// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/escrowd/rpc/certificate"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.Create("rpc", certificateFilename, privateKeyFilename, addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "start", "run":
		return false // continue processing

	case "history", "h", "commits", "c", "dump", "d":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (?)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  history KEY                (h)      - every committed value of a ledger key\n")
		fmt.Printf("\n")

		fmt.Printf("  commits                    (c)      - the transaction log\n")
		fmt.Printf("\n")

		fmt.Printf("  dump [PREFIX]              (d)      - current value of every key with the prefix\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// printable history entry
type historyEntry struct {
	Commit    uint64    `json:"commit"`
	Timestamp time.Time `json:"timestamp"`
	TxId      string    `json:"tx_id"`
	Value     string    `json:"value"`
}

// data command handler
// the ledger is open so these commands can read its contents
func processDataCommand(log *logger.L, arguments []string, ledger *storage.Ledger) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "history", "h":
		if len(arguments) < 1 || "" == arguments[0] {
			exitwithstatus.Message("missing key argument")
		}
		key := arguments[0]

		entries, err := ledger.History(key)
		if nil != err {
			exitwithstatus.Message("history of: %q  error: %s", key, err)
		}
		log.Infof("history of: %q  entries: %d", key, len(entries))

		output := make([]historyEntry, len(entries))
		for i, e := range entries {
			output[i] = historyEntry{
				Commit:    e.Commit,
				Timestamp: e.Timestamp,
				TxId:      e.TxId,
				Value:     string(e.Value),
			}
		}
		printJson(os.Stdout, output)

	case "commits", "c":
		records := make([]*storage.CommitRecord, 0, 100)
		err := ledger.Commits(func(record *storage.CommitRecord) error {
			records = append(records, record)
			return nil
		})
		if nil != err {
			exitwithstatus.Message("commits error: %s", err)
		}
		printJson(os.Stdout, records)

	case "dump", "d":
		prefix := ""
		if len(arguments) > 0 {
			prefix = arguments[0]
		}
		values := make(map[string]string)
		err := ledger.Map(prefix, func(key string, value []byte) error {
			values[key] = string(value)
			return nil
		})
		if nil != err {
			exitwithstatus.Message("dump of: %q  error: %s", prefix, err)
		}
		printJson(os.Stdout, values)

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

func printJson(w io.Writer, data interface{}) {
	b, err := json.MarshalIndent(data, "", "  ")
	if nil != err {
		exitwithstatus.Message("JSON error: %s", err)
	}
	fmt.Fprintf(w, "%s\n", b)
}

func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
