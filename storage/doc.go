// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the versioned key/value ledger
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++        = concatenation of byte data
// 3. commit    = successive commit number as big endian uint64 (8 bytes)
// 4. timestamp = commit time as big endian unix nanoseconds (8 bytes)
// 5. txId      = transaction id as varint length ++ bytes
// 6. key       = ledger key as text (never contains 0x00)
//
// State:
//
//   S ++ key                   - current value
//                                data: raw value
//
// History:
//
//   H ++ key ++ 0x00 ++ commit - value of key as written by commit
//                                data: commit ++ timestamp ++ txId ++ raw value
//
// Transactions:
//
//   T ++ commit                - committed transaction log
//                                data: timestamp ++ txId ++ count(varint) ++ [ key length(varint) ++ key ]
//
// Version:
//
//   0x00 ++ "VERSION"          - database version (big endian uint32)
package storage
