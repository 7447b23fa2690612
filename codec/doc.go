// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - value encoding for the ledger
//
// All ledger values are stored as text:
//
//   integer  = decimal digits, no sign, no spaces (e.g. "42")
//   list     = items joined with "|" (e.g. "Org1MSP|Org2MSP")
//   empty    = the empty list
//
// A value that is absent, empty or not a valid non-negative decimal
// integer decodes to the default supplied by the caller.
package codec
