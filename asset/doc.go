// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset - batched holdings of items and money
//
// each create of an item opens a new batch with its own price, money
// always lives in batch 1. Every owner has a balance per batch and a
// running sum across all batches, the issuer also has a reserved part
// of each batch that is held back for open purchase orders.
package asset
