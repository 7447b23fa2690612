// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/escrowd/fault"
)

// common errors - keep in alphabetic order
const (
	ErrInvalidDeliveryLine = fault.InvalidError("line must be NAME:BATCH:AMOUNT")
	ErrInvalidLine         = fault.InvalidError("line must be NAME:AMOUNT")
	ErrMissingName         = fault.InvalidError("name is required")
	ErrMissingOrganization = fault.InvalidError("organization is required")
	ErrMissingRecipient    = fault.InvalidError("recipient is required")
)
