// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys - construction of every ledger key
//
// Keys are the components below joined by "_":
//
//   <kind>_<name>                                   - highest batch number
//   <kind>_<name>_<org>                             - running sum over all batches
//   <kind>_<name>_<batch>_<org>                     - balance
//   <kind>_<name>_<batch>_<org>_reserved            - reserved part of balance
//   <kind>_<name>_<batch>_price                     - batch price
//   <kind>_<name>_<batch>_owners                    - owner list
//   <kind>Names                                     - name registry
//   registeredusers                                 - registered organizations
//   purchaseorders                                  - highest purchase order id
//   purchaseorders_<id>                             - number of line items
//   purchaseorders_<id>_status|total|owner          - purchase order header
//   purchaseorders_<id>_<line>_name|amount|total|batches
//   purchaseorders_<id>_<line>_<batch>_status|amount|delivered|received
//
// Names and organizations must satisfy ValidComponent so that no two
// entities can map to the same key.
package keys

import (
	"strconv"
	"strings"
	"unicode"
)

// Separator - between key components
const Separator = "_"

// fixed suffix vocabulary
const (
	SuffixAmount    = "amount"
	SuffixBatches   = "batches"
	SuffixDelivered = "delivered"
	SuffixName      = "name"
	SuffixOwner     = "owner"
	SuffixOwners    = "owners"
	SuffixPrice     = "price"
	SuffixReceived  = "received"
	SuffixReserved  = "reserved"
	SuffixStatus    = "status"
	SuffixTotal     = "total"
)

const (
	namesSuffix           = "Names"
	registeredUsers       = "registeredusers"
	purchaseOrdersPrefix  = "purchaseorders"
	maximumComponentBytes = 128
)

var reserved = []string{
	SuffixAmount,
	SuffixBatches,
	SuffixDelivered,
	SuffixName,
	SuffixOwner,
	SuffixOwners,
	SuffixPrice,
	SuffixReceived,
	SuffixReserved,
	SuffixStatus,
	SuffixTotal,
}

// ValidComponent - check that a name or organization can be used as a
// key component
func ValidComponent(s string) bool {
	if "" == s || len(s) > maximumComponentBytes {
		return false
	}
	if strings.Contains(s, Separator) || strings.Contains(s, "|") {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	for _, word := range reserved {
		if s == word {
			return false
		}
	}
	return true
}

func join(parts ...string) string {
	return strings.Join(parts, Separator)
}

func n(i uint64) string {
	return strconv.FormatUint(i, 10)
}

// BatchCounter - highest batch number of an asset
func BatchCounter(kind string, name string) string {
	return join(kind, name)
}

// RunningSum - an owner's total over all batches of an asset
func RunningSum(kind string, name string, owner string) string {
	return join(kind, name, owner)
}

// Balance - an owner's holding in one batch
func Balance(kind string, name string, batch uint64, owner string) string {
	return join(kind, name, n(batch), owner)
}

// Reserved - the reserved part of an owner's holding in one batch
func Reserved(kind string, name string, batch uint64, owner string) string {
	return join(kind, name, n(batch), owner, SuffixReserved)
}

// Price - unit price of a batch
func Price(kind string, name string, batch uint64) string {
	return join(kind, name, n(batch), SuffixPrice)
}

// Owners - every organization that has held the batch
func Owners(kind string, name string, batch uint64) string {
	return join(kind, name, n(batch), SuffixOwners)
}

// Names - registry of all names created for a kind
func Names(kind string) string {
	return kind + namesSuffix
}

// RegisteredOrganizations - list of registered organizations
func RegisteredOrganizations() string {
	return registeredUsers
}

// PurchaseOrderCounter - highest purchase order id
func PurchaseOrderCounter() string {
	return purchaseOrdersPrefix
}

// PurchaseOrderLines - number of line items in a purchase order
func PurchaseOrderLines(id uint64) string {
	return join(purchaseOrdersPrefix, n(id))
}

// PurchaseOrderStatus - stored derived status
func PurchaseOrderStatus(id uint64) string {
	return join(purchaseOrdersPrefix, n(id), SuffixStatus)
}

// PurchaseOrderTotal - total price fixed at creation
func PurchaseOrderTotal(id uint64) string {
	return join(purchaseOrdersPrefix, n(id), SuffixTotal)
}

// PurchaseOrderOwner - the buyer
func PurchaseOrderOwner(id uint64) string {
	return join(purchaseOrdersPrefix, n(id), SuffixOwner)
}

// LineName - item name of a line
func LineName(id uint64, line uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), SuffixName)
}

// LineAmount - requested amount of a line
func LineAmount(id uint64, line uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), SuffixAmount)
}

// LineTotal - price of a line
func LineTotal(id uint64, line uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), SuffixTotal)
}

// LineBatches - batch numbers allocated to a line
func LineBatches(id uint64, line uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), SuffixBatches)
}

// FulfillmentStatus - status of one batch allocation
func FulfillmentStatus(id uint64, line uint64, batch uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), n(batch), SuffixStatus)
}

// FulfillmentAmount - allocated amount of one batch allocation
func FulfillmentAmount(id uint64, line uint64, batch uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), n(batch), SuffixAmount)
}

// FulfillmentDelivered - delivered amount of one batch allocation
func FulfillmentDelivered(id uint64, line uint64, batch uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), n(batch), SuffixDelivered)
}

// FulfillmentReceived - received amount of one batch allocation
func FulfillmentReceived(id uint64, line uint64, batch uint64) string {
	return join(purchaseOrdersPrefix, n(id), n(line), n(batch), SuffixReceived)
}
