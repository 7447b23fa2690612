// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package purchaseorder

// Status - progress of a purchase order or of one batch fulfillment
type Status string

// fulfillment states, Failed is only reported by a rejected create
const (
	Ordered   Status = "ordered"
	Partial   Status = "partial"
	Delivered Status = "delivered"
	Received  Status = "received"
	Failed    Status = "failed"
)

// Derive - purchase order status from the status of every batch
// fulfillment
//
//   received  - all received
//   delivered - all delivered or received
//   ordered   - all ordered
//   partial   - anything else
//
// an empty list is ordered
func Derive(statuses []Status) Status {
	if 0 == len(statuses) {
		return Ordered
	}

	allReceived := true
	allDelivered := true
	allOrdered := true
	for _, s := range statuses {
		allReceived = allReceived && Received == s
		allDelivered = allDelivered && (Delivered == s || Received == s)
		allOrdered = allOrdered && Ordered == s
	}

	switch {
	case allReceived:
		return Received
	case allDelivered:
		return Delivered
	case allOrdered:
		return Ordered
	default:
		return Partial
	}
}
