// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/keys"
)

func TestFormats(t *testing.T) {
	assert.Equal(t, "item_widget", keys.BatchCounter("item", "widget"))
	assert.Equal(t, "item_widget_Org2MSP", keys.RunningSum("item", "widget", "Org2MSP"))
	assert.Equal(t, "item_widget_3_Org1MSP", keys.Balance("item", "widget", 3, "Org1MSP"))
	assert.Equal(t, "item_widget_3_Org1MSP_reserved", keys.Reserved("item", "widget", 3, "Org1MSP"))
	assert.Equal(t, "item_widget_3_price", keys.Price("item", "widget", 3))
	assert.Equal(t, "money_RMB_1_owners", keys.Owners("money", "RMB", 1))
	assert.Equal(t, "itemNames", keys.Names("item"))
	assert.Equal(t, "registeredusers", keys.RegisteredOrganizations())
	assert.Equal(t, "purchaseorders", keys.PurchaseOrderCounter())
	assert.Equal(t, "purchaseorders_7", keys.PurchaseOrderLines(7))
	assert.Equal(t, "purchaseorders_7_status", keys.PurchaseOrderStatus(7))
	assert.Equal(t, "purchaseorders_7_total", keys.PurchaseOrderTotal(7))
	assert.Equal(t, "purchaseorders_7_owner", keys.PurchaseOrderOwner(7))
	assert.Equal(t, "purchaseorders_7_0_name", keys.LineName(7, 0))
	assert.Equal(t, "purchaseorders_7_0_amount", keys.LineAmount(7, 0))
	assert.Equal(t, "purchaseorders_7_0_total", keys.LineTotal(7, 0))
	assert.Equal(t, "purchaseorders_7_0_batches", keys.LineBatches(7, 0))
	assert.Equal(t, "purchaseorders_7_0_2_status", keys.FulfillmentStatus(7, 0, 2))
	assert.Equal(t, "purchaseorders_7_0_2_amount", keys.FulfillmentAmount(7, 0, 2))
	assert.Equal(t, "purchaseorders_7_0_2_delivered", keys.FulfillmentDelivered(7, 0, 2))
	assert.Equal(t, "purchaseorders_7_0_2_received", keys.FulfillmentReceived(7, 0, 2))
}

func TestValidComponent(t *testing.T) {
	items := []struct {
		s     string
		valid bool
	}{
		{"Org1MSP", true},
		{"widget", true},
		{"RMB", true},
		{"", false},
		{"with_underscore", false},
		{"with|bar", false},
		{"with space", false},
		{"tab\there", false},
		{"price", false},
		{"owners", false},
		{"reserved", false},
		{"status", false},
	}

	for i, item := range items {
		assert.Equal(t, item.valid, keys.ValidComponent(item.s), "%d: wrong validity for: %q", i, item.s)
	}
}

// every entity for a small universe of valid components must have a
// distinct key
func TestNoCollisions(t *testing.T) {
	kinds := []string{"item", "money"}
	names := []string{"widget", "1", "RMB", "purchaseorders"}
	owners := []string{"Org1MSP", "Org2MSP", "2", "itemNames"}
	numbers := []uint64{0, 1, 2, 12}

	seen := make(map[string]string)
	add := func(key string, entity string) {
		if previous, ok := seen[key]; ok {
			t.Errorf("key: %q used by: %s and: %s", key, previous, entity)
		}
		seen[key] = entity
	}

	add(keys.RegisteredOrganizations(), "registered")
	add(keys.PurchaseOrderCounter(), "po counter")

	for _, kind := range kinds {
		add(keys.Names(kind), "names "+kind)
		for _, name := range names {
			add(keys.BatchCounter(kind, name), "counter "+kind+" "+name)
			for _, owner := range owners {
				add(keys.RunningSum(kind, name, owner), "sum "+kind+" "+name+" "+owner)
			}
			for _, batch := range numbers {
				add(keys.Price(kind, name, batch), "price")
				add(keys.Owners(kind, name, batch), "owners")
				for _, owner := range owners {
					add(keys.Balance(kind, name, batch, owner), "balance")
					add(keys.Reserved(kind, name, batch, owner), "reserved")
				}
			}
		}
	}

	for _, id := range numbers {
		add(keys.PurchaseOrderLines(id), "lines")
		add(keys.PurchaseOrderStatus(id), "status")
		add(keys.PurchaseOrderTotal(id), "total")
		add(keys.PurchaseOrderOwner(id), "owner")
		for _, line := range numbers {
			add(keys.LineName(id, line), "line name")
			add(keys.LineAmount(id, line), "line amount")
			add(keys.LineTotal(id, line), "line total")
			add(keys.LineBatches(id, line), "line batches")
			for _, batch := range numbers {
				add(keys.FulfillmentStatus(id, line, batch), "fulfillment status")
				add(keys.FulfillmentAmount(id, line, batch), "fulfillment amount")
				add(keys.FulfillmentDelivered(id, line, batch), "fulfillment delivered")
				add(keys.FulfillmentReceived(id, line, batch), "fulfillment received")
			}
		}
	}
}
