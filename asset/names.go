// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/keys"
)

// NameDetails - holding of one named asset
type NameDetails struct {
	Name   string  `json:"name"`
	Amount uint64  `json:"amount"`
	Price  *uint64 `json:"price,omitempty"`
}

// NameEntry - one line of the names listing
type NameEntry struct {
	Type    Kind        `json:"type"`
	Details NameDetails `json:"details"`
}

// NamesResult - reply to a names query
type NamesResult struct {
	Success      bool        `json:"success"`
	Organization string      `json:"organization"`
	Items        []NameEntry `json:"items"`
}

// Names - every asset with a positive running total for the caller,
// or for the issuer when useCaller is false
//
// items show the price of their latest batch
func (l *Ledger) Names(trx codec.Reader, caller string, useCaller bool) (*NamesResult, error) {

	owner := l.issuer
	if useCaller {
		owner = caller
	}

	result := &NamesResult{
		Success:      true,
		Organization: owner,
		Items:        make([]NameEntry, 0, 8),
	}

	for _, kind := range Kinds {
		names, err := codec.ReadList(trx, keys.Names(kind.String()))
		if nil != err {
			return nil, err
		}
		for _, name := range names {
			sum, err := Sum(trx, owner, kind, name)
			if nil != err {
				return nil, err
			}
			if 0 == sum {
				continue
			}

			entry := NameEntry{
				Type: kind,
				Details: NameDetails{
					Name:   name,
					Amount: sum,
				},
			}
			if Item == kind {
				latest, err := codec.ReadInt(trx, keys.BatchCounter(kind.String(), name), 1)
				if nil != err {
					return nil, err
				}
				price, err := Price(trx, kind, name, latest)
				if nil != err {
					return nil, err
				}
				entry.Details.Price = &price
			}
			result.Items = append(result.Items, entry)
		}
	}
	return result, nil
}
