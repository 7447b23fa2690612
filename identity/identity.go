// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"github.com/bitmark-inc/escrowd/codec"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/keys"
)

// Context - resolves the organization making the current call
type Context interface {
	Organization() (string, error)
}

// Static - an organization that was authenticated before reaching
// the engine
type Static string

// Organization - the fixed organization, which must be valid
func (s Static) Organization() (string, error) {
	org := string(s)
	if "" == org {
		return "", fault.UnknownOrganization
	}
	if !ValidOrganization(org) {
		return "", fault.InvalidOrganization
	}
	return org, nil
}

// ValidOrganization - check that an organization id can be used in
// ledger keys and owner lists
func ValidOrganization(org string) bool {
	return keys.ValidComponent(org)
}

// Register - add an organization to the registered list, returns
// true if it was not already present
func Register(trx codec.ReadWriter, org string) (bool, error) {
	if !ValidOrganization(org) {
		return false, fault.InvalidOrganization
	}

	key := keys.RegisteredOrganizations()
	list, err := codec.ReadList(trx, key)
	if nil != err {
		return false, err
	}

	list, added := codec.AppendUnique(list, org)
	if added {
		codec.WriteList(trx, key, list)
	}
	return added, nil
}

// Registered - all registered organizations in order of registration
func Registered(trx codec.Reader) ([]string, error) {
	return codec.ReadList(trx, keys.RegisteredOrganizations())
}
