// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type PrivilegeError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised           = ExistsError("already initialised")
	AmountOverflow               = InvalidError("amount exceeds the largest representable value")
	BatchOutOfRange              = InvalidError("batch number is out of range")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ConfigurationFileNotFound    = NotFoundError("configuration file not found")
	DatabaseIsNotSet             = ProcessError("database is not set")
	DatabaseVersion              = ProcessError("database version is not supported")
	DuplicateLineItem            = InvalidError("duplicate line item in purchase order")
	InvalidAmount                = InvalidError("amount must be a non-negative integer")
	InvalidBatch                 = InvalidError("batch must be a positive integer")
	InvalidCount                 = InvalidError("invalid count")
	InvalidCurrency              = InvalidError("invalid currency name")
	InvalidCursor                = InvalidError("invalid cursor")
	InvalidHistoryRecord         = ProcessError("invalid history record")
	InvalidIpAddress             = InvalidError("invalid IP address")
	InvalidIssuer                = InvalidError("invalid issuer organization")
	InvalidKind                  = InvalidError("kind must be one of: item, money")
	InvalidLineAmount            = InvalidError("line amount must be greater than zero")
	InvalidName                  = InvalidError("invalid name")
	InvalidOperation             = InvalidError("invalid operation")
	InvalidOrganization          = InvalidError("invalid organization")
	InvalidPath                  = InvalidError("invalid path")
	InvalidPurchaseOrderId       = InvalidError("purchase order id must be a positive integer")
	InvalidRecipient             = InvalidError("invalid recipient")
	InvalidStructPointer         = InvalidError("invalid struct pointer")
	IssuerCannotOrder            = PrivilegeError("the issuer cannot create purchase orders")
	IssuerCannotReceive          = PrivilegeError("the issuer cannot receive purchase orders")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	LedgerCorrupted              = ProcessError("ledger running sum would become negative")
	MissingLineItems             = InvalidError("purchase order has no line items")
	MissingParameters            = InvalidError("missing parameters")
	MissingPrice                 = InvalidError("price is required for items")
	NotInitialised               = NotFoundError("not initialised")
	NotOwnerOfPurchaseOrder      = PrivilegeError("caller is not the owner of the purchase order")
	NoTransactionInProgress      = ProcessError("no transaction in progress")
	OnlyIssuerCanCreateItems     = PrivilegeError("only the issuer can create items")
	OnlyIssuerCanDeliver         = PrivilegeError("only the issuer can deliver purchase orders")
	PurchaseOrderNotFound        = NotFoundError("purchase order not found")
	RateLimiting                 = InvalidError("rate limiting")
	TransactionInProgress        = ProcessError("transaction already in progress")
	TransferToSelf               = InvalidError("cannot transfer to self")
	UnknownOrganization          = NotFoundError("organization could not be resolved")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e PrivilegeError) Error() string { return string(e) }
func (e ProcessError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrPrivilege(e error) bool { _, ok := e.(PrivilegeError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }

// IsPrecondition - true for errors caused by the caller's request
// rather than by the ledger itself
func IsPrecondition(e error) bool {
	return IsErrInvalid(e) || IsErrNotFound(e) || IsErrPrivilege(e)
}
